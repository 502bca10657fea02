package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/bizlink/partner-portal/internal/core/domain"
	"github.com/bizlink/partner-portal/internal/core/ports"
)

func describeUser(u *domain.User) string {
	name := u.Name
	if name == "" {
		name = u.Email
	}
	out := fmt.Sprintf("%s <%s> (%s)", name, u.Email, u.Role)
	if u.CompanyName != "" {
		out += ", " + u.CompanyName
	}
	return out
}

func printJSON(w io.Writer, data json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		// not JSON; print as received
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func printUsers(w io.Writer, users []domain.User) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tROLE\tNAME\tCOMPANY")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Role, u.Name, u.CompanyName)
	}
	return tw.Flush()
}

// printProbe writes one line per endpoint and returns the number of
// endpoints that failed.
func printProbe(w io.Writer, results []ports.ProbeResult) int {
	failed := 0
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range results {
		switch {
		case r.Skipped:
			fmt.Fprintf(tw, "SKIP\t%s\t%s %s\t%s\n", r.Name, r.Method, r.Path, r.Reason)
		case r.Err != nil:
			failed++
			fmt.Fprintf(tw, "FAIL\t%s\t%s %s\t%s (%s)\n", r.Name, r.Method, r.Path, r.Err.Error(), r.Duration.Round(time.Millisecond))
		default:
			fmt.Fprintf(tw, "OK\t%s\t%s %s\t%s\n", r.Name, r.Method, r.Path, r.Duration.Round(time.Millisecond))
		}
	}
	_ = tw.Flush()
	return failed
}
