package cli

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/bizlink/partner-portal/internal/core/domain"
)

var errSessionExpired = errors.New("session expired, please log in again")

func parseRole(s string) (domain.Role, error) {
	role, ok := domain.ParseRole(s)
	if !ok {
		return "", domain.ErrInvalidRole
	}
	return role, nil
}

func (a *app) login(c *cli.Context, s *session) error {
	role, err := parseRole(c.String("role"))
	if err != nil {
		return err
	}
	s.controller.Start(c.Context)

	user, err := s.controller.Login(c.Context, c.String("email"), c.String("password"), role)
	if err != nil {
		return err
	}
	w := c.App.Writer
	fmt.Fprintf(w, "Logged in as %s\n", describeUser(user))
	fmt.Fprintf(w, "Dashboard: %s\n", domain.DashboardPath(user.Role))
	return nil
}

func (a *app) register(c *cli.Context, s *session) error {
	role, err := parseRole(c.String("role"))
	if err != nil {
		return err
	}
	s.controller.Start(c.Context)

	in := domain.Registration{
		Email:       c.String("email"),
		Password:    c.String("password"),
		Name:        c.String("name"),
		CompanyName: c.String("company"),
	}
	if err := s.controller.Register(c.Context, in, role); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Registered %s as %s. Run `portal login` to sign in.\n", in.Email, role)
	return nil
}

func (a *app) logout(c *cli.Context, s *session) error {
	s.controller.Logout(c.Context)
	fmt.Fprintln(c.App.Writer, "Logged out")
	return nil
}

func (a *app) whoami(c *cli.Context, s *session) error {
	snap := s.controller.Start(c.Context)
	if !snap.LoggedIn() {
		fmt.Fprintln(c.App.Writer, "Not logged in")
		return nil
	}
	fmt.Fprintln(c.App.Writer, describeUser(snap.User))
	return nil
}

func (a *app) refresh(c *cli.Context, s *session) error {
	s.controller.Start(c.Context)
	if err := s.controller.Refresh(c.Context); err != nil {
		return err
	}
	snap := s.controller.Snapshot()
	if !snap.LoggedIn() {
		return errSessionExpired
	}
	fmt.Fprintln(c.App.Writer, describeUser(snap.User))
	return nil
}

func (a *app) users(c *cli.Context, s *session) error {
	users, err := s.portal.Users(c.Context)
	if err != nil {
		return err
	}
	return printUsers(c.App.Writer, users)
}

func (a *app) dashboard(c *cli.Context, s *session) error {
	snap := s.controller.Start(c.Context)
	if !snap.LoggedIn() {
		return domain.ErrNotLoggedIn
	}
	data, err := s.portal.Dashboard(c.Context, snap.User.Role)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, data)
}

func (a *app) health(c *cli.Context, s *session) error {
	data, err := s.portal.Health(c.Context)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, data)
}

func (a *app) probe(c *cli.Context, s *session) error {
	var role domain.Role
	if snap := s.controller.Start(c.Context); snap.LoggedIn() {
		role = snap.User.Role
	}
	results := s.portal.Probe(c.Context, role)
	failed := printProbe(c.App.Writer, results)
	if failed > 0 {
		return fmt.Errorf("%d of %d endpoints failed", failed, len(results))
	}
	return nil
}
