package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"

	"github.com/bizlink/partner-portal/internal/api"
	"github.com/bizlink/partner-portal/internal/sandbox"
	"github.com/bizlink/partner-portal/pkg/logger"
)

func newBackend(t *testing.T) string {
	t.Helper()
	svc, err := sandbox.NewService(sandbox.NewMemoryRepository(), sandbox.Options{Secret: "cli-test", HashCost: bcrypt.MinCost}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if _, err := svc.Seed(context.Background(), sandbox.DefaultAccounts); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	reg := prometheus.NewRegistry()
	srv := httptest.NewServer(api.NewRouter(api.Deps{Service: svc, Log: zerolog.Nop(), Registerer: reg, Gatherer: reg}))
	t.Cleanup(srv.Close)
	return srv.URL
}

// fileEnv points the client at url with a credential file in a temp dir
// shared by every run of the test.
func fileEnv(t *testing.T, url string) Env {
	t.Helper()
	return Env{Lookuper: envconfig.MapLookuper(map[string]string{
		"PORTAL_API_URL":    url,
		"PORTAL_STORE":      "file",
		"PORTAL_STORE_PATH": filepath.Join(t.TempDir(), "credentials.db"),
		"PORTAL_LOG_LEVEL":  "disabled",
	})}
}

func run(t *testing.T, env Env, args ...string) (string, error) {
	t.Helper()
	logger.Reset()
	t.Cleanup(logger.Reset)

	var stdout, stderr bytes.Buffer
	env.Stdout, env.Stderr, env.SkipDotEnv = &stdout, &stderr, true
	err := NewApp(env).RunContext(context.Background(), append([]string{"portal"}, args...))
	return stdout.String(), err
}

func mustRun(t *testing.T, env Env, args ...string) string {
	t.Helper()
	out, err := run(t, env, args...)
	if err != nil {
		t.Fatalf("portal %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestCLI_SessionLifecycle(t *testing.T) {
	env := fileEnv(t, newBackend(t))

	out := mustRun(t, env, "login", "--role", "vendor", "--email", "vendor1@techcorp.com", "--password", "password123")
	if !strings.Contains(out, "Victor Vance <vendor1@techcorp.com> (vendor)") || !strings.Contains(out, "/vendor/dashboard") {
		t.Fatalf("unexpected login output %q", out)
	}

	if out := mustRun(t, env, "whoami"); !strings.Contains(out, "TechCorp Solutions") {
		t.Fatalf("session not restored from file: %q", out)
	}

	if out := mustRun(t, env, "dashboard"); !strings.Contains(out, `"partnerships"`) {
		t.Fatalf("unexpected dashboard output %q", out)
	}

	if out := mustRun(t, env, "users"); !strings.Contains(out, "distributor1@fastdist.com") || !strings.HasPrefix(out, "ID") {
		t.Fatalf("unexpected users output %q", out)
	}

	if out := mustRun(t, env, "refresh"); !strings.Contains(out, "Victor Vance") {
		t.Fatalf("unexpected refresh output %q", out)
	}

	mustRun(t, env, "logout")
	if out := mustRun(t, env, "whoami"); strings.TrimSpace(out) != "Not logged in" {
		t.Fatalf("expected logged out, got %q", out)
	}
	if _, err := run(t, env, "users"); err == nil || err.Error() != "No token provided" {
		t.Fatalf("expected backend rejection after logout, got %v", err)
	}
}

func TestCLI_LoginErrorsPrintMessage(t *testing.T) {
	env := fileEnv(t, newBackend(t))

	_, err := run(t, env, "login", "--role", "vendor", "--email", "vendor1@techcorp.com", "--password", "nope")
	if err == nil || err.Error() != "Invalid credentials" {
		t.Fatalf("expected Invalid credentials, got %v", err)
	}

	_, err = run(t, env, "login", "--role", "admin", "--email", "vendor1@techcorp.com", "--password", "password123")
	if err == nil || err.Error() != "role must be vendor or distributor" {
		t.Fatalf("expected invalid role, got %v", err)
	}
}

func TestCLI_RegisterThenLogin(t *testing.T) {
	env := fileEnv(t, newBackend(t))

	out := mustRun(t, env, "register", "--role", "distributor", "--email", "new@fastdist.com", "--password", "secret1", "--name", "Nia Moss", "--company", "Moss Freight")
	if !strings.Contains(out, "Registered new@fastdist.com as distributor") {
		t.Fatalf("unexpected register output %q", out)
	}
	if out := mustRun(t, env, "whoami"); strings.TrimSpace(out) != "Not logged in" {
		t.Fatalf("register must not log in, got %q", out)
	}

	out = mustRun(t, env, "login", "-r", "distributor", "--email", "new@fastdist.com", "--password", "secret1")
	if !strings.Contains(out, "Nia Moss") || !strings.Contains(out, "/distributor/dashboard") {
		t.Fatalf("unexpected login output %q", out)
	}
}

func TestCLI_HealthAndProbe(t *testing.T) {
	env := fileEnv(t, newBackend(t))

	if out := mustRun(t, env, "health"); !strings.Contains(out, "BizLink API is running") {
		t.Fatalf("unexpected health output %q", out)
	}

	out := mustRun(t, env, "probe")
	if !strings.Contains(out, "OK") || strings.Count(out, "requires login") != 4 {
		t.Fatalf("unexpected anonymous probe output %q", out)
	}

	mustRun(t, env, "login", "--role", "distributor", "--email", "distributor1@fastdist.com", "--password", "password123")
	out = mustRun(t, env, "probe")
	if !strings.Contains(out, "requires vendor role") || strings.Contains(out, "FAIL") {
		t.Fatalf("unexpected distributor probe output %q", out)
	}
}

func TestCLI_DashboardRequiresLogin(t *testing.T) {
	env := fileEnv(t, newBackend(t))
	if _, err := run(t, env, "dashboard"); err == nil || err.Error() != "not logged in" {
		t.Fatalf("expected not logged in, got %v", err)
	}
}

func TestCLI_EphemeralDoesNotPersist(t *testing.T) {
	env := fileEnv(t, newBackend(t))

	mustRun(t, env, "--ephemeral", "login", "--role", "vendor", "--email", "vendor1@techcorp.com", "--password", "password123")
	if out := mustRun(t, env, "whoami"); strings.TrimSpace(out) != "Not logged in" {
		t.Fatalf("ephemeral login leaked into the file store: %q", out)
	}
}

func TestCLI_UnreachableBackend(t *testing.T) {
	env := fileEnv(t, "http://127.0.0.1:1")
	if _, err := run(t, env, "health"); err == nil || err.Error() != "Network error: unable to reach the server" {
		t.Fatalf("expected network error, got %v", err)
	}
}
