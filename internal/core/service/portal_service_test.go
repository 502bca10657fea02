package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bizlink/partner-portal/internal/core/domain"
)

type fixedTokens struct{ token string }

func (f fixedTokens) Token(context.Context) (string, bool) { return f.token, f.token != "" }

func TestPortalService_Users_NormalizesEntries(t *testing.T) {
	gw := newStubGateway()
	gw.bodies["/users"] = `[
		{"id":1,"email":"vendor1@techcorp.com","userType":"vendor","firstName":"V","lastName":"One"},
		{"id":"2","email":"distributor1@fastdist.com","role":"Distributor","companyName":"FastDist"}
	]`
	svc := NewPortalService(gw, fixedTokens{"abc"})

	users, err := svc.Users(context.Background())
	if err != nil {
		t.Fatalf("Users returned error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].ID != "1" || users[0].Name != "V One" || users[0].Role != domain.RoleVendor {
		t.Fatalf("unexpected first user %+v", users[0])
	}
	if users[1].Role != domain.RoleDistributor || users[1].CompanyName != "FastDist" {
		t.Fatalf("unexpected second user %+v", users[1])
	}
}

func TestPortalService_Dashboard(t *testing.T) {
	gw := newStubGateway()
	gw.bodies["/distributor/dashboard"] = `{"message":"Distributor dashboard","stats":{"orders":3}}`
	svc := NewPortalService(gw, fixedTokens{"abc"})

	data, err := svc.Dashboard(context.Background(), domain.RoleDistributor)
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if string(data) != `{"message":"Distributor dashboard","stats":{"orders":3}}` {
		t.Fatalf("payload should pass through untouched, got %s", data)
	}
	if req := gw.lastRequest(t); req.Path != "/distributor/dashboard" {
		t.Fatalf("unexpected path %s", req.Path)
	}

	if _, err := svc.Dashboard(context.Background(), "admin"); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestPortalService_Health(t *testing.T) {
	gw := newStubGateway()
	gw.bodies["/"] = `{"message":"BizLink API is running"}`
	svc := NewPortalService(gw, fixedTokens{})

	data, err := svc.Health(context.Background())
	if err != nil {
		t.Fatalf("Health returned error: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected health payload")
	}
}

func TestPortalService_Probe_SkipsWithoutToken(t *testing.T) {
	gw := newStubGateway()
	gw.bodies["/"] = `{"ok":true}`
	svc := NewPortalService(gw, fixedTokens{})

	results := svc.Probe(context.Background(), "")
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	if results[0].Skipped || results[0].Err != nil {
		t.Fatalf("health check should run, got %+v", results[0])
	}
	for _, r := range results[1:] {
		if !r.Skipped || r.Reason != "requires login" {
			t.Fatalf("%s: expected skip for missing login, got %+v", r.Name, r)
		}
	}
	if len(gw.requests) != 1 {
		t.Fatalf("expected only the health call, got %d", len(gw.requests))
	}
}

func TestPortalService_Probe_SkipsOtherRoleDashboard(t *testing.T) {
	gw := newStubGateway()
	gw.bodies["/"] = `{}`
	gw.bodies["/profile"] = `{}`
	gw.bodies["/users"] = `[]`
	gw.bodies["/vendor/dashboard"] = `{"message":"Vendor dashboard"}`
	gw.errs["/users"] = domain.NewHTTPError(http.StatusForbidden, "Access denied")
	svc := NewPortalService(gw, fixedTokens{"abc"})

	tick := time.Unix(0, 0)
	svc.now = func() time.Time {
		tick = tick.Add(5 * time.Millisecond)
		return tick
	}

	results := svc.Probe(context.Background(), domain.RoleVendor)
	byName := make(map[string]int)
	for i, r := range results {
		byName[r.Name] = i
	}

	vendor := results[byName["Vendor Dashboard"]]
	if vendor.Skipped || vendor.Err != nil || string(vendor.Data) != `{"message":"Vendor dashboard"}` {
		t.Fatalf("vendor dashboard should succeed, got %+v", vendor)
	}
	if vendor.Duration != 5*time.Millisecond {
		t.Fatalf("unexpected duration %v", vendor.Duration)
	}

	dist := results[byName["Distributor Dashboard"]]
	if !dist.Skipped || dist.Reason != "requires distributor role" {
		t.Fatalf("distributor dashboard should be skipped, got %+v", dist)
	}

	users := results[byName["Get All Users"]]
	if !errors.Is(users.Err, domain.ErrHTTP) || users.Err.Error() != "Access denied" {
		t.Fatalf("expected recorded http error, got %v", users.Err)
	}
	if len(gw.requests) != 4 {
		t.Fatalf("expected 4 backend calls, got %d", len(gw.requests))
	}
}
