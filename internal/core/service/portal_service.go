package service

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/bizlink/partner-portal/internal/core/domain"
	"github.com/bizlink/partner-portal/internal/core/ports"
)

// PortalService serves the read-only backend endpoints that sit next to
// authentication: health, user directory and the role dashboards.
type PortalService struct {
	gw     ports.Gateway
	tokens ports.TokenSource
	now    func() time.Time
}

func NewPortalService(gw ports.Gateway, tokens ports.TokenSource) *PortalService {
	return &PortalService{gw: gw, tokens: tokens, now: time.Now}
}

func (s *PortalService) Health(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.gw.Do(ctx, ports.Request{Method: http.MethodGet, Path: "/"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PortalService) Users(ctx context.Context) ([]domain.User, error) {
	var raw []domain.RawUser
	if err := s.gw.Do(ctx, ports.Request{Method: http.MethodGet, Path: "/users"}, &raw); err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(raw))
	for _, r := range raw {
		u, err := r.Normalize("")
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

// Dashboard returns the role's dashboard payload as sent by the backend.
func (s *PortalService) Dashboard(ctx context.Context, role domain.Role) (json.RawMessage, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	var out json.RawMessage
	if err := s.gw.Do(ctx, ports.Request{Method: http.MethodGet, Path: domain.DashboardPath(role)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type probeEndpoint struct {
	name         string
	path         string
	requiresAuth bool
	role         domain.Role
}

var probeEndpoints = []probeEndpoint{
	{name: "Health Check", path: "/"},
	{name: "Get Profile", path: "/profile", requiresAuth: true},
	{name: "Get All Users", path: "/users", requiresAuth: true},
	{name: "Vendor Dashboard", path: "/vendor/dashboard", requiresAuth: true, role: domain.RoleVendor},
	{name: "Distributor Dashboard", path: "/distributor/dashboard", requiresAuth: true, role: domain.RoleDistributor},
}

// Probe calls every known endpoint in order and records the outcome.
// Endpoints needing a token are skipped when none is stored, and role
// dashboards are skipped for the other role.
func (s *PortalService) Probe(ctx context.Context, role domain.Role) []ports.ProbeResult {
	_, hasToken := s.tokens.Token(ctx)

	results := make([]ports.ProbeResult, 0, len(probeEndpoints))
	for _, ep := range probeEndpoints {
		res := ports.ProbeResult{Name: ep.name, Method: http.MethodGet, Path: ep.path}
		switch {
		case ep.requiresAuth && !hasToken:
			res.Skipped, res.Reason = true, "requires login"
		case ep.role != "" && role != ep.role:
			res.Skipped, res.Reason = true, "requires "+string(ep.role)+" role"
		}
		if res.Skipped {
			results = append(results, res)
			continue
		}

		start := s.now()
		var out json.RawMessage
		res.Err = s.gw.Do(ctx, ports.Request{Method: res.Method, Path: ep.path}, &out)
		res.Duration = s.now().Sub(start)
		res.Data = out
		results = append(results, res)
	}
	return results
}
