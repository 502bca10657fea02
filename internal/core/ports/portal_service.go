package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bizlink/partner-portal/internal/core/domain"
)

// ProbeResult is the outcome of one endpoint in a connectivity probe.
type ProbeResult struct {
	Name     string
	Method   string
	Path     string
	Skipped  bool
	Reason   string
	Data     json.RawMessage
	Err      error
	Duration time.Duration
}

// PortalService exposes the non-auth backend reads. Dashboard payloads are
// passed through untouched.
type PortalService interface {
	Health(ctx context.Context) (json.RawMessage, error)
	Users(ctx context.Context) ([]domain.User, error)
	Dashboard(ctx context.Context, role domain.Role) (json.RawMessage, error)
	Probe(ctx context.Context, role domain.Role) []ProbeResult
}
