package ports

import (
	"context"
	"net/http"
)

// Request describes one backend call. Body is JSON-encoded when non-nil;
// Header entries override the gateway defaults.
type Request struct {
	Method string
	Path   string
	Body   any
	Header http.Header
}

// Gateway is the single chokepoint for backend HTTP calls. Every failure
// is returned as a *domain.Error.
type Gateway interface {
	Do(ctx context.Context, req Request, out any) error
}
