package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves the root banner and the liveness/readiness probes.
type HealthHandler struct {
	ready func(ctx context.Context) error
	now   func() time.Time
}

// NewHealthHandler builds a HealthHandler. ready checks the account store.
func NewHealthHandler(ready func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ready: ready, now: time.Now}
}

type rootResponse struct {
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Root handles GET /, the endpoint the portal uses as its health check.
func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, rootResponse{
		Message:   "BizLink API is running",
		Status:    "ok",
		Timestamp: h.now().UTC(),
	})
}

// Liveness handles GET /health and returns 200 while the process is up.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness handles GET /health/ready.
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := map[string]dependencyStatus{"accounts": {Status: "ok"}}
	status, code := "ok", http.StatusOK
	if err := h.ready(ctx); err != nil {
		deps["accounts"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		status, code = "degraded", http.StatusServiceUnavailable
	}
	return c.JSON(code, readinessResponse{Status: status, Dependencies: deps})
}
