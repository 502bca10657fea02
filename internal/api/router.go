package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/bizlink/partner-portal/internal/api/handler"
	"github.com/bizlink/partner-portal/internal/api/middleware"
	"github.com/bizlink/partner-portal/internal/core/domain"
	"github.com/bizlink/partner-portal/internal/sandbox"
)

// Deps are the collaborators of the sandbox HTTP surface.
type Deps struct {
	Service *sandbox.Service
	Log     zerolog.Logger

	// AuthRate and AuthBurst bound /auth/* calls per client IP. A zero
	// AuthRate disables the limit.
	AuthRate  rate.Limit
	AuthBurst int

	// Registerer and Gatherer back the HTTP metrics and /metrics. They
	// default to the prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "sandbox",
		Registerer: d.Registerer,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Service)
	portalHandler := handler.NewPortalHandler(d.Service)
	healthHandler := handler.NewHealthHandler(d.Service.Ready)
	requireAuth := middleware.Auth(d.Service)

	// --- Health probes (no auth required) ---
	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))

	// --- Auth routes ---
	auth := e.Group("/auth")
	if d.AuthRate > 0 {
		auth.Use(middleware.RateLimit(d.AuthRate, d.AuthBurst))
	}
	auth.POST("/:role/login", authHandler.Login)
	auth.POST("/:role/register", authHandler.Register)

	// --- Authenticated routes ---
	e.GET("/profile", portalHandler.Profile, requireAuth)
	e.GET("/users", portalHandler.Users, requireAuth)
	e.GET("/vendor/dashboard", portalHandler.VendorDashboard, requireAuth, middleware.RBAC(domain.RoleVendor))
	e.GET("/distributor/dashboard", portalHandler.DistributorDashboard, requireAuth, middleware.RBAC(domain.RoleDistributor))

	return e
}

// requestLogger logs one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
