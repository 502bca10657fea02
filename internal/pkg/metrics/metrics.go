// Package metrics defines every Prometheus collector used by the portal
// client and the sandbox backend. Collectors register with the default
// registry on package init through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Gateway (client side) ─────────────────────────────────────────────────────

// GatewayRequestsTotal counts backend calls issued by the request gateway.
// Labels:
//   - method: HTTP method
//   - outcome: "ok" or the failure kind ("timeout", "http", "parse", "transport")
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "requests_total",
		Help:      "Total number of backend requests, by method and outcome.",
	},
	[]string{"method", "outcome"},
)

// GatewayRequestDuration measures the wall time of a backend call including
// body decoding.
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "request_duration_seconds",
		Help:      "Duration of backend requests issued by the gateway.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// ── Sandbox backend ───────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login and register attempts on the sandbox.
// Labels:
//   - action: "login" or "register"
//   - user_type: "vendor" or "distributor"
//   - result: "success", "invalid_credentials", "conflict", "invalid", "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sandbox",
		Name:      "auth_attempts_total",
		Help:      "Total number of sandbox authentication attempts.",
	},
	[]string{"action", "user_type", "result"},
)

// RateLimitedTotal counts requests rejected by the sandbox rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sandbox",
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the auth rate limiter.",
	},
)
