// Package metrics defines the Prometheus instruments shared across the
// service. All metrics register through promauto so the /metrics endpoint
// picks them up automatically.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	// HTTPErrorsTotal tracks HTTP errors by error type
	HTTPErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total HTTP errors by error type",
		},
		[]string{"type"},
	)

	// HTTPRequestDuration tracks request latency by route and method
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)
)

// Overlay cache metrics
var (
	// OverlayCacheRedisHits counts overlay lookups answered from Redis
	OverlayCacheRedisHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "overlay_cache_redis_hits_total",
			Help: "Overlay lookups served from the Redis cache",
		},
	)

	// OverlayCachePostgresHits counts overlay lookups that fell through to PostgreSQL
	OverlayCachePostgresHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "overlay_cache_postgres_hits_total",
			Help: "Overlay lookups that fell through to PostgreSQL",
		},
	)
)

// Addon metrics
var (
	// AddonInstallsTotal counts install/uninstall operations by addon slug
	AddonInstallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "addon_installs_total",
			Help: "Addon install operations by slug and action",
		},
		[]string{"slug", "action"},
	)
)

// Redis circuit breaker metrics
var (
	// CircuitBreakerStateChanges tracks circuit breaker state transitions
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// CircuitBreakerState tracks current circuit breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)
