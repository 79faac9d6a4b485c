package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the portal
type Registry struct {
	// Auth Metrics
	AuthAttemptsTotal     *prometheus.CounterVec
	AuthFailuresTotal     *prometheus.CounterVec
	AuthOperationDuration *prometheus.HistogramVec
	SupersededCallsTotal  *prometheus.CounterVec
	SessionsRestoredTotal prometheus.Counter
	SessionActive         prometheus.Gauge

	// HTTP (interceptor) Metrics
	HTTPRequestsTotal         *prometheus.CounterVec
	BearerAttachedTotal       prometheus.Counter
	UnauthorizedResponsesTotal prometheus.Counter
	ForbiddenResponsesTotal   prometheus.Counter

	// Navigation Metrics
	NavigationsTotal   *prometheus.CounterVec
	GuardDenialsTotal  *prometheus.CounterVec

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initAuthMetrics()
	r.initHTTPMetrics()
	r.initNavigationMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
