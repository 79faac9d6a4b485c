package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAuthMetrics() {
	r.AuthAttemptsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_auth_attempts_total",
			Help: "Total number of auth operations attempted, by action kind",
		},
		[]string{"action"},
	)

	r.AuthFailuresTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_auth_failures_total",
			Help: "Total number of failed auth operations, by action kind",
		},
		[]string{"action"},
	)

	r.AuthOperationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_auth_operation_duration_seconds",
			Help:    "Identity provider call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action", "status"},
	)

	r.SupersededCallsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_auth_superseded_calls_total",
			Help: "Total number of in-flight auth calls whose results were discarded because a newer attempt replaced them",
		},
		[]string{"action"},
	)

	r.SessionsRestoredTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "portal_auth_sessions_restored_total",
			Help: "Total number of sessions restored from a persisted token at startup",
		},
	)

	r.SessionActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "portal_auth_session_active",
			Help: "Whether a session is currently authenticated (1=yes, 0=no)",
		},
	)
}
