package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initNavigationMetrics() {
	r.NavigationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_navigations_total",
			Help: "Total number of completed navigations, by route",
		},
		[]string{"route"},
	)

	r.GuardDenialsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_guard_denials_total",
			Help: "Total number of navigations denied by a guard, by guard name",
		},
		[]string{"guard"},
	)
}
