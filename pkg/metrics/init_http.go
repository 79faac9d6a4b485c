package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of outbound HTTP requests, by method and status",
		},
		[]string{"method", "status"},
	)

	r.BearerAttachedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "portal_http_bearer_attached_total",
			Help: "Total number of outbound requests decorated with a bearer token",
		},
	)

	r.UnauthorizedResponsesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "portal_http_unauthorized_responses_total",
			Help: "Total number of 401 responses that forced a local logout",
		},
	)

	r.ForbiddenResponsesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "portal_http_forbidden_responses_total",
			Help: "Total number of 403 responses redirected to the dashboard",
		},
	)
}
