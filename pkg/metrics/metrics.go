package metrics

import (
	"time"
)

// RecordAuthAttempt records the start of an auth operation
func (r *Registry) RecordAuthAttempt(action string) {
	r.AuthAttemptsTotal.WithLabelValues(action).Inc()
}

// RecordAuthResult records a settled auth operation with its duration
func (r *Registry) RecordAuthResult(action, status string, duration time.Duration) {
	r.AuthOperationDuration.WithLabelValues(action, status).Observe(duration.Seconds())
	if status == "failure" {
		r.AuthFailuresTotal.WithLabelValues(action).Inc()
	}
}

// RecordSuperseded records an in-flight call discarded by a newer attempt
func (r *Registry) RecordSuperseded(action string) {
	r.SupersededCallsTotal.WithLabelValues(action).Inc()
}

// SetSessionActive flips the active-session gauge
func (r *Registry) SetSessionActive(active bool) {
	if active {
		r.SessionActive.Set(1)
	} else {
		r.SessionActive.Set(0)
	}
}

// RecordHTTPRequest records an outbound HTTP request
func (r *Registry) RecordHTTPRequest(method, status string) {
	r.HTTPRequestsTotal.WithLabelValues(method, status).Inc()
}

// RecordNavigation records a completed navigation
func (r *Registry) RecordNavigation(route string) {
	r.NavigationsTotal.WithLabelValues(route).Inc()
}

// RecordGuardDenial records a navigation denied by the named guard
func (r *Registry) RecordGuardDenial(guard string) {
	r.GuardDenialsTotal.WithLabelValues(guard).Inc()
}
