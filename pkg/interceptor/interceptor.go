// Package interceptor decorates outbound HTTP requests with the session's
// bearer token and translates auth failures into local session handling.
// It is an http.RoundTripper, so it composes with any other transport
// stages; errors it does not explicitly handle pass through unchanged.
package interceptor

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-portal/pkg/authstate"
	"github.com/dd0wney/cluso-portal/pkg/logging"
	"github.com/dd0wney/cluso-portal/pkg/metrics"
	"github.com/dd0wney/cluso-portal/pkg/router"
	"github.com/dd0wney/cluso-portal/pkg/tokenstore"
	"github.com/google/uuid"
)

// RequestIDHeader is attached to every outbound request for correlation.
const RequestIDHeader = "X-Request-ID"

// authEndpoints are the public identity endpoints. Requests to them carry
// credentials in the body and are never decorated with a bearer token, and
// a 401/403 from them is an operation result, not a session failure.
var authEndpoints = []string{
	"/auth/login",
	"/auth/register",
	"/auth/refresh",
}

// Navigator is the slice of the router the interceptor needs.
type Navigator interface {
	Navigate(path string, query url.Values) error
	CurrentPath() string
}

// Transport is the auth interceptor. It wraps a base RoundTripper; requests
// and responses it has no business with are forwarded untouched.
type Transport struct {
	base    http.RoundTripper
	tokens  *tokenstore.Store
	store   *authstate.Store
	nav     Navigator
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewTransport creates the interceptor around base. A nil base falls back to
// http.DefaultTransport.
func NewTransport(base http.RoundTripper, tokens *tokenstore.Store, store *authstate.Store, nav Navigator, logger logging.Logger, reg *metrics.Registry) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	return &Transport{
		base:    base,
		tokens:  tokens,
		store:   store,
		nav:     nav,
		logger:  logger.With(logging.Component("interceptor")),
		metrics: reg,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not mutate the caller's request.
	out := req.Clone(req.Context())
	if out.Header.Get(RequestIDHeader) == "" {
		out.Header.Set(RequestIDHeader, uuid.New().String())
	}

	public := isAuthEndpoint(out.URL.Path)
	if !public {
		if access := t.tokens.AccessToken(); access != "" {
			out.Header.Set("Authorization", "Bearer "+access)
			t.metrics.BearerAttachedTotal.Inc()
		}
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		// Transport-level failures are the caller's to handle.
		return nil, err
	}

	t.metrics.RecordHTTPRequest(out.Method, strconv.Itoa(resp.StatusCode))

	if !public {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			t.handleUnauthorized(out)
		case http.StatusForbidden:
			t.handleForbidden(out)
		}
	}

	// The response always reaches the caller, handled or not.
	return resp, nil
}

// handleUnauthorized clears the session and sends the user back to login,
// remembering where they were.
func (t *Transport) handleUnauthorized(req *http.Request) {
	t.metrics.UnauthorizedResponsesTotal.Inc()
	t.logger.Warn("unauthorized response, clearing session",
		logging.Path(req.URL.Path),
		logging.StatusCode(http.StatusUnauthorized))

	// Capture the return target before dispatching: a LogoutSuccess
	// listener may navigate to login first, and the user should come back
	// to where they actually were.
	returnURL := t.nav.CurrentPath()

	if err := t.tokens.Clear(); err != nil {
		t.logger.Error("failed to clear stored token", logging.Error(err))
	}
	t.store.Dispatch(authstate.LogoutSuccess{})

	if err := t.nav.Navigate(router.PathLogin, url.Values{
		router.ReturnURLParam: []string{returnURL},
	}); err != nil {
		t.logger.Error("failed to navigate to login", logging.Error(err))
	}
}

// handleForbidden redirects to the neutral dashboard without touching auth
// state.
func (t *Transport) handleForbidden(req *http.Request) {
	t.metrics.ForbiddenResponsesTotal.Inc()
	t.logger.Warn("forbidden response, redirecting to dashboard",
		logging.Path(req.URL.Path),
		logging.StatusCode(http.StatusForbidden))

	if err := t.nav.Navigate(router.PathDashboard, nil); err != nil {
		t.logger.Error("failed to navigate to dashboard", logging.Error(err))
	}
}

func isAuthEndpoint(path string) bool {
	for _, endpoint := range authEndpoints {
		if strings.Contains(path, endpoint) {
			return true
		}
	}
	return false
}
