// Package router drives navigation between portal views. Each navigation
// attempt is checked by the target route's guards exactly once; a guard
// either allows the navigation or redirects it, it never fails.
package router

import (
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/dd0wney/cluso-portal/pkg/logging"
	"github.com/dd0wney/cluso-portal/pkg/metrics"
)

// Portal route paths.
const (
	PathLogin            = "/auth/login"
	PathRegister         = "/auth/register"
	PathForgotPassword   = "/auth/forgot-password"
	PathDashboard        = "/dashboard"
	PathAdminDashboard   = "/dashboard/admin"
	PathManagerDashboard = "/dashboard/manager"
	PathUserDashboard    = "/dashboard/user"
)

// ReturnURLParam is the query parameter that remembers the originally
// requested path across a login redirect.
const ReturnURLParam = "returnUrl"

var (
	ErrUnknownRoute     = errors.New("unknown route")
	ErrTooManyRedirects = errors.New("too many guard redirects")
)

// redirect chains are short (guard -> login, guard -> own dashboard); a
// longer chain means the route table is misconfigured.
const maxRedirects = 8

// Navigation is a completed navigation delivered to subscribers.
type Navigation struct {
	Route Route
	Path  string
	Query url.Values
}

// Router holds the route table and the current location.
type Router struct {
	mu        sync.Mutex
	routes    map[string]Route
	current   string
	query     url.Values
	nextID    int
	listeners map[int]func(Navigation)
	logger    logging.Logger
	metrics   *metrics.Registry
}

// Subscription is a handle for a router listener.
type Subscription struct {
	once    sync.Once
	release func()
}

// Unsubscribe removes the listener from the router.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.release)
}

// New creates a router with the given route table. The current location
// starts at the login route.
func New(routes []Route, logger logging.Logger, reg *metrics.Registry) *Router {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	table := make(map[string]Route, len(routes))
	for _, rt := range routes {
		table[rt.Path] = rt
	}
	return &Router{
		routes:    table,
		current:   PathLogin,
		query:     url.Values{},
		listeners: make(map[int]func(Navigation)),
		logger:    logger.With(logging.Component("router")),
		metrics:   reg,
	}
}

// CurrentPath returns the path of the current location.
func (r *Router) CurrentPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// CurrentQuery returns a copy of the current location's query parameters.
func (r *Router) CurrentQuery() url.Values {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := url.Values{}
	for k, vs := range r.query {
		copied[k] = append([]string(nil), vs...)
	}
	return copied
}

// Navigate attempts to activate the route at path. Guards run once per
// attempt; a deny-with-redirect restarts the attempt at the redirect target.
// The error return is reserved for unknown routes and runaway redirect
// chains; guard denials are not errors.
func (r *Router) Navigate(path string, query url.Values) error {
	if query == nil {
		query = url.Values{}
	}

	for hops := 0; hops <= maxRedirects; hops++ {
		route, ok := r.lookup(path)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownRoute, path)
		}

		decision := r.check(route, path, query)
		if decision.Allow {
			r.activate(route, path, query)
			return nil
		}

		r.logger.Debug("navigation redirected",
			logging.Route(path),
			logging.String("redirect_to", decision.RedirectTo))

		path = decision.RedirectTo
		query = decision.Query
		if query == nil {
			query = url.Values{}
		}
	}

	return fmt.Errorf("%w: stopped at %s", ErrTooManyRedirects, path)
}

// OnNavigate registers a listener for completed navigations.
func (r *Router) OnNavigate(fn func(Navigation)) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	return &Subscription{release: func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, id)
	}}
}

func (r *Router) lookup(path string) (Route, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	route, ok := r.routes[path]
	return route, ok
}

func (r *Router) check(route Route, path string, query url.Values) Decision {
	for _, guard := range route.Guards {
		decision := guard.CanActivate(route, path, query)
		if !decision.Allow {
			r.metrics.RecordGuardDenial(guard.Name())
			return decision
		}
	}
	return Allowed()
}

func (r *Router) activate(route Route, path string, query url.Values) {
	r.mu.Lock()
	r.current = path
	r.query = query
	listeners := make([]func(Navigation), 0, len(r.listeners))
	for _, fn := range r.listeners {
		listeners = append(listeners, fn)
	}
	r.mu.Unlock()

	r.metrics.RecordNavigation(path)
	r.logger.Info("navigated", logging.Route(path))

	nav := Navigation{Route: route, Path: path, Query: query}
	for _, fn := range listeners {
		fn(nav)
	}
}
