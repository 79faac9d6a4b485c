package router

import (
	"net/url"

	"github.com/dd0wney/cluso-portal/pkg/authstate"
)

// Route declares a navigable view. Roles is route metadata consumed by the
// role guard: empty means no role restriction.
type Route struct {
	Path   string
	Title  string
	Roles  []authstate.UserRole
	Guards []Guard
}

// Decision is a guard's verdict on a navigation attempt. A guard never
// throws and never blocks: it either allows the navigation or redirects it.
type Decision struct {
	Allow      bool
	RedirectTo string
	Query      url.Values
}

// Allowed is the allow verdict.
func Allowed() Decision {
	return Decision{Allow: true}
}

// Redirect is a deny-with-redirect verdict.
func Redirect(path string, query url.Values) Decision {
	return Decision{RedirectTo: path, Query: query}
}

// Guard is a route-activation predicate, evaluated once per navigation
// attempt.
type Guard interface {
	Name() string
	CanActivate(route Route, path string, query url.Values) Decision
}

// AuthGuard gates routes behind authentication. An unauthenticated attempt
// is redirected to the login route with the requested path remembered as
// the returnUrl query parameter.
type AuthGuard struct {
	store *authstate.Store
}

// NewAuthGuard creates an auth guard reading from the given store.
func NewAuthGuard(store *authstate.Store) *AuthGuard {
	return &AuthGuard{store: store}
}

// Name implements Guard.
func (g *AuthGuard) Name() string {
	return "auth"
}

// CanActivate implements Guard. It takes exactly one snapshot of the auth
// state; it never holds a live subscription.
func (g *AuthGuard) CanActivate(_ Route, path string, query url.Values) Decision {
	if g.store.State().IsAuthenticated {
		return Allowed()
	}
	return Redirect(PathLogin, url.Values{
		ReturnURLParam: []string{requestedURL(path, query)},
	})
}

// requestedURL rebuilds the originally requested URL, query included, so a
// post-login redirect lands exactly where the user was headed.
func requestedURL(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}
