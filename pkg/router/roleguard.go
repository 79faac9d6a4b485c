package router

import (
	"net/url"

	"github.com/dd0wney/cluso-portal/pkg/authstate"
)

// RoleGuard gates routes behind the roles declared in the route metadata.
// A user holding none of the required roles is redirected to their own
// dashboard; this is a deny-with-redirect, not an error.
type RoleGuard struct {
	store *authstate.Store
}

// NewRoleGuard creates a role guard reading from the given store.
func NewRoleGuard(store *authstate.Store) *RoleGuard {
	return &RoleGuard{store: store}
}

// Name implements Guard.
func (g *RoleGuard) Name() string {
	return "role"
}

// CanActivate implements Guard. It takes exactly one snapshot of the auth
// state per navigation attempt.
func (g *RoleGuard) CanActivate(route Route, _ string, _ url.Values) Decision {
	if len(route.Roles) == 0 {
		return Allowed()
	}

	role := g.store.State().Role()
	if role == "" {
		return Redirect(PathLogin, nil)
	}

	for _, required := range route.Roles {
		if role == required {
			return Allowed()
		}
	}
	return Redirect(DashboardPathFor(role), nil)
}

// DashboardPathFor maps a role to its default dashboard route. Unknown roles
// land on the generic dashboard root.
func DashboardPathFor(role authstate.UserRole) string {
	switch role {
	case authstate.RoleAdmin:
		return PathAdminDashboard
	case authstate.RoleManager:
		return PathManagerDashboard
	case authstate.RoleUser:
		return PathUserDashboard
	default:
		return PathDashboard
	}
}

// DefaultRoutes returns the portal route table with its guard wiring: auth
// routes are public, dashboard routes require authentication, and the
// role-specific dashboards additionally require their roles.
func DefaultRoutes(store *authstate.Store) []Route {
	authGuard := NewAuthGuard(store)
	roleGuard := NewRoleGuard(store)
	protected := []Guard{authGuard, roleGuard}

	return []Route{
		{Path: PathLogin, Title: "Sign In"},
		{Path: PathRegister, Title: "Create Account"},
		{Path: PathForgotPassword, Title: "Reset Password"},
		{Path: PathDashboard, Title: "Dashboard", Guards: protected},
		{
			Path:   PathAdminDashboard,
			Title:  "Admin Dashboard",
			Roles:  []authstate.UserRole{authstate.RoleAdmin},
			Guards: protected,
		},
		{
			Path:   PathManagerDashboard,
			Title:  "Manager Dashboard",
			Roles:  []authstate.UserRole{authstate.RoleAdmin, authstate.RoleManager},
			Guards: protected,
		},
		{
			Path:   PathUserDashboard,
			Title:  "My Dashboard",
			Roles:  []authstate.UserRole{authstate.RoleAdmin, authstate.RoleManager, authstate.RoleUser},
			Guards: protected,
		},
	}
}
