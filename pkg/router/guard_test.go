package router

import (
	"net/url"
	"testing"

	"github.com/dd0wney/cluso-portal/pkg/authstate"
)

func TestAuthGuard(t *testing.T) {
	store := authstate.NewStore(nil)
	guard := NewAuthGuard(store)

	decision := guard.CanActivate(Route{}, PathDashboard, nil)
	if decision.Allow {
		t.Error("Unauthenticated navigation should be denied")
	}
	if decision.RedirectTo != PathLogin {
		t.Errorf("RedirectTo = %q, want %q", decision.RedirectTo, PathLogin)
	}
	if got := decision.Query.Get(ReturnURLParam); got != PathDashboard {
		t.Errorf("returnUrl = %q, want %q", got, PathDashboard)
	}

	signIn(store, authstate.RoleUser)
	if !guard.CanActivate(Route{}, PathDashboard, nil).Allow {
		t.Error("Authenticated navigation should be allowed")
	}
}

func TestAuthGuard_ReturnURLIncludesQuery(t *testing.T) {
	guard := NewAuthGuard(authstate.NewStore(nil))

	decision := guard.CanActivate(Route{}, PathDashboard, url.Values{"tab": []string{"x"}})
	if got := decision.Query.Get(ReturnURLParam); got != PathDashboard+"?tab=x" {
		t.Errorf("returnUrl = %q", got)
	}
}

func TestRoleGuard(t *testing.T) {
	adminOnly := Route{Path: PathAdminDashboard, Roles: []authstate.UserRole{authstate.RoleAdmin}}
	open := Route{Path: PathDashboard}

	t.Run("no role restriction allows anyone", func(t *testing.T) {
		guard := NewRoleGuard(authstate.NewStore(nil))
		if !guard.CanActivate(open, PathDashboard, nil).Allow {
			t.Error("Route without roles should be allowed")
		}
	})

	t.Run("no session redirects to login", func(t *testing.T) {
		guard := NewRoleGuard(authstate.NewStore(nil))
		decision := guard.CanActivate(adminOnly, PathAdminDashboard, nil)
		if decision.Allow || decision.RedirectTo != PathLogin {
			t.Errorf("decision = %+v, want redirect to login", decision)
		}
	})

	t.Run("matching role allows", func(t *testing.T) {
		store := authstate.NewStore(nil)
		signIn(store, authstate.RoleAdmin)
		guard := NewRoleGuard(store)
		if !guard.CanActivate(adminOnly, PathAdminDashboard, nil).Allow {
			t.Error("Admin should reach the admin dashboard")
		}
	})

	t.Run("mismatched role redirects to own dashboard", func(t *testing.T) {
		store := authstate.NewStore(nil)
		signIn(store, authstate.RoleManager)
		guard := NewRoleGuard(store)
		decision := guard.CanActivate(adminOnly, PathAdminDashboard, nil)
		if decision.Allow || decision.RedirectTo != PathManagerDashboard {
			t.Errorf("decision = %+v, want redirect to the manager dashboard", decision)
		}
	})
}

func TestDashboardPathFor(t *testing.T) {
	tests := []struct {
		role authstate.UserRole
		want string
	}{
		{authstate.RoleAdmin, PathAdminDashboard},
		{authstate.RoleManager, PathManagerDashboard},
		{authstate.RoleUser, PathUserDashboard},
		{"INTERN", PathDashboard},
	}

	for _, tt := range tests {
		if got := DashboardPathFor(tt.role); got != tt.want {
			t.Errorf("DashboardPathFor(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}
