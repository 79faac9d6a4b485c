package router

import (
	"errors"
	"net/url"
	"testing"

	"github.com/dd0wney/cluso-portal/pkg/authstate"
	"github.com/dd0wney/cluso-portal/pkg/metrics"
)

func newTestRouter(store *authstate.Store) *Router {
	return New(DefaultRoutes(store), nil, metrics.NewRegistry())
}

func signIn(store *authstate.Store, role authstate.UserRole) {
	store.Dispatch(authstate.LoginSuccess{
		User:  authstate.User{ID: "u1", Email: "a@b.com", FirstName: "A", LastName: "B", Role: role},
		Token: authstate.AuthToken{AccessToken: "access-1", ExpiresIn: 3600},
	})
}

func TestRouter_StartsAtLogin(t *testing.T) {
	r := newTestRouter(authstate.NewStore(nil))

	if r.CurrentPath() != PathLogin {
		t.Errorf("CurrentPath = %q, want %q", r.CurrentPath(), PathLogin)
	}
}

func TestNavigate_PublicRoute(t *testing.T) {
	r := newTestRouter(authstate.NewStore(nil))

	if err := r.Navigate(PathRegister, nil); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if r.CurrentPath() != PathRegister {
		t.Errorf("CurrentPath = %q, want %q", r.CurrentPath(), PathRegister)
	}
}

func TestNavigate_UnknownRoute(t *testing.T) {
	r := newTestRouter(authstate.NewStore(nil))

	err := r.Navigate("/nowhere", nil)
	if !errors.Is(err, ErrUnknownRoute) {
		t.Errorf("Expected ErrUnknownRoute, got %v", err)
	}
	if r.CurrentPath() != PathLogin {
		t.Error("Failed navigation must not change the current location")
	}
}

func TestNavigate_UnauthenticatedRedirectsToLogin(t *testing.T) {
	r := newTestRouter(authstate.NewStore(nil))

	if err := r.Navigate(PathAdminDashboard, nil); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	if r.CurrentPath() != PathLogin {
		t.Errorf("CurrentPath = %q, want %q", r.CurrentPath(), PathLogin)
	}
	if got := r.CurrentQuery().Get(ReturnURLParam); got != PathAdminDashboard {
		t.Errorf("returnUrl = %q, want %q", got, PathAdminDashboard)
	}
}

func TestNavigate_ReturnURLKeepsQuery(t *testing.T) {
	r := newTestRouter(authstate.NewStore(nil))

	query := url.Values{"tab": []string{"activity"}}
	if err := r.Navigate(PathUserDashboard, query); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	want := PathUserDashboard + "?tab=activity"
	if got := r.CurrentQuery().Get(ReturnURLParam); got != want {
		t.Errorf("returnUrl = %q, want %q", got, want)
	}
}

func TestNavigate_AuthenticatedReachesDashboard(t *testing.T) {
	store := authstate.NewStore(nil)
	signIn(store, authstate.RoleUser)
	r := newTestRouter(store)

	if err := r.Navigate(PathDashboard, nil); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if r.CurrentPath() != PathDashboard {
		t.Errorf("CurrentPath = %q, want %q", r.CurrentPath(), PathDashboard)
	}
}

func TestNavigate_RoleMismatchLandsOnOwnDashboard(t *testing.T) {
	store := authstate.NewStore(nil)
	signIn(store, authstate.RoleUser)
	r := newTestRouter(store)

	if err := r.Navigate(PathAdminDashboard, nil); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if r.CurrentPath() != PathUserDashboard {
		t.Errorf("CurrentPath = %q, want %q", r.CurrentPath(), PathUserDashboard)
	}
}

func TestNavigate_RoleAccessTable(t *testing.T) {
	tests := []struct {
		role     authstate.UserRole
		target   string
		landedAt string
	}{
		{authstate.RoleAdmin, PathAdminDashboard, PathAdminDashboard},
		{authstate.RoleAdmin, PathManagerDashboard, PathManagerDashboard},
		{authstate.RoleAdmin, PathUserDashboard, PathUserDashboard},
		{authstate.RoleManager, PathAdminDashboard, PathManagerDashboard},
		{authstate.RoleManager, PathManagerDashboard, PathManagerDashboard},
		{authstate.RoleUser, PathManagerDashboard, PathUserDashboard},
		{authstate.RoleUser, PathUserDashboard, PathUserDashboard},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"->"+tt.target, func(t *testing.T) {
			store := authstate.NewStore(nil)
			signIn(store, tt.role)
			r := newTestRouter(store)

			if err := r.Navigate(tt.target, nil); err != nil {
				t.Fatalf("Navigate failed: %v", err)
			}
			if r.CurrentPath() != tt.landedAt {
				t.Errorf("Landed at %q, want %q", r.CurrentPath(), tt.landedAt)
			}
		})
	}
}

func TestOnNavigate(t *testing.T) {
	store := authstate.NewStore(nil)
	signIn(store, authstate.RoleAdmin)
	r := newTestRouter(store)

	var navs []Navigation
	sub := r.OnNavigate(func(n Navigation) {
		navs = append(navs, n)
	})

	if err := r.Navigate(PathAdminDashboard, nil); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if len(navs) != 1 || navs[0].Path != PathAdminDashboard {
		t.Fatalf("navs = %+v", navs)
	}
	if navs[0].Route.Title != "Admin Dashboard" {
		t.Errorf("Route title = %q", navs[0].Route.Title)
	}

	sub.Unsubscribe()
	sub.Unsubscribe() // safe to repeat
	if err := r.Navigate(PathDashboard, nil); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if len(navs) != 1 {
		t.Error("Unsubscribed listener still received a navigation")
	}
}

// A guard pair that bounce navigations between each other forever must be
// stopped by the redirect cap instead of spinning.
type bounceGuard struct {
	to string
}

func (g bounceGuard) Name() string { return "bounce" }

func (g bounceGuard) CanActivate(Route, string, url.Values) Decision {
	return Redirect(g.to, nil)
}

func TestNavigate_RedirectLoopCapped(t *testing.T) {
	routes := []Route{
		{Path: "/a", Guards: []Guard{bounceGuard{to: "/b"}}},
		{Path: "/b", Guards: []Guard{bounceGuard{to: "/a"}}},
	}
	r := New(routes, nil, metrics.NewRegistry())

	err := r.Navigate("/a", nil)
	if !errors.Is(err, ErrTooManyRedirects) {
		t.Errorf("Expected ErrTooManyRedirects, got %v", err)
	}
}

func TestCurrentQuery_ReturnsCopy(t *testing.T) {
	store := authstate.NewStore(nil)
	signIn(store, authstate.RoleUser)
	r := newTestRouter(store)

	if err := r.Navigate(PathUserDashboard, url.Values{"tab": []string{"stats"}}); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	first := r.CurrentQuery()
	first.Set("tab", "mutated")
	if got := r.CurrentQuery().Get("tab"); got != "stats" {
		t.Errorf("Internal query mutated through the returned copy: %q", got)
	}
}
