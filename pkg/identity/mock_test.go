package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dd0wney/cluso-portal/pkg/authstate"
)

func TestMockLogin(t *testing.T) {
	svc := NewMockService(0)

	session, err := svc.Login(context.Background(), authstate.LoginCredentials{
		Email:    "admin@portal.dev",
		Password: "changeme",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if session.User.Role != authstate.RoleAdmin {
		t.Errorf("Role = %q, want ADMIN", session.User.Role)
	}
	if session.Token.AccessToken == "" || session.Token.RefreshToken == "" {
		t.Error("Expected both tokens")
	}
	if session.Token.IssuedAt == 0 {
		t.Error("Expected IssuedAt to be stamped")
	}
}

func TestMockLogin_CaseInsensitiveEmail(t *testing.T) {
	svc := NewMockService(0)

	if _, err := svc.Login(context.Background(), authstate.LoginCredentials{
		Email:    "Admin@Portal.DEV",
		Password: "changeme",
	}); err != nil {
		t.Errorf("Login with mixed-case email failed: %v", err)
	}
}

func TestMockLogin_InvalidCredentials(t *testing.T) {
	svc := NewMockService(0)

	tests := []struct {
		name  string
		creds authstate.LoginCredentials
	}{
		{"wrong password", authstate.LoginCredentials{Email: "admin@portal.dev", Password: "nope"}},
		{"unknown email", authstate.LoginCredentials{Email: "ghost@portal.dev", Password: "changeme"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(context.Background(), tt.creds); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestMockRegister(t *testing.T) {
	svc := NewMockService(0)

	session, err := svc.Register(context.Background(), authstate.RegisterFields{
		Email:     "new@portal.dev",
		Password:  "Str0ngpass",
		FirstName: "New",
		LastName:  "Person",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if session.User.Role != authstate.RoleUser {
		t.Errorf("New registrations must start as USER, got %q", session.User.Role)
	}

	// Registered account can log in.
	if _, err := svc.Login(context.Background(), authstate.LoginCredentials{
		Email:    "new@portal.dev",
		Password: "Str0ngpass",
	}); err != nil {
		t.Errorf("Login after register failed: %v", err)
	}
}

func TestMockRegister_DuplicateEmail(t *testing.T) {
	svc := NewMockService(0)

	_, err := svc.Register(context.Background(), authstate.RegisterFields{
		Email:    "admin@portal.dev",
		Password: "whatever1",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got %v", err)
	}
}

func TestMockRefreshToken(t *testing.T) {
	svc := NewMockService(0)

	session, err := svc.Login(context.Background(), authstate.LoginCredentials{
		Email:    "user@portal.dev",
		Password: "changeme",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	token, err := svc.RefreshToken(context.Background(), session.Token.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken failed: %v", err)
	}
	if token.AccessToken == session.Token.AccessToken {
		t.Error("Expected a fresh access token")
	}

	if _, err := svc.RefreshToken(context.Background(), "bogus"); err == nil {
		t.Error("Expected error for unknown refresh token")
	}
}

func TestMockUserProfile(t *testing.T) {
	svc := NewMockService(0)

	if _, err := svc.UserProfile(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Expected ErrNotAuthenticated before login, got %v", err)
	}

	if _, err := svc.Login(context.Background(), authstate.LoginCredentials{
		Email:    "manager@portal.dev",
		Password: "changeme",
	}); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	user, err := svc.UserProfile(context.Background())
	if err != nil {
		t.Fatalf("UserProfile failed: %v", err)
	}
	if user.Email != "manager@portal.dev" {
		t.Errorf("Email = %q", user.Email)
	}
}

func TestMockLogout(t *testing.T) {
	svc := NewMockService(0)

	if _, err := svc.Login(context.Background(), authstate.LoginCredentials{
		Email:    "user@portal.dev",
		Password: "changeme",
	}); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := svc.Logout(context.Background()); err != nil {
		t.Errorf("Logout should always succeed: %v", err)
	}

	if _, err := svc.UserProfile(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Error("Profile should fail after logout")
	}
}

func TestMockRequestPasswordReset(t *testing.T) {
	svc := NewMockService(0)

	// Known and unknown emails behave identically.
	if err := svc.RequestPasswordReset(context.Background(), "admin@portal.dev"); err != nil {
		t.Errorf("Reset for known email failed: %v", err)
	}
	if err := svc.RequestPasswordReset(context.Background(), "ghost@portal.dev"); err != nil {
		t.Errorf("Reset for unknown email failed: %v", err)
	}
}

func TestMockLatencyHonorsContext(t *testing.T) {
	svc := NewMockService(500 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := svc.Login(ctx, authstate.LoginCredentials{Email: "admin@portal.dev", Password: "changeme"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Cancelled call took %v, should return promptly", elapsed)
	}
}
