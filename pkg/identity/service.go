// Package identity is the boundary to the identity provider. The auth core
// only sees the Service interface; the HTTP client talks to a real API while
// the mock serves development and tests.
package identity

import (
	"context"
	"errors"

	"github.com/dd0wney/cluso-portal/pkg/authstate"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already exists")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// Session is the result of a successful login or registration.
type Session struct {
	User  authstate.User      `json:"user"`
	Token authstate.AuthToken `json:"token"`
}

// Service is the identity provider boundary. Every call maps to exactly one
// remote operation; implementations never mutate auth state themselves.
type Service interface {
	// Login exchanges credentials for a session.
	Login(ctx context.Context, creds authstate.LoginCredentials) (*Session, error)
	// Register creates an account and returns its initial session.
	Register(ctx context.Context, fields authstate.RegisterFields) (*Session, error)
	// RefreshToken exchanges a refresh token for a fresh token pair.
	RefreshToken(ctx context.Context, refreshToken string) (*authstate.AuthToken, error)
	// UserProfile fetches the authenticated user's profile.
	UserProfile(ctx context.Context) (*authstate.User, error)
	// Logout invalidates the session server-side. Callers treat any failure
	// as success; logging out never fails from the user's perspective.
	Logout(ctx context.Context) error
	// RequestPasswordReset asks the provider to mail a reset link.
	RequestPasswordReset(ctx context.Context, email string) error
}
