package identityserver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dd0wney/cluso-portal/pkg/authstate"
)

const testSecret = "test-secret-key-that-is-long-enough!"

func newTestJWTManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testSecret, time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}
	return m
}

func TestNewJWTManager_ShortSecret(t *testing.T) {
	if _, err := NewJWTManager("short", time.Hour, 24*time.Hour); !errors.Is(err, ErrShortSecret) {
		t.Errorf("Expected ErrShortSecret, got %v", err)
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := newTestJWTManager(t)

	token, err := m.GenerateToken("user-1", "ada@portal.dev", authstate.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := m.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", claims.UserID)
	}
	if claims.Email != "ada@portal.dev" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Role != authstate.RoleAdmin {
		t.Errorf("Role = %q, want ADMIN", claims.Role)
	}
}

func TestGenerateToken_Validation(t *testing.T) {
	m := newTestJWTManager(t)

	tests := []struct {
		name    string
		userID  string
		email   string
		role    authstate.UserRole
		wantErr error
	}{
		{"empty user ID", "", "a@b.com", authstate.RoleUser, ErrEmptyUserID},
		{"empty email", "user-1", "", authstate.RoleUser, ErrEmptyEmail},
		{"empty role", "user-1", "a@b.com", "", ErrEmptyRole},
		{"invalid role", "user-1", "a@b.com", authstate.UserRole("INTERN"), ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.GenerateToken(tt.userID, tt.email, tt.role); !errors.Is(err, tt.wantErr) {
				t.Errorf("GenerateToken error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateToken_Invalid(t *testing.T) {
	m := newTestJWTManager(t)

	if _, err := m.ValidateToken(context.Background(), ""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for empty token, got %v", err)
	}
	if _, err := m.ValidateToken(context.Background(), "not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	m := newTestJWTManager(t)
	other, err := NewJWTManager("another-secret-key-that-is-long-enough", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}

	token, err := m.GenerateToken("user-1", "a@b.com", authstate.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := other.ValidateToken(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	m, err := NewJWTManager(testSecret, -time.Minute, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}

	token, err := m.GenerateToken("user-1", "a@b.com", authstate.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := m.ValidateToken(context.Background(), token); err == nil {
		t.Error("Expected error for expired token")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestJWTManager(t)

	refresh, err := m.GenerateRefreshToken("user-1")
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	userID, err := m.ValidateRefreshToken(refresh)
	if err != nil {
		t.Fatalf("ValidateRefreshToken failed: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("userID = %q, want user-1", userID)
	}
}

func TestValidateRefreshToken_RejectsAccessToken(t *testing.T) {
	m := newTestJWTManager(t)

	access, err := m.GenerateToken("user-1", "a@b.com", authstate.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := m.ValidateRefreshToken(access); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Access token should not validate as refresh token, got %v", err)
	}
}
