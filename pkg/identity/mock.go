package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dd0wney/cluso-portal/pkg/authstate"
	"github.com/google/uuid"
)

// MockService is an in-process identity provider for development and tests.
// It seeds one account per role and issues opaque tokens; latency can be
// simulated so loading states are visible in the UI.
type MockService struct {
	mu       sync.Mutex
	accounts map[string]*mockAccount // email -> account
	sessions map[string]string      // token -> email
	current  string                 // email of the most recent session
	latency  time.Duration
	tokenTTL int64 // seconds
}

type mockAccount struct {
	user     authstate.User
	password string
}

// NewMockService creates a mock provider seeded with the demo accounts
// admin@portal.dev, manager@portal.dev and user@portal.dev (password
// "changeme" for all three).
func NewMockService(latency time.Duration) *MockService {
	m := &MockService{
		accounts: make(map[string]*mockAccount),
		sessions: make(map[string]string),
		latency:  latency,
		tokenTTL: 3600,
	}

	seed := []struct {
		email, first, last string
		role               authstate.UserRole
	}{
		{"admin@portal.dev", "Ada", "Admin", authstate.RoleAdmin},
		{"manager@portal.dev", "Mary", "Manager", authstate.RoleManager},
		{"user@portal.dev", "Uri", "User", authstate.RoleUser},
	}
	for _, s := range seed {
		m.accounts[s.email] = &mockAccount{
			user: authstate.User{
				ID:        uuid.New().String(),
				Email:     s.email,
				FirstName: s.first,
				LastName:  s.last,
				Role:      s.role,
			},
			password: "changeme",
		}
	}
	return m
}

// Login implements Service.
func (m *MockService) Login(ctx context.Context, creds authstate.LoginCredentials) (*Session, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[strings.ToLower(creds.Email)]
	if !ok || account.password != creds.Password {
		return nil, ErrInvalidCredentials
	}
	return m.newSessionLocked(account.user), nil
}

// Register implements Service.
func (m *MockService) Register(ctx context.Context, fields authstate.RegisterFields) (*Session, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(fields.Email)
	if _, exists := m.accounts[email]; exists {
		return nil, ErrEmailExists
	}

	// New registrations always start as regular users.
	account := &mockAccount{
		user: authstate.User{
			ID:        uuid.New().String(),
			Email:     email,
			FirstName: fields.FirstName,
			LastName:  fields.LastName,
			Role:      authstate.RoleUser,
		},
		password: fields.Password,
	}
	m.accounts[email] = account

	return m.newSessionLocked(account.user), nil
}

// RefreshToken implements Service.
func (m *MockService) RefreshToken(ctx context.Context, refreshToken string) (*authstate.AuthToken, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	email, ok := m.sessions[refreshToken]
	if !ok {
		return nil, fmt.Errorf("invalid refresh token")
	}
	account := m.accounts[email]
	session := m.newSessionLocked(account.user)
	return &session.Token, nil
}

// UserProfile implements Service. The mock returns the most recently
// authenticated user; there is no per-call token plumbing in-process.
func (m *MockService) UserProfile(ctx context.Context) (*authstate.User, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == "" {
		return nil, ErrNotAuthenticated
	}
	account, ok := m.accounts[m.current]
	if !ok {
		return nil, ErrNotAuthenticated
	}
	user := account.user
	return &user, nil
}

// Logout implements Service. It always succeeds.
func (m *MockService) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = ""
	return nil
}

// RequestPasswordReset implements Service. Unknown emails succeed silently;
// the provider never reveals whether an account exists.
func (m *MockService) RequestPasswordReset(ctx context.Context, email string) error {
	return m.sleep(ctx)
}

func (m *MockService) newSessionLocked(user authstate.User) *Session {
	token := authstate.AuthToken{
		AccessToken:  "mock-access-" + uuid.New().String(),
		RefreshToken: "mock-refresh-" + uuid.New().String(),
		ExpiresIn:    m.tokenTTL,
		IssuedAt:     time.Now().Unix(),
	}
	m.sessions[token.AccessToken] = user.Email
	m.sessions[token.RefreshToken] = user.Email
	m.current = user.Email
	return &Session{User: user, Token: token}
}

func (m *MockService) sleep(ctx context.Context) error {
	if m.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(m.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
