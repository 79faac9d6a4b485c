// Package identityserver is the development identity provider the portal
// talks to when it is not running against the mock. It owns the user store,
// token issuance and the /auth HTTP surface.
package identityserver

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dd0wney/cluso-portal/pkg/authstate"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("email already exists")
	ErrEmptyPassword      = errors.New("password cannot be empty")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidName        = errors.New("first and last name must be at least 2 characters")
	ErrInvalidRole        = errors.New("invalid role")
	ErrPasswordHashFailed = errors.New("failed to hash password")
)

const (
	MinPasswordLength = 8
	MinNameLength     = 2
	BcryptCost        = 12 // Cost factor for bcrypt
)

// User represents an account in the identity server
type User struct {
	ID           string             `json:"id"`
	Email        string             `json:"email"`
	FirstName    string             `json:"firstName"`
	LastName     string             `json:"lastName"`
	PasswordHash string             `json:"-"` // Never serialize password hash
	Role         authstate.UserRole `json:"role"`
	CreatedAt    int64              `json:"created_at"`
}

// Profile returns the user as the portal-facing identity, without the hash.
func (u *User) Profile() authstate.User {
	return authstate.User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}

// UserStore manages account storage and credential verification
type UserStore struct {
	users    map[string]*User  // userID -> User
	emailMap map[string]string // lowercased email -> userID
	mu       sync.RWMutex
}

// NewUserStore creates a new user store
func NewUserStore() *UserStore {
	return &UserStore{
		users:    make(map[string]*User),
		emailMap: make(map[string]string),
	}
}

// CreateUser creates a new account with a hashed password
func (s *UserStore) CreateUser(email, password, firstName, lastName string, role authstate.UserRole) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateName(firstName, lastName); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !authstate.ValidRole(role) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}

	key := emailKey(email)
	if _, exists := s.emailMap[key]; exists {
		return nil, fmt.Errorf("%w: %s", ErrUserExists, email)
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordHashFailed, err)
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hashedPassword,
		Role:         role,
		CreatedAt:    time.Now().Unix(),
	}

	s.users[user.ID] = user
	s.emailMap[key] = user.ID

	return user, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively
func (s *UserStore) GetUserByEmail(email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if email == "" {
		return nil, ErrInvalidEmail
	}

	userID, exists := s.emailMap[emailKey(email)]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, email)
	}

	user, exists := s.users[userID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, email)
	}

	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *UserStore) GetUserByID(userID string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if userID == "" {
		return nil, ErrUserNotFound
	}

	user, exists := s.users[userID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}

	return user, nil
}

// VerifyPassword verifies a password against a user's stored hash
func (s *UserStore) VerifyPassword(user *User, password string) bool {
	if user == nil || password == "" {
		return false
	}

	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	return err == nil
}

// ListUsers returns all users
func (s *UserStore) ListUsers() []*User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}

	return users
}

// UpdateUserRole updates a user's role
func (s *UserStore) UpdateUserRole(userID string, newRole authstate.UserRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !authstate.ValidRole(newRole) {
		return fmt.Errorf("%w: %s", ErrInvalidRole, newRole)
	}

	user, exists := s.users[userID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}

	user.Role = newRole

	return nil
}

// DeleteUser deletes a user
func (s *UserStore) DeleteUser(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[userID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}

	delete(s.users, userID)
	delete(s.emailMap, emailKey(user.Email))

	return nil
}

// ChangePassword changes a user's password
func (s *UserStore) ChangePassword(userID, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, exists := s.users[userID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}

	hashedPassword, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPasswordHashFailed, err)
	}

	user.PasswordHash = hashedPassword

	return nil
}

// Helper functions

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func validateName(firstName, lastName string) error {
	if len(strings.TrimSpace(firstName)) < MinNameLength || len(strings.TrimSpace(lastName)) < MinNameLength {
		return ErrInvalidName
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}

	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}
