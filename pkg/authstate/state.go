package authstate

import (
	"errors"
	"time"
)

var (
	ErrInvalidRole = errors.New("invalid role")
)

// UserRole is the closed set of portal roles.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleManager UserRole = "MANAGER"
	RoleUser    UserRole = "USER"
)

var validRoles = map[UserRole]bool{
	RoleAdmin:   true,
	RoleManager: true,
	RoleUser:    true,
}

// ValidRole reports whether r is one of the enumerated portal roles.
func ValidRole(r UserRole) bool {
	return validRoles[r]
}

// User is the authenticated identity as returned by the identity provider.
type User struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Role      UserRole `json:"role"`
}

// AuthToken is a token pair with its relative lifetime. IssuedAt is stamped
// when the token is received so expiry can be checked against real elapsed
// time rather than re-deriving "now" twice.
type AuthToken struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // seconds, relative at issuance
	IssuedAt     int64  `json:"issuedAt"`  // unix seconds
}

// Expired reports whether the token's lifetime has elapsed at the given time.
func (t *AuthToken) Expired(now time.Time) bool {
	if t == nil {
		return true
	}
	return !now.Before(time.Unix(t.IssuedAt+t.ExpiresIn, 0))
}

// State is the single auth state record. It is replaced wholesale on every
// transition and never mutated in place; user/token are owned exclusively by
// the reducer.
type State struct {
	User            *User
	Token           *AuthToken
	IsAuthenticated bool
	IsLoading       bool
	Error           string // last failure message, empty when none
}

// InitialState returns the empty logged-out state.
func InitialState() State {
	return State{}
}
