package authstate

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Selectors are pure derivations over State, recomputed on each call.
// Memoization is deliberately absent; every read reflects the state value it
// is given.

// Role returns the current user's role, or "" when no user is present.
func (s State) Role() UserRole {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// IsAdmin reports whether the current user is an administrator.
func (s State) IsAdmin() bool {
	return s.Role() == RoleAdmin
}

// IsManager reports whether the current user is a manager.
func (s State) IsManager() bool {
	return s.Role() == RoleManager
}

// IsRegularUser reports whether the current user is a regular user.
func (s State) IsRegularUser() bool {
	return s.Role() == RoleUser
}

// CanManageUsers reports whether the current user may manage user accounts.
func (s State) CanManageUsers() bool {
	return s.Role() == RoleAdmin
}

// CanViewTeamData reports whether the current user may view team-level data.
func (s State) CanViewTeamData() bool {
	role := s.Role()
	return role == RoleAdmin || role == RoleManager
}

// DisplayName returns "First Last", or "" when no user is present.
func (s State) DisplayName() string {
	if s.User == nil {
		return ""
	}
	return s.User.FirstName + " " + s.User.LastName
}

// Initials returns the upper-cased first letters of the user's first and
// last names, or "" when no user is present.
func (s State) Initials() string {
	if s.User == nil {
		return ""
	}
	return strings.ToUpper(firstRune(s.User.FirstName) + firstRune(s.User.LastName))
}

// IsTokenExpired reports whether the session token's lifetime has elapsed.
// A missing token counts as expired. Expiry is checked against the issuance
// stamp recorded when the token was received.
func (s State) IsTokenExpired(now time.Time) bool {
	return s.Token.Expired(now)
}

// Status is the combined auth status consumed by forms and the layout.
type Status struct {
	IsAuthenticated bool
	IsLoading       bool
	HasError        bool
	Error           string
}

// AuthStatus returns the combined authentication/loading/error view.
func (s State) AuthStatus() Status {
	return Status{
		IsAuthenticated: s.IsAuthenticated,
		IsLoading:       s.IsLoading,
		HasError:        s.Error != "",
		Error:           s.Error,
	}
}

func firstRune(s string) string {
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(r)
}
