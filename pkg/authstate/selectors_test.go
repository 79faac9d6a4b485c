package authstate

import (
	"testing"
	"time"
)

func stateWithRole(role UserRole) State {
	user := sampleUser()
	user.Role = role
	return State{User: &user, IsAuthenticated: true}
}

func TestRoleChecks(t *testing.T) {
	tests := []struct {
		role            UserRole
		isAdmin         bool
		isManager       bool
		isRegular       bool
		canManageUsers  bool
		canViewTeamData bool
	}{
		{RoleAdmin, true, false, false, true, true},
		{RoleManager, false, true, false, false, true},
		{RoleUser, false, false, true, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			s := stateWithRole(tt.role)
			if s.IsAdmin() != tt.isAdmin {
				t.Errorf("IsAdmin() = %v", s.IsAdmin())
			}
			if s.IsManager() != tt.isManager {
				t.Errorf("IsManager() = %v", s.IsManager())
			}
			if s.IsRegularUser() != tt.isRegular {
				t.Errorf("IsRegularUser() = %v", s.IsRegularUser())
			}
			if s.CanManageUsers() != tt.canManageUsers {
				t.Errorf("CanManageUsers() = %v", s.CanManageUsers())
			}
			if s.CanViewTeamData() != tt.canViewTeamData {
				t.Errorf("CanViewTeamData() = %v", s.CanViewTeamData())
			}
		})
	}
}

func TestSelectors_NoUser(t *testing.T) {
	s := InitialState()

	if s.Role() != "" {
		t.Errorf("Role() = %q, want empty", s.Role())
	}
	if s.IsAdmin() || s.IsManager() || s.IsRegularUser() {
		t.Error("No role checks should pass without a user")
	}
	if s.DisplayName() != "" {
		t.Errorf("DisplayName() = %q, want empty", s.DisplayName())
	}
	if s.Initials() != "" {
		t.Errorf("Initials() = %q, want empty", s.Initials())
	}
}

func TestDisplayNameAndInitials(t *testing.T) {
	tests := []struct {
		name         string
		first, last  string
		wantName     string
		wantInitials string
	}{
		{"plain", "John", "Doe", "John Doe", "JD"},
		{"single letter names", "A", "B", "A B", "AB"},
		{"lowercase", "jane", "smith", "jane smith", "JS"},
		{"unicode", "Åsa", "Öberg", "Åsa Öberg", "ÅÖ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := User{FirstName: tt.first, LastName: tt.last, Role: RoleUser}
			s := State{User: &user}

			if got := s.DisplayName(); got != tt.wantName {
				t.Errorf("DisplayName() = %q, want %q", got, tt.wantName)
			}
			if got := s.Initials(); got != tt.wantInitials {
				t.Errorf("Initials() = %q, want %q", got, tt.wantInitials)
			}
		})
	}
}

func TestIsTokenExpired(t *testing.T) {
	issued := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	token := AuthToken{AccessToken: "a", ExpiresIn: 3600, IssuedAt: issued.Unix()}

	tests := []struct {
		name string
		s    State
		now  time.Time
		want bool
	}{
		{"no token", InitialState(), issued, true},
		{"fresh", State{Token: &token}, issued.Add(time.Minute), false},
		{"just before expiry", State{Token: &token}, issued.Add(3599 * time.Second), false},
		{"at expiry", State{Token: &token}, issued.Add(3600 * time.Second), true},
		{"after expiry", State{Token: &token}, issued.Add(2 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.IsTokenExpired(tt.now); got != tt.want {
				t.Errorf("IsTokenExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthStatus(t *testing.T) {
	s := State{IsAuthenticated: true, IsLoading: true, Error: "boom"}

	status := s.AuthStatus()
	if !status.IsAuthenticated || !status.IsLoading || !status.HasError || status.Error != "boom" {
		t.Errorf("AuthStatus() = %+v", status)
	}

	clean := InitialState().AuthStatus()
	if clean.HasError {
		t.Error("Empty error should not report HasError")
	}
}
