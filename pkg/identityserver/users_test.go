package identityserver

import (
	"errors"
	"testing"

	"github.com/dd0wney/cluso-portal/pkg/authstate"
)

func TestCreateUser(t *testing.T) {
	store := NewUserStore()

	user, err := store.CreateUser("ada@portal.dev", "Str0ngpass", "Ada", "Lovelace", authstate.RoleAdmin)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if user.ID == "" {
		t.Error("Expected generated user ID")
	}
	if user.PasswordHash == "Str0ngpass" {
		t.Error("Password must not be stored in the clear")
	}
	if user.Role != authstate.RoleAdmin {
		t.Errorf("Role = %q, want ADMIN", user.Role)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		password  string
		firstName string
		lastName  string
		role      authstate.UserRole
		wantErr   error
	}{
		{"invalid email", "not-an-email", "Str0ngpass", "Ada", "Lovelace", authstate.RoleUser, ErrInvalidEmail},
		{"empty password", "a@b.com", "", "Ada", "Lovelace", authstate.RoleUser, ErrEmptyPassword},
		{"short password", "a@b.com", "short", "Ada", "Lovelace", authstate.RoleUser, ErrWeakPassword},
		{"short first name", "a@b.com", "Str0ngpass", "A", "Lovelace", authstate.RoleUser, ErrInvalidName},
		{"short last name", "a@b.com", "Str0ngpass", "Ada", "L", authstate.RoleUser, ErrInvalidName},
		{"unknown role", "a@b.com", "Str0ngpass", "Ada", "Lovelace", authstate.UserRole("INTERN"), ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewUserStore()
			_, err := store.CreateUser(tt.email, tt.password, tt.firstName, tt.lastName, tt.role)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateUser error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	store := NewUserStore()

	if _, err := store.CreateUser("ada@portal.dev", "Str0ngpass", "Ada", "Lovelace", authstate.RoleUser); err != nil {
		t.Fatalf("First CreateUser failed: %v", err)
	}

	// Duplicate detection is case-insensitive.
	_, err := store.CreateUser("Ada@Portal.dev", "Other1pass", "Ada", "Other", authstate.RoleUser)
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("Expected ErrUserExists, got %v", err)
	}
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	store := NewUserStore()

	created, err := store.CreateUser("ada@portal.dev", "Str0ngpass", "Ada", "Lovelace", authstate.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	user, err := store.GetUserByEmail("ADA@portal.DEV")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("Got user %s, want %s", user.ID, created.ID)
	}
}

func TestVerifyPassword(t *testing.T) {
	store := NewUserStore()

	user, err := store.CreateUser("ada@portal.dev", "Str0ngpass", "Ada", "Lovelace", authstate.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if !store.VerifyPassword(user, "Str0ngpass") {
		t.Error("Expected correct password to verify")
	}
	if store.VerifyPassword(user, "wrongpass1") {
		t.Error("Expected wrong password to fail")
	}
	if store.VerifyPassword(nil, "Str0ngpass") {
		t.Error("Expected nil user to fail")
	}
	if store.VerifyPassword(user, "") {
		t.Error("Expected empty password to fail")
	}
}

func TestUpdateUserRole(t *testing.T) {
	store := NewUserStore()

	user, err := store.CreateUser("ada@portal.dev", "Str0ngpass", "Ada", "Lovelace", authstate.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if err := store.UpdateUserRole(user.ID, authstate.RoleManager); err != nil {
		t.Fatalf("UpdateUserRole failed: %v", err)
	}

	updated, _ := store.GetUserByID(user.ID)
	if updated.Role != authstate.RoleManager {
		t.Errorf("Role = %q, want MANAGER", updated.Role)
	}

	if err := store.UpdateUserRole(user.ID, authstate.UserRole("INTERN")); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("Expected ErrInvalidRole, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	store := NewUserStore()

	user, err := store.CreateUser("ada@portal.dev", "Str0ngpass", "Ada", "Lovelace", authstate.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if err := store.DeleteUser(user.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	if _, err := store.GetUserByEmail("ada@portal.dev"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound after delete, got %v", err)
	}

	// Email is free again.
	if _, err := store.CreateUser("ada@portal.dev", "Str0ngpass", "Ada", "Lovelace", authstate.RoleUser); err != nil {
		t.Errorf("Expected email to be reusable after delete: %v", err)
	}
}

func TestSaveLoadUsers(t *testing.T) {
	dir := t.TempDir()

	store := NewUserStore()
	created, err := store.CreateUser("ada@portal.dev", "Str0ngpass", "Ada", "Lovelace", authstate.RoleAdmin)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if err := store.SaveUsers(dir); err != nil {
		t.Fatalf("SaveUsers failed: %v", err)
	}

	restored := NewUserStore()
	if err := restored.LoadUsers(dir); err != nil {
		t.Fatalf("LoadUsers failed: %v", err)
	}

	user, err := restored.GetUserByEmail("ada@portal.dev")
	if err != nil {
		t.Fatalf("GetUserByEmail after load failed: %v", err)
	}
	if user.ID != created.ID || user.Role != authstate.RoleAdmin {
		t.Errorf("Restored user does not match: %+v", user)
	}
	if !restored.VerifyPassword(user, "Str0ngpass") {
		t.Error("Password hash should survive persistence")
	}
}

func TestLoadUsers_MissingFile(t *testing.T) {
	store := NewUserStore()
	if err := store.LoadUsers(t.TempDir()); err != nil {
		t.Errorf("LoadUsers with no file should be a no-op: %v", err)
	}
}
