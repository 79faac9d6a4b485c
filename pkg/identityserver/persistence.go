package identityserver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dd0wney/cluso-portal/pkg/authstate"
)

const usersFileName = "users.json"

// persistedUser includes the password hash for persistence
type persistedUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
	CreatedAt    int64  `json:"created_at"`
}

// SaveUsers persists all users to disk
func (s *UserStore) SaveUsers(dataDir string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	users := make([]*persistedUser, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, &persistedUser{
			ID:           user.ID,
			Email:        user.Email,
			FirstName:    user.FirstName,
			LastName:     user.LastName,
			PasswordHash: user.PasswordHash,
			Role:         string(user.Role),
			CreatedAt:    user.CreatedAt,
		})
	}

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal users: %w", err)
	}

	// Restrictive permissions, the file contains password hashes.
	filePath := filepath.Join(dataDir, usersFileName)
	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write users file: %w", err)
	}

	return nil
}

// LoadUsers loads users from disk
func (s *UserStore) LoadUsers(dataDir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := filepath.Join(dataDir, usersFileName)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		// No file yet, nothing to load
		return nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read users file: %w", err)
	}

	var users []*persistedUser
	if err := json.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("failed to unmarshal users: %w", err)
	}

	for _, pu := range users {
		user := &User{
			ID:           pu.ID,
			Email:        pu.Email,
			FirstName:    pu.FirstName,
			LastName:     pu.LastName,
			PasswordHash: pu.PasswordHash,
			Role:         authstate.UserRole(pu.Role),
			CreatedAt:    pu.CreatedAt,
		}
		s.users[user.ID] = user
		s.emailMap[emailKey(user.Email)] = user.ID
	}

	return nil
}
