// Package tokenstore persists the session token record in client-local
// storage. The record lives under a single application key; reads and writes
// go through an in-memory copy so the interceptor can fetch the access token
// on every request without touching disk.
package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dd0wney/cluso-portal/pkg/authstate"
)

// StorageKey is the application-specific key the token record is stored under.
const StorageKey = "admin_portal_token"

var ErrNoToken = errors.New("no stored token")

// persistedToken is the on-disk layout of the token record.
type persistedToken struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	IssuedAt     int64  `json:"issuedAt"`
}

// Store holds the single persisted token record.
type Store struct {
	mu      sync.RWMutex
	dataDir string
	token   *authstate.AuthToken
}

// NewStore creates a token store rooted at dataDir and loads any record
// persisted by a previous run. A missing file is not an error.
func NewStore(dataDir string) (*Store, error) {
	s := &Store{dataDir: dataDir}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) filePath() string {
	return filepath.Join(s.dataDir, StorageKey+".json")
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.filePath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read token file: %w", err)
	}

	var pt persistedToken
	if err := json.Unmarshal(data, &pt); err != nil {
		return fmt.Errorf("failed to unmarshal token: %w", err)
	}

	s.token = &authstate.AuthToken{
		AccessToken:  pt.AccessToken,
		RefreshToken: pt.RefreshToken,
		ExpiresIn:    pt.ExpiresIn,
		IssuedAt:     pt.IssuedAt,
	}
	return nil
}

// Set persists the token record. A zero IssuedAt is stamped with the current
// time, so expiry checks compare against the moment the token was received.
func (s *Store) Set(token authstate.AuthToken) error {
	if token.IssuedAt == 0 {
		token.IssuedAt = time.Now().Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dataDir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(persistedToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    token.ExpiresIn,
		IssuedAt:     token.IssuedAt,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	// Restrictive permissions: the file holds live credentials.
	if err := os.WriteFile(s.filePath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	s.token = &token
	return nil
}

// Get returns the stored token record, or ErrNoToken when none is present.
func (s *Store) Get() (*authstate.AuthToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return nil, ErrNoToken
	}
	token := *s.token
	return &token, nil
}

// AccessToken returns the stored access token, or "" when none is present.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return ""
	}
	return s.token.AccessToken
}

// Clear removes the token record from memory and disk. Clearing an already
// empty store is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
	if err := os.Remove(s.filePath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// IsExpired reports whether the stored token has outlived its lifetime.
// A missing token counts as expired.
func (s *Store) IsExpired(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token.Expired(now)
}
