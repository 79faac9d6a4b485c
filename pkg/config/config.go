// Package config provides configuration loading for the portal client and
// the identity server.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-portal/pkg/validation"
)

// Config represents the complete portal configuration
type Config struct {
	API      APIConfig      `yaml:"api"`
	Session  SessionConfig  `yaml:"session"`
	Logging  LoggingConfig  `yaml:"logging"`
	Identity IdentityConfig `yaml:"identity"`
}

// APIConfig configures the portal's HTTP client
type APIConfig struct {
	// BaseURL is the identity server base URL
	BaseURL string `yaml:"base_url"`
	// TimeoutSeconds is the per-request timeout
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// Mock switches the portal to the in-process mock identity provider
	Mock bool `yaml:"mock"`
	// MockLatencyMillis simulates network latency for the mock provider
	MockLatencyMillis int `yaml:"mock_latency_millis"`
}

// SessionConfig configures local session persistence
type SessionConfig struct {
	// DataDir is where the session token file lives
	DataDir string `yaml:"data_dir"`
}

// LoggingConfig configures the structured logger
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

// IdentityConfig configures the identity server (identityd)
type IdentityConfig struct {
	// ListenAddr is the server bind address
	ListenAddr string `yaml:"listen_addr"`
	// DataDir is where identityd persists its user store
	DataDir string `yaml:"data_dir"`
	// JWTSecret signs access and refresh tokens
	JWTSecret string `yaml:"jwt_secret"`
	// AccessTokenMinutes is the access token lifetime
	AccessTokenMinutes int `yaml:"access_token_minutes"`
	// RefreshTokenHours is the refresh token lifetime
	RefreshTokenHours int `yaml:"refresh_token_hours"`
	// MetricsAddr exposes Prometheus metrics when non-empty
	MetricsAddr string `yaml:"metrics_addr"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		API: APIConfig{
			BaseURL:           "http://localhost:8085",
			TimeoutSeconds:    10,
			Mock:              true,
			MockLatencyMillis: 150,
		},
		Session: SessionConfig{
			DataDir: filepath.Join(home, ".cluso-portal"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Identity: IdentityConfig{
			ListenAddr:         ":8085",
			DataDir:            filepath.Join(home, ".cluso-portal", "identityd"),
			AccessTokenMinutes: 60,
			RefreshTokenHours:  24 * 7,
			MetricsAddr:        "",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	cv := validation.NewConfigValidator("Config")

	cv.Required("session.data_dir", c.Session.DataDir)
	cv.OneOf("logging.level", c.Logging.Level, []string{"debug", "info", "warn", "error"})
	cv.NonNegative("api.mock_latency_millis", c.API.MockLatencyMillis)
	cv.RangeInt("api.timeout_seconds", c.API.TimeoutSeconds, 1, 300)
	if !c.API.Mock {
		cv.URL("api.base_url", c.API.BaseURL)
	}

	return cv.Error()
}

// ValidateIdentity checks the identity server section. identityd calls this
// in addition to Validate because the client never needs these fields.
func (c *Config) ValidateIdentity() error {
	cv := validation.NewConfigValidator("Config")

	cv.Required("identity.listen_addr", c.Identity.ListenAddr)
	cv.Required("identity.data_dir", c.Identity.DataDir)
	cv.Required("identity.jwt_secret", c.Identity.JWTSecret)
	cv.RangeInt("identity.access_token_minutes", c.Identity.AccessTokenMinutes, 1, 24*60)
	cv.RangeInt("identity.refresh_token_hours", c.Identity.RefreshTokenHours, 1, 24*90)

	return cv.Error()
}

// LoadFromFile loads configuration from a YAML file, layered over defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Load returns the configuration from path if it exists, defaults otherwise
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return LoadFromFile(path)
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
