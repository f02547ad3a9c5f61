// Package config handles nextup configuration loading and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for nextup.
type Config struct {
	Version int           `yaml:"version"`
	Server  ServerConfig  `yaml:"server"`
	AI      AIConfig      `yaml:"ai"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Digest  DigestConfig  `yaml:"digest"`
}

// ServerConfig defines HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// AIConfig defines the generative model connection. APIKey supports
// ${ENV_VAR} expansion so keys stay out of config files.
type AIConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`

	// Breaker settings: consecutive model failures before skipping
	// straight to the deterministic interpreter, and how long to wait
	// before probing the model again.
	FailureThreshold int    `yaml:"failure_threshold"`
	RecoveryTimeout  string `yaml:"recovery_timeout"`
}

// GetTimeout returns the model call timeout as a time.Duration.
func (a *AIConfig) GetTimeout() time.Duration {
	if a.Timeout == "" {
		return 60 * time.Second
	}
	d, err := time.ParseDuration(a.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// GetRecoveryTimeout returns the breaker recovery window.
func (a *AIConfig) GetRecoveryTimeout() time.Duration {
	if a.RecoveryTimeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(a.RecoveryTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ResolvedAPIKey expands ${ENV_VAR} references in the configured key.
func (a *AIConfig) ResolvedAPIKey() string {
	return os.ExpandEnv(a.APIKey)
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "memory" or "sqlite"
	Path    string `yaml:"path"`    // sqlite database file
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
	File   string `yaml:"file"`
}

// DigestConfig defines the nightly digest job.
type DigestConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"` // cron expression
}

// Default returns a config with sensible defaults.
func Default() *Config {
	return &Config{
		Version: 1,
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 18900,
		},
		AI: AIConfig{
			BaseURL:          "https://api.openai.com/v1",
			APIKey:           "${OPENAI_API_KEY}",
			Model:            "gpt-4o-mini",
			Timeout:          "60s",
			FailureThreshold: 3,
			RecoveryTimeout:  "30s",
		},
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    defaultDBPath(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Digest: DigestConfig{
			Enabled:  true,
			Schedule: "0 3 * * *",
		},
	}
}

// Load reads configuration from path. An empty path falls back to the
// default location; a missing file yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "nextup.yaml"
	}
	return filepath.Join(home, ".nextup", "config.yaml")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "nextup.db"
	}
	return filepath.Join(home, ".nextup", "nextup.db")
}
