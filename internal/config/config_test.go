// Package config tests
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.Version != 1 {
		t.Errorf("expected Version=1, got %d", cfg.Version)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("expected Server.Host='127.0.0.1', got %q", cfg.Server.Host)
	}
	if cfg.Server.Port != 18900 {
		t.Errorf("expected Server.Port=18900, got %d", cfg.Server.Port)
	}

	if cfg.AI.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("expected OpenAI base URL, got %q", cfg.AI.BaseURL)
	}
	if cfg.AI.Model != "gpt-4o-mini" {
		t.Errorf("expected AI.Model='gpt-4o-mini', got %q", cfg.AI.Model)
	}
	if cfg.AI.FailureThreshold != 3 {
		t.Errorf("expected AI.FailureThreshold=3, got %d", cfg.AI.FailureThreshold)
	}

	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("expected Storage.Backend='sqlite', got %q", cfg.Storage.Backend)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected Logging.Level='info', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected Logging.Format='text', got %q", cfg.Logging.Format)
	}

	if !cfg.Digest.Enabled {
		t.Error("expected digest enabled by default")
	}
	if cfg.Digest.Schedule != "0 3 * * *" {
		t.Errorf("expected nightly digest schedule, got %q", cfg.Digest.Schedule)
	}
}

func TestLoadSave(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "nextup-config-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	cfgPath := filepath.Join(tmpDir, "config.yaml")

	cfg := Default()
	cfg.Server.Port = 9999
	cfg.AI.Model = "gpt-4o"
	cfg.Storage.Backend = "memory"
	cfg.Logging.Level = "debug"

	if err := cfg.Save(cfgPath); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loaded, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if loaded.Server.Port != 9999 {
		t.Errorf("expected Server.Port=9999, got %d", loaded.Server.Port)
	}
	if loaded.AI.Model != "gpt-4o" {
		t.Errorf("expected AI.Model='gpt-4o', got %q", loaded.AI.Model)
	}
	if loaded.Storage.Backend != "memory" {
		t.Errorf("expected Storage.Backend='memory', got %q", loaded.Storage.Backend)
	}
	if loaded.Logging.Level != "debug" {
		t.Errorf("expected Logging.Level='debug', got %q", loaded.Logging.Level)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(os.TempDir(), "nextup-does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 18900 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
}

func TestAIConfigTimeouts(t *testing.T) {
	ai := AIConfig{Timeout: "90s", RecoveryTimeout: "2m"}
	if ai.GetTimeout() != 90*time.Second {
		t.Errorf("expected 90s timeout, got %v", ai.GetTimeout())
	}
	if ai.GetRecoveryTimeout() != 2*time.Minute {
		t.Errorf("expected 2m recovery, got %v", ai.GetRecoveryTimeout())
	}

	ai = AIConfig{Timeout: "bogus", RecoveryTimeout: ""}
	if ai.GetTimeout() != 60*time.Second {
		t.Errorf("expected fallback 60s timeout, got %v", ai.GetTimeout())
	}
	if ai.GetRecoveryTimeout() != 30*time.Second {
		t.Errorf("expected fallback 30s recovery, got %v", ai.GetRecoveryTimeout())
	}
}

func TestResolvedAPIKey(t *testing.T) {
	t.Setenv("NEXTUP_TEST_KEY", "sk-test-123")
	ai := AIConfig{APIKey: "${NEXTUP_TEST_KEY}"}
	if got := ai.ResolvedAPIKey(); got != "sk-test-123" {
		t.Errorf("expected expanded key, got %q", got)
	}
}
