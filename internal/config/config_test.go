// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, duration parsing, defaults

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: "https://market.example.com/v"
  timeout: "15s"

storage:
  path: "./test.db"

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://market.example.com/v" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("API.Timeout = %v, want 15s", cfg.API.Timeout)
	}
	if cfg.Storage.Path != "./test.db" {
		t.Errorf("Storage.Path = %q", cfg.Storage.Path)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "https://expanded.example.com")

	path := writeConfig(t, `
api:
  base_url: "${STOREFRONT_API_URL}"
storage:
  path: "./test.db"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://expanded.example.com" {
		t.Errorf("API.BaseURL = %q, want expanded value", cfg.API.BaseURL)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: "http://localhost:5000"
  timeout: "soon"
storage:
  path: "./test.db"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() should fail on an invalid duration")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("error should mention the timeout field, got: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() should fail when the file does not exist")
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
storage:
  path: "./test.db"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL == "" {
		t.Error("API.BaseURL should get a default")
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("API.Timeout = %v, want default 10s", cfg.API.Timeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default info", cfg.Logging.Level)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() should validate, got: %v", err)
	}
	if cfg.Storage.Path == "" {
		t.Error("Default() should pick a storage path")
	}
}
