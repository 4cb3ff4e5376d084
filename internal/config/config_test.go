package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigExpandsSecrets(t *testing.T) {
	t.Setenv("TEST_DB_URL", "postgres://localhost/tubeinsight")
	t.Setenv("TEST_JWT_SECRET", "sekrit")

	path := writeConfig(t, `
server:
  port: ":9090"
  mode: "release"
database:
  url: "${TEST_DB_URL}"
auth:
  jwt_secret: "${TEST_JWT_SECRET}"
  token_ttl_hours: 2
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != ":9090" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if cfg.Database.URL != "postgres://localhost/tubeinsight" {
		t.Errorf("Database.URL = %q, env var not expanded", cfg.Database.URL)
	}
	if cfg.Auth.JWTSecret != "sekrit" {
		t.Errorf("JWTSecret = %q, env var not expanded", cfg.Auth.JWTSecret)
	}
	if cfg.TokenTTL() != 2*time.Hour {
		t.Errorf("TokenTTL = %v, want 2h", cfg.TokenTTL())
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  url: "postgres://localhost/tubeinsight"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != ":8080" {
		t.Errorf("default port = %q, want :8080", cfg.Server.Port)
	}
	if cfg.Gemini.ModelName != "gemini-2.0-flash-exp" {
		t.Errorf("default model = %q", cfg.Gemini.ModelName)
	}
	if cfg.TokenTTL() != 24*time.Hour {
		t.Errorf("default token TTL = %v, want 24h", cfg.TokenTTL())
	}
	if cfg.ProviderTimeout() != 60*time.Second {
		t.Errorf("default provider timeout = %v, want 60s", cfg.ProviderTimeout())
	}
	if cfg.CORS.AllowedOrigin != "*" {
		t.Errorf("default CORS origin = %q, want *", cfg.CORS.AllowedOrigin)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatal("LoadConfig of a missing file did not error")
	}
}
