package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad_YAMLFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
port: "8080"
allowed_origins:
  - http://localhost:5173
  - https://dayandnight.example.com
geocoder:
  user_agent: from-yaml/1.0
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("PORT", "9090") // env beats file
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("GEOCODER_USER_AGENT", "")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("expected env PORT to win, got %q", cfg.Port)
	}
	want := []string{"http://localhost:5173", "https://dayandnight.example.com"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("expected origins from file, got %v", cfg.AllowedOrigins)
	}
	if cfg.Geocoder.UserAgent != "from-yaml/1.0" {
		t.Errorf("expected user agent from file, got %q", cfg.Geocoder.UserAgent)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg := Load()

	if cfg.Port != "5050" {
		t.Errorf("expected default port, got %q", cfg.Port)
	}
	if cfg.Geocoder.BaseURL != "https://nominatim.openstreetmap.org/search" {
		t.Errorf("unexpected default upstream %q", cfg.Geocoder.BaseURL)
	}
	if cfg.Validate() == nil {
		t.Error("expected Validate to fail without DATABASE_URL")
	}
}

func TestLoad_OriginListFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("ALLOWED_ORIGINS", " http://a.example.com , http://b.example.com ,")

	cfg := Load()

	want := []string{"http://a.example.com", "http://b.example.com"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("expected %v, got %v", want, cfg.AllowedOrigins)
	}
}
