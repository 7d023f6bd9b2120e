package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	requireNoError(t, err)

	if cfg.Server.Port != 5000 {
		t.Fatalf("expected default port 5000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Mode != "release" {
		t.Fatalf("expected release mode, got %q", cfg.Server.Mode)
	}
	if cfg.Data.Dir != "./data" {
		t.Fatalf("expected default data dir, got %q", cfg.Data.Dir)
	}
	if !cfg.Cache.Enabled {
		t.Fatal("expected cache enabled by default")
	}
	ttl, err := cfg.Cache.ParseTTL()
	requireNoError(t, err)
	if ttl != 5*time.Minute {
		t.Fatalf("expected 5m default ttl, got %v", ttl)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "salescope.yaml")
	requireNoError(t, os.WriteFile(cfgPath, []byte(`
server:
  port: 8080
  host: "127.0.0.1"
  mode: "debug"
data:
  dir: "/srv/exports"
cache:
  enabled: false
  ttl: "30s"
`), 0o644))

	cfg, err := Load(cfgPath)
	requireNoError(t, err)

	if cfg.Server.Port != 8080 || cfg.Server.Host != "127.0.0.1" {
		t.Fatalf("file values not applied: %+v", cfg.Server)
	}
	if cfg.Data.Dir != "/srv/exports" {
		t.Fatalf("expected /srv/exports, got %q", cfg.Data.Dir)
	}
	if cfg.Cache.Enabled {
		t.Fatal("expected cache disabled")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "salescope.yaml")
	requireNoError(t, os.WriteFile(cfgPath, []byte(`
server:
  port: 8080
`), 0o644))

	t.Setenv("SALESCOPE_SERVER__PORT", "9090")
	t.Setenv("SALESCOPE_DATA__DIR", "/tmp/exports")

	cfg, err := Load(cfgPath)
	requireNoError(t, err)

	if cfg.Server.Port != 9090 {
		t.Fatalf("expected env port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Data.Dir != "/tmp/exports" {
		t.Fatalf("expected env data dir, got %q", cfg.Data.Dir)
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_InvalidTTLFails(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "salescope.yaml")
	requireNoError(t, os.WriteFile(cfgPath, []byte(`
cache:
  ttl: "soon"
`), 0o644))

	_, err := Load(cfgPath)
	if err == nil || !strings.Contains(err.Error(), "invalid cache ttl") {
		t.Fatalf("expected invalid ttl error, got %v", err)
	}
}
