package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(apiURLEnv, "")

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}

	wantStateDir, err := expandPath(defaultStateDir)
	if err != nil {
		t.Fatalf("expandPath(defaultStateDir) returned error: %v", err)
	}
	if cfg.StateDir != wantStateDir {
		t.Fatalf("StateDir = %q, want %q", cfg.StateDir, wantStateDir)
	}
	if cfg.RequestTimeout != defaultRequestTimeout || cfg.HealthInterval != defaultHealthInterval {
		t.Fatalf("durations = %v/%v, want defaults", cfg.RequestTimeout, cfg.HealthInterval)
	}
	if cfg.IdentityPath() != filepath.Join(wantStateDir, "identity.json") {
		t.Fatalf("IdentityPath = %q", cfg.IdentityPath())
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(apiURLEnv, "")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "  https://cookhub.example.com  "
state_dir = "  ~/.cookhub  "
log_level = " DEBUG "
request_timeout = "3s"
health_interval = "1m"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "https://cookhub.example.com" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if !strings.HasPrefix(cfg.StateDir, home) {
		t.Fatalf("StateDir = %q, want it under HOME %q", cfg.StateDir, home)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.RequestTimeout != 3*time.Second || cfg.HealthInterval != time.Minute {
		t.Fatalf("durations = %v/%v, want 3s/1m", cfg.RequestTimeout, cfg.HealthInterval)
	}
	if cfg.LogPath() != filepath.Join(cfg.StateDir, "cookhub.log") {
		t.Fatalf("LogPath = %q", cfg.LogPath())
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(apiURLEnv, "")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "   "
request_timeout = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}
}

func TestLoad_EnvOverridesAPIURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(apiURLEnv, "http://10.0.0.5:8080")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_url = "http://file:5000"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://10.0.0.5:8080" {
		t.Fatalf("APIURL = %q, want env value", cfg.APIURL)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_url = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %v, want parse config error", err)
	}
}

func TestLoad_InvalidDurationFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`request_timeout = "soon"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse request_timeout") {
		t.Fatalf("Load error = %v, want parse request_timeout error", err)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
