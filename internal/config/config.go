package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings cookhub reads from its TOML file.
type Config struct {
	APIURL         string
	StateDir       string
	LogLevel       string
	RequestTimeout time.Duration
	HealthInterval time.Duration
}

const (
	defaultConfigPath     = "~/.config/cookhub/config.toml"
	defaultAPIURL         = "http://127.0.0.1:5000"
	defaultStateDir       = "~/.local/share/cookhub"
	defaultLogLevel       = "info"
	defaultRequestTimeout = 10 * time.Second
	defaultHealthInterval = 30 * time.Second

	apiURLEnv = "COOKHUB_API_URL"
)

// Load locates and parses the config file, falling back to defaults when missing.
// COOKHUB_API_URL, when set, overrides api_url.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL         string `toml:"api_url"`
		StateDir       string `toml:"state_dir"`
		LogLevel       string `toml:"log_level"`
		RequestTimeout string `toml:"request_timeout"`
		HealthInterval string `toml:"health_interval"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.StateDir); v != "" {
		cfg.StateDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if cfg.RequestTimeout, err = parseDuration("request_timeout", raw.RequestTimeout, defaultRequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.HealthInterval, err = parseDuration("health_interval", raw.HealthInterval, defaultHealthInterval); err != nil {
		return Config{}, err
	}

	applyEnv(&cfg)
	return cfg, nil
}

// IdentityPath returns the file holding the persisted login.
func (c Config) IdentityPath() string {
	return filepath.Join(c.stateDir(), "identity.json")
}

// LogPath returns the client log file.
func (c Config) LogPath() string {
	return filepath.Join(c.stateDir(), "cookhub.log")
}

func (c Config) stateDir() string {
	if strings.TrimSpace(c.StateDir) == "" {
		return mustExpand(defaultStateDir)
	}
	return c.StateDir
}

func defaults() Config {
	return Config{
		APIURL:         defaultAPIURL,
		StateDir:       mustExpand(defaultStateDir),
		LogLevel:       defaultLogLevel,
		RequestTimeout: defaultRequestTimeout,
		HealthInterval: defaultHealthInterval,
	}
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(apiURLEnv)); v != "" {
		cfg.APIURL = v
	}
}

func parseDuration(key, value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parse %s: must be positive, got %s", key, trimmed)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
