// Package prefs persists what the terminal UI remembers between runs: the
// chosen color theme and the username of the last successful login, used to
// prefill the login form. Passwords and identities are never stored here; the
// login itself lives in the session slot.
//
// The file is ~/.config/cookhub/prefs.toml unless a path is given. Reads never
// fail: a missing, unreadable or corrupt file yields defaults.
package prefs

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for the terminal UI.
type Prefs struct {
	Theme        string `toml:"theme"`
	LastUsername string `toml:"last_username,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/cookhub/prefs.toml"
	defaultTheme     = "Nightfox"

	// usernames longer than the login form accepts are not worth keeping
	maxUsernameLen = 128
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path. Problems are logged and answered with
// defaults; the returned error is reserved for callers that care and is
// currently always nil.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		slog.Debug("preferences path unresolved", "path", path, "error", err)
		return defaults(), nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("read preferences failed", "path", resolved, "error", err)
		}
		return defaults(), nil
	}

	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil {
		slog.Warn("preferences file is corrupt, using defaults", "path", resolved, "error", err)
		return defaults(), nil
	}
	return p.normalized(), nil
}

// Save replaces the preferences file. The write goes through a temporary file
// in the same directory so a crash never leaves a truncated file behind.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	data, err := toml.Marshal(p.normalized())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmpName, resolved); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

// Update loads the file, applies change and saves the result, so fields the
// caller does not touch keep whatever another writer stored.
func Update(path string, change func(*Prefs)) error {
	p, _ := Load(path)
	change(&p)
	return Save(path, p)
}

func defaults() Prefs {
	return Prefs{Theme: defaultTheme}
}

func (p Prefs) normalized() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	p.LastUsername = strings.TrimSpace(p.LastUsername)
	if len([]rune(p.LastUsername)) > maxUsernameLen {
		p.LastUsername = ""
	}
	return p
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
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
