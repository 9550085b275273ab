// Package logging configures structured logging with tint.
//
// The TUI owns the terminal, so records go to a log file under the state
// directory rather than stderr. LOG_LEVEL (debug, info, warn, error)
// overrides the configured level.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Open creates (or appends to) the log file at path and installs a tint
// handler writing to it as the default slog logger. The returned closer must
// be closed on shutdown.
func Open(path, level string) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := New(file, ParseLevel(level))
	slog.SetDefault(logger)
	return logger, file, nil
}

// New builds a tint logger writing to w. Colors are disabled because the
// output is a file.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    true,
	}))
}

// ParseLevel maps a level name to a slog.Level. LOG_LEVEL wins when set;
// unknown names fall back to info.
func ParseLevel(name string) slog.Level {
	if env := strings.TrimSpace(os.Getenv("LOG_LEVEL")); env != "" {
		name = env
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops every record; used by tests.
func Discard() *slog.Logger {
	return slog.New(tint.NewHandler(io.Discard, &tint.Options{Level: slog.LevelError + 1}))
}
