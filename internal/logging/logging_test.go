package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseLevel_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	if got := ParseLevel("debug"); got != slog.LevelError {
		t.Fatalf("ParseLevel with LOG_LEVEL=error = %v, want error", got)
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("recipe decode failed", "field", "ingredients")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record written at warn level: %q", out)
	}
	if !strings.Contains(out, "recipe decode failed") || !strings.Contains(out, "field=ingredients") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestOpen_CreatesFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "nested", "cookhub.log")
	logger, closer, err := Open(path, "info")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	logger.Info("started", "version", "test")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "started") {
		t.Fatalf("log file = %q, want started record", data)
	}
}
