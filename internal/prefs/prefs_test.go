package prefs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme || p.LastUsername != "" {
		t.Fatalf("Load = %#v, want defaults", p)
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "cookhub")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := "theme = \"Slate\"\nlast_username = \" ana \"\n"
	if err := os.WriteFile(filepath.Join(prefsDir, "prefs.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" || p.LastUsername != "ana" {
		t.Fatalf("Load = %#v, want Slate/ana", p)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	if err := Save(prefsFile, Prefs{Theme: "Kanagawa", LastUsername: "bo"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Theme != "Kanagawa" || loaded.LastUsername != "bo" {
		t.Fatalf("Load = %#v, want Kanagawa/bo", loaded)
	}
}

func TestLoad_FallsBackOnBadContent(t *testing.T) {
	cases := map[string]string{
		"empty theme":  "theme = \"\"\n",
		"invalid toml": "not valid toml {{{\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
			if err := os.WriteFile(prefsFile, []byte(content), 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			p, err := Load(prefsFile)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if p.Theme != defaultTheme {
				t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
			}
		})
	}
}

func TestUpdate_KeepsUntouchedFields(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	if err := Save(prefsFile, Prefs{Theme: "Slate", LastUsername: "ana"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if err := Update(prefsFile, func(p *Prefs) { p.Theme = "Kanagawa" }); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	loaded, _ := Load(prefsFile)
	if loaded.Theme != "Kanagawa" || loaded.LastUsername != "ana" {
		t.Fatalf("Load = %#v, want Kanagawa/ana", loaded)
	}
}

func TestSave_NormalizesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	prefsFile := filepath.Join(dir, "prefs.toml")

	long := strings.Repeat("x", maxUsernameLen+1)
	if err := Save(prefsFile, Prefs{Theme: "  ", LastUsername: long}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	loaded, _ := Load(prefsFile)
	if loaded.Theme != defaultTheme || loaded.LastUsername != "" {
		t.Fatalf("Load = %#v, want default theme and no username", loaded)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "prefs.toml" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("dir entries = %v, want only prefs.toml", names)
	}
}

func TestSave_FailsWhenParentIsAFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := Save(filepath.Join(blocker, "prefs.toml"), Prefs{Theme: "Slate"}); err == nil {
		t.Fatal("Save returned nil, want error")
	}
}

func TestSave_FileIsPrivate(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	if err := Save(prefsFile, Prefs{Theme: "Slate", LastUsername: "ana"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	info, err := os.Stat(prefsFile)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("mode = %o, want 600", perm)
	}
}
