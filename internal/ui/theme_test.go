package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	for _, name := range names {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, got)
		}
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Nightfox"); got != "Kanagawa" {
		t.Fatalf("NextTheme(Nightfox) = %q, want Kanagawa", got)
	}
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("Unknown"); got != "Nightfox" {
		t.Fatalf("NextTheme(Unknown) = %q, want Nightfox", got)
	}
}

func TestGetThemeFallback(t *testing.T) {
	if got := GetTheme("Nope").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Nope).Name = %q, want Nightfox", got)
	}
}

func TestBadgeColorsCoverViewsAndHealth(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, badge := range []string{"online", "offline", "checking", "home", "authenticate", "register", "search", "recipeDetail", "collection"} {
			if th.BadgeColors[badge] == "" {
				t.Fatalf("theme %s has no color for badge %q", name, badge)
			}
		}
	}
}
