package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pathpilot/internal/prefs"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	if names[0] != "Nightfox" || names[1] != "Kanagawa" || names[2] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Nightfox Kanagawa Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	tests := map[string]string{
		"Nightfox": "Kanagawa",
		"Kanagawa": "Slate",
		"Slate":    "Nightfox",
		"Unknown":  "Nightfox",
	}
	for current, want := range tests {
		if got := NextTheme(current); got != want {
			t.Fatalf("NextTheme(%s) = %q, want %s", current, got, want)
		}
	}
}

func TestGetTheme_FallsBack(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q", got)
	}
	if got := GetTheme("Unknown").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Nightfox (fallback)", got)
	}
}

func TestThemesColorEveryStatus(t *testing.T) {
	statuses := []rowStatus{statusQueued, statusSending, statusSent, statusRejected, statusFailed, statusSkipped}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, s := range statuses {
			if th.StatusColors[s] == "" {
				t.Errorf("theme %s has no color for %s", name, s)
			}
		}
	}
}

func TestCycleThemeSavesPrefs(t *testing.T) {
	path := t.TempDir() + "/prefs.toml"
	m := newTestModel(t, Options{ThemeName: "Kanagawa", PrefsPath: path})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.theme.Name != "Slate" {
		t.Fatalf("theme = %q, want Slate", m.theme.Name)
	}
	if p := prefs.Load(path); p.Theme != "Slate" {
		t.Fatalf("saved theme = %q, want Slate", p.Theme)
	}
}
