package ui

import (
	"testing"
	"time"

	"tomato/internal/app"
	"tomato/internal/config"
	"tomato/internal/settings"
	"tomato/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var testNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.Local)

// setupTest disables colors so rendered output can be matched as plain text.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStyles(settings.ThemeDark, config.ThemeConfig{})
}

// createTestController returns a controller on a fixed clock with s.
func createTestController(t *testing.T, s settings.Settings) *app.Controller {
	t.Helper()
	snap := storage.DefaultSnapshot()
	snap.Settings = s
	return app.New(snap, app.Options{
		Now:            func() time.Time { return testNow },
		AutoStartDelay: time.Millisecond,
	})
}

// shortSettings makes every phase one minute long.
func shortSettings() settings.Settings {
	s := settings.Default()
	s.WorkMinutes = 1
	s.BreakMinutes = 1
	s.LongBreakMinutes = 1
	return s
}

// createTestApp builds an app sized for the wide layout.
func createTestApp(t *testing.T, ctrl *app.Controller) *App {
	t.Helper()
	a := NewApp(ctrl, &AppConfig{Keys: &config.KeysConfig{}, NarrowLayoutThreshold: 80})
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a
}

// keyPress builds the key message bubbletea would deliver for s.
func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runCmd executes cmd and returns its message, or nil.
func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
