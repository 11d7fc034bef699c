package ui

import (
	"strings"
	"testing"

	"tomato/internal/config"
)

func newTestHelp(cfg *config.KeysConfig) *HelpOverlay {
	return NewHelpOverlay(createTestStyles(),
		NewGlobalKeyMap(cfg), NewTimerKeyMap(cfg), NewTaskKeyMap(cfg), NewInputKeyMap(cfg))
}

func TestHelpOverlay_ContentStructure(t *testing.T) {
	setupTest(t)
	h := newTestHelp(&config.KeysConfig{})
	h.SetSize(100, 50)

	view := h.View()
	for _, want := range []string{"Global", "Timer", "Tasks", "Input Mode"} {
		if !strings.Contains(view, want) {
			t.Errorf("help missing section %q", want)
		}
	}
	for _, want := range []string{"start/pause", "skip", "next track", "focus on task", "settings", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("help missing binding %q", want)
		}
	}
}

func TestHelpOverlay_SmallTerminal(t *testing.T) {
	setupTest(t)
	h := newTestHelp(nil)
	h.SetSize(30, 20)

	if view := h.View(); !strings.Contains(view, "tomato") {
		t.Errorf("narrow help should still render the title:\n%s", view)
	}
}
