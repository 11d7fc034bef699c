package ui

import (
	"strings"
	"testing"

	"tomato/internal/settings"
)

func TestStatsPane_Empty(t *testing.T) {
	setupTest(t)
	p := NewStatsPane(createTestController(t, settings.Default()), createTestStyles())
	p.SetSize(50, 24)

	view := p.View()
	for _, want := range []string{"STATS", "0/8 (0%)", "No sessions yet", "best 0"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestStatsPane_AfterSession(t *testing.T) {
	setupTest(t)
	s := shortSettings()
	s.DailyGoal = 1
	ctrl := createTestController(t, s)
	task, err := ctrl.AddTask("Essay")
	if err != nil {
		t.Fatal(err)
	}
	ctrl.SelectTask(task.ID)

	ctrl.Start()
	for range 60 {
		ctrl.Tick()
	}

	p := NewStatsPane(ctrl, createTestStyles())
	p.SetSize(60, 24)
	view := p.View()

	for _, want := range []string{"1/1 (100%) ✓", "🔥 1", "Focus", "1m", "Essay", "Mar 10 09:00"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestStatsPane_IgnoresInput(t *testing.T) {
	p := NewStatsPane(createTestController(t, settings.Default()), createTestStyles())
	p.SetFocused(true)
	if cmd := p.Update(keyPress("a")); cmd != nil {
		t.Error("stats pane should not produce commands")
	}
}
