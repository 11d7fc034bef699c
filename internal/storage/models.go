package storage

import (
	"fmt"
	"strings"
	"time"

	"tomato/internal/sessionlog"
	"tomato/internal/settings"
	"tomato/internal/tasks"
)

// SnapshotVersion is written into every saved snapshot.
const SnapshotVersion = 1

// Snapshot is everything persisted between runs. The running countdown is
// deliberately absent; a loaded app always starts a fresh work phase.
type Snapshot struct {
	Version           int                  `json:"version"`
	Sessions          []sessionlog.Record  `json:"sessions"`
	Tasks             []tasks.Task         `json:"tasks"`
	CurrentTaskID     string               `json:"current_task_id,omitempty"`
	Streak            int                  `json:"streak"`
	LongestStreak     int                  `json:"longest_streak"`
	TotalFocusMinutes int                  `json:"total_focus_minutes"`
	Settings          settings.Settings    `json:"settings"`
	Preferences       settings.Preferences `json:"preferences"`
	SavedAt           time.Time            `json:"saved_at"`
}

// DefaultSnapshot returns the state used when nothing was stored yet.
func DefaultSnapshot() *Snapshot {
	return &Snapshot{
		Version:     SnapshotVersion,
		Sessions:    []sessionlog.Record{},
		Tasks:       []tasks.Task{},
		Settings:    settings.Default(),
		Preferences: settings.DefaultPreferences(),
	}
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Sessions = append([]sessionlog.Record(nil), s.Sessions...)
	c.Tasks = append([]tasks.Task(nil), s.Tasks...)
	if c.Sessions == nil {
		c.Sessions = []sessionlog.Record{}
	}
	if c.Tasks == nil {
		c.Tasks = []tasks.Task{}
	}
	return &c
}

// normalize replaces out-of-range values with defaults. It returns a
// description of every field it had to fix.
func normalize(s *Snapshot) []string {
	var fixed []string

	if err := s.Settings.Validate(); err != nil {
		s.Settings = s.Settings.Sanitize()
		fixed = append(fixed, "settings")
	}
	if err := s.Preferences.Validate(); err != nil {
		s.Preferences = s.Preferences.Sanitize()
		fixed = append(fixed, "preferences")
	}
	if s.Streak < 0 {
		s.Streak = 0
		fixed = append(fixed, "streak")
	}
	if s.LongestStreak < s.Streak {
		s.LongestStreak = s.Streak
		fixed = append(fixed, "longest streak")
	}
	if s.TotalFocusMinutes < 0 {
		s.TotalFocusMinutes = 0
		fixed = append(fixed, "total focus")
	}
	if s.Sessions == nil {
		s.Sessions = []sessionlog.Record{}
	}
	if s.Tasks == nil {
		s.Tasks = []tasks.Task{}
	}
	s.Version = SnapshotVersion
	return fixed
}

func normalizeWarning(source string, fixed []string) error {
	if len(fixed) == 0 {
		return nil
	}
	return fmt.Errorf("%s: invalid %s replaced with defaults", source, strings.Join(fixed, ", "))
}

// SaveContext describes the mutation that produced a snapshot. It feeds
// the history commit message.
type SaveContext struct {
	Operation string // "complete", "add", "toggle", "select", "settings"
	ItemType  string // "session", "task", "settings", "preferences"
	ItemName  string
}

// Message renders the context as a one-line commit subject.
func (c SaveContext) Message() string {
	if c.Operation == "" {
		return "Update pomodoro data"
	}
	verb := strings.ToUpper(c.Operation[:1]) + c.Operation[1:]
	if c.ItemName == "" {
		return fmt.Sprintf("%s %s", verb, c.ItemType)
	}
	return fmt.Sprintf("%s %s: %s", verb, c.ItemType, truncateForCommit(c.ItemName, 50))
}

func truncateForCommit(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-1]) + "…"
}
