package storage

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"tomato/internal/sessionlog"
	"tomato/internal/settings"
	"tomato/internal/tasks"
	"tomato/internal/timer"
)

var testNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

// createTestStore creates a JSONStore in a temporary directory.
func createTestStore(t *testing.T) *JSONStore {
	t.Helper()
	store, err := NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	store.SetNowFunc(func() time.Time { return testNow })
	return store
}

// sampleSnapshot returns a snapshot exercising every persisted field.
func sampleSnapshot() *Snapshot {
	snap := DefaultSnapshot()
	snap.Sessions = []sessionlog.Record{
		{Type: sessionlog.KindWork, Phase: timer.PhaseWork, DurationMinutes: 50, CompletedAt: testNow.Add(-time.Hour), TaskID: "task-a"},
		{Type: sessionlog.KindBreak, Phase: timer.PhaseLongBreak, DurationMinutes: 20, CompletedAt: testNow.Add(-2 * time.Hour)},
	}
	snap.Tasks = []tasks.Task{
		{ID: "task-b", Text: "Write docs", CreatedAt: testNow.Add(-time.Minute)},
		{ID: "task-a", Text: "Fix bug", Completed: true, SessionCount: 3, CreatedAt: testNow.Add(-time.Hour)},
	}
	snap.CurrentTaskID = "task-b"
	snap.Streak = 2
	snap.LongestStreak = 5
	snap.TotalFocusMinutes = 350
	snap.Settings = settings.Settings{WorkMinutes: 50, BreakMinutes: 10, LongBreakMinutes: 20, DailyGoal: 4, AutoStartBreak: true}
	snap.Preferences = settings.Preferences{Sound: false, Theme: settings.ThemeLight, Music: settings.TrackNature, MusicVolume: 0.6}
	return snap
}

// assertSameData compares everything except SavedAt.
func assertSameData(t *testing.T, got, want *Snapshot) {
	t.Helper()

	if len(got.Sessions) != len(want.Sessions) {
		t.Fatalf("len(Sessions) = %d, want %d", len(got.Sessions), len(want.Sessions))
	}
	for i := range want.Sessions {
		g, w := got.Sessions[i], want.Sessions[i]
		if g.Type != w.Type || g.Phase != w.Phase || g.DurationMinutes != w.DurationMinutes || g.TaskID != w.TaskID || !g.CompletedAt.Equal(w.CompletedAt) {
			t.Errorf("Sessions[%d] = %+v, want %+v", i, g, w)
		}
	}

	if len(got.Tasks) != len(want.Tasks) {
		t.Fatalf("len(Tasks) = %d, want %d", len(got.Tasks), len(want.Tasks))
	}
	for i := range want.Tasks {
		g, w := got.Tasks[i], want.Tasks[i]
		if g.ID != w.ID || g.Text != w.Text || g.Completed != w.Completed || g.SessionCount != w.SessionCount || !g.CreatedAt.Equal(w.CreatedAt) {
			t.Errorf("Tasks[%d] = %+v, want %+v", i, g, w)
		}
	}

	if got.CurrentTaskID != want.CurrentTaskID {
		t.Errorf("CurrentTaskID = %q, want %q", got.CurrentTaskID, want.CurrentTaskID)
	}
	if got.Streak != want.Streak || got.LongestStreak != want.LongestStreak || got.TotalFocusMinutes != want.TotalFocusMinutes {
		t.Errorf("streak/total = %d/%d/%d, want %d/%d/%d",
			got.Streak, got.LongestStreak, got.TotalFocusMinutes,
			want.Streak, want.LongestStreak, want.TotalFocusMinutes)
	}
	if got.Settings != want.Settings {
		t.Errorf("Settings = %+v, want %+v", got.Settings, want.Settings)
	}
	if got.Preferences != want.Preferences {
		t.Errorf("Preferences = %+v, want %+v", got.Preferences, want.Preferences)
	}
}

func TestJSONStore_LoadMissingFileUsesDefaults(t *testing.T) {
	store := createTestStore(t)

	snap, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for absent data", err)
	}
	assertSameData(t, snap, DefaultSnapshot())
	if snap.Settings.WorkMinutes != 25 || !snap.Preferences.Sound || snap.Preferences.Theme != settings.ThemeDark {
		t.Errorf("defaults = %+v / %+v", snap.Settings, snap.Preferences)
	}
}

func TestJSONStore_RoundTrip(t *testing.T) {
	store := createTestStore(t)
	want := sampleSnapshot()

	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	assertSameData(t, got, want)
	if !got.SavedAt.Equal(testNow) {
		t.Errorf("SavedAt = %v, want %v", got.SavedAt, testNow)
	}
}

func TestJSONStore_SaveKeepsBackup(t *testing.T) {
	store := createTestStore(t)

	first := sampleSnapshot()
	if err := store.Save(first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	second := sampleSnapshot()
	second.Streak = 3
	if err := store.Save(second); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	bak, err := os.ReadFile(store.Path() + ".bak")
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if !strings.Contains(string(bak), `"streak": 2`) {
		t.Error("backup does not hold the previous snapshot")
	}
}

func TestJSONStore_PartialDataKeepsDefaults(t *testing.T) {
	store := createTestStore(t)
	data := `{"settings":{"work_minutes":40},"streak":1,"longest_streak":1}`
	if err := os.WriteFile(store.Path(), []byte(data), dataFilePerm); err != nil {
		t.Fatal(err)
	}

	snap, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snap.Settings.WorkMinutes != 40 {
		t.Errorf("WorkMinutes = %d, want 40", snap.Settings.WorkMinutes)
	}
	if snap.Settings.BreakMinutes != settings.DefaultBreakMinutes || snap.Settings.DailyGoal != settings.DefaultDailyGoal {
		t.Errorf("absent keys lost their defaults: %+v", snap.Settings)
	}
	if !snap.Preferences.Sound {
		t.Error("absent sound preference should default to on")
	}
}

func TestJSONStore_InvalidValuesAreSanitized(t *testing.T) {
	store := createTestStore(t)
	data := `{"settings":{"work_minutes":-5,"break_minutes":5,"long_break_minutes":15,"daily_goal":0},"preferences":{"theme":"neon","sound":true,"music_volume":0.3},"streak":-2}`
	if err := os.WriteFile(store.Path(), []byte(data), dataFilePerm); err != nil {
		t.Fatal(err)
	}

	snap, err := store.Load()
	if err == nil {
		t.Error("Load() error = nil, want a sanitize warning")
	}
	if snap.Settings != settings.Default() {
		t.Errorf("Settings = %+v, want defaults", snap.Settings)
	}
	if snap.Preferences.Theme != settings.ThemeDark || snap.Streak != 0 {
		t.Errorf("snapshot not sanitized: %+v", snap)
	}
}

func TestJSONStore_RecoverCorrupt(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		withBackup bool
		wantStreak int
	}{
		{name: "malformed without backup", content: "{not json", wantStreak: 0},
		{name: "empty without backup", content: "   ", wantStreak: 0},
		{name: "malformed with backup", content: "{not json", withBackup: true, wantStreak: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := createTestStore(t)
			if tt.withBackup {
				if err := store.Save(sampleSnapshot()); err != nil {
					t.Fatal(err)
				}
				if err := os.Rename(store.Path(), store.Path()+".bak"); err != nil {
					t.Fatal(err)
				}
			}
			if err := os.WriteFile(store.Path(), []byte(tt.content), dataFilePerm); err != nil {
				t.Fatal(err)
			}

			snap, err := store.Load()
			if err == nil {
				t.Fatal("Load() error = nil, want recovery warning")
			}
			if snap == nil {
				t.Fatal("Load() returned nil snapshot")
			}
			if snap.Streak != tt.wantStreak {
				t.Errorf("Streak = %d, want %d", snap.Streak, tt.wantStreak)
			}

			matches, _ := filepath.Glob(store.Path() + ".corrupt.*")
			if len(matches) != 1 {
				t.Errorf("quarantined files = %v, want exactly one", matches)
			}
		})
	}
}

func TestJSONStore_PermissionsArePrivate(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permissions are not meaningful on Windows")
	}

	store := createTestStore(t)
	if err := store.Save(sampleSnapshot()); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm()&0o077 != 0 {
		t.Fatalf("permissions = %o, want no group/other bits", info.Mode().Perm())
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		backend string
		wantErr error
		want    string
	}{
		{backend: "", want: "*storage.JSONStore"},
		{backend: "json", want: "*storage.JSONStore"},
		{backend: "SQLite", want: "*storage.SQLiteStore"},
		{backend: "postgres", wantErr: ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			store, err := Open(tt.backend, filepath.Join(t.TempDir(), "data"))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Open() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer store.Close()

			if got := typeName(store); got != tt.want {
				t.Errorf("Open() = %s, want %s", got, tt.want)
			}
		})
	}
}

func typeName(s Store) string {
	switch s.(type) {
	case *JSONStore:
		return "*storage.JSONStore"
	case *SQLiteStore:
		return "*storage.SQLiteStore"
	default:
		return "unknown"
	}
}

func TestSaveContextMessage(t *testing.T) {
	tests := []struct {
		ctx  SaveContext
		want string
	}{
		{SaveContext{}, "Update pomodoro data"},
		{SaveContext{Operation: "complete", ItemType: "session", ItemName: "Focus 25m"}, "Complete session: Focus 25m"},
		{SaveContext{Operation: "update", ItemType: "settings"}, "Update settings"},
		{SaveContext{Operation: "add", ItemType: "task", ItemName: strings.Repeat("a", 80)}, "Add task: " + strings.Repeat("a", 49) + "…"},
	}
	for _, tt := range tests {
		if got := tt.ctx.Message(); got != tt.want {
			t.Errorf("Message() = %q, want %q", got, tt.want)
		}
	}
}

func TestSnapshotClone(t *testing.T) {
	orig := sampleSnapshot()
	c := orig.Clone()
	c.Sessions[0].DurationMinutes = 1
	c.Tasks[0].Text = "changed"

	if orig.Sessions[0].DurationMinutes != 50 || orig.Tasks[0].Text != "Write docs" {
		t.Error("Clone() shares slices with the original")
	}
}
