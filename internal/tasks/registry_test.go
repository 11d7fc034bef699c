package tasks

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	fixed := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	return NewRegistry(func() time.Time { return fixed })
}

func TestAdd(t *testing.T) {
	r := newTestRegistry(t)

	first, err := r.Add("  Write report  ")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if first.Text != "Write report" {
		t.Errorf("Text = %q, want trimmed", first.Text)
	}
	if first.ID == "" || first.Completed || first.SessionCount != 0 {
		t.Errorf("new task = %+v", first)
	}

	second, _ := r.Add("Review PR")
	got := r.Tasks()
	if len(got) != 2 || got[0].ID != second.ID {
		t.Errorf("Tasks() not newest first: %+v", got)
	}
	if first.ID == second.ID {
		t.Error("ids are not unique")
	}
}

func TestAdd_Validation(t *testing.T) {
	r := newTestRegistry(t)

	if _, err := r.Add("   "); !errors.Is(err, ErrEmptyText) {
		t.Errorf("Add(blank) error = %v, want ErrEmptyText", err)
	}
	if _, err := r.Add(strings.Repeat("x", maxTextLen+1)); err == nil {
		t.Error("Add(long) error = nil, want error")
	}
	if _, err := r.Add(strings.Repeat("é", maxTextLen)); err != nil {
		t.Errorf("Add(%d runes) error = %v", maxTextLen, err)
	}
}

func TestToggle(t *testing.T) {
	r := newTestRegistry(t)
	task, _ := r.Add("Focus")

	got, err := r.Toggle(task.ID)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !got.Completed {
		t.Error("Completed = false after first toggle")
	}

	got, _ = r.Toggle(task.ID)
	if got.Completed {
		t.Error("Completed = true after second toggle")
	}

	if _, err := r.Toggle("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Toggle(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSelect(t *testing.T) {
	r := newTestRegistry(t)
	open, _ := r.Add("Open")
	done, _ := r.Add("Done")
	r.Toggle(done.ID)

	if r.Select(done.ID) {
		t.Error("Select(completed) = true")
	}
	if r.Select("missing") {
		t.Error("Select(missing) = true")
	}
	if _, ok := r.Current(); ok {
		t.Error("Current() set after rejected selections")
	}

	if !r.Select(open.ID) {
		t.Fatal("Select(open) = false")
	}
	cur, ok := r.Current()
	if !ok || cur.ID != open.ID {
		t.Errorf("Current() = %+v, %v", cur, ok)
	}

	r.SelectNone()
	if r.CurrentID() != "" {
		t.Error("SelectNone() kept the selection")
	}
}

func TestToggle_ClearsCurrent(t *testing.T) {
	r := newTestRegistry(t)
	task, _ := r.Add("Focus")
	r.Select(task.ID)
	r.Toggle(task.ID)

	if _, ok := r.Current(); ok {
		t.Error("completed task still current")
	}
}

func TestCurrent_DanglingReference(t *testing.T) {
	r := newTestRegistry(t)
	r.Restore([]Task{{ID: "a", Text: "A"}}, "gone")

	if r.CurrentID() != "gone" {
		t.Errorf("CurrentID() = %q", r.CurrentID())
	}
	if _, ok := r.Current(); ok {
		t.Error("Current() resolved a dangling id")
	}
}

func TestCredit(t *testing.T) {
	r := newTestRegistry(t)
	task, _ := r.Add("Focus")

	r.Credit(task.ID)
	r.Credit(task.ID)
	if r.Credit("missing") {
		t.Error("Credit(missing) = true")
	}

	got, _ := r.Get(task.ID)
	if got.SessionCount != 2 {
		t.Errorf("SessionCount = %d, want 2", got.SessionCount)
	}
}

func TestFind(t *testing.T) {
	r := newTestRegistry(t)
	r.Restore([]Task{
		{ID: "abc123", Text: "one"},
		{ID: "abd456", Text: "two"},
	}, "")

	tests := []struct {
		prefix  string
		want    string
		wantErr error
	}{
		{"abc123", "abc123", nil},
		{"abd", "abd456", nil},
		{"ab", "", ErrAmbiguous},
		{"zz", "", ErrNotFound},
		{"", "", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got, err := r.Find(tt.prefix)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Find() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || got.ID != tt.want {
				t.Errorf("Find() = %q, %v; want %q", got.ID, err, tt.want)
			}
		})
	}
}

func TestRestore(t *testing.T) {
	r := newTestRegistry(t)
	r.Restore([]Task{
		{ID: "", Text: "no id"},
		{ID: "x", Text: "neg", SessionCount: -3, Completed: true},
	}, "x")

	got := r.Tasks()
	if got[0].ID == "" {
		t.Error("Restore() kept an empty id")
	}
	if got[1].SessionCount != 0 {
		t.Errorf("SessionCount = %d, want clamped 0", got[1].SessionCount)
	}
	if len(r.Open()) != 1 {
		t.Errorf("Open() = %d tasks, want 1", len(r.Open()))
	}
}
