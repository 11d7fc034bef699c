// Package tasks holds the task list and the current-task selection that
// completed work sessions are credited to.
package tasks

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const maxTextLen = 200

var (
	ErrNotFound  = errors.New("task not found")
	ErrEmptyText = errors.New("task text is required")
	ErrAmbiguous = errors.New("task id prefix is ambiguous")
)

// Task is a unit of work that focus sessions can be credited to.
type Task struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	Completed    bool      `json:"completed"`
	SessionCount int       `json:"session_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Registry stores tasks newest first and a weak reference to the current
// task. The reference is an id and may dangle; Current resolves it.
type Registry struct {
	tasks     []Task
	currentID string
	now       func() time.Time
}

// NewRegistry returns an empty registry. A nil clock selects time.Now.
func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{now: now}
}

// Add creates an open task at the front of the list.
func (r *Registry) Add(text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyText
	}
	if utf8.RuneCountInString(text) > maxTextLen {
		return Task{}, fmt.Errorf("task text too long (max %d)", maxTextLen)
	}

	t := Task{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: r.now(),
	}
	r.tasks = append([]Task{t}, r.tasks...)
	return t, nil
}

// Toggle flips the completed flag of id and returns the updated task.
// Completing the current task clears the selection.
func (r *Registry) Toggle(id string) (Task, error) {
	i := r.index(id)
	if i < 0 {
		return Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	r.tasks[i].Completed = !r.tasks[i].Completed
	if r.tasks[i].Completed && r.currentID == id {
		r.currentID = ""
	}
	return r.tasks[i], nil
}

// Select makes id the current task. Unknown and completed tasks are
// ignored and Select reports false.
func (r *Registry) Select(id string) bool {
	i := r.index(id)
	if i < 0 || r.tasks[i].Completed {
		return false
	}
	r.currentID = id
	return true
}

// SelectNone clears the current task.
func (r *Registry) SelectNone() {
	r.currentID = ""
}

// CurrentID returns the raw reference, which may not resolve.
func (r *Registry) CurrentID() string {
	return r.currentID
}

// Current resolves the current task.
func (r *Registry) Current() (Task, bool) {
	if r.currentID == "" {
		return Task{}, false
	}
	i := r.index(r.currentID)
	if i < 0 {
		return Task{}, false
	}
	return r.tasks[i], true
}

// Credit adds one completed session to id. Unknown ids are ignored.
func (r *Registry) Credit(id string) bool {
	i := r.index(id)
	if i < 0 {
		return false
	}
	r.tasks[i].SessionCount++
	return true
}

// Get returns the task with the exact id.
func (r *Registry) Get(id string) (Task, bool) {
	i := r.index(id)
	if i < 0 {
		return Task{}, false
	}
	return r.tasks[i], true
}

// Find resolves a full id or a unique id prefix.
func (r *Registry) Find(prefix string) (Task, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return Task{}, ErrNotFound
	}
	if t, ok := r.Get(prefix); ok {
		return t, nil
	}

	var match *Task
	for i := range r.tasks {
		if strings.HasPrefix(r.tasks[i].ID, prefix) {
			if match != nil {
				return Task{}, fmt.Errorf("%w: %s", ErrAmbiguous, prefix)
			}
			match = &r.tasks[i]
		}
	}
	if match == nil {
		return Task{}, fmt.Errorf("%w: %s", ErrNotFound, prefix)
	}
	return *match, nil
}

// Tasks returns a copy of every task, newest first.
func (r *Registry) Tasks() []Task {
	out := make([]Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// Open returns the tasks that are not completed.
func (r *Registry) Open() []Task {
	var out []Task
	for _, t := range r.tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// Restore replaces the registry contents with persisted data. Tasks with an
// empty id get a fresh one.
func (r *Registry) Restore(tasks []Task, currentID string) {
	r.tasks = make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if t.SessionCount < 0 {
			t.SessionCount = 0
		}
		r.tasks = append(r.tasks, t)
	}
	r.currentID = currentID
}

func (r *Registry) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
