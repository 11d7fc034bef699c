// Package importer brings tasks over from other productivity tools such as
// Todoist and Taskwarrior.
package importer

import (
	"fmt"
	"io"
	"strings"

	"tomato/internal/tasks"
)

// Item is one task read from an export file.
type Item struct {
	Text string
	Done bool
}

// Result counts what an import did.
type Result struct {
	Imported int
	Skipped  int      // duplicates of tasks that already exist
	Errors   []string // per-item failures
}

// Parser reads tasks in one external format.
type Parser interface {
	Parse(r io.Reader) ([]Item, error)
	Name() string
}

// TaskSink receives imported tasks. app.Controller implements it.
type TaskSink interface {
	Tasks() []tasks.Task
	AddTask(text string) (tasks.Task, error)
	ToggleTask(id string) (tasks.Task, error)
}

// Get returns the parser for format, or nil.
func Get(format string) Parser {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "todoist":
		return &TodoistParser{}
	case "taskwarrior":
		return &TaskwarriorParser{}
	default:
		return nil
	}
}

// SupportedFormats lists the names accepted by Get.
func SupportedFormats() []string {
	return []string{"todoist", "taskwarrior"}
}

// Import adds items to dst. Items whose text matches an existing task or an
// earlier item are skipped. The registry lists newest first, so the kept
// items are added in reverse to keep the file order on screen.
func Import(items []Item, dst TaskSink) *Result {
	seen := make(map[string]bool)
	for _, t := range dst.Tasks() {
		seen[strings.ToLower(t.Text)] = true
	}

	res := &Result{}
	var keep []Item
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item.Text))
		if seen[key] {
			res.Skipped++
			continue
		}
		seen[key] = true
		keep = append(keep, item)
	}

	for i := len(keep) - 1; i >= 0; i-- {
		item := keep[i]
		t, err := dst.AddTask(item.Text)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", item.Text, err))
			continue
		}

		if item.Done {
			if _, err := dst.ToggleTask(t.ID); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("failed to mark %s as complete: %v", item.Text, err))
			}
		}
		res.Imported++
	}
	return res
}
