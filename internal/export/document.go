// Package export renders the pomodoro data as a downloadable document in
// JSON, Markdown or CSV.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tomato/internal/fsutil"
	"tomato/internal/sessionlog"
	"tomato/internal/stats"
	"tomato/internal/tasks"
)

// Format names accepted by Render.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)

// Document is the exported data set.
type Document struct {
	Sessions       []sessionlog.Record `json:"sessions"`
	Tasks          []tasks.Task        `json:"tasks"`
	Streak         int                 `json:"streak"`
	LongestStreak  int                 `json:"longestStreak"`
	TotalFocusTime int                 `json:"totalFocusTime"`
	DailyGoal      int                 `json:"dailyGoal"`
	ExportedAt     time.Time           `json:"exportedAt"`

	// Summary is rendered in Markdown only.
	Summary *stats.Summary `json:"-"`
}

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("invalid format %q (use json, markdown or csv)", name)
	}
}

// Extension returns the file extension for format, without the dot.
func Extension(format string) string {
	if format == FormatMarkdown {
		return "md"
	}
	return format
}

// DefaultFilename returns pomodoro-data-YYYY-MM-DD.<ext>.
func DefaultFilename(now time.Time, format string) string {
	return fmt.Sprintf("pomodoro-data-%s.%s", now.Format("2006-01-02"), Extension(format))
}

// Render formats doc according to format.
func Render(doc *Document, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return JSON(doc)
	case FormatMarkdown:
		return []byte(Markdown(doc)), nil
	case FormatCSV:
		return CSV(doc)
	default:
		return nil, fmt.Errorf("invalid format %q", format)
	}
}

// WriteFile stores rendered output at path, creating missing directories.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := fsutil.WriteFileAtomic(path, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
