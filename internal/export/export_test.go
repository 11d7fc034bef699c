package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tomato/internal/sessionlog"
	"tomato/internal/stats"
	"tomato/internal/tasks"
	"tomato/internal/timer"
)

var exportedAt = time.Date(2025, 7, 4, 18, 30, 0, 0, time.UTC)

func sampleDocument() *Document {
	return &Document{
		Sessions: []sessionlog.Record{
			{Type: sessionlog.KindWork, Phase: timer.PhaseWork, DurationMinutes: 25, CompletedAt: exportedAt.Add(-time.Hour), TaskID: "t1"},
			{Type: sessionlog.KindBreak, Phase: timer.PhaseShortBreak, DurationMinutes: 5, CompletedAt: exportedAt.Add(-2 * time.Hour)},
		},
		Tasks: []tasks.Task{
			{ID: "t1", Text: "Write | report", SessionCount: 1},
			{ID: "t2", Text: "Done thing", Completed: true, SessionCount: 2},
		},
		Streak:         3,
		LongestStreak:  7,
		TotalFocusTime: 125,
		DailyGoal:      8,
		ExportedAt:     exportedAt,
	}
}

func TestJSON_ContainsRequiredFields(t *testing.T) {
	data, err := JSON(sampleDocument())
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range []string{"sessions", "tasks", "streak", "longestStreak", "totalFocusTime", "dailyGoal", "exportedAt"} {
		if _, ok := got[key]; !ok {
			t.Errorf("missing field %q", key)
		}
	}
	if got["totalFocusTime"].(float64) != 125 {
		t.Errorf("totalFocusTime = %v", got["totalFocusTime"])
	}
}

func TestJSON_EmptyListsAreArrays(t *testing.T) {
	data, err := JSON(&Document{ExportedAt: exportedAt})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"sessions": []`) || !strings.Contains(string(data), `"tasks": []`) {
		t.Errorf("empty lists not rendered as arrays:\n%s", data)
	}
}

func TestMarkdown(t *testing.T) {
	doc := sampleDocument()
	doc.Summary = &stats.Summary{TodayCount: 1, DailyGoal: 8, DailyProgress: 12, WeeklyMinutes: 25}
	out := Markdown(doc)

	wants := []string{
		"# Pomodoro Report",
		"**Streak:** 3 days (best 7)",
		"**Total focus:** 2h 5m",
		"**Today:** 1/8 sessions (12%)",
		"- [ ] Write \\| report (1 session)",
		"- [x] Done thing (2 sessions)",
		"| Focus | 25 | Write \\| report |",
		"| Short Break | 5 |  |",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q\n%s", want, out)
		}
	}
}

func TestMarkdown_Empty(t *testing.T) {
	out := Markdown(&Document{ExportedAt: exportedAt})
	if !strings.Contains(out, "_No tasks._") || !strings.Contains(out, "_No sessions recorded._") {
		t.Errorf("empty markdown = %s", out)
	}
}

func TestCSV(t *testing.T) {
	data, err := CSV(sampleDocument())
	if err != nil {
		t.Fatalf("CSV() error = %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(csvHeader, ",") {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "work" || rows[1][3] != "25" || rows[1][5] != "Write | report" {
		t.Errorf("first row = %v", rows[1])
	}
	if rows[2][2] != "short_break" || rows[2][4] != "" {
		t.Errorf("second row = %v", rows[2])
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"csv", FormatCSV, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestDefaultFilename(t *testing.T) {
	tests := map[string]string{
		FormatJSON:     "pomodoro-data-2025-07-04.json",
		FormatMarkdown: "pomodoro-data-2025-07-04.md",
		FormatCSV:      "pomodoro-data-2025-07-04.csv",
	}
	for format, want := range tests {
		if got := DefaultFilename(exportedAt, format); got != want {
			t.Errorf("DefaultFilename(%s) = %q, want %q", format, got, want)
		}
	}
}

func TestRenderAndWriteFile(t *testing.T) {
	data, err := Render(sampleDocument(), FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out", "data.csv")
	if err := WriteFile(path, data); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != string(data) {
		t.Error("written file differs from rendered output")
	}

	if _, err := Render(sampleDocument(), "xml"); err == nil {
		t.Error("Render(xml) error = nil")
	}
}
