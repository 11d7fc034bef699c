package export

import (
	"fmt"
	"strings"

	"tomato/internal/sessionlog"
	"tomato/internal/stats"
)

// Markdown formats doc as a human-readable report.
func Markdown(doc *Document) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Pomodoro Report\n\n")
	fmt.Fprintf(&b, "_Exported %s_\n\n", doc.ExportedAt.Format("2006-01-02 15:04"))

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Streak:** %d days (best %d)\n", doc.Streak, doc.LongestStreak)
	fmt.Fprintf(&b, "- **Total focus:** %s\n", stats.FormatMinutes(doc.TotalFocusTime))
	fmt.Fprintf(&b, "- **Daily goal:** %d sessions\n", doc.DailyGoal)
	if s := doc.Summary; s != nil {
		fmt.Fprintf(&b, "- **Today:** %d/%d sessions (%d%%)\n", s.TodayCount, s.DailyGoal, s.DailyProgress)
		fmt.Fprintf(&b, "- **Last 7 days:** %s\n", stats.FormatMinutes(s.WeeklyMinutes))
		fmt.Fprintf(&b, "- **Last 30 days:** %s\n", stats.FormatMinutes(s.MonthlyMinutes))
		fmt.Fprintf(&b, "- **Daily average:** %s\n", stats.FormatMinutes(s.AverageDaily))
	}
	b.WriteString("\n")

	b.WriteString("## Tasks\n\n")
	if len(doc.Tasks) == 0 {
		b.WriteString("_No tasks._\n\n")
	} else {
		for _, t := range doc.Tasks {
			box := " "
			if t.Completed {
				box = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s (%s)\n", box, escapeMarkdown(t.Text), plural(t.SessionCount, "session"))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Sessions\n\n")
	if len(doc.Sessions) == 0 {
		b.WriteString("_No sessions recorded._\n")
		return b.String()
	}

	taskNames := make(map[string]string, len(doc.Tasks))
	for _, t := range doc.Tasks {
		taskNames[t.ID] = t.Text
	}

	b.WriteString("| Completed | Type | Minutes | Task |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, r := range doc.Sessions {
		fmt.Fprintf(&b, "| %s | %s | %d | %s |\n",
			r.CompletedAt.Format("2006-01-02 15:04"),
			sessionLabel(r),
			r.DurationMinutes,
			escapeMarkdown(taskNames[r.TaskID]))
	}
	return b.String()
}

func sessionLabel(r sessionlog.Record) string {
	if r.Phase != "" {
		return r.Phase.Label()
	}
	if r.IsWork() {
		return "Focus"
	}
	return "Break"
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
