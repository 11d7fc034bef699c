package ui

import (
	"fmt"
	"strings"

	"tomato/internal/app"
	"tomato/internal/sessionlog"
	"tomato/internal/stats"

	tea "github.com/charmbracelet/bubbletea"
)

// recentSessions is how many log entries the stats pane lists.
const recentSessions = 5

// StatsPane shows daily progress, streaks and recent sessions. It is
// read-only.
type StatsPane struct {
	ctrl    *app.Controller
	focused bool
	width   int
	height  int
	styles  *Styles
}

// NewStatsPane creates a stats pane.
func NewStatsPane(ctrl *app.Controller, styles *Styles) *StatsPane {
	return &StatsPane{ctrl: ctrl, styles: styles}
}

// SetSize sets the pane dimensions.
func (p *StatsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *StatsPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *StatsPane) IsFocused() bool {
	return p.focused
}

// Update is a no-op; the pane has no interactions.
func (p *StatsPane) Update(tea.Msg) tea.Cmd {
	return nil
}

// View renders the stats pane.
func (p *StatsPane) View() string {
	var b strings.Builder
	sum := p.ctrl.Summary()

	b.WriteString(p.styles.PaneTitleStyle.Render("📊 STATS"))
	b.WriteString("\n")
	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(p.styles.StatLabelStyle.Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	goal := fmt.Sprintf("%d/%d (%d%%)", sum.TodayCount, sum.DailyGoal, sum.DailyProgress)
	if sum.GoalMet() {
		goal += " ✓"
	}
	p.row(&b, "Today:  ", goal)
	b.WriteString("  " + p.goalBar(sum, max(10, sepWidth-4)))
	b.WriteString("\n")

	b.WriteString("  " + p.styles.StatLabelStyle.Render("Streak: ") +
		p.styles.StreakStyle.Render(fmt.Sprintf("🔥 %d", sum.Streak.Current)) +
		p.styles.StatLabelStyle.Render(fmt.Sprintf("  best %d", sum.Streak.Longest)))
	b.WriteString("\n")

	p.row(&b, "Week:   ", stats.FormatMinutes(sum.WeeklyMinutes))
	p.row(&b, "Month:  ", stats.FormatMinutes(sum.MonthlyMinutes))
	p.row(&b, "Total:  ", stats.FormatMinutes(sum.TotalFocusMinutes))
	p.row(&b, "Avg/day:", " "+stats.FormatMinutes(sum.AverageDaily))

	b.WriteString("\n")
	b.WriteString("  " + p.styles.StatLabelStyle.Render("Recent:"))
	b.WriteString("\n")
	records := p.ctrl.Records()
	if len(records) == 0 {
		b.WriteString("    " + p.styles.StatLabelStyle.Render("No sessions yet"))
		b.WriteString("\n")
	}
	for i, r := range records {
		if i >= recentSessions {
			break
		}
		b.WriteString("    " + p.renderRecord(r))
		b.WriteString("\n")
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

func (p *StatsPane) row(b *strings.Builder, label, value string) {
	b.WriteString("  " + p.styles.StatLabelStyle.Render(label) + p.styles.StatValueStyle.Render(value))
	b.WriteString("\n")
}

func (p *StatsPane) goalBar(sum stats.Summary, width int) string {
	filled := min(width, sum.DailyProgress*width/100)
	return p.styles.ProgressFull.Render(strings.Repeat("█", filled)) +
		p.styles.ProgressEmpty.Render(strings.Repeat("░", width-filled))
}

func (p *StatsPane) renderRecord(r sessionlog.Record) string {
	line := fmt.Sprintf("%s %s %s",
		p.styles.StatLabelStyle.Render(r.CompletedAt.Format("Jan 02 15:04")),
		r.Phase.Label(),
		p.styles.StatLabelStyle.Render(fmt.Sprintf("%dm", r.DurationMinutes)),
	)
	if r.TaskID != "" {
		if t, ok := p.taskText(r.TaskID); ok {
			line += " " + p.styles.TaskCurrentStyle.Render(t)
		}
	}
	return line
}

func (p *StatsPane) taskText(id string) (string, bool) {
	t, err := p.ctrl.FindTask(id)
	if err != nil {
		return "", false
	}
	return t.Text, true
}
