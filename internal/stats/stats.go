// Package stats derives streaks and focus totals from the session log.
//
// Every function takes the reference time explicitly so callers control the
// clock. Calendar days are local days.
package stats

import (
	"fmt"
	"time"

	"tomato/internal/sessionlog"
)

// Streak holds the current run of goal-meeting days and its high-water mark.
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// ComputeStreak counts consecutive days, walking back from now, on which the
// number of work sessions reached goal. Today is evaluated first: a day
// short of the goal ends the walk, today included.
func ComputeStreak(log *sessionlog.Log, goal int, now time.Time) int {
	if goal <= 0 {
		return 0
	}

	perDay := workPerDay(log)
	streak := 0
	date := startOfDay(now)
	for perDay[sessionlog.DayKey(date)] >= goal {
		streak++
		date = date.AddDate(0, 0, -1)
	}
	return streak
}

// Recompute returns the streak for now, keeping prev's longest value when it
// is higher.
func Recompute(prev Streak, log *sessionlog.Log, goal int, now time.Time) Streak {
	current := ComputeStreak(log, goal, now)
	longest := prev.Longest
	if current > longest {
		longest = current
	}
	return Streak{Current: current, Longest: longest}
}

// TodayCount returns the number of work sessions completed on now's day.
func TodayCount(log *sessionlog.Log, now time.Time) int {
	return log.Count(sessionlog.OfType(sessionlog.KindWork), sessionlog.OnDay(now))
}

// WeeklyFocusMinutes sums work minutes over the trailing 7 days.
func WeeklyFocusMinutes(log *sessionlog.Log, now time.Time) int {
	return focusSince(log, now.AddDate(0, 0, -7))
}

// MonthlyFocusMinutes sums work minutes over the trailing 30 days.
func MonthlyFocusMinutes(log *sessionlog.Log, now time.Time) int {
	return focusSince(log, now.AddDate(0, 0, -30))
}

func focusSince(log *sessionlog.Log, since time.Time) int {
	total := 0
	for _, r := range log.Query(sessionlog.OfType(sessionlog.KindWork), sessionlog.Since(since)) {
		total += r.DurationMinutes
	}
	return total
}

// AverageDailyFocusMinutes divides totalFocus by the number of distinct days
// holding any record. It returns 0 for an empty log.
func AverageDailyFocusMinutes(totalFocus int, log *sessionlog.Log) int {
	days := make(map[string]struct{})
	for _, r := range log.Records() {
		days[sessionlog.DayKey(r.CompletedAt)] = struct{}{}
	}
	if len(days) == 0 {
		return 0
	}
	return totalFocus / len(days)
}

// DailyProgress returns today's share of the goal as a percentage capped
// at 100.
func DailyProgress(log *sessionlog.Log, goal int, now time.Time) int {
	if goal <= 0 {
		return 0
	}
	pct := TodayCount(log, now) * 100 / goal
	if pct > 100 {
		return 100
	}
	return pct
}

// FormatMinutes renders a minute count as "1h 5m" or "25m".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

func workPerDay(log *sessionlog.Log) map[string]int {
	counts := make(map[string]int)
	for _, r := range log.Query(sessionlog.OfType(sessionlog.KindWork)) {
		counts[sessionlog.DayKey(r.CompletedAt)]++
	}
	return counts
}

func startOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
