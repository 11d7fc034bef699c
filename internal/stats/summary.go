package stats

import (
	"time"

	"tomato/internal/sessionlog"
)

// Summary bundles every derived figure shown by the stats pane and the
// stats command.
type Summary struct {
	TodayCount        int
	DailyGoal         int
	DailyProgress     int
	Streak            Streak
	WeeklyMinutes     int
	MonthlyMinutes    int
	TotalFocusMinutes int
	AverageDaily      int
	Sessions          int
}

// Summarize computes a Summary as of now. streak is the persisted value,
// already recomputed by the owner.
func Summarize(log *sessionlog.Log, goal int, streak Streak, totalFocus int, now time.Time) Summary {
	return Summary{
		TodayCount:        TodayCount(log, now),
		DailyGoal:         goal,
		DailyProgress:     DailyProgress(log, goal, now),
		Streak:            streak,
		WeeklyMinutes:     WeeklyFocusMinutes(log, now),
		MonthlyMinutes:    MonthlyFocusMinutes(log, now),
		TotalFocusMinutes: totalFocus,
		AverageDaily:      AverageDailyFocusMinutes(totalFocus, log),
		Sessions:          log.Len(),
	}
}

// GoalMet reports whether today's work sessions reached the goal.
func (s Summary) GoalMet() bool {
	return s.DailyGoal > 0 && s.TodayCount >= s.DailyGoal
}
