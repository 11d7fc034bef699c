package stats

import (
	"testing"
	"time"

	"tomato/internal/sessionlog"
	"tomato/internal/timer"
)

var now = time.Date(2025, 6, 18, 15, 0, 0, 0, time.Local)

func daysAgo(n, hour int) time.Time {
	d := now.AddDate(0, 0, -n)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.Local)
}

func logWith(records ...sessionlog.Record) *sessionlog.Log {
	l := sessionlog.New(0)
	l.Restore(records)
	return l
}

func work(at time.Time, minutes int) sessionlog.Record {
	return sessionlog.Record{Type: sessionlog.KindWork, Phase: timer.PhaseWork, DurationMinutes: minutes, CompletedAt: at}
}

func rest(at time.Time, minutes int) sessionlog.Record {
	return sessionlog.Record{Type: sessionlog.KindBreak, Phase: timer.PhaseShortBreak, DurationMinutes: minutes, CompletedAt: at}
}

func TestComputeStreak(t *testing.T) {
	tests := []struct {
		name    string
		records []sessionlog.Record
		goal    int
		want    int
	}{
		{
			name: "stops at short day",
			records: []sessionlog.Record{
				work(daysAgo(0, 9), 25), work(daysAgo(0, 10), 25),
				work(daysAgo(1, 9), 25), work(daysAgo(1, 10), 25),
				work(daysAgo(2, 9), 25),
			},
			goal: 2,
			want: 2,
		},
		{
			name:    "empty log",
			records: nil,
			goal:    1,
			want:    0,
		},
		{
			name: "today below goal breaks immediately",
			records: []sessionlog.Record{
				work(daysAgo(0, 9), 25),
				work(daysAgo(1, 9), 25), work(daysAgo(1, 10), 25),
				work(daysAgo(2, 9), 25), work(daysAgo(2, 10), 25),
			},
			goal: 2,
			want: 0,
		},
		{
			name: "breaks do not count",
			records: []sessionlog.Record{
				work(daysAgo(0, 9), 25), rest(daysAgo(0, 10), 5),
			},
			goal: 2,
			want: 0,
		},
		{
			name: "gap ends the walk",
			records: []sessionlog.Record{
				work(daysAgo(0, 9), 25),
				work(daysAgo(1, 9), 25),
				work(daysAgo(3, 9), 25),
			},
			goal: 1,
			want: 2,
		},
		{
			name: "late night sessions stay on their day",
			records: []sessionlog.Record{
				work(daysAgo(0, 0), 25),
				work(daysAgo(1, 23), 25),
			},
			goal: 1,
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStreak(logWith(tt.records...), tt.goal, now)
			if got != tt.want {
				t.Errorf("ComputeStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRecompute_LongestNeverDecreases(t *testing.T) {
	l := logWith(
		work(daysAgo(0, 9), 25),
		work(daysAgo(1, 9), 25),
		work(daysAgo(2, 9), 25),
	)

	s := Recompute(Streak{}, l, 1, now)
	if s.Current != 3 || s.Longest != 3 {
		t.Fatalf("Recompute() = %+v, want 3/3", s)
	}

	// The next day has no sessions, so the chain breaks.
	tomorrow := now.AddDate(0, 0, 1)
	s = Recompute(s, l, 1, tomorrow)
	if s.Current != 0 {
		t.Errorf("Current = %d, want 0", s.Current)
	}
	if s.Longest != 3 {
		t.Errorf("Longest = %d, want 3", s.Longest)
	}

	s = Recompute(Streak{Current: 0, Longest: 10}, l, 1, now)
	if s.Longest != 10 {
		t.Errorf("Longest = %d, want persisted 10", s.Longest)
	}
}

func TestTodayCount(t *testing.T) {
	l := logWith(
		work(daysAgo(0, 8), 25),
		work(daysAgo(0, 9), 25),
		rest(daysAgo(0, 10), 5),
		work(daysAgo(1, 9), 25),
	)
	if got := TodayCount(l, now); got != 2 {
		t.Errorf("TodayCount() = %d, want 2", got)
	}
}

func TestFocusTotals(t *testing.T) {
	l := logWith(
		work(daysAgo(0, 9), 25),
		rest(daysAgo(0, 10), 5),
		work(daysAgo(6, 9), 50),
		work(daysAgo(10, 9), 30),
		work(daysAgo(40, 9), 60),
	)

	if got := WeeklyFocusMinutes(l, now); got != 75 {
		t.Errorf("WeeklyFocusMinutes() = %d, want 75", got)
	}
	if got := MonthlyFocusMinutes(l, now); got != 105 {
		t.Errorf("MonthlyFocusMinutes() = %d, want 105", got)
	}
}

func TestWeeklyBoundaryInclusive(t *testing.T) {
	l := logWith(work(now.AddDate(0, 0, -7), 25))
	if got := WeeklyFocusMinutes(l, now); got != 25 {
		t.Errorf("WeeklyFocusMinutes() = %d, want 25", got)
	}
}

func TestAverageDailyFocusMinutes(t *testing.T) {
	if got := AverageDailyFocusMinutes(100, sessionlog.New(0)); got != 0 {
		t.Errorf("empty log average = %d, want 0", got)
	}

	l := logWith(
		work(daysAgo(0, 9), 25),
		rest(daysAgo(1, 9), 5),
		work(daysAgo(2, 9), 25),
		work(daysAgo(2, 10), 25),
	)
	if got := AverageDailyFocusMinutes(90, l); got != 30 {
		t.Errorf("AverageDailyFocusMinutes() = %d, want 30", got)
	}
}

func TestDailyProgress(t *testing.T) {
	l := logWith(work(daysAgo(0, 9), 25), work(daysAgo(0, 10), 25), work(daysAgo(0, 11), 25))

	tests := []struct {
		goal int
		want int
	}{
		{goal: 4, want: 75},
		{goal: 3, want: 100},
		{goal: 1, want: 100},
		{goal: 0, want: 0},
	}
	for _, tt := range tests {
		if got := DailyProgress(l, tt.goal, now); got != tt.want {
			t.Errorf("DailyProgress(goal=%d) = %d, want %d", tt.goal, got, tt.want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := map[int]string{
		0:   "0m",
		25:  "25m",
		60:  "1h 0m",
		65:  "1h 5m",
		-10: "0m",
	}
	for in, want := range tests {
		if got := FormatMinutes(in); got != want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestSummarize(t *testing.T) {
	l := logWith(work(daysAgo(0, 9), 25), work(daysAgo(0, 10), 25))
	s := Summarize(l, 2, Streak{Current: 1, Longest: 4}, 50, now)

	if s.TodayCount != 2 || s.DailyProgress != 100 || !s.GoalMet() {
		t.Errorf("Summarize() today = %d progress = %d goal met = %v", s.TodayCount, s.DailyProgress, s.GoalMet())
	}
	if s.WeeklyMinutes != 50 || s.MonthlyMinutes != 50 || s.AverageDaily != 50 {
		t.Errorf("Summarize() totals = %+v", s)
	}
	if s.Streak.Longest != 4 || s.Sessions != 2 {
		t.Errorf("Summarize() streak/sessions = %+v", s)
	}
}
