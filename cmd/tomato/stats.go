package main

import (
	"fmt"
	"io"

	"tomato/internal/app"
	"tomato/internal/stats"

	"github.com/spf13/cobra"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show streak, daily progress and focus totals",
		Args:  cobra.NoArgs,
		RunE: withController(opts, func(ctrl *app.Controller, out io.Writer, args []string) error {
			printSummary(out, ctrl.Summary())
			return nil
		}),
	}
}

func printSummary(w io.Writer, s stats.Summary) {
	goal := ""
	if s.GoalMet() {
		goal = "  goal met"
	}
	fmt.Fprintf(w, "Today:    %d/%d sessions (%d%%)%s\n", s.TodayCount, s.DailyGoal, s.DailyProgress, goal)
	fmt.Fprintf(w, "Streak:   %d days (best %d)\n", s.Streak.Current, s.Streak.Longest)
	fmt.Fprintf(w, "Week:     %s\n", stats.FormatMinutes(s.WeeklyMinutes))
	fmt.Fprintf(w, "Month:    %s\n", stats.FormatMinutes(s.MonthlyMinutes))
	fmt.Fprintf(w, "Total:    %s\n", stats.FormatMinutes(s.TotalFocusMinutes))
	fmt.Fprintf(w, "Average:  %s per day\n", stats.FormatMinutes(s.AverageDaily))
	fmt.Fprintf(w, "Sessions: %d logged\n", s.Sessions)
}
