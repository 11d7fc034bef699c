package main

import (
	"fmt"
	"io"
	"time"

	"tomato/internal/config"
	"tomato/internal/history"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Keep a git history of the data directory",
		Long: `With history enabled every save is committed to a local git repository
in the data directory, so earlier states can be inspected or restored with
plain git.

  history:
    enabled: true
    commit_message: auto   # or a fixed message`,
	}

	var enable bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the git repository in the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, cfg, err := openRecorder(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			dataDir := cfg.GetDataDir()

			if rec.IsRepo() {
				fmt.Fprintf(out, "Git repository already initialized in %s\n", dataDir)
			} else {
				fmt.Fprintf(out, "Initializing git repository in %s...\n", dataDir)
				if err := rec.Init(); err != nil {
					return err
				}
				fmt.Fprintln(out, "Repository initialized successfully!")
			}

			if cfg.History.Enabled {
				return nil
			}
			if !enable {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Enable history in your config to commit every change:")
				fmt.Fprintln(out, "  history:")
				fmt.Fprintln(out, "    enabled: true")
				fmt.Fprintln(out, "or run 'tomato history init --enable'.")
				return nil
			}
			return enableHistory(out)
		},
	}
	initCmd.Flags().BoolVar(&enable, "enable", false, "also turn history on in the config file")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the history repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, cfg, err := openRecorder(opts)
			if err != nil {
				return err
			}
			st, err := rec.Status()
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}
			printHistoryStatus(cmd.OutOrStdout(), cfg, st, time.Now())
			return nil
		},
	}

	var count int
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "List recent history commits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, _, err := openRecorder(opts)
			if err != nil {
				return err
			}
			commits, err := rec.Log(count)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			now := time.Now()
			for _, c := range commits {
				fmt.Fprintf(out, "%s  %-16s %s\n", c.Hash, formatTimeAgo(c.When, now), c.Subject)
			}
			return nil
		},
	}
	logCmd.Flags().IntVarP(&count, "count", "n", 10, "number of commits to show")

	cmd.AddCommand(initCmd, statusCmd, logCmd)
	return cmd
}

func openRecorder(opts *rootOptions) (*history.Recorder, *config.Config, error) {
	if !history.IsGitInstalled() {
		return nil, nil, fmt.Errorf("git is not installed, install git to keep a history")
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	rec := history.New(cfg.GetDataDir(), history.Config{
		Enabled:       cfg.History.Enabled,
		CommitMessage: cfg.History.CommitMessage,
	}, nil)
	return rec, cfg, nil
}

// enableHistory turns history on in the config file. The file is reloaded
// so command-line overrides are not persisted.
func enableHistory(out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.History.Enabled = true
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(out, "History enabled in %s\n", config.Path())
	return nil
}

func printHistoryStatus(out io.Writer, cfg *config.Config, st *history.Status, now time.Time) {
	fmt.Fprintln(out, "History Status")
	fmt.Fprintln(out, "──────────────")
	if cfg.History.Enabled {
		fmt.Fprintln(out, "History:     enabled")
	} else {
		fmt.Fprintln(out, "History:     disabled")
	}
	fmt.Fprintf(out, "Data dir:    %s\n", cfg.GetDataDir())

	if !st.IsRepo {
		fmt.Fprintln(out, "Repository:  not initialized")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'tomato history init' to initialize.")
		return
	}

	fmt.Fprintln(out, "Repository:  initialized")
	fmt.Fprintf(out, "Commits:     %d\n", st.Commits)
	if st.HasChanges {
		fmt.Fprintln(out, "Changes:     uncommitted changes present")
	} else {
		fmt.Fprintln(out, "Changes:     clean")
	}
	if st.LastCommitAt != nil {
		fmt.Fprintf(out, "Last commit: %s\n", formatTimeAgo(*st.LastCommitAt, now))
	}
}

func formatTimeAgo(t, now time.Time) string {
	d := now.Sub(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour") + " ago"
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "yesterday"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("Jan 2, 2006")
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
