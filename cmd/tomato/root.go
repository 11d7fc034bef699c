package main

import (
	"fmt"

	"tomato/internal/ui"

	"github.com/spf13/cobra"
)

// narrowLayoutThreshold is the terminal width below which the TUI shows one
// pane at a time.
const narrowLayoutThreshold = 80

type rootOptions struct {
	dataDir string
	storage string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "tomato",
		Short: "A pomodoro timer for your terminal",
		Long: `tomato is a keyboard-driven pomodoro timer.

Focus sessions alternate with short breaks, with a long break after every
fourth session. Sessions can be credited to tasks, a daily goal builds a
streak, and everything is stored locally in ~/.tomato.

Run without arguments to open the interactive timer.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts, false)
		},
	}

	cmd.SetVersionTemplate("tomato version {{.Version}}\n")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "data directory (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.storage, "storage", "", "storage backend: json or sqlite (overrides config)")

	cmd.AddCommand(
		newStartCmd(opts),
		newStatsCmd(opts),
		newTaskCmd(opts),
		newSettingsCmd(opts),
		newExportCmd(opts),
		newHistoryCmd(opts),
		newBackupCmd(opts),
		newRestoreCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// runTUI opens the environment with alerts and sound and runs the
// full-screen app until the user quits. start begins a focus session
// before the first frame.
func runTUI(opts *rootOptions, start bool) error {
	e, err := openEnv(opts, envOptions{interactive: true, logToFile: true})
	if err != nil {
		return err
	}

	if start {
		e.ctrl.Start()
	}
	runErr := ui.Run(e.ctrl, &ui.AppConfig{
		Keys:                  &e.cfg.Keys,
		Theme:                 e.cfg.Theme,
		NarrowLayoutThreshold: narrowLayoutThreshold,
	})
	if err := e.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to save data: %w", err)
	}
	return runErr
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tomato version %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
		},
	}
}
