package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"tomato/internal/app"
	"tomato/internal/importer"
	"tomato/internal/tasks"

	"github.com/spf13/cobra"
)

// shortIDLen is how much of a task id the CLI prints. Any unique prefix is
// accepted back.
const shortIDLen = 8

func newTaskCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the tasks focus sessions are credited to",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add TEXT...",
			Short: "Add a task",
			Args:  cobra.MinimumNArgs(1),
			RunE: withController(opts, func(ctrl *app.Controller, out io.Writer, args []string) error {
				t, err := ctrl.AddTask(strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Added %s: %s\n", shortID(t.ID), t.Text)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List tasks, newest first",
			Args:  cobra.NoArgs,
			RunE: withController(opts, func(ctrl *app.Controller, out io.Writer, args []string) error {
				printTasks(out, ctrl)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "done ID",
			Short: "Mark a task complete",
			Args:  cobra.ExactArgs(1),
			RunE: withController(opts, func(ctrl *app.Controller, out io.Writer, args []string) error {
				t, err := ctrl.FindTask(args[0])
				if err != nil {
					return taskLookupError(args[0], err)
				}
				if t.Completed {
					fmt.Fprintf(out, "Already complete: %s\n", t.Text)
					return nil
				}
				if _, err := ctrl.ToggleTask(t.ID); err != nil {
					return err
				}
				fmt.Fprintf(out, "Completed: %s\n", t.Text)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "select [ID]",
			Short: "Credit upcoming focus sessions to a task (no ID clears)",
			Args:  cobra.MaximumNArgs(1),
			RunE: withController(opts, func(ctrl *app.Controller, out io.Writer, args []string) error {
				if len(args) == 0 {
					ctrl.ClearTask()
					fmt.Fprintln(out, "No task selected")
					return nil
				}
				t, err := ctrl.FindTask(args[0])
				if err != nil {
					return taskLookupError(args[0], err)
				}
				if !ctrl.SelectTask(t.ID) {
					return fmt.Errorf("task %s is completed and cannot be selected", shortID(t.ID))
				}
				fmt.Fprintf(out, "Focusing on: %s\n", t.Text)
				return nil
			}),
		},
		newTaskImportCmd(opts),
	)
	return cmd
}

func newTaskImportCmd(opts *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import FORMAT FILE",
		Short: "Import tasks from Todoist or Taskwarrior",
		Long: `Import tasks from another app. Tasks whose text already exists are skipped.

Formats:
  todoist       CSV backup (Settings > Backups in Todoist)
  taskwarrior   output of 'task export' (JSON array or one object per line)

Use - as FILE to read from stdin.`,
		Example: `  tomato task import todoist ~/Downloads/Inbox.csv
  task export | tomato task import taskwarrior -`,
		Args: cobra.ExactArgs(2),
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "list the tasks without importing")

	cmd.RunE = func(c *cobra.Command, args []string) error {
		parser := importer.Get(args[0])
		if parser == nil {
			return fmt.Errorf("unknown format %q (supported: %s)", args[0], strings.Join(importer.SupportedFormats(), ", "))
		}

		var in io.Reader = c.InOrStdin()
		if args[1] != "-" {
			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer f.Close()
			in = f
		}

		items, err := parser.Parse(in)
		if err != nil {
			return fmt.Errorf("failed to parse %s export: %w", parser.Name(), err)
		}

		out := c.OutOrStdout()
		if dryRun {
			for _, item := range items {
				box := "[ ]"
				if item.Done {
					box = "[x]"
				}
				fmt.Fprintf(out, "%s %s\n", box, item.Text)
			}
			fmt.Fprintf(out, "\n%d task(s) would be imported\n", len(items))
			return nil
		}

		return withController(opts, func(ctrl *app.Controller, out io.Writer, _ []string) error {
			res := importer.Import(items, ctrl)
			fmt.Fprintf(out, "✓ Imported %d task(s) from %s", res.Imported, parser.Name())
			if res.Skipped > 0 {
				fmt.Fprintf(out, ", skipped %d duplicate(s)", res.Skipped)
			}
			fmt.Fprintln(out)
			for _, msg := range res.Errors {
				fmt.Fprintf(out, "  ✗ %s\n", msg)
			}
			return nil
		})(c, args)
	}
	return cmd
}

// withController opens a non-interactive environment around fn and saves
// on the way out.
func withController(opts *rootOptions, fn func(*app.Controller, io.Writer, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(opts, envOptions{})
		if err != nil {
			return err
		}
		runErr := fn(e.ctrl, cmd.OutOrStdout(), args)
		if err := e.Close(); err != nil && runErr == nil {
			runErr = fmt.Errorf("failed to save data: %w", err)
		}
		return runErr
	}
}

func printTasks(out io.Writer, ctrl *app.Controller) {
	list := ctrl.Tasks()
	if len(list) == 0 {
		fmt.Fprintln(out, "No tasks yet. Add one with 'tomato task add TEXT'.")
		return
	}

	current, _ := ctrl.CurrentTask()
	done := 0
	for _, t := range list {
		marker := " "
		if t.ID == current.ID {
			marker = "*"
		}
		box := "[ ]"
		if t.Completed {
			box = "[x]"
			done++
		}
		fmt.Fprintf(out, "%s %s %s  %s", marker, shortID(t.ID), box, t.Text)
		if t.SessionCount > 0 {
			fmt.Fprintf(out, "  (%d)", t.SessionCount)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "\n%d/%d complete\n", done, len(list))
}

func taskLookupError(prefix string, err error) error {
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		return fmt.Errorf("no task matches %q", prefix)
	case errors.Is(err, tasks.ErrAmbiguous):
		return fmt.Errorf("%q matches more than one task, use more characters", prefix)
	}
	return err
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}
