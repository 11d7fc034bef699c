package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"tomato/internal/app"
	"tomato/internal/timer"

	"github.com/spf13/cobra"
)

func newStartCmd(opts *rootOptions) *cobra.Command {
	var noUI bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a focus session right away",
		Long: `Start the timer immediately.

With --no-ui the timer runs in the foreground without the full-screen
interface. Progress is printed once a minute and commands are read from
stdin, one per line:

  p   pause or resume
  r   reset the current phase
  s   skip to the next phase
  q   quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !noUI {
				return runTUI(opts, true)
			}

			e, err := openEnv(opts, envOptions{interactive: true})
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runErr := runHeadless(ctx, e.ctrl, cmd.InOrStdin(), cmd.OutOrStdout())
			if err := e.Close(); err != nil && runErr == nil {
				runErr = fmt.Errorf("failed to save data: %w", err)
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&noUI, "no-ui", false, "run in the foreground without the interface")
	return cmd
}

// runHeadless drives ctrl with a Loop until ctx is done or "q" is read
// from in.
func runHeadless(ctx context.Context, ctrl *app.Controller, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := app.NewLoop(ctrl, app.LoopOptions{
		OnTick: func(s timer.State) {
			if s.Running && s.RemainingSeconds > 0 && s.RemainingSeconds%60 == 0 {
				fmt.Fprintf(out, "%s  %s remaining\n", s.Phase.Label(), formatClock(s.RemainingSeconds))
			}
		},
		OnComplete: func(res app.TickResult) {
			t := res.Transition
			fmt.Fprintf(out, "%s complete! Next: %s\n", t.From.Label(), t.To.Label())
			if res.AutoStart != nil {
				fmt.Fprintf(out, "%s starts shortly\n", t.To.Label())
			}
		},
		OnCommand: func(c app.Command, s timer.State) {
			fmt.Fprintln(out, describeCommand(c, s))
		},
	})

	if err := loop.Send(ctx, app.CmdStart); err != nil {
		return err
	}
	go readCommands(ctx, in, loop, cancel)

	return loop.Run(ctx)
}

// readCommands forwards stdin lines to loop. End of input leaves the timer
// running; only "q" or a signal stops it.
func readCommands(ctx context.Context, in io.Reader, loop *app.Loop, quit context.CancelFunc) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		var cmd app.Command
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "p", "pause", " ":
			cmd = app.CmdToggle
		case "r", "reset":
			cmd = app.CmdReset
		case "s", "skip":
			cmd = app.CmdSkip
		case "q", "quit":
			quit()
			return
		default:
			continue
		}
		if err := loop.Send(ctx, cmd); err != nil {
			return
		}
	}
}

func describeCommand(c app.Command, s timer.State) string {
	clock := formatClock(s.RemainingSeconds)
	switch c {
	case app.CmdReset:
		return fmt.Sprintf("Reset: %s  %s", s.Phase.Label(), clock)
	case app.CmdSkip:
		return fmt.Sprintf("Skipped to %s  %s", s.Phase.Label(), clock)
	}
	if s.Running {
		return fmt.Sprintf("%s started  %s", s.Phase.Label(), clock)
	}
	return fmt.Sprintf("%s paused  %s", s.Phase.Label(), clock)
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
