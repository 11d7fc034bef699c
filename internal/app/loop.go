package app

import (
	"context"
	"time"

	"tomato/internal/timer"
)

// Command is a user action sent to a running Loop.
type Command int

const (
	CmdToggle Command = iota
	CmdStart
	CmdPause
	CmdReset
	CmdSkip
)

// LoopOptions configures a Loop. Nil callbacks are skipped.
type LoopOptions struct {
	// Interval between ticks; one second unless overridden.
	Interval time.Duration

	// OnTick runs after every tick, completed or not.
	OnTick func(timer.State)

	// OnComplete runs after a phase completes.
	OnComplete func(TickResult)

	// OnCommand runs after a command was applied.
	OnCommand func(Command, timer.State)
}

// Loop drives a Controller without a terminal UI. Ticks, commands and
// auto-start firings are all handled on the goroutine calling Run.
type Loop struct {
	ctrl *Controller
	opts LoopOptions

	commands  chan Command
	autoStart chan uint64
}

// NewLoop returns a loop for ctrl.
func NewLoop(ctrl *Controller, opts LoopOptions) *Loop {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	return &Loop{
		ctrl:      ctrl,
		opts:      opts,
		commands:  make(chan Command, 16),
		autoStart: make(chan uint64, 1),
	}
}

// Send queues cmd. It blocks while the queue is full or until ctx is done.
func (l *Loop) Send(ctx context.Context, cmd Command) error {
	select {
	case l.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes ticks and commands until ctx is cancelled. It returns nil
// on cancellation.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.opts.Interval)
	defer ticker.Stop()

	var pending *time.Timer
	defer func() {
		if pending != nil {
			pending.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			res, completed := l.ctrl.Tick()
			if completed {
				if l.opts.OnComplete != nil {
					l.opts.OnComplete(res)
				}
				if p := res.AutoStart; p != nil {
					if pending != nil {
						pending.Stop()
					}
					id := p.ID
					pending = time.AfterFunc(p.Delay, func() {
						select {
						case l.autoStart <- id:
						case <-ctx.Done():
						}
					})
				}
			}
			if l.opts.OnTick != nil {
				l.opts.OnTick(l.ctrl.State())
			}

		case cmd := <-l.commands:
			l.apply(cmd)
			if l.opts.OnCommand != nil {
				l.opts.OnCommand(cmd, l.ctrl.State())
			}

		case id := <-l.autoStart:
			if l.ctrl.FireAutoStart(id) && l.opts.OnCommand != nil {
				l.opts.OnCommand(CmdStart, l.ctrl.State())
			}
		}
	}
}

func (l *Loop) apply(cmd Command) {
	switch cmd {
	case CmdToggle:
		l.ctrl.Toggle()
	case CmdStart:
		l.ctrl.Start()
	case CmdPause:
		l.ctrl.Pause()
	case CmdReset:
		l.ctrl.Reset()
	case CmdSkip:
		l.ctrl.Skip()
	}
}
