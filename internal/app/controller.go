// Package app wires the timer, session log, stats and task registry into a
// single controller that the TUI and the headless loop drive.
//
// A Controller is not safe for concurrent use. Every tick, command and
// auto-start firing must come from one goroutine.
package app

import (
	"fmt"
	"io"
	"log"
	"time"

	"tomato/internal/export"
	"tomato/internal/sessionlog"
	"tomato/internal/settings"
	"tomato/internal/stats"
	"tomato/internal/storage"
	"tomato/internal/tasks"
	"tomato/internal/timer"
)

// DefaultAutoStartDelay is how long a finished phase stays on screen before
// an auto-started phase begins counting.
const DefaultAutoStartDelay = 2 * time.Second

// Saver receives a snapshot after every mutation. storage.Writer
// implements it without blocking.
type Saver interface {
	Submit(*storage.Snapshot, storage.SaveContext)
	Close() error
}

// Alerter is told about every completed phase.
type Alerter interface {
	SessionComplete(timer.Phase)
}

// Sounder plays the chime and background music.
type Sounder interface {
	Chime()
	PlayMusic(track string, volume float64)
	PauseMusic()
	StopMusic()
}

// Options configures a Controller. Zero values select no-op collaborators
// and the system clock.
type Options struct {
	Saver          Saver
	Alerter        Alerter
	Sounder        Sounder
	Logger         *log.Logger
	Now            func() time.Time
	AutoStartDelay time.Duration
}

// Pending is an auto-start waiting to fire. The driver calls FireAutoStart
// with ID once Delay has passed.
type Pending struct {
	ID    uint64
	Delay time.Duration
}

// TickResult describes a completion produced by Tick.
type TickResult struct {
	Transition timer.Transition
	Record     sessionlog.Record
	AutoStart  *Pending
}

// Controller owns all core state.
type Controller struct {
	machine *timer.Machine
	log     *sessionlog.Log
	tasks   *tasks.Registry
	prefs   settings.Preferences
	streak  stats.Streak
	focus   int

	saver   Saver
	alerter Alerter
	sounder Sounder
	logger  *log.Logger
	now     func() time.Time

	autoStartDelay time.Duration
	pendingID      uint64
	nextID         uint64
}

// New builds a controller from a loaded snapshot. A nil snapshot starts
// from defaults. The timer always starts fresh at the beginning of a work
// phase.
func New(snap *storage.Snapshot, opts Options) *Controller {
	if snap == nil {
		snap = storage.DefaultSnapshot()
	}

	c := &Controller{
		saver:          opts.Saver,
		alerter:        opts.Alerter,
		sounder:        opts.Sounder,
		logger:         opts.Logger,
		now:            opts.Now,
		autoStartDelay: opts.AutoStartDelay,
	}
	if c.saver == nil {
		c.saver = discardSaver{}
	}
	if c.alerter == nil {
		c.alerter = silent{}
	}
	if c.sounder == nil {
		c.sounder = silent{}
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard, "", 0)
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.autoStartDelay <= 0 {
		c.autoStartDelay = DefaultAutoStartDelay
	}

	s := snap.Settings.Sanitize()
	c.machine = timer.New(s, timer.WithClock(c.now))
	c.log = sessionlog.New(sessionlog.DefaultCapacity)
	c.log.Restore(snap.Sessions)
	c.tasks = tasks.NewRegistry(c.now)
	c.tasks.Restore(snap.Tasks, snap.CurrentTaskID)
	c.prefs = snap.Preferences.Sanitize()
	c.focus = snap.TotalFocusMinutes
	c.streak = stats.Recompute(
		stats.Streak{Current: snap.Streak, Longest: snap.LongestStreak},
		c.log, s.DailyGoal, c.now())

	return c
}

// State returns the timer state.
func (c *Controller) State() timer.State {
	return c.machine.State()
}

// Progress returns the elapsed fraction of the current phase.
func (c *Controller) Progress() float64 {
	return c.machine.Progress()
}

// Settings returns the timer settings in effect.
func (c *Controller) Settings() settings.Settings {
	return c.machine.Settings()
}

// Preferences returns the non-timer preferences.
func (c *Controller) Preferences() settings.Preferences {
	return c.prefs
}

// Streak returns the current and longest streak.
func (c *Controller) Streak() stats.Streak {
	return c.streak
}

// TotalFocusMinutes returns all focus time ever recorded, including
// sessions already evicted from the log.
func (c *Controller) TotalFocusMinutes() int {
	return c.focus
}

// Records returns the session log, newest first.
func (c *Controller) Records() []sessionlog.Record {
	return c.log.Records()
}

// Tasks returns all tasks, newest first.
func (c *Controller) Tasks() []tasks.Task {
	return c.tasks.Tasks()
}

// CurrentTask resolves the task completed work is credited to.
func (c *Controller) CurrentTask() (tasks.Task, bool) {
	return c.tasks.Current()
}

// FindTask looks a task up by id or unique id prefix.
func (c *Controller) FindTask(prefix string) (tasks.Task, error) {
	return c.tasks.Find(prefix)
}

// PendingAutoStart returns the id of the scheduled auto-start, or 0.
func (c *Controller) PendingAutoStart() uint64 {
	return c.pendingID
}

// Start resumes the countdown.
func (c *Controller) Start() {
	c.cancelAutoStart()
	c.start()
}

// Pause stops the countdown.
func (c *Controller) Pause() {
	c.cancelAutoStart()
	c.machine.Pause()
	c.sounder.PauseMusic()
}

// Toggle pauses a running timer and starts a paused one.
func (c *Controller) Toggle() {
	if c.machine.State().Running {
		c.Pause()
		return
	}
	c.Start()
}

// Reset stops the countdown and refills the current phase.
func (c *Controller) Reset() {
	c.cancelAutoStart()
	c.machine.Reset()
	c.sounder.PauseMusic()
}

// Skip moves to the next phase without recording anything.
func (c *Controller) Skip() timer.Transition {
	c.cancelAutoStart()
	t := c.machine.Skip()
	c.sounder.PauseMusic()
	c.logger.Printf("skipped %s, now %s", t.From.Label(), t.To.Label())
	return t
}

// Tick advances the countdown by one second. When the phase completes it
// records the session, updates stats, fires side effects and returns the
// result.
func (c *Controller) Tick() (TickResult, bool) {
	t, completed := c.machine.Tick()
	if !completed {
		return TickResult{}, false
	}

	taskID := ""
	if cur, ok := c.tasks.Current(); ok {
		taskID = cur.ID
	}
	rec := sessionlog.FromCompletion(*t.Completion, taskID)
	c.log.Append(rec)

	if rec.IsWork() {
		if rec.TaskID != "" {
			c.tasks.Credit(rec.TaskID)
		}
		c.focus += rec.DurationMinutes
		c.streak = stats.Recompute(c.streak, c.log, c.Settings().DailyGoal, c.now())
	}
	c.logger.Printf("completed %s (%dm), next %s", t.From.Label(), rec.DurationMinutes, t.To.Label())

	c.sounder.PauseMusic()
	if c.prefs.Sound {
		c.sounder.Chime()
	}
	c.alerter.SessionComplete(t.From)

	res := TickResult{Transition: t, Record: rec}
	if t.AutoStart {
		c.nextID++
		c.pendingID = c.nextID
		res.AutoStart = &Pending{ID: c.pendingID, Delay: c.autoStartDelay}
	}

	c.save(storage.SaveContext{Operation: "complete", ItemType: "session", ItemName: t.From.Label()})
	return res, true
}

// FireAutoStart starts the timer if id is still the pending auto-start.
// Stale ids are ignored and FireAutoStart reports false.
func (c *Controller) FireAutoStart(id uint64) bool {
	if id == 0 || id != c.pendingID {
		return false
	}
	c.pendingID = 0
	c.start()
	return c.machine.State().Running
}

// ApplySettings validates and applies new timer settings. The countdown
// stops; the current phase is resized only if its length changed.
func (c *Controller) ApplySettings(s settings.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.cancelAutoStart()
	c.machine.ApplySettings(s)
	c.sounder.PauseMusic()
	c.streak = stats.Recompute(c.streak, c.log, s.DailyGoal, c.now())
	c.save(storage.SaveContext{Operation: "update", ItemType: "settings"})
	return nil
}

// SetPreferences validates and applies sound, theme and music choices.
func (c *Controller) SetPreferences(p settings.Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.prefs = p
	if c.machine.State().Running {
		c.sounder.PlayMusic(p.Music, p.MusicVolume)
	}
	c.save(storage.SaveContext{Operation: "update", ItemType: "preferences"})
	return nil
}

// AddTask creates a task.
func (c *Controller) AddTask(text string) (tasks.Task, error) {
	t, err := c.tasks.Add(text)
	if err != nil {
		return tasks.Task{}, err
	}
	c.save(storage.SaveContext{Operation: "add", ItemType: "task", ItemName: t.Text})
	return t, nil
}

// ToggleTask flips a task between open and completed.
func (c *Controller) ToggleTask(id string) (tasks.Task, error) {
	t, err := c.tasks.Toggle(id)
	if err != nil {
		return tasks.Task{}, err
	}
	op := "reopen"
	if t.Completed {
		op = "complete"
	}
	c.save(storage.SaveContext{Operation: op, ItemType: "task", ItemName: t.Text})
	return t, nil
}

// SelectTask makes id the current task. Completed and unknown tasks are
// ignored.
func (c *Controller) SelectTask(id string) bool {
	if !c.tasks.Select(id) {
		return false
	}
	t, _ := c.tasks.Current()
	c.save(storage.SaveContext{Operation: "select", ItemType: "task", ItemName: t.Text})
	return true
}

// ClearTask removes the current task selection.
func (c *Controller) ClearTask() {
	if c.tasks.CurrentID() == "" {
		return
	}
	c.tasks.SelectNone()
	c.save(storage.SaveContext{Operation: "clear", ItemType: "task"})
}

// Snapshot returns the persistable state.
func (c *Controller) Snapshot() *storage.Snapshot {
	return &storage.Snapshot{
		Version:           storage.SnapshotVersion,
		Sessions:          c.log.Records(),
		Tasks:             c.tasks.Tasks(),
		CurrentTaskID:     c.tasks.CurrentID(),
		Streak:            c.streak.Current,
		LongestStreak:     c.streak.Longest,
		TotalFocusMinutes: c.focus,
		Settings:          c.machine.Settings(),
		Preferences:       c.prefs,
		SavedAt:           c.now(),
	}
}

// Summary returns the derived stats as of now.
func (c *Controller) Summary() stats.Summary {
	return stats.Summarize(c.log, c.Settings().DailyGoal, c.streak, c.focus, c.now())
}

// ExportDocument builds the export data set.
func (c *Controller) ExportDocument() *export.Document {
	sum := c.Summary()
	return &export.Document{
		Sessions:       c.log.Records(),
		Tasks:          c.tasks.Tasks(),
		Streak:         c.streak.Current,
		LongestStreak:  c.streak.Longest,
		TotalFocusTime: c.focus,
		DailyGoal:      c.Settings().DailyGoal,
		ExportedAt:     c.now(),
		Summary:        &sum,
	}
}

// Close cancels any pending auto-start, stops music and flushes the saver.
func (c *Controller) Close() error {
	c.cancelAutoStart()
	c.machine.Pause()
	c.sounder.StopMusic()
	if err := c.saver.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	return nil
}

func (c *Controller) start() {
	c.machine.Start()
	if c.machine.State().Running && c.prefs.Music != settings.TrackNone {
		c.sounder.PlayMusic(c.prefs.Music, c.prefs.MusicVolume)
	}
}

func (c *Controller) cancelAutoStart() {
	c.pendingID = 0
}

func (c *Controller) save(ctx storage.SaveContext) {
	c.saver.Submit(c.Snapshot(), ctx)
}

type discardSaver struct{}

func (discardSaver) Submit(*storage.Snapshot, storage.SaveContext) {}
func (discardSaver) Close() error                                  { return nil }

type silent struct{}

func (silent) SessionComplete(timer.Phase) {}
func (silent) Chime()                      {}
func (silent) PlayMusic(string, float64)   {}
func (silent) PauseMusic()                 {}
func (silent) StopMusic()                  {}
