// Package timer implements the Pomodoro session state machine: a countdown
// that alternates work and break phases and reports completed sessions.
//
// The machine is not safe for concurrent use. Callers dispatch every tick
// and user action through a single goroutine.
package timer

import (
	"time"

	"tomato/internal/settings"
)

// CyclesBeforeLongBreak is the number of completed work sessions that
// earn a long break.
const CyclesBeforeLongBreak = 4

// Machine drives phase transitions for one timer.
type Machine struct {
	settings   settings.Settings
	phase      Phase
	remaining  int
	running    bool
	workCycles int
	now        func() time.Time
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock overrides the clock used to timestamp completions.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a paused machine at the start of a work phase.
// s must already be validated.
func New(s settings.Settings, opts ...Option) *Machine {
	m := &Machine{
		settings: s,
		phase:    PhaseWork,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.remaining = m.DurationFor(PhaseWork)
	return m
}

// State returns a snapshot of the current state.
func (m *Machine) State() State {
	return State{
		Phase:            m.phase,
		RemainingSeconds: m.remaining,
		Running:          m.running,
		WorkCycles:       m.workCycles,
	}
}

// Settings returns the settings currently in effect.
func (m *Machine) Settings() settings.Settings {
	return m.settings
}

// DurationFor returns the full length of phase in seconds.
func (m *Machine) DurationFor(phase Phase) int {
	return m.minutesFor(phase) * 60
}

func (m *Machine) minutesFor(phase Phase) int {
	switch phase {
	case PhaseShortBreak:
		return m.settings.BreakMinutes
	case PhaseLongBreak:
		return m.settings.LongBreakMinutes
	default:
		return m.settings.WorkMinutes
	}
}

// breakPhase picks the break kind for the current cycle count.
func (m *Machine) breakPhase() Phase {
	if m.workCycles%CyclesBeforeLongBreak == 0 {
		return PhaseLongBreak
	}
	return PhaseShortBreak
}

// currentPhase re-derives break phases from the cycle count.
func (m *Machine) currentPhase() Phase {
	if m.phase.IsBreak() {
		return m.breakPhase()
	}
	return PhaseWork
}

// Progress returns the elapsed fraction of the current phase in [0,1].
func (m *Machine) Progress() float64 {
	total := m.DurationFor(m.phase)
	if total <= 0 {
		return 0
	}
	return float64(total-m.remaining) / float64(total)
}

// Start resumes the countdown. A drained timer stays stopped.
func (m *Machine) Start() {
	if m.remaining == 0 {
		return
	}
	m.running = true
}

// Pause stops the countdown without touching anything else.
func (m *Machine) Pause() {
	m.running = false
}

// Reset stops the countdown and refills the current phase.
func (m *Machine) Reset() {
	m.running = false
	m.phase = m.currentPhase()
	m.remaining = m.DurationFor(m.phase)
}

// Skip advances to the next phase without recording a completion or
// touching the work cycle count.
func (m *Machine) Skip() Transition {
	from := m.phase
	m.running = false
	m.advance()
	return Transition{From: from, To: m.phase}
}

// Tick decrements the countdown by one second. It returns the completion
// transition when the countdown reaches zero.
func (m *Machine) Tick() (Transition, bool) {
	if !m.running || m.remaining <= 0 {
		return Transition{}, false
	}
	m.remaining--
	if m.remaining > 0 {
		return Transition{}, false
	}
	return m.complete(), true
}

// ApplySettings replaces the settings and stops the countdown. The current
// phase is resized only when its total duration changed.
func (m *Machine) ApplySettings(s settings.Settings) {
	before := m.DurationFor(m.phase)
	m.settings = s
	m.running = false
	m.phase = m.currentPhase()
	if after := m.DurationFor(m.phase); after != before {
		m.remaining = after
	}
	if m.remaining > m.DurationFor(m.phase) {
		m.remaining = m.DurationFor(m.phase)
	}
}

func (m *Machine) complete() Transition {
	from := m.phase
	completion := &Completion{
		Phase:           from,
		DurationMinutes: m.minutesFor(m.currentPhase()),
		CompletedAt:     m.now(),
	}

	if from == PhaseWork {
		m.workCycles++
	} else if m.workCycles%CyclesBeforeLongBreak == 0 {
		m.workCycles = 0
	}

	m.running = false
	m.advance()

	return Transition{
		From:       from,
		To:         m.phase,
		Completion: completion,
		AutoStart:  m.autoStart(m.phase),
	}
}

// advance flips the phase and refills the countdown.
func (m *Machine) advance() {
	if m.phase == PhaseWork {
		m.phase = m.breakPhase()
	} else {
		m.phase = PhaseWork
	}
	m.remaining = m.DurationFor(m.phase)
}

func (m *Machine) autoStart(phase Phase) bool {
	if phase == PhaseWork {
		return m.settings.AutoStartWork
	}
	return m.settings.AutoStartBreak
}
