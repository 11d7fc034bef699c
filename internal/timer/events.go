package timer

import "time"

// Phase is the kind of interval currently counting down.
type Phase string

const (
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

// IsBreak reports whether p is one of the break phases.
func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// Label returns a human-readable phase name.
func (p Phase) Label() string {
	switch p {
	case PhaseWork:
		return "Focus"
	case PhaseShortBreak:
		return "Short Break"
	case PhaseLongBreak:
		return "Long Break"
	default:
		return "Unknown"
	}
}

// State is a snapshot of the machine.
type State struct {
	Phase            Phase
	RemainingSeconds int
	Running          bool
	WorkCycles       int
}

// Completion describes a session that ran all the way to zero.
type Completion struct {
	Phase           Phase
	DurationMinutes int
	CompletedAt     time.Time
}

// Transition describes a phase change caused by Tick or Skip.
// Completion is nil for skipped sessions.
type Transition struct {
	From       Phase
	To         Phase
	Completion *Completion
	AutoStart  bool
}
