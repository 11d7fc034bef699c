// Package sessionlog keeps the bounded history of completed sessions,
// newest first.
package sessionlog

import (
	"sort"
	"time"

	"tomato/internal/timer"
)

// DefaultCapacity is the number of records kept before the oldest are
// evicted.
const DefaultCapacity = 100

// Kind separates focus sessions from breaks.
type Kind string

const (
	KindWork  Kind = "work"
	KindBreak Kind = "break"
)

// Record is one completed session. Records are values and never change
// after they are appended.
type Record struct {
	Type            Kind        `json:"type"`
	Phase           timer.Phase `json:"phase"`
	DurationMinutes int         `json:"duration_minutes"`
	CompletedAt     time.Time   `json:"completed_at"`
	TaskID          string      `json:"task_id,omitempty"`
}

// FromCompletion builds the record for a completed session. taskID is kept
// only for work sessions.
func FromCompletion(c timer.Completion, taskID string) Record {
	r := Record{
		Type:            KindWork,
		Phase:           c.Phase,
		DurationMinutes: c.DurationMinutes,
		CompletedAt:     c.CompletedAt,
	}
	if c.Phase.IsBreak() {
		r.Type = KindBreak
		return r
	}
	r.TaskID = taskID
	return r
}

// IsWork reports whether r is a focus session.
func (r Record) IsWork() bool {
	return r.Type == KindWork
}

// Log is a newest-first sequence of records truncated at a fixed capacity.
type Log struct {
	records  []Record
	capacity int
}

// New returns an empty log. A non-positive capacity selects DefaultCapacity.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity}
}

// Capacity returns the maximum number of records kept.
func (l *Log) Capacity() int {
	return l.capacity
}

// Len returns the number of records currently held.
func (l *Log) Len() int {
	return len(l.records)
}

// Append adds r at the front and evicts the oldest records beyond capacity.
func (l *Log) Append(r Record) {
	l.records = append(l.records, Record{})
	copy(l.records[1:], l.records)
	l.records[0] = r
	if len(l.records) > l.capacity {
		l.records = l.records[:l.capacity]
	}
}

// Restore replaces the contents with records loaded from storage.
func (l *Log) Restore(records []Record) {
	out := make([]Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	if len(out) > l.capacity {
		out = out[:l.capacity]
	}
	l.records = out
}

// Records returns a copy of every record, newest first.
func (l *Log) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Query returns the records matching every predicate, newest first.
func (l *Log) Query(preds ...Predicate) []Record {
	var out []Record
	for _, r := range l.records {
		if matchAll(r, preds) {
			out = append(out, r)
		}
	}
	return out
}

// Count is Query without the allocation.
func (l *Log) Count(preds ...Predicate) int {
	n := 0
	for _, r := range l.records {
		if matchAll(r, preds) {
			n++
		}
	}
	return n
}

func matchAll(r Record, preds []Predicate) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}
