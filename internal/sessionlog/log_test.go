package sessionlog

import (
	"testing"
	"time"

	"tomato/internal/timer"
)

func at(day, hour int) time.Time {
	return time.Date(2025, 3, day, hour, 0, 0, 0, time.Local)
}

func workAt(t time.Time) Record {
	return Record{Type: KindWork, Phase: timer.PhaseWork, DurationMinutes: 25, CompletedAt: t}
}

func breakAt(t time.Time) Record {
	return Record{Type: KindBreak, Phase: timer.PhaseShortBreak, DurationMinutes: 5, CompletedAt: t}
}

func TestAppend_NewestFirst(t *testing.T) {
	l := New(0)
	l.Append(workAt(at(1, 9)))
	l.Append(breakAt(at(1, 10)))
	l.Append(workAt(at(1, 11)))

	got := l.Records()
	if len(got) != 3 {
		t.Fatalf("Len = %d, want 3", len(got))
	}
	if !got[0].CompletedAt.Equal(at(1, 11)) || !got[2].CompletedAt.Equal(at(1, 9)) {
		t.Errorf("records not newest first: %v .. %v", got[0].CompletedAt, got[2].CompletedAt)
	}
}

func TestAppend_EvictsOldest(t *testing.T) {
	l := New(3)
	for h := 0; h < 5; h++ {
		l.Append(workAt(at(2, h)))
	}

	if l.Len() != 3 {
		t.Fatalf("Len = %d, want 3", l.Len())
	}
	got := l.Records()
	if !got[2].CompletedAt.Equal(at(2, 2)) {
		t.Errorf("oldest kept = %v, want %v", got[2].CompletedAt, at(2, 2))
	}
}

func TestNew_DefaultCapacity(t *testing.T) {
	if got := New(-1).Capacity(); got != DefaultCapacity {
		t.Errorf("Capacity() = %d, want %d", got, DefaultCapacity)
	}
}

func TestRecords_ReturnsCopy(t *testing.T) {
	l := New(0)
	l.Append(workAt(at(1, 9)))
	recs := l.Records()
	recs[0].DurationMinutes = 999

	if l.Records()[0].DurationMinutes != 25 {
		t.Error("mutating Records() leaked into the log")
	}
}

func TestRestore(t *testing.T) {
	l := New(2)
	l.Restore([]Record{workAt(at(1, 9)), workAt(at(3, 9)), workAt(at(2, 9))})

	got := l.Records()
	if len(got) != 2 {
		t.Fatalf("Len = %d, want 2", len(got))
	}
	if !got[0].CompletedAt.Equal(at(3, 9)) || !got[1].CompletedAt.Equal(at(2, 9)) {
		t.Errorf("Restore() order = %v, %v", got[0].CompletedAt, got[1].CompletedAt)
	}
}

func TestQuery(t *testing.T) {
	l := New(0)
	l.Append(workAt(at(1, 9)))
	l.Append(breakAt(at(1, 10)))
	l.Append(workAt(at(2, 9)))
	l.Append(workAt(at(3, 23)))

	tests := []struct {
		name  string
		preds []Predicate
		want  int
	}{
		{"no predicates", nil, 4},
		{"work only", []Predicate{OfType(KindWork)}, 3},
		{"breaks only", []Predicate{OfType(KindBreak)}, 1},
		{"on day", []Predicate{OnDay(at(1, 0))}, 2},
		{"work on day", []Predicate{OfType(KindWork), OnDay(at(1, 15))}, 1},
		{"since", []Predicate{Since(at(2, 9))}, 2},
		{"between inclusive", []Predicate{Between(at(1, 10), at(2, 9))}, 2},
		{"empty day", []Predicate{OnDay(at(9, 0))}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.Query(tt.preds...)
			if len(got) != tt.want {
				t.Errorf("Query() returned %d records, want %d", len(got), tt.want)
			}
			if n := l.Count(tt.preds...); n != tt.want {
				t.Errorf("Count() = %d, want %d", n, tt.want)
			}
		})
	}
}

func TestFromCompletion(t *testing.T) {
	work := FromCompletion(timer.Completion{Phase: timer.PhaseWork, DurationMinutes: 25, CompletedAt: at(1, 9)}, "task-1")
	if work.Type != KindWork || work.TaskID != "task-1" {
		t.Errorf("work record = %+v", work)
	}

	brk := FromCompletion(timer.Completion{Phase: timer.PhaseLongBreak, DurationMinutes: 15, CompletedAt: at(1, 9)}, "task-1")
	if brk.Type != KindBreak || brk.TaskID != "" || brk.Phase != timer.PhaseLongBreak {
		t.Errorf("break record = %+v", brk)
	}
}
