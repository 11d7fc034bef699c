package storage

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"tomato/internal/sessionlog"
	"tomato/internal/tasks"
	"tomato/internal/timer"
)

func benchSnapshot(sessions, taskCount int) *Snapshot {
	snap := DefaultSnapshot()
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < sessions; i++ {
		snap.Sessions = append(snap.Sessions, sessionlog.Record{
			Type:            sessionlog.KindWork,
			Phase:           timer.PhaseWork,
			DurationMinutes: 25,
			CompletedAt:     base.Add(-time.Duration(i) * time.Hour),
		})
	}
	for i := 0; i < taskCount; i++ {
		snap.Tasks = append(snap.Tasks, tasks.Task{
			ID:        fmt.Sprintf("task-%d", i),
			Text:      fmt.Sprintf("Task %d", i),
			CreatedAt: base,
		})
	}
	return snap
}

// BenchmarkJSONStoreSave measures a full snapshot write at log capacity.
func BenchmarkJSONStoreSave(b *testing.B) {
	store, err := NewJSONStore(b.TempDir())
	if err != nil {
		b.Fatal(err)
	}
	snap := benchSnapshot(sessionlog.DefaultCapacity, 50)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := store.Save(snap); err != nil {
			b.Fatalf("Save failed: %v", err)
		}
	}
}

// BenchmarkJSONStoreLoad measures loading with varying log sizes.
func BenchmarkJSONStoreLoad(b *testing.B) {
	for _, size := range []int{10, 100} {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			store, err := NewJSONStore(b.TempDir())
			if err != nil {
				b.Fatal(err)
			}
			if err := store.Save(benchSnapshot(size, size)); err != nil {
				b.Fatal(err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := store.Load(); err != nil {
					b.Fatalf("Load failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkSQLiteStoreSave measures the replace-all transaction.
func BenchmarkSQLiteStoreSave(b *testing.B) {
	store, err := OpenSQLite(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()
	snap := benchSnapshot(sessionlog.DefaultCapacity, 50)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := store.Save(snap); err != nil {
			b.Fatalf("Save failed: %v", err)
		}
	}
}

// BenchmarkWriterSubmit measures the cost seen by the controller.
func BenchmarkWriterSubmit(b *testing.B) {
	store, err := NewJSONStore(b.TempDir())
	if err != nil {
		b.Fatal(err)
	}
	w := NewWriter(store, nil)
	defer w.Close()
	snap := benchSnapshot(sessionlog.DefaultCapacity, 50)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Submit(snap.Clone(), SaveContext{})
	}
	b.StopTimer()
	_ = w.Flush()
}
