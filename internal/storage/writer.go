package storage

import (
	"errors"
	"io"
	"log"
	"sync"
)

// ErrWriterClosed is returned by Close when the writer is already closed.
var ErrWriterClosed = errors.New("storage writer closed")

// Writer saves snapshots on a background goroutine so callers never block
// on disk. Bursts coalesce: only the latest submitted snapshot is written.
type Writer struct {
	store  Store
	logger *log.Logger
	onSave func(SaveContext)

	mu      sync.Mutex
	cond    *sync.Cond
	pending *Snapshot
	ctx     SaveContext
	seq     uint64
	saved   uint64
	lastErr error
	closed  bool

	wake chan struct{}
	quit chan struct{}
	done chan struct{}
}

// NewWriter starts a writer for store. A nil logger discards output.
func NewWriter(store Store, logger *log.Logger) *Writer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	w := &Writer{
		store:  store,
		logger: logger,
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// SetOnSave registers a callback invoked on the writer goroutine after each
// successful save. It must be set before the first Submit.
func (w *Writer) SetOnSave(fn func(SaveContext)) {
	w.mu.Lock()
	w.onSave = fn
	w.mu.Unlock()
}

// Store returns the underlying store.
func (w *Writer) Store() Store {
	return w.store
}

// Submit queues snap for saving. The writer takes ownership of snap.
func (w *Writer) Submit(snap *Snapshot, ctx SaveContext) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Printf("storage: dropped save after close (%s)", ctx.Message())
		return
	}
	w.pending = snap
	w.ctx = ctx
	w.seq++
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Flush blocks until every submitted snapshot has been written and returns
// the error of the last save, if any.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	target := w.seq
	for w.saved < target {
		w.cond.Wait()
	}
	return w.lastErr
}

// Close flushes pending work, stops the goroutine and closes the store.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWriterClosed
	}
	w.closed = true
	w.mu.Unlock()

	close(w.quit)
	<-w.done

	w.mu.Lock()
	saveErr := w.lastErr
	w.mu.Unlock()

	if err := w.store.Close(); err != nil {
		return err
	}
	return saveErr
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.quit:
			w.drain()
			return
		}
	}
}

func (w *Writer) drain() {
	for {
		w.mu.Lock()
		snap, ctx, seq, onSave := w.pending, w.ctx, w.seq, w.onSave
		w.pending = nil
		w.mu.Unlock()

		if snap == nil {
			return
		}

		err := w.store.Save(snap)
		if err != nil {
			w.logger.Printf("storage: save failed: %v", err)
		} else if onSave != nil {
			onSave(ctx)
		}

		w.mu.Lock()
		w.saved = seq
		w.lastErr = err
		w.cond.Broadcast()
		w.mu.Unlock()
	}
}
