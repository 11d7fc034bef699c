package notify

import (
	"io"
	"log"
	"sync"

	"tomato/internal/timer"
)

// Message is the text shown for a finished phase.
type Message struct {
	Title string
	Body  string
}

// MessageFor returns the notification text for a completed phase.
func MessageFor(phase timer.Phase) Message {
	if phase == timer.PhaseWork {
		return Message{
			Title: "⚡ Focus Mode Complete!",
			Body:  "Excellent work! Time to recharge.",
		}
	}
	return Message{
		Title: "☕ Break Time Over!",
		Body:  "Ready to dominate your next session?",
	}
}

// Alerter turns session completions into notifications. Delivery runs in
// the background and errors are only logged.
type Alerter struct {
	notifier Notifier
	cfg      Config
	logger   *log.Logger
	wg       sync.WaitGroup
}

// NewAlerter wraps n. A nil notifier or logger disables that part.
func NewAlerter(n Notifier, cfg Config, logger *log.Logger) *Alerter {
	if n == nil {
		n = noopNotifier{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Alerter{notifier: n, cfg: cfg, logger: logger}
}

// Enabled reports whether completions produce notifications.
func (a *Alerter) Enabled() bool {
	return a.cfg.Enabled && a.notifier.IsSupported()
}

// SessionComplete notifies that phase has finished.
func (a *Alerter) SessionComplete(phase timer.Phase) {
	if !a.Enabled() {
		return
	}
	msg := MessageFor(phase)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		send := a.notifier.Send
		if a.cfg.Sound {
			send = a.notifier.SendWithSound
		}
		if err := send(msg.Title, msg.Body); err != nil {
			a.logger.Printf("notify: %v", err)
		}
	}()
}

// Wait blocks until in-flight notifications finish.
func (a *Alerter) Wait() {
	a.wg.Wait()
}
