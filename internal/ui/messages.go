package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg drives the countdown once per second.
type tickMsg time.Time

// autoStartMsg fires a scheduled auto-start. The controller ignores ids
// that were cancelled in the meantime.
type autoStartMsg struct {
	id uint64
}

// statusMsg asks the app to show a transient status line.
type statusMsg struct {
	text string
	err  error
}

// settingsClosedMsg is sent when the settings form is dismissed.
type settingsClosedMsg struct {
	saved bool
}

// statusCmd wraps a status line into a command.
func statusCmd(text string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, err: err}
	}
}
