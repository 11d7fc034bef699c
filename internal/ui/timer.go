package ui

import (
	"fmt"
	"strings"

	"tomato/internal/app"
	"tomato/internal/config"
	"tomato/internal/settings"
	"tomato/internal/timer"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// TimerPane shows the countdown and handles the timer controls.
type TimerPane struct {
	ctrl    *app.Controller
	focused bool
	width   int
	height  int
	styles  *Styles

	// lastTrack is restored when music is switched back on.
	lastTrack string

	keys TimerKeyMap
}

// NewTimerPane creates a timer pane with default key bindings.
func NewTimerPane(ctrl *app.Controller, styles *Styles) *TimerPane {
	return NewTimerPaneWithKeys(ctrl, styles, &config.KeysConfig{})
}

// NewTimerPaneWithKeys creates a timer pane with custom key bindings.
func NewTimerPaneWithKeys(ctrl *app.Controller, styles *Styles, keyCfg *config.KeysConfig) *TimerPane {
	last := ctrl.Preferences().Music
	if last == settings.TrackNone {
		last = settings.TrackLofi
	}
	return &TimerPane{
		ctrl:      ctrl,
		styles:    styles,
		lastTrack: last,
		keys:      NewTimerKeyMap(keyCfg),
	}
}

// SetSize sets the pane dimensions.
func (p *TimerPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *TimerPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *TimerPane) IsFocused() bool {
	return p.focused
}

// Update handles key and mouse input for the timer pane.
func (p *TimerPane) Update(msg tea.Msg) tea.Cmd {
	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Toggle):
			p.ctrl.Toggle()

		case key.Matches(msg, p.keys.Reset):
			p.ctrl.Reset()
			return statusCmd("Timer reset", nil)

		case key.Matches(msg, p.keys.Skip):
			t := p.ctrl.Skip()
			return statusCmd("Skipped to "+t.To.Label(), nil)

		case key.Matches(msg, p.keys.Music):
			return p.toggleMusic()

		case key.Matches(msg, p.keys.Track):
			return p.nextTrack()
		}
	}

	return nil
}

// handleMouse toggles the timer when the clock is clicked.
func (p *TimerPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	// Clock rows follow title (1) + separator (1) + phase (1)
	const headerRows = 3

	if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
		if msg.Y >= headerRows && msg.Y < headerRows+2 {
			p.ctrl.Toggle()
		}
	}
	return nil
}

func (p *TimerPane) toggleMusic() tea.Cmd {
	prefs := p.ctrl.Preferences()
	if prefs.Music == settings.TrackNone {
		prefs.Music = p.lastTrack
	} else {
		p.lastTrack = prefs.Music
		prefs.Music = settings.TrackNone
	}
	if err := p.ctrl.SetPreferences(prefs); err != nil {
		return statusCmd("", err)
	}
	if prefs.Music == settings.TrackNone {
		return statusCmd("Music off", nil)
	}
	return statusCmd("Music: "+prefs.Music, nil)
}

func (p *TimerPane) nextTrack() tea.Cmd {
	prefs := p.ctrl.Preferences()
	current := prefs.Music
	if current == settings.TrackNone {
		current = p.lastTrack
	}

	tracks := settings.Tracks()
	next := tracks[0]
	for i, t := range tracks {
		if t == current {
			next = tracks[(i+1)%len(tracks)]
			break
		}
	}

	p.lastTrack = next
	prefs.Music = next
	if err := p.ctrl.SetPreferences(prefs); err != nil {
		return statusCmd("", err)
	}
	return statusCmd("Music: "+next, nil)
}

// View renders the timer pane.
func (p *TimerPane) View() string {
	var b strings.Builder
	st := p.ctrl.State()

	b.WriteString(p.styles.PaneTitleStyle.Render("🍅 TIMER"))
	b.WriteString("\n")
	b.WriteString(p.styles.StatLabelStyle.Render(strings.Repeat("─", p.innerWidth())))
	b.WriteString("\n")

	b.WriteString("  " + p.styles.PhaseStyle.Render(st.Phase.Label()))
	b.WriteString("\n")

	clockStyle := p.styles.ClockWorkStyle
	if st.Phase.IsBreak() {
		clockStyle = p.styles.ClockBreakStyle
	}
	status := "paused"
	if st.Running {
		status = "running"
	}
	b.WriteString("  " + clockStyle.Render(formatClock(st.RemainingSeconds)) + "  " + p.styles.StatLabelStyle.Render(status))
	b.WriteString("\n\n")

	b.WriteString("  " + p.progressBar(p.ctrl.Progress(), p.innerWidth()-4))
	b.WriteString("\n\n")

	b.WriteString("  " + p.cycleDots(st) + " " + p.styles.StatLabelStyle.Render(fmt.Sprintf("%d sessions", st.WorkCycles)))
	b.WriteString("\n")

	if t, ok := p.ctrl.CurrentTask(); ok {
		text := runewidth.Truncate(t.Text, max(5, p.innerWidth()-10), "..")
		b.WriteString("  " + p.styles.StatLabelStyle.Render("Task: ") + p.styles.TaskCurrentStyle.Render(text))
	} else {
		b.WriteString("  " + p.styles.StatLabelStyle.Render("No task selected"))
	}
	b.WriteString("\n")

	if music := p.ctrl.Preferences().Music; music != settings.TrackNone {
		b.WriteString("  " + p.styles.StatLabelStyle.Render("♪ ") + p.styles.StatValueStyle.Render(music))
		b.WriteString("\n")
	}

	if p.ctrl.PendingAutoStart() != 0 {
		b.WriteString("  " + p.styles.StatusStyle.Render(st.Phase.Label()+" starts shortly"))
		b.WriteString("\n")
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

func (p *TimerPane) innerWidth() int {
	w := p.width - 4
	if w < 10 {
		w = 30
	}
	return w
}

// progressBar renders frac of width as filled blocks.
func (p *TimerPane) progressBar(frac float64, width int) string {
	if width < 10 {
		width = 10
	}
	frac = min(max(frac, 0), 1)
	filled := int(frac * float64(width))
	return p.styles.ProgressFull.Render(strings.Repeat("█", filled)) +
		p.styles.ProgressEmpty.Render(strings.Repeat("░", width-filled))
}

// cycleDots shows how far the current set of work sessions has come.
func (p *TimerPane) cycleDots(st timer.State) string {
	done := st.WorkCycles % timer.CyclesBeforeLongBreak
	if st.WorkCycles > 0 && done == 0 && st.Phase == timer.PhaseLongBreak {
		done = timer.CyclesBeforeLongBreak
	}
	var b strings.Builder
	for i := range timer.CyclesBeforeLongBreak {
		if i < done {
			b.WriteString(p.styles.CycleDoneIcon)
		} else {
			b.WriteString(p.styles.CycleOpenIcon)
		}
	}
	return b.String()
}

// formatClock formats seconds as MM:SS. Hours roll into minutes.
func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
