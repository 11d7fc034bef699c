package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// helpSection is a titled group of bindings on the help screen.
type helpSection struct {
	title    string
	bindings []key.Binding
}

// HelpOverlay renders the keyboard shortcut screen from the active key maps.
type HelpOverlay struct {
	width    int
	height   int
	styles   *Styles
	sections []helpSection
}

// NewHelpOverlay creates a help overlay listing the given key maps.
func NewHelpOverlay(styles *Styles, global GlobalKeyMap, timerKeys TimerKeyMap, taskKeys TaskKeyMap, input InputKeyMap) *HelpOverlay {
	return &HelpOverlay{
		styles: styles,
		sections: []helpSection{
			{"Global", []key.Binding{global.NextPane, global.Pane1, global.Pane2, global.Pane3, global.EditSettings, global.ToggleTheme, global.Help, global.Quit}},
			{"Timer", []key.Binding{timerKeys.Toggle, timerKeys.Reset, timerKeys.Skip, timerKeys.Music, timerKeys.Track}},
			{"Tasks", []key.Binding{taskKeys.Add, taskKeys.Toggle, taskKeys.Select, taskKeys.Up, taskKeys.Down}},
			{"Input Mode", []key.Binding{input.Confirm, input.Cancel}},
		},
	}
}

// SetSize sets the overlay dimensions
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	overlayWidth := 60
	if h.width > 0 {
		overlayWidth = min(60, max(20, h.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorPrimary)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorAccent)

	keyStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorWarning).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorTextMuted).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("🍅 tomato - Keyboard Shortcuts"))
	b.WriteString("\n")

	for _, sec := range h.sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, kb := range sec.bindings {
			if !kb.Enabled() {
				continue
			}
			hb := kb.Help()
			b.WriteString(keyStyle.Render(hb.Key) + descStyle.Render(hb.Desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press ? or Esc to close"))

	return lipgloss.Place(
		h.width,
		h.height,
		lipgloss.Center,
		lipgloss.Center,
		overlayStyle.Render(b.String()),
	)
}

// RenderCentered centers content in the terminal
func RenderCentered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
