package ui

import (
	"tomato/internal/config"
	"tomato/internal/settings"

	"github.com/charmbracelet/lipgloss"
)

// palette is the base color set of a theme.
type palette struct {
	primary   string
	accent    string
	muted     string
	text      string
	textMuted string
	bgLight   string
	work      string
	rest      string
}

var palettes = map[string]palette{
	settings.ThemeDark: {
		primary:   "#EF4444",
		accent:    "#10B981",
		muted:     "#6B7280",
		text:      "#F9FAFB",
		textMuted: "#9CA3AF",
		bgLight:   "#374151",
		work:      "#F87171",
		rest:      "#34D399",
	},
	settings.ThemeLight: {
		primary:   "#DC2626",
		accent:    "#059669",
		muted:     "#9CA3AF",
		text:      "#111827",
		textMuted: "#4B5563",
		bgLight:   "#E5E7EB",
		work:      "#DC2626",
		rest:      "#059669",
	},
}

// Styles holds all application styles, initialized from the theme.
type Styles struct {
	Theme string

	// Colors
	ColorPrimary   lipgloss.Color
	ColorAccent    lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorDanger    lipgloss.Color
	ColorWarning   lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorBgLight   lipgloss.Color
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color
	ColorWork      lipgloss.Color
	ColorBreak     lipgloss.Color

	// Component styles
	TitleStyle       lipgloss.Style
	DateStyle        lipgloss.Style
	PaneStyle        lipgloss.Style
	PaneFocusedStyle lipgloss.Style
	PaneTitleStyle   lipgloss.Style

	TaskDoneStyle       lipgloss.Style
	TaskPendingStyle    lipgloss.Style
	TaskSelectedStyle   lipgloss.Style
	TaskCurrentStyle    lipgloss.Style
	TaskCheckboxDone    string
	TaskCheckboxPending string

	ClockWorkStyle  lipgloss.Style
	ClockBreakStyle lipgloss.Style
	PhaseStyle      lipgloss.Style
	ProgressFull    lipgloss.Style
	ProgressEmpty   lipgloss.Style
	CycleDoneIcon   string
	CycleOpenIcon   string

	HelpStyle    lipgloss.Style
	HelpKeyStyle lipgloss.Style

	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style

	InputPromptStyle lipgloss.Style

	StatLabelStyle lipgloss.Style
	StatValueStyle lipgloss.Style
	StreakStyle    lipgloss.Style
}

// NewStyles creates styles for the named theme with the config's color
// overrides applied. Unknown themes fall back to dark.
func NewStyles(theme string, overrides config.ThemeConfig) *Styles {
	p, ok := palettes[theme]
	if !ok {
		theme = settings.ThemeDark
		p = palettes[theme]
	}

	s := &Styles{Theme: theme}
	s.ColorPrimary = colorOrDefault(overrides.Primary, p.primary)
	s.ColorAccent = colorOrDefault(overrides.Accent, p.accent)
	s.ColorMuted = colorOrDefault(overrides.Muted, p.muted)

	// Fixed semantic colors (not configurable from theme)
	s.ColorDanger = lipgloss.Color("#EF4444")
	s.ColorWarning = lipgloss.Color("#F59E0B")
	s.ColorSuccess = lipgloss.Color("#10B981")

	s.ColorBgLight = lipgloss.Color(p.bgLight)
	s.ColorText = lipgloss.Color(p.text)
	s.ColorTextMuted = lipgloss.Color(p.textMuted)
	s.ColorWork = lipgloss.Color(p.work)
	s.ColorBreak = lipgloss.Color(p.rest)

	s.initComponentStyles()
	return s
}

// colorOrDefault returns the lipgloss.Color from hex string, or default if empty.
func colorOrDefault(hex, defaultHex string) lipgloss.Color {
	if hex != "" {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(defaultHex)
}

func (s *Styles) initComponentStyles() {
	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(s.ColorPrimary).
		Padding(0, 1)

	s.DateStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorMuted).
		Padding(0, 1)

	s.PaneFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorPrimary).
		Padding(0, 1)

	s.PaneTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorPrimary)

	s.TaskDoneStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted).
		Strikethrough(true)

	s.TaskPendingStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	s.TaskSelectedStyle = lipgloss.NewStyle().
		Background(s.ColorBgLight).
		Foreground(s.ColorText).
		Bold(true)

	s.TaskCurrentStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Bold(true)

	s.TaskCheckboxDone = lipgloss.NewStyle().Foreground(s.ColorSuccess).Render("[✓]")
	s.TaskCheckboxPending = lipgloss.NewStyle().Foreground(s.ColorMuted).Render("[ ]")

	s.ClockWorkStyle = lipgloss.NewStyle().
		Foreground(s.ColorWork).
		Bold(true)

	s.ClockBreakStyle = lipgloss.NewStyle().
		Foreground(s.ColorBreak).
		Bold(true)

	s.PhaseStyle = lipgloss.NewStyle().
		Foreground(s.ColorText).
		Bold(true)

	s.ProgressFull = lipgloss.NewStyle().Foreground(s.ColorPrimary)
	s.ProgressEmpty = lipgloss.NewStyle().Foreground(s.ColorMuted)

	s.CycleDoneIcon = lipgloss.NewStyle().Foreground(s.ColorPrimary).Render("●")
	s.CycleOpenIcon = lipgloss.NewStyle().Foreground(s.ColorMuted).Render("○")

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.HelpKeyStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Bold(true)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.ColorSuccess).
		Italic(true)

	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(s.ColorDanger).
		Bold(true)

	s.InputPromptStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary).
		Bold(true)

	s.StatLabelStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.StatValueStyle = lipgloss.NewStyle().
		Foreground(s.ColorText).
		Bold(true)

	s.StreakStyle = lipgloss.NewStyle().
		Foreground(s.ColorWarning).
		Bold(true)
}

// RenderHelp renders help text with key bindings using the given styles.
func (s *Styles) RenderHelp(keys ...string) string {
	var result string
	for i := 0; i+1 < len(keys); i += 2 {
		if i > 0 {
			result += "  "
		}
		result += s.HelpKeyStyle.Render("["+keys[i]+"]") + " " + s.HelpStyle.Render(keys[i+1])
	}
	return result
}
