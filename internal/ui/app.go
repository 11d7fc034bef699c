// Package ui provides the terminal user interface for tomato.
// This file contains the main App model which coordinates all panes and
// routes messages using the Bubble Tea architecture.
package ui

import (
	"fmt"
	"strings"
	"time"

	"tomato/internal/app"
	"tomato/internal/config"
	"tomato/internal/settings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PaneID identifies each pane in the application.
type PaneID int

const (
	PaneTimer PaneID = iota
	PaneTasks
	PaneStats
)

// LayoutMode determines how panes are arranged based on terminal width.
type LayoutMode int

const (
	// LayoutWide shows all three panes side-by-side.
	LayoutWide LayoutMode = iota
	// LayoutNarrow shows only the focused pane with a tab bar.
	LayoutNarrow
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys                  *config.KeysConfig
	Theme                 config.ThemeConfig
	NarrowLayoutThreshold int
}

// App is the main application model that coordinates all panes.
type App struct {
	ctrl        *app.Controller
	styles      *Styles
	config      *AppConfig
	timerPane   *TimerPane
	taskPane    *TaskPane
	statsPane   *StatsPane
	helpOverlay *HelpOverlay
	form        *SettingsForm
	activePane  PaneID
	layoutMode  LayoutMode
	showHelp    bool
	width       int
	height      int
	status      string
	statusErr   bool
	statusUntil time.Time
	quitting    bool

	// Key bindings
	keys      GlobalKeyMap
	timerKeys TimerKeyMap
	helpKeys  HelpKeyMap

	// Pane x ranges for mouse click detection
	timerPaneStart int
	timerPaneEnd   int
	tasksPaneStart int
	tasksPaneEnd   int
	statsPaneStart int
	statsPaneEnd   int
	contentTop     int
}

// NewApp creates the application model around ctrl.
func NewApp(ctrl *app.Controller, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{NarrowLayoutThreshold: 80}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}

	styles := NewStyles(ctrl.Preferences().Theme, cfg.Theme)
	timerKeys := NewTimerKeyMap(cfg.Keys)
	taskKeys := NewTaskKeyMap(cfg.Keys)
	global := NewGlobalKeyMap(cfg.Keys)

	a := &App{
		ctrl:        ctrl,
		styles:      styles,
		config:      cfg,
		timerPane:   NewTimerPaneWithKeys(ctrl, styles, cfg.Keys),
		taskPane:    NewTaskPaneWithKeys(ctrl, styles, cfg.Keys),
		statsPane:   NewStatsPane(ctrl, styles),
		helpOverlay: NewHelpOverlay(styles, global, timerKeys, taskKeys, NewInputKeyMap(cfg.Keys)),
		keys:        global,
		timerKeys:   timerKeys,
		helpKeys:    DefaultHelpKeyMap(),
	}
	a.setActivePane(PaneTimer)
	return a
}

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// autoStartCmd delivers id back to the app once p's delay has passed.
func autoStartCmd(p *app.Pending) tea.Cmd {
	id := p.ID
	return tea.Tick(p.Delay, func(time.Time) tea.Msg {
		return autoStartMsg{id: id}
	})
}

// Init starts the tick loop.
func (a *App) Init() tea.Cmd {
	return tickCmd()
}

// inInputMode reports whether keystrokes belong to a text field.
func (a *App) inInputMode() bool {
	return a.form != nil || a.taskPane.IsAdding()
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		a.expireStatus()
		cmds := []tea.Cmd{tickCmd()}
		if res, completed := a.ctrl.Tick(); completed {
			a.SetStatus(fmt.Sprintf("%s complete! Next: %s", res.Transition.From.Label(), res.Transition.To.Label()), false)
			if res.AutoStart != nil {
				cmds = append(cmds, autoStartCmd(res.AutoStart))
			}
		}
		return a, tea.Batch(cmds...)

	case autoStartMsg:
		if a.ctrl.FireAutoStart(msg.id) {
			a.SetStatus(a.ctrl.State().Phase.Label()+" started", false)
		}
		return a, nil

	case statusMsg:
		if msg.err != nil {
			a.SetStatus(msg.err.Error(), true)
		} else if msg.text != "" {
			a.SetStatus(msg.text, false)
		}
		return a, nil

	case settingsClosedMsg:
		a.form = nil
		if msg.saved {
			a.SetStatus("Settings saved", false)
		}
		return a, nil

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case tea.KeyMsg:
		if a.showHelp {
			if key.Matches(msg, a.helpKeys.Close) {
				a.showHelp = false
			}
			return a, nil
		}

		if a.form != nil {
			return a, a.form.Update(msg)
		}

		if !a.inInputMode() {
			switch {
			case key.Matches(msg, a.keys.Quit):
				a.quitting = true
				return a, tea.Quit

			case key.Matches(msg, a.keys.Help):
				a.showHelp = true
				return a, nil

			case key.Matches(msg, a.keys.NextPane):
				a.setActivePane((a.activePane + 1) % 3)
				return a, nil

			case key.Matches(msg, a.keys.Pane1):
				a.setActivePane(PaneTimer)
				return a, nil

			case key.Matches(msg, a.keys.Pane2):
				a.setActivePane(PaneTasks)
				return a, nil

			case key.Matches(msg, a.keys.Pane3):
				a.setActivePane(PaneStats)
				return a, nil

			case key.Matches(msg, a.keys.EditSettings):
				a.form = NewSettingsForm(a.ctrl, a.styles, a.config.Keys)
				return a, nil

			case key.Matches(msg, a.keys.ToggleTheme):
				return a, a.toggleTheme()

			// Start/pause works from every pane
			case a.activePane != PaneTimer && key.Matches(msg, a.timerKeys.Toggle):
				a.ctrl.Toggle()
				return a, nil
			}
		}
	}

	if a.showHelp {
		return a, nil
	}
	return a, a.activeUpdate(msg)
}

func (a *App) activeUpdate(msg tea.Msg) tea.Cmd {
	switch a.activePane {
	case PaneTasks:
		return a.taskPane.Update(msg)
	case PaneStats:
		return a.statsPane.Update(msg)
	default:
		return a.timerPane.Update(msg)
	}
}

func (a *App) toggleTheme() tea.Cmd {
	prefs := a.ctrl.Preferences()
	if prefs.Theme == settings.ThemeLight {
		prefs.Theme = settings.ThemeDark
	} else {
		prefs.Theme = settings.ThemeLight
	}
	if err := a.ctrl.SetPreferences(prefs); err != nil {
		return statusCmd("", err)
	}
	// Panes hold the same pointer, so replace the styles in place.
	*a.styles = *NewStyles(prefs.Theme, a.config.Theme)
	return statusCmd("Theme: "+prefs.Theme, nil)
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.showHelp || a.form != nil {
		if msg.Action == tea.MouseActionPress {
			a.showHelp = false
		}
		return nil
	}

	if msg.Action == tea.MouseActionPress {
		// Narrow layout: the tab bar sits directly above the content
		if a.layoutMode == LayoutNarrow && msg.Y == a.contentTop-1 {
			tabWidth := max(1, a.width/3)
			a.setActivePane(PaneID(min(2, msg.X/tabWidth)))
			return nil
		}

		if clicked := a.paneAtPosition(msg.X); clicked >= 0 && clicked != a.activePane {
			a.setActivePane(clicked)
		}
	}

	if msg.Y < a.contentTop {
		return nil
	}
	local := msg
	local.Y = msg.Y - a.contentTop
	if a.layoutMode == LayoutWide {
		switch a.activePane {
		case PaneTasks:
			local.X = msg.X - a.tasksPaneStart
		case PaneStats:
			local.X = msg.X - a.statsPaneStart
		}
	}
	return a.activeUpdate(local)
}

func (a *App) setActivePane(pane PaneID) {
	a.activePane = pane
	a.timerPane.SetFocused(pane == PaneTimer)
	a.taskPane.SetFocused(pane == PaneTasks)
	a.statsPane.SetFocused(pane == PaneStats)
}

// ActivePane returns the focused pane.
func (a *App) ActivePane() PaneID {
	return a.activePane
}

// Layout returns the current layout mode.
func (a *App) Layout() LayoutMode {
	return a.layoutMode
}

func (a *App) paneAtPosition(x int) PaneID {
	if a.layoutMode == LayoutNarrow {
		return a.activePane
	}
	switch {
	case x >= a.timerPaneStart && x < a.timerPaneEnd:
		return PaneTimer
	case x >= a.tasksPaneStart && x < a.tasksPaneEnd:
		return PaneTasks
	case x >= a.statsPaneStart && x < a.statsPaneEnd:
		return PaneStats
	}
	return -1
}

func (a *App) updateLayout() {
	contentHeight := max(10, a.height-4)
	a.contentTop = 1
	a.helpOverlay.SetSize(a.width, a.height)
	totalWidth := a.width - 4

	threshold := a.config.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = 80
	}

	if a.width < threshold {
		a.layoutMode = LayoutNarrow
		paneWidth := max(20, totalWidth)
		paneHeight := max(8, contentHeight-1)

		a.timerPane.SetSize(paneWidth, paneHeight)
		a.taskPane.SetSize(paneWidth, paneHeight)
		a.statsPane.SetSize(paneWidth, paneHeight)

		a.timerPaneStart, a.timerPaneEnd = 0, a.width
		a.tasksPaneStart, a.tasksPaneEnd = 0, a.width
		a.statsPaneStart, a.statsPaneEnd = 0, a.width
		a.contentTop = 2
		return
	}

	a.layoutMode = LayoutWide
	var timerWidth, tasksWidth, statsWidth int
	if totalWidth < 120 {
		timerWidth = (totalWidth * 30) / 100
		tasksWidth = (totalWidth * 38) / 100
		statsWidth = totalWidth - timerWidth - tasksWidth - 2
	} else {
		timerWidth = min((totalWidth*30)/100, 44)
		tasksWidth = min((totalWidth*38)/100, 56)
		statsWidth = min(totalWidth-timerWidth-tasksWidth-2, 50)
	}

	a.timerPane.SetSize(timerWidth, contentHeight)
	a.taskPane.SetSize(tasksWidth, contentHeight)
	a.statsPane.SetSize(statsWidth, contentHeight)

	a.timerPaneStart = 0
	a.timerPaneEnd = timerWidth
	a.tasksPaneStart = timerWidth + 1
	a.tasksPaneEnd = a.tasksPaneStart + tasksWidth
	a.statsPaneStart = a.tasksPaneEnd + 1
	a.statsPaneEnd = a.statsPaneStart + statsWidth
}

// View renders the whole screen.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}
	if a.showHelp {
		return a.helpOverlay.View()
	}
	if a.form != nil {
		return RenderCentered(a.form.View(), a.width, a.height)
	}

	var b strings.Builder
	b.WriteString(a.renderTitleBar())
	b.WriteString("\n")
	if a.layoutMode == LayoutNarrow {
		b.WriteString(a.renderNarrowContent())
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			a.timerPane.View(), " ", a.taskPane.View(), " ", a.statsPane.View()))
	}
	b.WriteString("\n")
	b.WriteString(a.renderHelpBar())
	return b.String()
}

func (a *App) renderNarrowContent() string {
	var b strings.Builder
	b.WriteString(a.renderPaneTabs())
	b.WriteString("\n")
	switch a.activePane {
	case PaneTasks:
		b.WriteString(a.taskPane.View())
	case PaneStats:
		b.WriteString(a.statsPane.View())
	default:
		b.WriteString(a.timerPane.View())
	}
	return b.String()
}

func (a *App) renderPaneTabs() string {
	tabs := []struct {
		id    PaneID
		label string
	}{
		{PaneTimer, "Timer"},
		{PaneTasks, "Tasks"},
		{PaneStats, "Stats"},
	}

	activeTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorPrimary).
		Bold(true)
	inactiveTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		if tab.id == a.activePane {
			parts = append(parts, activeTabStyle.Render("["+tab.label+"]"))
		} else {
			parts = append(parts, inactiveTabStyle.Render(" "+tab.label+" "))
		}
	}

	tabBar := strings.Join(parts, "  ")
	if padding := (a.width - lipgloss.Width(tabBar)) / 2; padding > 0 {
		tabBar = strings.Repeat(" ", padding) + tabBar
	}
	return tabBar
}

func (a *App) renderGoodbye() string {
	sum := a.ctrl.Summary()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  See you later!\n")
	b.WriteString("\n")
	if sum.TodayCount > 0 {
		b.WriteString("  Today's progress:\n")
		b.WriteString(fmt.Sprintf("     Sessions: %d/%d (%d%%)\n", sum.TodayCount, sum.DailyGoal, sum.DailyProgress))
		b.WriteString(fmt.Sprintf("     Streak:   %d days\n", sum.Streak.Current))
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" tomato ")

	sum := a.ctrl.Summary()
	stats := a.styles.StatLabelStyle.Render(fmt.Sprintf("Today: %d/%d  🔥 %d", sum.TodayCount, sum.DailyGoal, sum.Streak.Current))

	st := a.ctrl.State()
	var timerStatus string
	if st.Running {
		style := a.styles.ClockWorkStyle
		if st.Phase.IsBreak() {
			style = a.styles.ClockBreakStyle
		}
		timerStatus = style.Render(fmt.Sprintf("▶ %s %s", st.Phase.Label(), formatClock(st.RemainingSeconds)))
	}

	date := a.styles.DateStyle.Render(time.Now().Format("Mon Jan 2 · 15:04"))

	used := lipgloss.Width(title) + lipgloss.Width(stats) + lipgloss.Width(timerStatus) + lipgloss.Width(date)
	spacerWidth := max(2, a.width-used-6)

	return title + "  " + stats +
		strings.Repeat(" ", spacerWidth/2) + timerStatus +
		strings.Repeat(" ", spacerWidth-spacerWidth/2) + date
}

// renderHelpBar creates the bottom help bar with context-sensitive hints.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	if a.taskPane.IsAdding() {
		return a.styles.RenderHelp("enter", "save", "esc", "cancel")
	}

	toggle := "start"
	if a.ctrl.State().Running {
		toggle = "pause"
	}

	switch a.activePane {
	case PaneTasks:
		return a.styles.RenderHelp(
			"a", "add",
			"d", "done",
			"enter", "focus",
			"space", toggle,
			"tab", "pane",
			"?", "help",
		)
	case PaneStats:
		return a.styles.RenderHelp(
			"space", toggle,
			"e", "settings",
			"tab", "pane",
			"?", "help",
		)
	default:
		return a.styles.RenderHelp(
			"space", toggle,
			"r", "reset",
			"s", "skip",
			"m", "music",
			"e", "settings",
			"?", "help",
		)
	}
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = time.Now().Add(ttl)
}

func (a *App) expireStatus() {
	if a.status != "" && !a.statusUntil.IsZero() && time.Now().After(a.statusUntil) {
		a.status = ""
		a.statusErr = false
		a.statusUntil = time.Time{}
	}
}

// Run starts the Bubble Tea program around ctrl.
func Run(ctrl *app.Controller, cfg *AppConfig) error {
	p := tea.NewProgram(NewApp(ctrl, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
