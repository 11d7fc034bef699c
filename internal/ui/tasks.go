package ui

import (
	"fmt"
	"strings"

	"tomato/internal/app"
	"tomato/internal/config"
	"tomato/internal/tasks"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// TaskPane handles the task list display and interactions.
type TaskPane struct {
	ctrl    *app.Controller
	cursor  int
	focused bool
	width   int
	height  int
	adding  bool
	input   textinput.Model
	styles  *Styles

	// Key bindings
	keys      TaskKeyMap
	inputKeys InputKeyMap
}

// NewTaskPane creates a new task pane.
func NewTaskPane(ctrl *app.Controller, styles *Styles) *TaskPane {
	return NewTaskPaneWithKeys(ctrl, styles, &config.KeysConfig{})
}

// NewTaskPaneWithKeys creates a new task pane with custom key bindings.
func NewTaskPaneWithKeys(ctrl *app.Controller, styles *Styles, keyCfg *config.KeysConfig) *TaskPane {
	ti := textinput.New()
	ti.Placeholder = "What are you working on?"
	ti.CharLimit = 200
	ti.Width = 40

	return &TaskPane{
		ctrl:      ctrl,
		input:     ti,
		styles:    styles,
		keys:      NewTaskKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
}

// SetSize sets the pane dimensions.
func (p *TaskPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-4)
}

// SetFocused sets whether this pane is focused.
func (p *TaskPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *TaskPane) IsFocused() bool {
	return p.focused
}

// IsAdding returns whether we're in add mode.
func (p *TaskPane) IsAdding() bool {
	return p.adding
}

// Cursor returns the highlighted row.
func (p *TaskPane) Cursor() int {
	return p.cursor
}

// Update handles messages for the task pane.
func (p *TaskPane) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	if p.adding {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, p.inputKeys.Confirm):
				text := p.input.Value()
				p.adding = false
				p.input.Reset()
				if strings.TrimSpace(text) == "" {
					return nil
				}
				t, err := p.ctrl.AddTask(text)
				if err != nil {
					return statusCmd("", err)
				}
				p.cursor = 0
				return statusCmd("Added: "+t.Text, nil)

			case key.Matches(msg, p.inputKeys.Cancel):
				p.adding = false
				p.input.Reset()
				return nil
			}
		}

		p.input, cmd = p.input.Update(msg)
		return cmd
	}

	if !p.focused {
		return nil
	}

	list := p.ctrl.Tasks()
	p.clampCursor(len(list))

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg, list)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Down):
			if len(list) > 0 {
				p.cursor = min(p.cursor+1, len(list)-1)
			}

		case key.Matches(msg, p.keys.Up):
			if len(list) > 0 {
				p.cursor = max(p.cursor-1, 0)
			}

		case key.Matches(msg, p.keys.Add):
			p.adding = true
			p.input.Focus()
			return textinput.Blink

		case key.Matches(msg, p.keys.Toggle):
			if len(list) > 0 {
				return p.toggle(list[p.cursor])
			}

		case key.Matches(msg, p.keys.Select):
			if len(list) > 0 {
				return p.selectTask(list[p.cursor])
			}
		}
	}

	return nil
}

func (p *TaskPane) toggle(t tasks.Task) tea.Cmd {
	updated, err := p.ctrl.ToggleTask(t.ID)
	if err != nil {
		return statusCmd("", err)
	}
	if updated.Completed {
		return statusCmd("Completed: "+updated.Text, nil)
	}
	return statusCmd("Reopened: "+updated.Text, nil)
}

// selectTask focuses work on t, or clears the focus when t already has it.
func (p *TaskPane) selectTask(t tasks.Task) tea.Cmd {
	if cur, ok := p.ctrl.CurrentTask(); ok && cur.ID == t.ID {
		p.ctrl.ClearTask()
		return statusCmd("No task selected", nil)
	}
	if t.Completed {
		return statusCmd("Completed tasks cannot be selected", nil)
	}
	p.ctrl.SelectTask(t.ID)
	return statusCmd("Focusing on: "+t.Text, nil)
}

// handleMouse processes mouse events for the task pane.
func (p *TaskPane) handleMouse(msg tea.MouseMsg, list []tasks.Task) tea.Cmd {
	if len(list) == 0 {
		return nil
	}

	// Content starts after title (1) + separator (1) = row 2
	const headerRows = 2

	maxTasks := p.visibleRows()
	startIdx := p.windowStart(maxTasks)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.cursor = max(p.cursor-1, 0)

	case tea.MouseButtonWheelDown:
		p.cursor = min(p.cursor+1, len(list)-1)

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		row := msg.Y - headerRows
		if row < 0 || row >= maxTasks {
			return nil
		}
		idx := startIdx + row
		if idx >= len(list) {
			return nil
		}
		p.cursor = idx

		// The checkbox occupies the first few columns
		if msg.X < 5 {
			return p.toggle(list[idx])
		}
	}

	return nil
}

// View renders the task pane.
func (p *TaskPane) View() string {
	var b strings.Builder
	list := p.ctrl.Tasks()
	p.clampCursor(len(list))

	b.WriteString(p.styles.PaneTitleStyle.Render("✅ TASKS"))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	if len(list) == 0 && !p.adding {
		b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorTextMuted).Italic(true).Render("  No tasks yet. Press 'a' to add one."))
		b.WriteString("\n")
	} else {
		currentID := ""
		if cur, ok := p.ctrl.CurrentTask(); ok {
			currentID = cur.ID
		}

		maxTasks := p.visibleRows()
		startIdx := p.windowStart(maxTasks)
		doneCount := 0

		for i, t := range list {
			if t.Completed {
				doneCount++
			}
			if i < startIdx || i >= startIdx+maxTasks {
				continue
			}
			b.WriteString(p.renderTask(t, i == p.cursor, t.ID == currentID))
			b.WriteString("\n")
		}

		b.WriteString("\n")
		b.WriteString("  " + p.styles.StatLabelStyle.Render(fmt.Sprintf("%d/%d complete", doneCount, len(list))))
		b.WriteString("\n")
	}

	if p.adding {
		b.WriteString("\n")
		b.WriteString(p.styles.InputPromptStyle.Render("+ ") + p.input.View())
		b.WriteString("\n")
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

// renderTask lays out one row: [marker][checkbox] text  🍅n
func (p *TaskPane) renderTask(t tasks.Task, selected, current bool) string {
	marker := " "
	if current {
		marker = p.styles.TaskCurrentStyle.Render("▸")
	}
	checkbox := p.styles.TaskCheckboxPending
	if t.Completed {
		checkbox = p.styles.TaskCheckboxDone
	}

	count := ""
	if t.SessionCount > 0 {
		count = fmt.Sprintf("🍅%d", t.SessionCount)
	}
	countWidth := runewidth.StringWidth(count)

	// leading space + marker + checkbox + space, plus pane padding/borders
	fixedWidth := 6
	if countWidth > 0 {
		fixedWidth += countWidth + 1
	}
	textWidth := max(5, p.width-4-fixedWidth)
	text := runewidth.Truncate(t.Text, textWidth, "..")

	padding := ""
	if countWidth > 0 {
		padding = strings.Repeat(" ", max(1, textWidth-runewidth.StringWidth(text)+1))
	}

	if selected && p.focused && !p.adding {
		return p.styles.TaskSelectedStyle.Render(" " + marker + checkbox + " " + text + padding + count + " ")
	}

	var styled string
	switch {
	case t.Completed:
		styled = p.styles.TaskDoneStyle.Render(text)
	case current:
		styled = p.styles.TaskCurrentStyle.Render(text)
	default:
		styled = p.styles.TaskPendingStyle.Render(text)
	}
	return " " + marker + checkbox + " " + styled + padding + p.styles.StatLabelStyle.Render(count)
}

// visibleRows is the number of task rows that fit in the pane.
func (p *TaskPane) visibleRows() int {
	n := p.height - 6 // title, separator, input, stats
	if n < 3 {
		n = 5
	}
	return n
}

func (p *TaskPane) windowStart(rows int) int {
	if p.cursor >= rows {
		return p.cursor - rows + 1
	}
	return 0
}

func (p *TaskPane) clampCursor(n int) {
	if p.cursor >= n {
		p.cursor = max(0, n-1)
	}
}
