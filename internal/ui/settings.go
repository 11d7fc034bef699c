package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tomato/internal/app"
	"tomato/internal/config"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var errNotNumber = errors.New("not a number")

type fieldKind int

const (
	fieldNumber fieldKind = iota
	fieldSwitch
)

// formField is one row of the settings form.
type formField struct {
	label string
	kind  fieldKind
	input textinput.Model
	on    bool
}

// Field order; save reads the values back by index.
const (
	fieldWork = iota
	fieldBreak
	fieldLongBreak
	fieldGoal
	fieldVolume
	fieldAutoWork
	fieldAutoBreak
	fieldSound
)

// SettingsForm edits the timer settings and sound preferences. It is
// shown as an overlay and applies everything at once on confirm.
type SettingsForm struct {
	ctrl   *app.Controller
	styles *Styles
	keys   FormKeyMap

	fields []formField
	cursor int
	err    error
}

// NewSettingsForm creates a form filled with the controller's current values.
func NewSettingsForm(ctrl *app.Controller, styles *Styles, keyCfg *config.KeysConfig) *SettingsForm {
	f := &SettingsForm{
		ctrl:   ctrl,
		styles: styles,
		keys:   NewFormKeyMap(keyCfg),
	}
	s := ctrl.Settings()
	prefs := ctrl.Preferences()
	f.fields = []formField{
		numberField("Focus (min)", s.WorkMinutes),
		numberField("Short break (min)", s.BreakMinutes),
		numberField("Long break (min)", s.LongBreakMinutes),
		numberField("Daily goal", s.DailyGoal),
		numberField("Music volume (%)", int(prefs.MusicVolume*100+0.5)),
		{label: "Auto-start focus", kind: fieldSwitch, on: s.AutoStartWork},
		{label: "Auto-start breaks", kind: fieldSwitch, on: s.AutoStartBreak},
		{label: "Chime", kind: fieldSwitch, on: prefs.Sound},
	}
	f.focus(0)
	return f
}

func numberField(label string, value int) formField {
	ti := textinput.New()
	ti.CharLimit = 3
	ti.Width = 5
	ti.SetValue(strconv.Itoa(value))
	ti.Validate = func(s string) error {
		for _, r := range s {
			if r < '0' || r > '9' {
				return errNotNumber
			}
		}
		return nil
	}
	return formField{label: label, kind: fieldNumber, input: ti}
}

// Err returns the last validation error, if any.
func (f *SettingsForm) Err() error {
	return f.err
}

func (f *SettingsForm) focus(i int) {
	if cur := &f.fields[f.cursor]; cur.kind == fieldNumber {
		cur.input.Blur()
	}
	f.cursor = i
	if cur := &f.fields[f.cursor]; cur.kind == fieldNumber {
		cur.input.Focus()
	}
}

// Update handles keys while the form is open.
func (f *SettingsForm) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(keyMsg, f.keys.Cancel):
		return func() tea.Msg { return settingsClosedMsg{} }

	case key.Matches(keyMsg, f.keys.Confirm):
		if err := f.save(); err != nil {
			f.err = err
			return nil
		}
		return func() tea.Msg { return settingsClosedMsg{saved: true} }

	case key.Matches(keyMsg, f.keys.Next):
		f.focus((f.cursor + 1) % len(f.fields))
		return nil

	case key.Matches(keyMsg, f.keys.Prev):
		f.focus((f.cursor + len(f.fields) - 1) % len(f.fields))
		return nil
	}

	cur := &f.fields[f.cursor]
	if cur.kind == fieldSwitch {
		if key.Matches(keyMsg, f.keys.Switch) {
			cur.on = !cur.on
		}
		return nil
	}

	var cmd tea.Cmd
	cur.input, cmd = cur.input.Update(msg)
	return cmd
}

// save validates every field and applies them. Nothing is applied when
// any value is rejected.
func (f *SettingsForm) save() error {
	nums := make([]int, fieldVolume+1)
	for i := fieldWork; i <= fieldVolume; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(f.fields[i].input.Value()))
		if err != nil {
			return fmt.Errorf("%s: enter a whole number", f.fields[i].label)
		}
		nums[i] = n
	}

	s := f.ctrl.Settings()
	s.WorkMinutes = nums[fieldWork]
	s.BreakMinutes = nums[fieldBreak]
	s.LongBreakMinutes = nums[fieldLongBreak]
	s.DailyGoal = nums[fieldGoal]
	s.AutoStartWork = f.fields[fieldAutoWork].on
	s.AutoStartBreak = f.fields[fieldAutoBreak].on
	if err := s.Validate(); err != nil {
		return err
	}

	prefs := f.ctrl.Preferences()
	prefs.MusicVolume = float64(nums[fieldVolume]) / 100
	prefs.Sound = f.fields[fieldSound].on
	if err := prefs.Validate(); err != nil {
		return err
	}

	if err := f.ctrl.ApplySettings(s); err != nil {
		return err
	}
	return f.ctrl.SetPreferences(prefs)
}

// View renders the form.
func (f *SettingsForm) View() string {
	var b strings.Builder
	b.WriteString(f.styles.PaneTitleStyle.Render("⚙️  SETTINGS"))
	b.WriteString("\n\n")

	for i, field := range f.fields {
		label := fmt.Sprintf("%-20s", field.label)
		var value string
		if field.kind == fieldSwitch {
			value = "off"
			if field.on {
				value = "on"
			}
			value = "[" + value + "]"
		} else {
			value = field.input.View()
		}

		line := "  " + label + " " + value
		if i == f.cursor {
			line = f.styles.TaskSelectedStyle.Render("▸ " + label + " " + value)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if f.err != nil {
		b.WriteString("\n")
		b.WriteString(f.styles.ErrorStyle.Render(f.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(f.styles.RenderHelp("tab", "next", "space", "toggle", "enter", "save", "esc", "cancel"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(f.styles.ColorPrimary).
		Padding(1, 2).
		Render(b.String())
}
