// Package settings defines the timer settings and user preferences consumed
// by the session state machine, together with their defaults and the
// validation applied at the configuration boundary.
package settings

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid settings")

const (
	DefaultWorkMinutes      = 25
	DefaultBreakMinutes     = 5
	DefaultLongBreakMinutes = 15
	DefaultDailyGoal        = 8
	DefaultMusicVolume      = 0.3

	maxDurationMinutes = 180
	maxDailyGoal       = 50
)

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Background music tracks.
const (
	TrackNone    = ""
	TrackLofi    = "lofi"
	TrackNature  = "nature"
	TrackAmbient = "ambient"
)

// Settings holds the durations and policy flags read by the state machine.
type Settings struct {
	WorkMinutes      int  `json:"work_minutes" yaml:"work_minutes"`
	BreakMinutes     int  `json:"break_minutes" yaml:"break_minutes"`
	LongBreakMinutes int  `json:"long_break_minutes" yaml:"long_break_minutes"`
	DailyGoal        int  `json:"daily_goal" yaml:"daily_goal"`
	AutoStartWork    bool `json:"auto_start_work" yaml:"auto_start_work"`
	AutoStartBreak   bool `json:"auto_start_break" yaml:"auto_start_break"`
}

// Preferences holds user choices that do not affect timing.
type Preferences struct {
	Sound       bool    `json:"sound" yaml:"sound"`
	Theme       string  `json:"theme" yaml:"theme"`
	Music       string  `json:"music,omitempty" yaml:"music,omitempty"`
	MusicVolume float64 `json:"music_volume" yaml:"music_volume"`
}

// Default returns the default timer settings.
func Default() Settings {
	return Settings{
		WorkMinutes:      DefaultWorkMinutes,
		BreakMinutes:     DefaultBreakMinutes,
		LongBreakMinutes: DefaultLongBreakMinutes,
		DailyGoal:        DefaultDailyGoal,
	}
}

// DefaultPreferences returns the default preferences.
func DefaultPreferences() Preferences {
	return Preferences{
		Sound:       true,
		Theme:       ThemeDark,
		Music:       TrackNone,
		MusicVolume: DefaultMusicVolume,
	}
}

// Validate rejects settings the state machine must never observe.
func (s Settings) Validate() error {
	if err := checkMinutes("work duration", s.WorkMinutes); err != nil {
		return err
	}
	if err := checkMinutes("break duration", s.BreakMinutes); err != nil {
		return err
	}
	if err := checkMinutes("long break duration", s.LongBreakMinutes); err != nil {
		return err
	}
	if s.DailyGoal <= 0 || s.DailyGoal > maxDailyGoal {
		return fmt.Errorf("%w: daily goal must be between 1 and %d", ErrInvalid, maxDailyGoal)
	}
	return nil
}

func checkMinutes(name string, minutes int) error {
	if minutes <= 0 || minutes > maxDurationMinutes {
		return fmt.Errorf("%w: %s must be between 1 and %d minutes", ErrInvalid, name, maxDurationMinutes)
	}
	return nil
}

// Sanitize replaces each out-of-range field with its default.
func (s Settings) Sanitize() Settings {
	def := Default()
	if checkMinutes("", s.WorkMinutes) != nil {
		s.WorkMinutes = def.WorkMinutes
	}
	if checkMinutes("", s.BreakMinutes) != nil {
		s.BreakMinutes = def.BreakMinutes
	}
	if checkMinutes("", s.LongBreakMinutes) != nil {
		s.LongBreakMinutes = def.LongBreakMinutes
	}
	if s.DailyGoal <= 0 || s.DailyGoal > maxDailyGoal {
		s.DailyGoal = def.DailyGoal
	}
	return s
}

// Validate rejects unknown themes, unknown tracks and out-of-range volume.
func (p Preferences) Validate() error {
	if !IsTheme(p.Theme) {
		return fmt.Errorf("%w: unknown theme %q", ErrInvalid, p.Theme)
	}
	if !IsTrack(p.Music) {
		return fmt.Errorf("%w: unknown music track %q", ErrInvalid, p.Music)
	}
	if p.MusicVolume < 0 || p.MusicVolume > 1 {
		return fmt.Errorf("%w: music volume must be within [0,1]", ErrInvalid)
	}
	return nil
}

// Sanitize replaces each invalid field with its default.
func (p Preferences) Sanitize() Preferences {
	def := DefaultPreferences()
	if !IsTheme(p.Theme) {
		p.Theme = def.Theme
	}
	if !IsTrack(p.Music) {
		p.Music = def.Music
	}
	if p.MusicVolume < 0 || p.MusicVolume > 1 {
		p.MusicVolume = def.MusicVolume
	}
	return p
}

// IsTheme reports whether name is a known theme.
func IsTheme(name string) bool {
	return name == ThemeDark || name == ThemeLight
}

// IsTrack reports whether name is a known track or empty (no music).
func IsTrack(name string) bool {
	switch name {
	case TrackNone, TrackLofi, TrackNature, TrackAmbient:
		return true
	}
	return false
}

// Tracks lists the selectable background tracks in display order.
func Tracks() []string {
	return []string{TrackLofi, TrackNature, TrackAmbient}
}
