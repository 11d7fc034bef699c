package settings

import (
	"errors"
	"testing"
)

func TestDefault(t *testing.T) {
	s := Default()
	if s.WorkMinutes != 25 || s.BreakMinutes != 5 || s.LongBreakMinutes != 15 {
		t.Errorf("Default() durations = %d/%d/%d, want 25/5/15", s.WorkMinutes, s.BreakMinutes, s.LongBreakMinutes)
	}
	if s.DailyGoal != 8 {
		t.Errorf("DailyGoal = %d, want 8", s.DailyGoal)
	}
	if s.AutoStartWork || s.AutoStartBreak {
		t.Error("auto-start should be off by default")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}

	p := DefaultPreferences()
	if !p.Sound {
		t.Error("sound should be on by default")
	}
	if p.Theme != ThemeDark {
		t.Errorf("Theme = %q, want dark", p.Theme)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("DefaultPreferences().Validate() = %v", err)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero work", func(s *Settings) { s.WorkMinutes = 0 }},
		{"negative break", func(s *Settings) { s.BreakMinutes = -5 }},
		{"zero long break", func(s *Settings) { s.LongBreakMinutes = 0 }},
		{"huge work", func(s *Settings) { s.WorkMinutes = 1000 }},
		{"zero goal", func(s *Settings) { s.DailyGoal = 0 }},
		{"huge goal", func(s *Settings) { s.DailyGoal = 500 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			err := s.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() error %v does not wrap ErrInvalid", err)
			}
		})
	}
}

func TestSettingsSanitize(t *testing.T) {
	s := Settings{WorkMinutes: 50, BreakMinutes: -1, LongBreakMinutes: 0, DailyGoal: 3, AutoStartBreak: true}
	got := s.Sanitize()
	want := Settings{WorkMinutes: 50, BreakMinutes: 5, LongBreakMinutes: 15, DailyGoal: 3, AutoStartBreak: true}
	if got != want {
		t.Errorf("Sanitize() = %+v, want %+v", got, want)
	}
}

func TestPreferencesValidate(t *testing.T) {
	tests := []struct {
		name    string
		prefs   Preferences
		wantErr bool
	}{
		{"defaults", DefaultPreferences(), false},
		{"light with lofi", Preferences{Theme: ThemeLight, Music: TrackLofi, MusicVolume: 1}, false},
		{"unknown theme", Preferences{Theme: "solarized"}, true},
		{"unknown track", Preferences{Theme: ThemeDark, Music: "metal"}, true},
		{"volume too loud", Preferences{Theme: ThemeDark, MusicVolume: 1.5}, true},
		{"negative volume", Preferences{Theme: ThemeDark, MusicVolume: -0.1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.prefs.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPreferencesSanitize(t *testing.T) {
	p := Preferences{Sound: false, Theme: "neon", Music: "jazz", MusicVolume: 7}
	got := p.Sanitize()
	want := Preferences{Sound: false, Theme: ThemeDark, Music: TrackNone, MusicVolume: DefaultMusicVolume}
	if got != want {
		t.Errorf("Sanitize() = %+v, want %+v", got, want)
	}
}
