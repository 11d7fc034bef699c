package main

import (
	"fmt"
	"io"
	"math"

	"tomato/internal/app"
	"tomato/internal/settings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change timer settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current settings",
			Args:  cobra.NoArgs,
			RunE: withController(opts, func(ctrl *app.Controller, out io.Writer, args []string) error {
				printSettings(out, ctrl.Settings(), ctrl.Preferences())
				return nil
			}),
		},
		newSettingsSetCmd(opts),
	)
	return cmd
}

func newSettingsSetCmd(opts *rootOptions) *cobra.Command {
	var (
		s     = settings.Default()
		prefs = settings.DefaultPreferences()
		vol   int
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings; only the given flags are updated",
		Example: `  tomato settings set --work 50 --break 10
  tomato settings set --auto-break --goal 6
  tomato settings set --music lofi --volume 40`,
		Args: cobra.NoArgs,
	}

	f := cmd.Flags()
	f.IntVar(&s.WorkMinutes, "work", s.WorkMinutes, "focus duration in minutes")
	f.IntVar(&s.BreakMinutes, "break", s.BreakMinutes, "short break duration in minutes")
	f.IntVar(&s.LongBreakMinutes, "long-break", s.LongBreakMinutes, "long break duration in minutes")
	f.IntVar(&s.DailyGoal, "goal", s.DailyGoal, "focus sessions per day")
	f.BoolVar(&s.AutoStartWork, "auto-work", false, "start focus sessions automatically after breaks")
	f.BoolVar(&s.AutoStartBreak, "auto-break", false, "start breaks automatically after focus sessions")
	f.BoolVar(&prefs.Sound, "sound", prefs.Sound, "play a chime when a phase completes")
	f.StringVar(&prefs.Theme, "theme", prefs.Theme, "color theme: dark or light")
	f.StringVar(&prefs.Music, "music", prefs.Music, "background music: lofi, nature, ambient or none")
	f.IntVar(&vol, "volume", int(prefs.MusicVolume*100), "music volume in percent")

	cmd.RunE = withController(opts, func(ctrl *app.Controller, out io.Writer, args []string) error {
		if !anyChanged(f, settingFlags) {
			return fmt.Errorf("nothing to change (see 'tomato settings set --help')")
		}

		next := ctrl.Settings()
		changedInt := map[string]*int{
			"work":       &next.WorkMinutes,
			"break":      &next.BreakMinutes,
			"long-break": &next.LongBreakMinutes,
			"goal":       &next.DailyGoal,
		}
		for name, dst := range changedInt {
			if f.Changed(name) {
				v, _ := f.GetInt(name)
				*dst = v
			}
		}
		if f.Changed("auto-work") {
			next.AutoStartWork = s.AutoStartWork
		}
		if f.Changed("auto-break") {
			next.AutoStartBreak = s.AutoStartBreak
		}

		nextPrefs := ctrl.Preferences()
		if f.Changed("sound") {
			nextPrefs.Sound = prefs.Sound
		}
		if f.Changed("theme") {
			nextPrefs.Theme = prefs.Theme
		}
		if f.Changed("music") {
			nextPrefs.Music = prefs.Music
			if nextPrefs.Music == "none" {
				nextPrefs.Music = settings.TrackNone
			}
		}
		if f.Changed("volume") {
			nextPrefs.MusicVolume = float64(vol) / 100
		}

		// Validate both before applying either.
		if err := next.Validate(); err != nil {
			return err
		}
		if err := nextPrefs.Validate(); err != nil {
			return err
		}
		if err := ctrl.ApplySettings(next); err != nil {
			return err
		}
		if err := ctrl.SetPreferences(nextPrefs); err != nil {
			return err
		}

		printSettings(out, ctrl.Settings(), ctrl.Preferences())
		return nil
	})
	return cmd
}

func printSettings(w io.Writer, s settings.Settings, p settings.Preferences) {
	music := p.Music
	if music == settings.TrackNone {
		music = "none"
	}
	fmt.Fprintf(w, "Focus:       %d min\n", s.WorkMinutes)
	fmt.Fprintf(w, "Short break: %d min\n", s.BreakMinutes)
	fmt.Fprintf(w, "Long break:  %d min\n", s.LongBreakMinutes)
	fmt.Fprintf(w, "Daily goal:  %d sessions\n", s.DailyGoal)
	fmt.Fprintf(w, "Auto-start:  focus %s, breaks %s\n", onOff(s.AutoStartWork), onOff(s.AutoStartBreak))
	fmt.Fprintf(w, "Chime:       %s\n", onOff(p.Sound))
	fmt.Fprintf(w, "Theme:       %s\n", p.Theme)
	fmt.Fprintf(w, "Music:       %s (%d%%)\n", music, int(math.Round(p.MusicVolume*100)))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// settingFlags are the flags owned by 'settings set'. The root's persistent
// flags share the same flag set after parsing and must not count as changes.
var settingFlags = []string{
	"work", "break", "long-break", "goal", "auto-work", "auto-break",
	"sound", "theme", "music", "volume",
}

func anyChanged(f *pflag.FlagSet, names []string) bool {
	for _, name := range names {
		if f.Changed(name) {
			return true
		}
	}
	return false
}
