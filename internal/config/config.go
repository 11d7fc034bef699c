// Package config handles configuration loading and defaults for tomato.
// Configuration is loaded from XDG-compliant paths (typically ~/.config/tomato/config.yaml).
// Timer durations and the daily goal are not configured here; they are part
// of the persisted data and edited from the app.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"tomato/internal/fsutil"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.tomato)
	DataDir string `yaml:"data_dir,omitempty"`

	// Storage selects the persistence backend: "json" or "sqlite"
	Storage string `yaml:"storage,omitempty"`

	// Theme overrides the colors of the selected theme
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	Notifications NotificationConfig `yaml:"notifications"`
	Audio         AudioConfig        `yaml:"audio"`
	History       HistoryConfig      `yaml:"history"`
}

// NotificationConfig defines desktop notification settings.
type NotificationConfig struct {
	Enabled bool `yaml:"enabled"`
	Sound   bool `yaml:"sound"`
}

// AudioConfig controls the external audio player.
type AudioConfig struct {
	// Enabled allows chimes and background music at all
	Enabled bool `yaml:"enabled"`

	// Bell rings the terminal bell when no audio player is installed
	Bell bool `yaml:"bell"`
}

// HistoryConfig defines git history of the data directory.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled"`

	// CommitMessage is "auto" for messages derived from the change
	CommitMessage string `yaml:"commit_message,omitempty"`
}

// ThemeConfig overrides theme colors (hex, e.g. "#FF5733").
type ThemeConfig struct {
	Primary string `yaml:"primary,omitempty"`
	Accent  string `yaml:"accent,omitempty"`
	Muted   string `yaml:"muted,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "tab", "j,down"
type KeysConfig struct {
	Quit     string `yaml:"quit,omitempty"`      // default: "q,ctrl+c"
	Help     string `yaml:"help,omitempty"`      // default: "?"
	NextPane string `yaml:"next_pane,omitempty"` // default: "tab"
	Pane1    string `yaml:"pane_1,omitempty"`    // default: "1"
	Pane2    string `yaml:"pane_2,omitempty"`    // default: "2"
	Pane3    string `yaml:"pane_3,omitempty"`    // default: "3"

	Up   string `yaml:"up,omitempty"`   // default: "k,up"
	Down string `yaml:"down,omitempty"` // default: "j,down"

	ToggleTimer string `yaml:"toggle_timer,omitempty"` // default: "space"
	ResetTimer  string `yaml:"reset_timer,omitempty"`  // default: "r"
	SkipTimer   string `yaml:"skip_timer,omitempty"`   // default: "s"

	AddTask    string `yaml:"add_task,omitempty"`    // default: "a"
	ToggleTask string `yaml:"toggle_task,omitempty"` // default: "d,x"
	SelectTask string `yaml:"select_task,omitempty"` // default: "enter"

	ToggleMusic  string `yaml:"toggle_music,omitempty"`  // default: "m"
	CycleTrack   string `yaml:"cycle_track,omitempty"`   // default: "M"
	ToggleTheme  string `yaml:"toggle_theme,omitempty"`  // default: "T"
	EditSettings string `yaml:"edit_settings,omitempty"` // default: "e"

	Confirm string `yaml:"confirm,omitempty"` // default: "enter"
	Cancel  string `yaml:"cancel,omitempty"`  // default: "esc"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Storage: "json",
		Theme:   ThemeConfig{}, // Theme palette as-is
		Keys:    KeysConfig{},  // Empty strings mean built-in defaults
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		Audio: AudioConfig{
			Enabled: true,
			Bell:    true,
		},
		History: HistoryConfig{
			Enabled:       false,
			CommitMessage: "auto",
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tomato"
	}
	return filepath.Join(home, ".tomato")
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tomato")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tomato")
}

// Path returns the path to the config file, or "" when no home directory
// can be resolved.
func Path() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from disk, merging with defaults.
// If no config file exists, returns default configuration.
func Load() (*Config, error) {
	cfg := Default()

	path := Path()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, err
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; without it only non-empty values merge

	cfg.mergeFromYAML(&userCfg, &doc)
	return cfg, nil
}

func setIfNonEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// mergeNonEmpty applies non-empty strings from other to c. Booleans need
// presence-aware merging and are left alone.
func (c *Config) mergeNonEmpty(other *Config) {
	setIfNonEmpty(&c.DataDir, other.DataDir)
	setIfNonEmpty(&c.Storage, strings.ToLower(strings.TrimSpace(other.Storage)))

	setIfNonEmpty(&c.Theme.Primary, other.Theme.Primary)
	setIfNonEmpty(&c.Theme.Accent, other.Theme.Accent)
	setIfNonEmpty(&c.Theme.Muted, other.Theme.Muted)

	k, o := &c.Keys, other.Keys
	setIfNonEmpty(&k.Quit, o.Quit)
	setIfNonEmpty(&k.Help, o.Help)
	setIfNonEmpty(&k.NextPane, o.NextPane)
	setIfNonEmpty(&k.Pane1, o.Pane1)
	setIfNonEmpty(&k.Pane2, o.Pane2)
	setIfNonEmpty(&k.Pane3, o.Pane3)
	setIfNonEmpty(&k.Up, o.Up)
	setIfNonEmpty(&k.Down, o.Down)
	setIfNonEmpty(&k.ToggleTimer, o.ToggleTimer)
	setIfNonEmpty(&k.ResetTimer, o.ResetTimer)
	setIfNonEmpty(&k.SkipTimer, o.SkipTimer)
	setIfNonEmpty(&k.AddTask, o.AddTask)
	setIfNonEmpty(&k.ToggleTask, o.ToggleTask)
	setIfNonEmpty(&k.SelectTask, o.SelectTask)
	setIfNonEmpty(&k.ToggleMusic, o.ToggleMusic)
	setIfNonEmpty(&k.CycleTrack, o.CycleTrack)
	setIfNonEmpty(&k.ToggleTheme, o.ToggleTheme)
	setIfNonEmpty(&k.EditSettings, o.EditSettings)
	setIfNonEmpty(&k.Confirm, o.Confirm)
	setIfNonEmpty(&k.Cancel, o.Cancel)

	setIfNonEmpty(&c.History.CommitMessage, other.History.CommitMessage)
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)
	if doc == nil || len(doc.Content) == 0 {
		return
	}

	// Booleans only apply when the key is present, so an omitted key keeps
	// its default and an explicit false still wins.
	bools := []struct {
		dst  *bool
		src  bool
		path []string
	}{
		{&c.Notifications.Enabled, other.Notifications.Enabled, []string{"notifications", "enabled"}},
		{&c.Notifications.Sound, other.Notifications.Sound, []string{"notifications", "sound"}},
		{&c.Audio.Enabled, other.Audio.Enabled, []string{"audio", "enabled"}},
		{&c.Audio.Bell, other.Audio.Bell, []string{"audio", "bell"}},
		{&c.History.Enabled, other.History.Enabled, []string{"history", "enabled"}},
	}
	for _, b := range bools {
		if yamlHasPath(doc, b.path...) {
			*b.dst = b.src
		}
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if k := n.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the resolved data directory path, expanding a leading ~.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	if c.DataDir == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return c.DataDir
	}
	if strings.HasPrefix(c.DataDir, "~/") || strings.HasPrefix(c.DataDir, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, c.DataDir[2:])
		}
	}
	return c.DataDir
}
