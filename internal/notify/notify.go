// Package notify sends desktop notifications when a session ends. It uses
// osascript on macOS and notify-send on Linux, and does nothing elsewhere.
package notify

// AppName is reported to notification daemons that accept one.
const AppName = "tomato"

// Notifier sends desktop notifications.
type Notifier interface {
	// Send shows a notification with the given title and message.
	Send(title, message string) error

	// SendWithSound shows a notification and asks the daemon to play its
	// default sound.
	SendWithSound(title, message string) error

	// IsSupported reports whether the platform tool is available.
	IsSupported() bool
}

type noopNotifier struct{}

func (noopNotifier) Send(title, message string) error          { return nil }
func (noopNotifier) SendWithSound(title, message string) error { return nil }
func (noopNotifier) IsSupported() bool                         { return false }

// Noop returns a notifier that drops everything.
func Noop() Notifier {
	return noopNotifier{}
}

// New returns the platform notifier, or a no-op one when the platform tool
// is missing.
func New() Notifier {
	n := newPlatformNotifier()
	if n == nil || !n.IsSupported() {
		return noopNotifier{}
	}
	return n
}

// Config holds notification settings from the config file.
type Config struct {
	// Enabled turns desktop notifications on.
	Enabled bool `yaml:"enabled"`

	// Sound asks the daemon to play a sound with each notification.
	Sound bool `yaml:"sound"`
}

// DefaultConfig enables notifications without daemon sound; the chime is
// handled by the audio player.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Sound:   false,
	}
}
