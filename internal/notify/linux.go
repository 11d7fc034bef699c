//go:build linux

package notify

import (
	"fmt"
	"os/exec"
)

// linuxNotifier shells out to notify-send.
type linuxNotifier struct{}

func newPlatformNotifier() Notifier {
	return &linuxNotifier{}
}

func (n *linuxNotifier) Send(title, message string) error {
	return n.run(notifySendArgs(title, message, false))
}

// SendWithSound raises the urgency; whether that plays a sound is up to the
// notification daemon.
func (n *linuxNotifier) SendWithSound(title, message string) error {
	return n.run(notifySendArgs(title, message, true))
}

func (n *linuxNotifier) IsSupported() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}

func (n *linuxNotifier) run(args []string) error {
	if err := exec.Command("notify-send", args...).Run(); err != nil {
		return fmt.Errorf("notify-send failed: %w", err)
	}
	return nil
}

func notifySendArgs(title, message string, sound bool) []string {
	args := []string{"--app-name=" + AppName, "--expire-time=10000"}
	if sound {
		args = append(args, "--urgency=critical")
	} else {
		args = append(args, "--urgency=normal")
	}
	return append(args, title, message)
}
