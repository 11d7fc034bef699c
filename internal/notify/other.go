//go:build !darwin && !linux

package notify

// Other platforms have no notification tool; New falls back to noop.
func newPlatformNotifier() Notifier {
	return nil
}
