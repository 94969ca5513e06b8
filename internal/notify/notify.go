// Package notify surfaces assistant events as desktop notifications
// and a short audio chime. Notifications are never critical; every
// failure here is swallowed.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

const appName = "JJ"

// Notifier sends desktop notifications.
type Notifier struct {
	enabled bool
}

// New creates a Notifier.
func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

// SetEnabled turns notifications on or off.
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// VolumeStarted announces that gesture volume control is live.
func (n *Notifier) VolumeStarted() {
	n.notify("Volume control", "Pinch your thumb and index finger to set the volume")
}

// VolumeStopped announces the final level after a control session.
func (n *Notifier) VolumeStopped(level float64) {
	n.notify("Volume control", fmt.Sprintf("Stopped at %d%%", int(level*100)))
}

// Opened announces a launched app or website.
func (n *Notifier) Opened(name string) {
	n.notify("Opening", name)
}

// Error shows a failure message.
func (n *Notifier) Error(msg string) {
	n.notify("Error", msg)
}

// Info shows a plain message, truncated to notification size.
func (n *Notifier) Info(msg string) {
	if len(msg) > 100 {
		msg = msg[:100] + "..."
	}
	n.notify("", msg)
}

func (n *Notifier) notify(title, message string) {
	if !n.enabled {
		return
	}
	// Notification failures are not worth surfacing.
	if title != "" {
		_ = beeep.Notify(appName+": "+title, message, "")
	} else {
		_ = beeep.Notify(appName, message, "")
	}
}
