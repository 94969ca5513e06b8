// Package tray provides the system tray interface for the JJ assistant.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onVolumeToggle func(start bool)
	onSpeechToggle func(enabled bool)
	onDashboard    func()
	onQuit         func()
	running        bool
	speech         bool
	mu             sync.RWMutex

	// Menu items stored for later updates
	menuVolume *systray.MenuItem
	menuLevel  *systray.MenuItem
	menuLast   *systray.MenuItem
	menuSpeech *systray.MenuItem
}

// New creates a new Tray instance. Speech starts enabled; the volume
// controller starts idle.
func New() *Tray {
	return &Tray{
		speech: true,
	}
}

// OnVolumeToggle sets the callback for the volume control menu item.
// The callback receives true to start a run and false to stop one; the
// tray itself only changes state through SetRunning, so a failed start
// leaves the menu truthful.
func (t *Tray) OnVolumeToggle(fn func(start bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onVolumeToggle = fn
}

// OnSpeechToggle sets the callback for the speech menu item.
func (t *Tray) OnSpeechToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSpeechToggle = fn
}

// OnDashboard sets the callback for the dashboard menu item.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// OnQuit sets the callback to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit tears the tray down from outside, for shutdown paths that do
// not originate from the menu.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure. The lock covers the whole build so
// the Set* updaters never see a half-built menu.
func (t *Tray) onReady() {
	systray.SetTitle("JJ")
	systray.SetTooltip("JJ Voice Assistant")

	t.mu.Lock()
	t.menuVolume = systray.AddMenuItem(volumeTitle(t.running), "Control the volume with a pinch gesture")

	t.menuLevel = systray.AddMenuItem("Volume: --", "Current volume level")
	t.menuLevel.Disable()

	t.menuLast = systray.AddMenuItem("Last: none", "Last dispatched command")
	t.menuLast.Disable()
	systray.AddSeparator()

	t.menuSpeech = systray.AddMenuItem(speechTitle(t.speech), "Toggle spoken feedback")
	systray.AddSeparator()

	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit JJ")
	t.mu.Unlock()

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuVolume.ClickedCh:
				t.handleVolumeToggle()
			case <-t.menuSpeech.ClickedCh:
				t.handleSpeechToggle()
			case <-menuDashboard.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleVolumeToggle handles the volume control menu item click. The
// menu title is not updated here; whoever owns the controller reports
// the outcome through SetRunning.
func (t *Tray) handleVolumeToggle() {
	t.mu.RLock()
	start := !t.running
	callback := t.onVolumeToggle
	t.mu.RUnlock()

	if callback != nil {
		callback(start)
	}
}

// handleSpeechToggle handles the speech menu item click.
func (t *Tray) handleSpeechToggle() {
	t.mu.Lock()
	t.speech = !t.speech
	enabled := t.speech

	if t.menuSpeech != nil {
		t.menuSpeech.SetTitle(speechTitle(enabled))
	}

	callback := t.onSpeechToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleDashboard handles the dashboard menu item click.
func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetRunning updates the volume control menu item to match the
// controller state.
func (t *Tray) SetRunning(running bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.running = running
	if t.menuVolume == nil {
		return
	}
	t.menuVolume.SetTitle(volumeTitle(running))
	if !running && t.menuLevel != nil {
		t.menuLevel.SetTitle("Volume: --")
	}
}

// SetLastCommand updates the last command display in the menu.
func (t *Tray) SetLastCommand(text string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLast == nil {
		return
	}
	if text == "" {
		t.menuLast.SetTitle("Last: none")
		return
	}
	if len(text) > 40 {
		text = text[:40] + "..."
	}
	t.menuLast.SetTitle("Last: " + text)
}

// SetLevel updates the volume readout in the menu.
func (t *Tray) SetLevel(level float64) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLevel != nil {
		t.menuLevel.SetTitle(fmt.Sprintf("Volume: %d%%", int(level*100+0.5)))
	}
}

// SetSpeech sets the speech state without firing the toggle callback,
// for restoring the persisted preference at startup.
func (t *Tray) SetSpeech(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.speech = enabled
	if t.menuSpeech != nil {
		t.menuSpeech.SetTitle(speechTitle(enabled))
	}
}

// Running returns whether the tray believes a volume run is active.
func (t *Tray) Running() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}

// SpeechEnabled returns the current speech state.
func (t *Tray) SpeechEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.speech
}

func volumeTitle(running bool) string {
	if running {
		return "● Volume control on"
	}
	return "○ Volume control off"
}

func speechTitle(enabled bool) string {
	if enabled {
		return "● Speech On"
	}
	return "○ Speech Off"
}
