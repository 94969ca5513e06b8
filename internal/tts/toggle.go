package tts

import "sync/atomic"

// Toggle wraps a Speaker with a runtime on/off switch, so spoken
// feedback can be muted from the tray without rebuilding the assistant.
type Toggle struct {
	speaker Speaker
	enabled atomic.Bool
}

// NewToggle wraps the given speaker with the given initial state.
func NewToggle(speaker Speaker, enabled bool) *Toggle {
	t := &Toggle{speaker: speaker}
	t.enabled.Store(enabled)
	return t
}

// Say forwards to the wrapped speaker when enabled and is a no-op
// otherwise.
func (t *Toggle) Say(text string) error {
	if !t.enabled.Load() {
		return nil
	}
	return t.speaker.Say(text)
}

// SetEnabled switches spoken feedback on or off.
func (t *Toggle) SetEnabled(enabled bool) {
	t.enabled.Store(enabled)
}

// Enabled reports whether spoken feedback is on.
func (t *Toggle) Enabled() bool {
	return t.enabled.Load()
}
