package audio

import "sync"

// VisualEndpoint keeps the volume level in memory without touching the
// machine. It backs gesture control on hosts with no volume tool, where
// the level still drives the on-screen overlay and the dashboard.
type VisualEndpoint struct {
	mu    sync.Mutex
	level float64
}

// NewVisualEndpoint returns a visual endpoint starting at half volume.
func NewVisualEndpoint() *VisualEndpoint {
	return &VisualEndpoint{level: 0.5}
}

// SetVolume stores the level.
func (e *VisualEndpoint) SetVolume(level float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.level = clamp01(level)
	return nil
}

// Volume returns the stored level.
func (e *VisualEndpoint) Volume() (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.level, nil
}

// Name identifies the backend.
func (e *VisualEndpoint) Name() string {
	return "visual"
}
