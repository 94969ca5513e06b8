// Package audio controls the machine's output volume. Volume levels are
// fractions in [0,1] everywhere; conversion to platform units happens at
// the edge.
package audio

import (
	log "log/slog"
)

// Endpoint applies and reports the output volume.
type Endpoint interface {
	// SetVolume sets the output volume. Levels outside [0,1] are clamped.
	SetVolume(level float64) error

	// Volume returns the current output volume in [0,1]. Endpoints that
	// cannot read the volume back return an error until the first set.
	Volume() (float64, error)

	// Name identifies the backend, "system" or "visual".
	Name() string
}

// NewEndpoint returns the system endpoint when a platform volume tool is
// available, falling back to the visual endpoint so gesture control still
// works end to end without one.
func NewEndpoint() Endpoint {
	sys, err := NewSystemEndpoint()
	if err != nil {
		log.Warn("system volume unavailable, using visual endpoint", "err", err)
		return NewVisualEndpoint()
	}
	return sys
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
