// Package volume converts pinch gestures into a smoothed output volume
// and runs the capture-detect-apply loop behind a start/stop lifecycle.
package volume

import "sync"

// Default calibration for a 640x480 capture scaled to 35% for display.
// MinDist is a closed pinch, MaxDist spread fingers, in pixels at the
// display resolution.
const (
	DefaultMinDist = 20.0
	DefaultMaxDist = 180.0
	DefaultAlpha   = 0.1
)

// Mapper turns pinch distances into a volume level in [0,1]. Raw
// distances map linearly between the calibration bounds; an exponential
// low-pass filter suppresses landmark jitter. The zero value is not
// usable, construct with NewMapper.
type Mapper struct {
	minDist float64
	maxDist float64
	alpha   float64

	mu    sync.Mutex
	level float64
}

// NewMapper creates a Mapper with the given calibration. Non-positive
// or inverted bounds and an out-of-range alpha fall back to the
// defaults. The level starts at 0.5 until seeded with SetLevel.
func NewMapper(minDist, maxDist, alpha float64) *Mapper {
	if minDist <= 0 || maxDist <= minDist {
		minDist = DefaultMinDist
		maxDist = DefaultMaxDist
	}
	if alpha <= 0 || alpha >= 1 {
		alpha = DefaultAlpha
	}
	return &Mapper{
		minDist: minDist,
		maxDist: maxDist,
		alpha:   alpha,
		level:   0.5,
	}
}

// Raw maps a pinch distance to the unsmoothed volume fraction,
// clamped to [0,1].
func (m *Mapper) Raw(dist float64) float64 {
	raw := (dist - m.minDist) / (m.maxDist - m.minDist)
	if raw < 0 {
		return 0
	}
	if raw > 1 {
		return 1
	}
	return raw
}

// Update feeds one pinch distance through the filter and returns the
// new smoothed level.
func (m *Mapper) Update(dist float64) float64 {
	raw := m.Raw(dist)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.level += (raw - m.level) * m.alpha
	return m.level
}

// Level returns the current smoothed level.
func (m *Mapper) Level() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// SetLevel seeds the filter, clamping to [0,1]. Used once at controller
// construction with the current system volume.
func (m *Mapper) SetLevel(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = level
}
