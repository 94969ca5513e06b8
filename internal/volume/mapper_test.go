package volume

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestMapper_Raw(t *testing.T) {
	m := NewMapper(20, 180, 0.1)

	tests := []struct {
		name string
		dist float64
		want float64
	}{
		{name: "midpoint", dist: 100, want: 0.5},
		{name: "at min clamps to zero", dist: 20, want: 0.0},
		{name: "below min clamps to zero", dist: 5, want: 0.0},
		{name: "at max clamps to one", dist: 180, want: 1.0},
		{name: "beyond max clamps to one", dist: 400, want: 1.0},
		{name: "quarter", dist: 60, want: 0.25},
		{name: "linear in between", dist: 140, want: 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Raw(tt.dist)
			if math.Abs(got-tt.want) > epsilon {
				t.Errorf("Raw(%v) = %v, want %v", tt.dist, got, tt.want)
			}
		})
	}
}

func TestMapper_RawAlwaysInRange(t *testing.T) {
	m := NewMapper(20, 180, 0.1)

	for dist := -500.0; dist <= 1000.0; dist += 7.3 {
		raw := m.Raw(dist)
		if raw < 0 || raw > 1 {
			t.Fatalf("Raw(%v) = %v, outside [0,1]", dist, raw)
		}
	}
}

func TestMapper_UpdateScenario(t *testing.T) {
	// Walk the reference scenario: calibration 20..180, alpha 0.1,
	// level seeded at 0.5.
	m := NewMapper(20, 180, 0.1)
	m.SetLevel(0.5)

	steps := []struct {
		dist float64
		want float64
	}{
		{dist: 100, want: 0.5},  // raw 0.5, already at target
		{dist: 180, want: 0.55}, // raw 1.0, move a tenth of the gap
		{dist: 20, want: 0.495}, // raw 0.0
	}

	for i, step := range steps {
		got := m.Update(step.dist)
		if math.Abs(got-step.want) > epsilon {
			t.Fatalf("step %d: Update(%v) = %v, want %v", i+1, step.dist, got, step.want)
		}
	}
}

func TestMapper_SteadyStateIsIdempotent(t *testing.T) {
	m := NewMapper(20, 180, 0.1)
	m.SetLevel(0.5)

	// dist 100 maps to raw 0.5, equal to the level.
	for i := 0; i < 10; i++ {
		if got := m.Update(100); math.Abs(got-0.5) > epsilon {
			t.Fatalf("iteration %d: Update(100) = %v, want 0.5", i, got)
		}
	}
}

func TestMapper_ConvergesMonotonically(t *testing.T) {
	m := NewMapper(20, 180, 0.1)
	m.SetLevel(0.0)

	// Constant full-spread input: level must strictly increase toward 1.
	prev := m.Level()
	for i := 0; i < 200; i++ {
		got := m.Update(180)
		if got <= prev && math.Abs(got-1.0) > 1e-12 {
			t.Fatalf("iteration %d: level %v did not move toward 1 (prev %v)", i, got, prev)
		}
		if got > 1.0 {
			t.Fatalf("iteration %d: level %v overshot 1", i, got)
		}
		prev = got
	}
	if math.Abs(prev-1.0) > 1e-6 {
		t.Errorf("level after 200 steps = %v, want ~1.0", prev)
	}
}

func TestMapper_SetLevelClamps(t *testing.T) {
	m := NewMapper(20, 180, 0.1)

	m.SetLevel(1.8)
	if got := m.Level(); got != 1.0 {
		t.Errorf("Level() after SetLevel(1.8) = %v, want 1.0", got)
	}

	m.SetLevel(-0.4)
	if got := m.Level(); got != 0.0 {
		t.Errorf("Level() after SetLevel(-0.4) = %v, want 0.0", got)
	}
}

func TestNewMapper_FallsBackOnBadCalibration(t *testing.T) {
	tests := []struct {
		name    string
		minDist float64
		maxDist float64
		alpha   float64
	}{
		{name: "inverted bounds", minDist: 200, maxDist: 100, alpha: 0.1},
		{name: "zero min", minDist: 0, maxDist: 180, alpha: 0.1},
		{name: "alpha too big", minDist: 20, maxDist: 180, alpha: 1.5},
		{name: "alpha zero", minDist: 20, maxDist: 180, alpha: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMapper(tt.minDist, tt.maxDist, tt.alpha)

			// Defaults put the midpoint at distance 100.
			if got := m.Raw(100); math.Abs(got-0.5) > epsilon {
				t.Errorf("Raw(100) = %v, want 0.5 under default calibration", got)
			}

			m.SetLevel(0.5)
			if got := m.Update(180); math.Abs(got-0.55) > epsilon {
				t.Errorf("Update(180) = %v, want 0.55 under default alpha", got)
			}
		})
	}
}
