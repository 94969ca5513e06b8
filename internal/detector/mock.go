package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results. It is safe to
// reconfigure from one goroutine while another calls Detect, which is
// how the volume controller tests drive it.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	seq   [][]HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetHandsSequence queues per-call results: each Detect pops the next
// entry, then the detector stays on whatever SetHands configured.
func (m *MockDetector) SetHandsSequence(seq [][]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq = seq
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the number of Detect invocations so far.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.seq) > 0 {
		hands := m.seq[0]
		m.seq = m.seq[1:]
		return hands, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PinchLandmarks returns a preset HandLandmarks whose thumb tip and index
// fingertip are dist pixels apart, horizontally centered, for a frame of
// the given size. The remaining landmarks sketch a plausible hand below
// the pinch so overlays have something to draw.
func PinchLandmarks(dist float64, width, height int) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	half := dist / 2 / float64(width)
	landmarks.Points[ThumbTip] = Point3D{X: 0.5 - half, Y: 0.5, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.5 + half, Y: 0.5, Z: 0.0}

	// Thumb chain from the wrist toward the tip
	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.9, Z: 0.0}
	landmarks.Points[ThumbCMC] = Point3D{X: 0.5 - half*0.3, Y: 0.8, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.5 - half*0.6, Y: 0.7, Z: 0.0}
	landmarks.Points[ThumbIP] = Point3D{X: 0.5 - half*0.8, Y: 0.6, Z: 0.0}

	// Index chain
	landmarks.Points[IndexMCP] = Point3D{X: 0.5 + half*0.4, Y: 0.75, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.5 + half*0.6, Y: 0.65, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.5 + half*0.8, Y: 0.57, Z: 0.0}

	// Remaining fingers folded toward the palm
	for i := MiddleMCP; i <= PinkyTip; i++ {
		landmarks.Points[i] = Point3D{
			X: 0.5 + float64(i-MiddleMCP)*0.01,
			Y: 0.8,
			Z: -0.02,
		}
	}

	return landmarks
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open palm.
// All fingers are extended outward.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	// Wrist at base
	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	// Index finger extended upward
	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	// Middle finger extended upward (slightly longer)
	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	// Ring finger extended upward
	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	// Pinky finger extended upward
	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return landmarks
}
