// Package detector provides hand detection interfaces and types for
// gesture-driven volume control.
package detector

import (
	"image"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a 3D point in space with x, y, z coordinates.
// Coordinates are normalized to [0,1] relative to the frame size;
// z is depth relative to the wrist.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// PixelPoint converts the landmark at index i from normalized coordinates
// to pixel coordinates for a frame of the given size. Indices outside the
// landmark range return the zero point.
func (h *HandLandmarks) PixelPoint(i, width, height int) image.Point {
	if h == nil || i < 0 || i >= NumLandmarks {
		return image.Point{}
	}
	p := h.Points[i]
	return image.Pt(int(p.X*float64(width)), int(p.Y*float64(height)))
}

// PinchDistance returns the distance in pixels between the thumb tip and
// the index fingertip for a frame of the given size. This is the control
// signal for volume: fingers together is minimum, spread apart is maximum.
func (h *HandLandmarks) PinchDistance(width, height int) float64 {
	if h == nil {
		return 0
	}
	thumb := h.PixelPoint(ThumbTip, width, height)
	index := h.PixelPoint(IndexTip, width, height)
	dx := float64(thumb.X - index.X)
	dy := float64(thumb.Y - index.Y)
	return math.Hypot(dx, dy)
}
