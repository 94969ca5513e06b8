package volume

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Preview layout, in pixels at the display resolution.
const (
	headerHeight = 55
	footerHeight = 30
)

var (
	colorWhite   = color.RGBA{255, 255, 255, 0}
	colorBlack   = color.RGBA{0, 0, 0, 0}
	colorRed     = color.RGBA{255, 0, 0, 0}
	colorBlue    = color.RGBA{0, 0, 255, 0}
	colorMagenta = color.RGBA{255, 0, 255, 0}
)

// drawHeader blends a translucent white banner across the top of the
// frame, behind the status text.
func drawHeader(frame *gocv.Mat) {
	overlay := frame.Clone()
	defer overlay.Close()

	gocv.Rectangle(&overlay, image.Rect(0, 0, frame.Cols(), headerHeight), colorWhite, -1)
	gocv.AddWeighted(overlay, 0.3, *frame, 0.7, 0, frame)
}

// drawVolume prints the current level as a percentage in the banner.
func drawVolume(frame *gocv.Mat, level float64) {
	text := fmt.Sprintf("Volume: %d%%", int(level*100))
	gocv.PutText(frame, text, image.Pt(10, 35), gocv.FontHersheySimplex, 0.8, colorBlue, 2)
}

// drawPinch connects the thumb and index fingertips and marks both.
func drawPinch(frame *gocv.Mat, thumb, index image.Point) {
	gocv.Line(frame, thumb, index, colorMagenta, 3)
	gocv.Circle(frame, thumb, 8, colorRed, -1)
	gocv.Circle(frame, index, 8, colorRed, -1)
}

// drawNoHand prompts the user when no hand is in view.
func drawNoHand(frame *gocv.Mat) {
	gocv.PutText(frame, "Show your hand!", image.Pt(10, 35), gocv.FontHersheySimplex, 0.6, colorRed, 2)
}

// drawFooter paints the quit hint on a solid strip along the bottom.
func drawFooter(frame *gocv.Mat) {
	h := frame.Rows()
	gocv.Rectangle(frame, image.Rect(0, h-footerHeight, frame.Cols(), h), colorBlack, -1)
	gocv.PutText(frame, "Press 'Q' to quit", image.Pt(10, h-10), gocv.FontHersheySimplex, 0.4, colorWhite, 1)
}
