// Package preview presents annotated frames to the user and reports the
// quit key. The window implementation wraps a HighGUI window; the nop
// implementation lets the controller run headless.
package preview

import (
	"sync"

	"gocv.io/x/gocv"
)

// WindowTitle is the preview window name.
const WindowTitle = "Gesture Volume Control"

// quitKey closes the preview, matching the on-screen hint.
const quitKey = 'q'

// Display shows processed frames. Show returns quit=true when the user
// pressed the quit key. Implementations are only ever called from the
// controller worker.
type Display interface {
	Show(frame *gocv.Mat) (quit bool, err error)
	Close() error
}

// Window renders frames in a desktop window. The window is created on
// the first Show so construction stays cheap and headless-safe.
type Window struct {
	win    *gocv.Window
	placed bool
}

// NewWindow returns an unopened preview window.
func NewWindow() *Window {
	return &Window{}
}

// Show displays the frame and polls for the quit key with a 1ms wait.
func (w *Window) Show(frame *gocv.Mat) (bool, error) {
	if w.win == nil {
		w.win = gocv.NewWindow(WindowTitle)
	}
	w.win.IMShow(*frame)
	if !w.placed {
		w.win.MoveWindow(50, 50)
		w.placed = true
	}

	key := w.win.WaitKey(1)
	if key == quitKey || key == quitKey-'a'+'A' {
		return true, nil
	}
	return false, nil
}

// Close destroys the window if it was opened.
func (w *Window) Close() error {
	if w.win == nil {
		return nil
	}
	err := w.win.Close()
	w.win = nil
	return err
}

// Nop discards frames. It backs daemon runs with no desktop session and
// the controller tests.
type Nop struct {
	mu     sync.Mutex
	frames int
	quit   bool
}

// NewNop returns a display that drops every frame.
func NewNop() *Nop {
	return &Nop{}
}

// Show counts the frame and reports whether RequestQuit was called.
func (n *Nop) Show(frame *gocv.Mat) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.frames++
	return n.quit, nil
}

// Close is a no-op.
func (n *Nop) Close() error {
	return nil
}

// Frames returns how many frames were shown.
func (n *Nop) Frames() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.frames
}

// RequestQuit makes the next Show report the quit key, standing in for
// a user keypress in tests.
func (n *Nop) RequestQuit() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.quit = true
}
