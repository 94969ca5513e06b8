package server

import (
	"fmt"
	"net/http"
	"time"
)

// PreviewHandler serves the annotated volume preview as an MJPEG
// stream. Frames come from the controller's snapshot, so the stream
// shows exactly what the on-screen preview shows.
type PreviewHandler struct {
	snapshot func() []byte
}

// NewPreviewHandler creates a PreviewHandler reading frames from the
// given snapshot function.
func NewPreviewHandler(snapshot func() []byte) *PreviewHandler {
	return &PreviewHandler{snapshot: snapshot}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Nothing to stream before the first run produces a frame
	if h.snapshot() == nil {
		http.Error(w, "No preview available", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		jpeg := h.snapshot()
		if jpeg == nil {
			// No run producing frames yet
			time.Sleep(100 * time.Millisecond)
			continue
		}

		// Write MJPEG frame
		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(jpeg))
		w.Write(jpeg)
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(66 * time.Millisecond) // ~15 FPS
	}
}
