package server

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPreviewHandler_Stream(t *testing.T) {
	frame := []byte("\xff\xd8fake-jpeg-bytes\xff\xd9")
	h := NewPreviewHandler(func() []byte { return frame })

	ts := httptest.NewServer(h)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL)
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if contentType != "multipart/x-mixed-replace; boundary=frame" {
		t.Errorf("Content-Type = %q", contentType)
	}

	// Read until two frame boundaries have arrived, proving the
	// stream keeps pumping.
	var buf bytes.Buffer
	chunk := make([]byte, 512)
	deadline := time.Now().Add(2 * time.Second)
	for bytes.Count(buf.Bytes(), []byte("--frame")) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("stream never produced two frames: %q", buf.String())
		}
		n, err := resp.Body.Read(chunk)
		buf.Write(chunk[:n])
		if err != nil && err != io.EOF {
			t.Fatalf("read error = %v", err)
		}
	}

	if !bytes.Contains(buf.Bytes(), []byte("Content-Type: image/jpeg")) {
		t.Error("frame part missing JPEG content type")
	}
	if !bytes.Contains(buf.Bytes(), frame) {
		t.Error("frame bytes not present in stream")
	}
}

func TestPreviewHandler_NoSnapshot(t *testing.T) {
	h := NewPreviewHandler(func() []byte { return nil })

	req := httptest.NewRequest(http.MethodGet, "/api/volume/preview", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestPreviewHandler_MethodNotAllowed(t *testing.T) {
	h := NewPreviewHandler(func() []byte { return nil })

	req := httptest.NewRequest(http.MethodPost, "/api/volume/preview", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
