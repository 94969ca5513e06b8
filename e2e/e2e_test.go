package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/arnav-verma200/jj-voice-assistant/internal/assistant"
	"github.com/arnav-verma200/jj-voice-assistant/internal/audio"
	"github.com/arnav-verma200/jj-voice-assistant/internal/capture"
	"github.com/arnav-verma200/jj-voice-assistant/internal/config"
	"github.com/arnav-verma200/jj-voice-assistant/internal/detector"
	"github.com/arnav-verma200/jj-voice-assistant/internal/notify"
	"github.com/arnav-verma200/jj-voice-assistant/internal/preview"
	"github.com/arnav-verma200/jj-voice-assistant/internal/resolver"
	"github.com/arnav-verma200/jj-voice-assistant/internal/server"
	"github.com/arnav-verma200/jj-voice-assistant/internal/store"
	"github.com/arnav-verma200/jj-voice-assistant/internal/tts"
	"github.com/arnav-verma200/jj-voice-assistant/internal/volume"
)

type fakeOpener struct {
	mu   sync.Mutex
	apps []string
	urls []string
}

func (f *fakeOpener) OpenApp(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apps = append(f.apps, name)
	return nil
}

func (f *fakeOpener) OpenURL(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	return nil
}

// rig assembles a full assistant on top of mocks: a looping camera, a
// pinch at a fixed distance, the in-memory endpoint and a recording
// speaker.
type rig struct {
	store     *store.Store
	endpoint  *audio.VisualEndpoint
	speaker   *tts.MockSpeaker
	opener    *fakeOpener
	assistant *assistant.Assistant
}

func newRig(t *testing.T, pinchDist float64, onUpdate func(volume.Update)) *rig {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := config.Default()
	cfg.Gesture.PreviewScale = 0.5

	r := &rig{
		store:    st,
		endpoint: audio.NewVisualEndpoint(),
		speaker:  &tts.MockSpeaker{},
		opener:   &fakeOpener{},
	}
	r.assistant = assistant.New(assistant.Config{
		Settings: cfg,
		Store:    st,
		Resolver: resolver.New("", cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLMTimeout()),
		Launcher: r.opener,
		Speaker:  r.speaker,
		Notifier: notify.New(false),
		Endpoint: r.endpoint,
		NewCamera: func() capture.Camera {
			frames := make([]*gocv.Mat, 2)
			for i := range frames {
				m := gocv.NewMatWithSize(256, 512, gocv.MatTypeCV8UC3)
				frames[i] = &m
			}
			t.Cleanup(func() {
				for _, f := range frames {
					f.Close()
				}
			})
			return capture.NewMockCamera(frames, true)
		},
		NewDetector: func() detector.Detector {
			d := detector.NewMockDetector()
			d.SetHands([]detector.HandLandmarks{detector.PinchLandmarks(pinchDist, 256, 128)})
			return d
		},
		NewDisplay: func() preview.Display { return preview.NewNop() },
		OnUpdate:   onUpdate,
	})
	t.Cleanup(func() { r.assistant.Close() })
	return r
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	feed := server.NewVolumeFeed()
	r := newRig(t, 100, feed.Broadcast)

	srv := server.New(server.Config{
		Store:     r.store,
		Assistant: r.assistant,
		Feed:      feed,
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()
	var commandID string

	t.Run("DispatchCommand", func(t *testing.T) {
		resp, err := client.Post(
			ts.URL+"/api/command",
			"application/json",
			strings.NewReader(`{"text": "open spotify"}`),
		)
		if err != nil {
			t.Fatalf("dispatch command error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var res struct {
			ID string `json:"id"`
			OK bool   `json:"ok"`
		}
		json.NewDecoder(resp.Body).Decode(&res)
		if !res.OK {
			t.Error("command should succeed")
		}
		commandID = res.ID
	})

	t.Run("CommandInHistory", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/history")
		if err != nil {
			t.Fatalf("list history error = %v", err)
		}
		defer resp.Body.Close()

		var history struct {
			Commands []struct {
				ID string `json:"id"`
			} `json:"commands"`
		}
		json.NewDecoder(resp.Body).Decode(&history)

		if len(history.Commands) != 1 {
			t.Fatalf("expected 1 command, got %d", len(history.Commands))
		}
		if history.Commands[0].ID != commandID {
			t.Errorf("history ID = %s, want %s", history.Commands[0].ID, commandID)
		}
	})

	t.Run("StartVolumeControl", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/volume/start", "application/json", nil)
		if err != nil {
			t.Fatalf("start error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("LiveFeed", func(t *testing.T) {
		wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/volume/ws"
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			t.Fatalf("websocket dial error = %v", err)
		}
		defer conn.Close()

		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read update error = %v", err)
		}

		var update volume.Update
		if err := json.Unmarshal(msg, &update); err != nil {
			t.Fatalf("decode update error = %v", err)
		}
		if update.Level < 0 || update.Level > 1 {
			t.Errorf("level = %f, want within [0,1]", update.Level)
		}
		if !update.HandVisible {
			t.Error("the mock hand should be visible")
		}
	})

	t.Run("PreviewStream", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/volume/preview")
		if err != nil {
			t.Fatalf("preview error = %v", err)
		}
		defer resp.Body.Close()

		if got := resp.Header.Get("Content-Type"); !strings.Contains(got, "multipart/x-mixed-replace") {
			t.Errorf("Content-Type = %q", got)
		}

		chunk := make([]byte, 4096)
		n, err := resp.Body.Read(chunk)
		if err != nil {
			t.Fatalf("read stream error = %v", err)
		}
		if !bytes.Contains(chunk[:n], []byte("--frame")) {
			t.Error("stream should carry frame boundaries")
		}
	})

	t.Run("StopVolumeControl", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/volume/stop", "application/json", nil)
		if err != nil {
			t.Fatalf("stop error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var status struct {
			State string `json:"state"`
		}
		json.NewDecoder(resp.Body).Decode(&status)
		if status.State != "stopped" {
			t.Errorf("state = %s, want stopped", status.State)
		}
	})

	t.Run("SessionRecorded", func(t *testing.T) {
		deadline := time.Now().Add(2 * time.Second)
		for {
			resp, err := client.Get(ts.URL + "/api/sessions")
			if err != nil {
				t.Fatalf("list sessions error = %v", err)
			}

			var sessions struct {
				Sessions []struct {
					Frames   int    `json:"frames"`
					Endpoint string `json:"endpoint"`
				} `json:"sessions"`
			}
			json.NewDecoder(resp.Body).Decode(&sessions)
			resp.Body.Close()

			if len(sessions.Sessions) == 1 {
				if sessions.Sessions[0].Frames == 0 {
					t.Error("session should have processed frames")
				}
				if sessions.Sessions[0].Endpoint != "visual" {
					t.Errorf("endpoint = %s, want visual", sessions.Sessions[0].Endpoint)
				}
				return
			}
			if time.Now().After(deadline) {
				t.Fatal("session was never recorded")
			}
			time.Sleep(10 * time.Millisecond)
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, _ := client.Get(ts.URL + "/api/health")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after workflow")
		}
		resp.Body.Close()
	})
}

func TestE2E_PinchDrivesEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	// Fingers fully spread: the raw target is 1.0, so the smoothed
	// level must climb away from the 0.5 seed.
	r := newRig(t, 180, nil)

	if err := r.assistant.StartVolumeControl(); err != nil {
		t.Fatalf("StartVolumeControl() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		level, err := r.endpoint.Volume()
		if err != nil {
			t.Fatalf("Volume() error = %v", err)
		}
		if level > 0.6 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("level = %f, never climbed past 0.6", level)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := r.assistant.StopVolumeControl(); err != nil {
		t.Fatalf("StopVolumeControl() error = %v", err)
	}

	stats, ok := r.assistant.VolumeStats()
	if !ok {
		t.Fatal("expected run stats")
	}
	if stats.HandFrames == 0 {
		t.Error("expected hand frames in the run")
	}
	if stats.MaxLevel <= 0.5 {
		t.Errorf("max level = %f, want > 0.5", stats.MaxLevel)
	}
}

func TestE2E_SpokenConfirmations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	r := newRig(t, 100, nil)
	ctx := context.Background()

	if _, err := r.assistant.Dispatch(ctx, "open chrome"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if _, err := r.assistant.Dispatch(ctx, "make me a sandwich"); err == nil {
		t.Fatal("expected unknown command error")
	}

	// Speech runs on its own goroutine
	deadline := time.Now().Add(2 * time.Second)
	for {
		phrases := r.speaker.Phrases()
		opened, unknown := false, false
		for _, p := range phrases {
			if p == "Opened chrome" {
				opened = true
			}
			if p == "Sorry, I don't know that command" {
				unknown = true
			}
		}
		if opened && unknown {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("phrases = %v, missing confirmations", phrases)
		}
		time.Sleep(10 * time.Millisecond)
	}

	commands, err := r.store.Commands().Recent(0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(commands) != 2 {
		t.Fatalf("expected 2 recorded commands, got %d", len(commands))
	}

	statuses := map[store.CommandStatus]int{}
	for _, c := range commands {
		statuses[c.Status]++
	}
	if statuses[store.CommandStatusOK] != 1 || statuses[store.CommandStatusError] != 1 {
		t.Errorf("statuses = %v, want one ok and one error", statuses)
	}
}
