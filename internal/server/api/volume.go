package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/arnav-verma200/jj-voice-assistant/internal/assistant"
	"github.com/arnav-verma200/jj-voice-assistant/internal/volume"
)

// VolumeHandler handles HTTP requests for the gesture volume controller.
type VolumeHandler struct {
	assistant *assistant.Assistant
}

// NewVolumeHandler creates a new VolumeHandler with the given assistant.
func NewVolumeHandler(a *assistant.Assistant) *VolumeHandler {
	return &VolumeHandler{assistant: a}
}

type volumeStatusResponse struct {
	State string         `json:"state"`
	Level float64        `json:"level"`
	Stats *statsResponse `json:"stats,omitempty"`
}

type statsResponse struct {
	StartedAt  string  `json:"started_at"`
	StoppedAt  string  `json:"stopped_at,omitempty"`
	Frames     int     `json:"frames"`
	HandFrames int     `json:"hand_frames"`
	MinLevel   float64 `json:"min_level"`
	MaxLevel   float64 `json:"max_level"`
	FinalLevel float64 `json:"final_level"`
	Endpoint   string  `json:"endpoint"`
}

// toStatsResponse converts volume.Stats to a statsResponse.
func toStatsResponse(s volume.Stats) *statsResponse {
	resp := &statsResponse{
		StartedAt:  s.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		Frames:     s.Frames,
		HandFrames: s.HandFrames,
		MinLevel:   s.MinLevel,
		MaxLevel:   s.MaxLevel,
		FinalLevel: s.FinalLevel,
		Endpoint:   s.Endpoint,
	}
	if !s.StoppedAt.IsZero() {
		resp.StoppedAt = s.StoppedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

// ServeHTTP implements the http.Handler interface and routes requests
// to the status, start and stop endpoints.
func (h *VolumeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/volume, /api/volume/start, /api/volume/stop
	path := strings.TrimPrefix(r.URL.Path, "/api/volume")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.status(w, r)
	case "start":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.start(w, r)
	case "stop":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.stop(w, r)
	default:
		http.NotFound(w, r)
	}
}

// status handles GET /api/volume and returns the controller state.
func (h *VolumeHandler) status(w http.ResponseWriter, r *http.Request) {
	resp := volumeStatusResponse{
		State: h.assistant.VolumeState().String(),
		Level: h.assistant.VolumeLevel(),
	}
	if stats, ok := h.assistant.VolumeStats(); ok {
		resp.Stats = toStatsResponse(stats)
	}
	writeJSON(w, http.StatusOK, resp)
}

// start handles POST /api/volume/start and begins a gesture run.
func (h *VolumeHandler) start(w http.ResponseWriter, r *http.Request) {
	if err := h.assistant.StartVolumeControl(); err != nil {
		if errors.Is(err, volume.ErrAlreadyRunning) {
			writeError(w, http.StatusConflict, "Volume control is already running")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to start volume control")
		return
	}
	h.status(w, r)
}

// stop handles POST /api/volume/stop and ends the active run.
func (h *VolumeHandler) stop(w http.ResponseWriter, r *http.Request) {
	if err := h.assistant.StopVolumeControl(); err != nil {
		switch {
		case errors.Is(err, volume.ErrNotRunning):
			writeError(w, http.StatusConflict, "Volume control is not running")
		case errors.Is(err, volume.ErrStopTimeout):
			// The worker is still winding down and will release its
			// resources on its own.
			writeJSON(w, http.StatusAccepted, volumeStatusResponse{
				State: h.assistant.VolumeState().String(),
				Level: h.assistant.VolumeLevel(),
			})
		default:
			writeError(w, http.StatusInternalServerError, "Failed to stop volume control")
		}
		return
	}
	h.status(w, r)
}
