package api

import (
	"net/http"

	"github.com/arnav-verma200/jj-voice-assistant/internal/store"
)

// SessionsHandler handles HTTP requests for recorded volume sessions.
type SessionsHandler struct {
	store *store.Store
}

// NewSessionsHandler creates a new SessionsHandler with the given store.
func NewSessionsHandler(s *store.Store) *SessionsHandler {
	return &SessionsHandler{store: s}
}

type sessionResponse struct {
	ID         string  `json:"id"`
	StartedAt  string  `json:"started_at"`
	StoppedAt  string  `json:"stopped_at"`
	Frames     int     `json:"frames"`
	HandFrames int     `json:"hand_frames"`
	MinLevel   float64 `json:"min_level"`
	MaxLevel   float64 `json:"max_level"`
	FinalLevel float64 `json:"final_level"`
	Endpoint   string  `json:"endpoint"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

// toSessionResponse converts a store.Session to a sessionResponse.
func toSessionResponse(s *store.Session) sessionResponse {
	return sessionResponse{
		ID:         s.ID,
		StartedAt:  s.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		StoppedAt:  s.StoppedAt.Format("2006-01-02T15:04:05Z07:00"),
		Frames:     s.Frames,
		HandFrames: s.HandFrames,
		MinLevel:   s.MinLevel,
		MaxLevel:   s.MaxLevel,
		FinalLevel: s.FinalLevel,
		Endpoint:   s.Endpoint,
	}
}

// ServeHTTP handles GET /api/sessions.
func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessions, err := h.store.Sessions().Recent(parseLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, toSessionResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}
