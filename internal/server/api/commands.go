// Package api provides HTTP API handlers for the JJ assistant.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arnav-verma200/jj-voice-assistant/internal/assistant"
	"github.com/arnav-verma200/jj-voice-assistant/internal/volume"
)

// CommandHandler handles HTTP requests that dispatch assistant commands.
type CommandHandler struct {
	assistant *assistant.Assistant
}

// NewCommandHandler creates a new CommandHandler with the given assistant.
func NewCommandHandler(a *assistant.Assistant) *CommandHandler {
	return &CommandHandler{assistant: a}
}

type commandRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// ServeHTTP handles POST /api/command.
func (h *CommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}

	res, err := h.assistant.Dispatch(r.Context(), req.Text)

	// The result body carries the outcome either way; the status code
	// mirrors the kind of failure.
	writeJSON(w, commandStatus(err), res)
}

// commandStatus maps a dispatch error to an HTTP status code.
func commandStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, assistant.ErrUnknownCommand):
		return http.StatusBadRequest
	case errors.Is(err, volume.ErrAlreadyRunning), errors.Is(err, volume.ErrNotRunning):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
