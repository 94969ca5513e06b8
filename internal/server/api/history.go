package api

import (
	"net/http"
	"strconv"

	"github.com/arnav-verma200/jj-voice-assistant/internal/store"
)

// HistoryHandler handles HTTP requests for the command history.
type HistoryHandler struct {
	store *store.Store
}

// NewHistoryHandler creates a new HistoryHandler with the given store.
func NewHistoryHandler(s *store.Store) *HistoryHandler {
	return &HistoryHandler{store: s}
}

type commandResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Action    string `json:"action"`
	Argument  string `json:"argument,omitempty"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
}

type listCommandsResponse struct {
	Commands []commandResponse `json:"commands"`
}

// toCommandResponse converts a store.Command to a commandResponse.
func toCommandResponse(c *store.Command) commandResponse {
	return commandResponse{
		ID:        c.ID,
		Text:      c.Text,
		Action:    c.Action,
		Argument:  c.Argument,
		Status:    string(c.Status),
		Error:     c.Error,
		CreatedAt: c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// parseLimit reads the limit query parameter, zero when absent.
func parseLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return limit
}

// ServeHTTP handles GET /api/history.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	commands, err := h.store.Commands().Recent(parseLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list commands")
		return
	}

	response := listCommandsResponse{
		Commands: make([]commandResponse, 0, len(commands)),
	}
	for _, c := range commands {
		response.Commands = append(response.Commands, toCommandResponse(c))
	}

	writeJSON(w, http.StatusOK, response)
}
