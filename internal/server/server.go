// Package server provides the HTTP server for the JJ assistant.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/arnav-verma200/jj-voice-assistant/internal/assistant"
	"github.com/arnav-verma200/jj-voice-assistant/internal/server/api"
	"github.com/arnav-verma200/jj-voice-assistant/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Assistant *assistant.Assistant
	Feed      *VolumeFeed
}

// Server represents the HTTP server for the assistant dashboard.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register command and volume endpoints if an Assistant is configured
	if s.config.Assistant != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)

		commandHandler := api.NewCommandHandler(s.config.Assistant)
		s.mux.Handle("/api/command", commandHandler)

		volumeHandler := api.NewVolumeHandler(s.config.Assistant)
		s.mux.Handle("/api/volume", volumeHandler)
		s.mux.Handle("/api/volume/", volumeHandler)

		// Exact paths win over the /api/volume/ subtree
		previewHandler := NewPreviewHandler(s.config.Assistant.VolumeSnapshot)
		s.mux.Handle("/api/volume/preview", previewHandler)
	}

	// Register the live update feed if configured
	if s.config.Feed != nil {
		s.mux.Handle("/api/volume/ws", s.config.Feed)
	}

	// Register history endpoints if Store is configured
	if s.config.Store != nil {
		s.mux.Handle("/api/history", api.NewHistoryHandler(s.config.Store))
		s.mux.Handle("/api/sessions", api.NewSessionsHandler(s.config.Store))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleStatus handles GET requests to /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
		"volume": map[string]interface{}{
			"state": s.config.Assistant.VolumeState().String(),
			"level": s.config.Assistant.VolumeLevel(),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
