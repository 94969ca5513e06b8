package server

import (
	"encoding/json"
	log "log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/arnav-verma200/jj-voice-assistant/internal/volume"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// VolumeFeed broadcasts live volume updates to WebSocket clients. It
// is fed from the volume worker through Broadcast, which never blocks.
type VolumeFeed struct {
	updates chan volume.Update
	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
}

// NewVolumeFeed creates a VolumeFeed and starts its delivery loop.
func NewVolumeFeed() *VolumeFeed {
	f := &VolumeFeed{
		updates: make(chan volume.Update, 16),
		clients: make(map[*websocket.Conn]bool),
	}
	go f.run()
	return f
}

// Broadcast queues an update for delivery. When the queue is full the
// update is dropped; clients only care about the latest level.
func (f *VolumeFeed) Broadcast(u volume.Update) {
	select {
	case f.updates <- u:
	default:
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (f *VolumeFeed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	f.mu.Lock()
	f.clients[conn] = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		delete(f.clients, conn)
		f.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// run delivers queued updates to all connected clients, capped at
// roughly 15 per second so a fast worker cannot flood slow readers.
func (f *VolumeFeed) run() {
	var lastSent time.Time
	for u := range f.updates {
		if time.Since(lastSent) < 66*time.Millisecond {
			continue
		}

		f.mu.RLock()
		if len(f.clients) == 0 {
			f.mu.RUnlock()
			continue
		}
		f.mu.RUnlock()

		msg, err := json.Marshal(u)
		if err != nil {
			continue
		}
		lastSent = time.Now()

		f.mu.RLock()
		for conn := range f.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		f.mu.RUnlock()
	}
}
