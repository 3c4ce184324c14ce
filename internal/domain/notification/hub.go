package notification

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const sendBufferSize = 16

// Connection is one client's websocket stream. Writes go through the
// buffered Send channel and a single writer goroutine; the websocket
// connection itself is never written to from anywhere else.
type Connection struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
}

// NewConnection wraps an upgraded websocket connection
func NewConnection(userID uuid.UUID, conn *websocket.Conn) *Connection {
	return &Connection{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, sendBufferSize),
	}
}

// Hub tracks open websocket connections per user and pushes
// notifications to them as they are created.
type Hub struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]map[*Connection]bool
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		conns: make(map[uuid.UUID]map[*Connection]bool),
	}
}

// Register adds a connection for a user
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns[conn.UserID] == nil {
		h.conns[conn.UserID] = make(map[*Connection]bool)
	}
	h.conns[conn.UserID][conn] = true
}

// Unregister removes a connection and closes its send channel, which
// stops the writer goroutine. Safe to call more than once.
func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.conns[conn.UserID]; ok {
		if _, exists := set[conn]; exists {
			delete(set, conn)
			close(conn.Send)
		}
		if len(set) == 0 {
			delete(h.conns, conn.UserID)
		}
	}
}

// Publish queues a notification for every open connection of the user.
// The send never blocks; a connection whose buffer is full misses the
// message and catches up through the REST listing.
func (h *Hub) Publish(userID uuid.UUID, v View) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal notification event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.conns[userID] {
		select {
		case conn.Send <- data:
		default:
			log.Warn().Str("user_id", userID.String()).Msg("Notification send buffer full, dropping event")
		}
	}
}
