// Package realtime implements the per-user notification channel. Delivery
// is fire-and-forget: a failed or absent connection never affects the
// durable notification record that triggered the send.
package realtime

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// client wraps a WebSocket connection with a write lock; gorilla allows at
// most one concurrent writer per connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub tracks open WebSocket connections per user and fans notification
// payloads out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[string]*client // userID -> connection ID -> client
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[string]*client)}
}

// Register adds a connection for a user and returns its connection ID for
// later Unregister.
func (h *Hub) Register(userID uint, conn *websocket.Conn) string {
	connID := uuid.New().String()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[string]*client)
	}
	h.clients[userID][connID] = &client{conn: conn}
	return connID
}

// Unregister drops a connection. It does not close the underlying socket;
// the read loop owns that.
func (h *Hub) Unregister(userID uint, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[userID]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(h.clients, userID)
		}
	}
}

// Publish sends a payload to every open connection of the recipient. A
// recipient with no connections is not an error; per-connection write
// failures are logged and the rest of the fan-out continues.
func (h *Hub) Publish(recipientID uint, payload interface{}) error {
	h.mu.RLock()
	conns := make([]*client, 0, len(h.clients[recipientID]))
	for _, c := range h.clients[recipientID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.writeJSON(payload); err != nil {
			log.Printf("realtime: write to user %d failed: %v", recipientID, err)
		}
	}
	return nil
}
