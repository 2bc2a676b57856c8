package events

import (
	"sync"

	"github.com/gorilla/websocket"
)

// client serializes writes to a single websocket connection. gorilla
// allows at most one concurrent writer per conn, so both event pushes and
// keepalive pings must go through the mutex.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

func (c *client) close() {
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Hub tracks one websocket connection per owner and pushes lead change
// events to it. A new connection from the same owner replaces the old one.
type Hub struct {
	clients map[int64]*client
	mutex   sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]*client),
	}
}

// Register wraps the connection for serialized writes and stores it,
// closing any previous connection for the owner.
func (h *Hub) Register(ownerID int64, conn *websocket.Conn) *client {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.clients[ownerID]; exists {
		old.close()
	}

	cl := &client{conn: conn}
	h.clients[ownerID] = cl
	return cl
}

func (h *Hub) Unregister(ownerID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if cl, exists := h.clients[ownerID]; exists {
		cl.close()
		delete(h.clients, ownerID)
	}
}

// Drop removes the owner's connection only if it is still the given one,
// so a replaced connection does not evict its successor.
func (h *Hub) Drop(ownerID int64, cl *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if cur, exists := h.clients[ownerID]; exists && cur == cl {
		cur.close()
		delete(h.clients, ownerID)
	}
}

// Send pushes an event to the owner's connection if one is open. A write
// failure drops the connection; delivery is best effort.
func (h *Hub) Send(ownerID int64, event any) bool {
	h.mutex.RLock()
	cl, exists := h.clients[ownerID]
	h.mutex.RUnlock()

	if !exists || cl.conn == nil {
		return false
	}

	if err := cl.writeJSON(event); err != nil {
		h.Drop(ownerID, cl)
		return false
	}

	return true
}

func (h *Hub) IsOnline(ownerID int64) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.clients[ownerID]
	return exists
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for ownerID, cl := range h.clients {
		cl.close()
		delete(h.clients, ownerID)
	}
}
