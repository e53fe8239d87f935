// Package transport exposes the chat service over a websocket channel and
// a small HTTP API.
package transport

import (
	"encoding/json"
	"log/slog"
	"sync"

	"chat-core/domain"
)

// Hub tracks every live connection and implements the channel boundary the
// dispatch pipeline emits through. All methods are safe for concurrent use
// by simultaneously dispatching events.
type Hub struct {
	log     *slog.Logger
	mu      sync.RWMutex
	clients map[string]*client
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{log: log, clients: make(map[string]*client)}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	total := len(h.clients)
	h.mu.Unlock()
	h.log.Info("Client registered", "connection_id", c.id, "username", c.username, "total", total)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	h.log.Info("Client unregistered", "connection_id", c.id, "total", total)
}

// ClientCount reports how many sockets are currently registered.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// EmitToOne delivers a payload to a single connection. An unknown
// connection id means the client vanished mid-dispatch; the payload is
// dropped.
func (h *Hub) EmitToOne(connectionID string, payload domain.Payload) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("Failed to encode payload", "error", err)
		return
	}
	h.mu.RLock()
	c, ok := h.clients[connectionID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	h.send(c, data)
}

// EmitToAll delivers a payload to every registered connection. Order across
// concurrent senders is best-effort; order per connection follows the
// order of emission.
func (h *Hub) EmitToAll(payload domain.Payload) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("Failed to encode payload", "error", err)
		return
	}
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		h.send(c, data)
	}
}

// send queues data on the client's outbound buffer. A full buffer means the
// client stopped draining; the frame is dropped rather than blocking a
// dispatch in flight.
func (h *Hub) send(c *client, data []byte) {
	defer func() {
		// The send channel may be closed by a concurrent unregister.
		if r := recover(); r != nil {
			h.log.Debug("Dropped frame for closing connection", "connection_id", c.id)
		}
	}()
	select {
	case c.send <- data:
	default:
		h.log.Warn("Outbound buffer full, dropping frame", "connection_id", c.id)
	}
}
