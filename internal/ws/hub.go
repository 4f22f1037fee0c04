// Package ws pushes ledger change notifications to connected clients.
package ws

import (
	"encoding/json"
	"sync"

	"raccoon_ledger/internal/logger"
)

// Hub fans a single event stream out to every connected client. Slow
// clients are dropped rather than allowed to block the ledger.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast serializes the event and queues it to every client.
func (h *Hub) Broadcast(event string, payload any) {
	msg, err := json.Marshal(map[string]any{"event": event, "data": payload})
	if err != nil {
		logger.Error("failed to marshal ws event", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	var stale []*Client
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		logger.Warn("dropping slow ws client")
		h.unregister(c)
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
