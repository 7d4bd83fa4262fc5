package ws

import (
	"log"
	"sync"

	"signaling-service/internal/models"
	"signaling-service/internal/observability"
)

// Hub is the directory of live connections. Components address peers by
// connection id through SendTo; the hub never blocks a caller on a slow
// recipient.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
}

// remove drops the client and closes its send channel. The channel close
// happens under the write lock while every SendTo holds the read lock, so a
// send can never race the close.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if cur, ok := h.clients[c.ID]; ok && cur == c {
		delete(h.clients, c.ID)
		close(c.Send)
	}
	h.mu.Unlock()
}

// SendTo queues an event for one connection. Unknown recipients and full
// queues drop the event: a slow or vanished client must never stall the
// operation fanning out to the rest of a room.
func (h *Hub) SendTo(connID string, event models.Event) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[connID]
	if !ok {
		return false
	}
	select {
	case c.Send <- event:
		return true
	default:
		observability.IncWSDropped()
		log.Printf("dropping %s event for %s: send queue full", event.Type, connID)
		return false
	}
}

// CloseConn asks a connection's write pump to flush queued events and shut
// the channel down. Used after a kick so the terminal event still reaches
// the client.
func (h *Hub) CloseConn(connID string) {
	h.mu.RLock()
	c := h.clients[connID]
	h.mu.RUnlock()
	if c != nil {
		c.shutdown()
	}
}

// Count reports the number of live connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
