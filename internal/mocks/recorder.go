package mocks

import (
	"sync"

	"signaling-service/internal/models"
)

// SentEvent pairs an outbound event with the connection it was addressed to.
type SentEvent struct {
	ConnID string
	Event  models.Event
}

// RecorderSender captures every outbound event in send order. Connections
// listed in Offline refuse delivery, mimicking a full or closed send queue.
type RecorderSender struct {
	mu      sync.Mutex
	sent    []SentEvent
	Offline map[string]bool
}

func NewRecorderSender() *RecorderSender {
	return &RecorderSender{Offline: make(map[string]bool)}
}

func (r *RecorderSender) SendTo(connID string, event models.Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Offline[connID] {
		return false
	}
	r.sent = append(r.sent, SentEvent{ConnID: connID, Event: event})
	return true
}

// Sent returns everything recorded so far, in order.
func (r *RecorderSender) Sent() []SentEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SentEvent, len(r.sent))
	copy(out, r.sent)
	return out
}

// EventsFor returns the events addressed to one connection, in order.
func (r *RecorderSender) EventsFor(connID string) []models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Event
	for _, s := range r.sent {
		if s.ConnID == connID {
			out = append(out, s.Event)
		}
	}
	return out
}

// TypesFor returns just the event types addressed to one connection.
func (r *RecorderSender) TypesFor(connID string) []string {
	var out []string
	for _, ev := range r.EventsFor(connID) {
		out = append(out, ev.Type)
	}
	return out
}

// Reset clears the recording without touching the Offline set.
func (r *RecorderSender) Reset() {
	r.mu.Lock()
	r.sent = nil
	r.mu.Unlock()
}
