// Package signaling forwards WebRTC negotiation payloads between peers. The
// relay is pure store-and-forward: SDP and ICE blobs are never inspected
// beyond the routing fields.
package signaling

import (
	"signaling-service/internal/models"
	"signaling-service/internal/observability"
)

// Sender delivers an event to a single connection without blocking.
type Sender interface {
	SendTo(connID string, event models.Event) bool
}

// Relay forwards offer, answer and ice-candidate events to their target
// connection verbatim, substituting the sender's id so the recipient can
// correlate the payload to the right peer link.
type Relay struct {
	snd Sender
}

// NewRelay builds a signaling relay.
func NewRelay(snd Sender) *Relay {
	return &Relay{snd: snd}
}

// Forward relays one signaling payload. Targets are addressed directly by
// connection id; no room membership check applies. An unknown target is a
// silent no-op, not an error; the sender may be racing a peer that just
// disconnected. Per directed sender-to-target pair, delivery order follows
// send order: each connection's events are processed sequentially and each
// recipient's queue preserves enqueue order.
func (r *Relay) Forward(eventType, senderID string, sig models.Signal) {
	if sig.Target == "" {
		return
	}

	out := sig
	out.Target = ""
	out.Sender = senderID

	if r.snd.SendTo(sig.Target, models.NewEvent(eventType, out)) {
		observability.IncSignalRelayed(eventType)
	}
}
