package chat

import (
	"log"
	"time"

	"github.com/google/uuid"

	"signaling-service/internal/models"
	"signaling-service/internal/observability"
	"signaling-service/internal/rooms"
)

// Sender delivers an event to a single connection without blocking.
type Sender interface {
	SendTo(connID string, event models.Event) bool
}

// BlockChecker answers whether ownerID has blocked otherID. Blocking is
// unidirectional and never disclosed to the blocked party.
type BlockChecker interface {
	IsBlocked(ownerID, otherID string) bool
}

// Relay validates, sanitizes, stores and fans out chat traffic. Rejections
// never propagate: a bad event from one connection cannot disturb the room.
type Relay struct {
	rooms   *rooms.Registry
	limiter *Limiter
	blocks  BlockChecker
	snd     Sender
}

// NewRelay builds a chat relay on top of the room registry.
func NewRelay(reg *rooms.Registry, limiter *Limiter, blocks BlockChecker, snd Sender) *Relay {
	return &Relay{rooms: reg, limiter: limiter, blocks: blocks, snd: snd}
}

// SendMessage admits one chat message: room membership, rate limit,
// sanitation, then append-and-broadcast. A connection that already left its
// room is ignored; the message may be racing the disconnect cleanup.
func (c *Relay) SendMessage(connID string, req models.ChatMessageRequest) {
	member, room, ok := c.rooms.Member(connID)
	if !ok {
		return
	}

	if !c.limiter.Allow(connID) {
		observability.IncRateLimited()
		c.snd.SendTo(connID, models.NewEvent(models.EvError, models.ErrorInfo{
			Message: "You are sending messages too quickly. Please slow down.",
		}))
		return
	}

	kind := req.Kind
	if kind == "" {
		kind = models.KindText
	}

	body := Sanitize(req.Message)
	if body == "" && kind == models.KindText {
		// Empty text after sanitation is a validation failure; files and
		// images may carry an empty body.
		return
	}

	msg := models.Message{
		ID:        uuid.NewString(),
		UserID:    connID,
		UserName:  member.Name,
		Body:      body,
		Timestamp: time.Now().UTC(),
		Kind:      kind,
		File:      req.FileData,
	}
	room.AppendMessage(msg)
	observability.IncChatMessage()
}

// EditMessage rewrites a message body. The room enforces that only the
// author may edit; a non-author attempt changes nothing and emits nothing.
func (c *Relay) EditMessage(connID string, req models.EditMessageRequest) {
	_, room, ok := c.rooms.Member(connID)
	if !ok {
		return
	}
	body := Sanitize(req.NewMessage)
	if body == "" {
		return
	}
	room.EditMessage(connID, req.MessageID, body)
}

// DeleteMessage physically removes a message from history, author-only.
func (c *Relay) DeleteMessage(connID string, req models.MessageRef) {
	_, room, ok := c.rooms.Member(connID)
	if !ok {
		return
	}
	room.DeleteMessage(connID, req.MessageID)
}

// React records a reaction on a message. Reactions carry no ownership
// restriction and accumulate without deduplication.
func (c *Relay) React(connID string, req models.ReactionRequest) {
	member, room, ok := c.rooms.Member(connID)
	if !ok {
		return
	}
	emoji := Sanitize(req.Reaction)
	if emoji == "" {
		return
	}
	room.AddReaction(req.MessageID, models.Reaction{
		UserID:   connID,
		UserName: member.Name,
		Emoji:    emoji,
	})
}

// Typing fans a typing indicator out to the rest of the room.
func (c *Relay) Typing(connID string, isTyping bool) {
	member, room, ok := c.rooms.Member(connID)
	if !ok {
		return
	}
	room.BroadcastExcept(connID, models.NewEvent(models.EvUserTyping, models.UserTyping{
		UserID:   connID,
		UserName: member.Name,
		IsTyping: isTyping,
	}))
}

// PrivateMessage delivers a sanitized message to a single connection,
// bypassing the room broadcast. A target that has blocked the sender drops
// the message silently; the sender is not told.
func (c *Relay) PrivateMessage(fromID string, req models.PrivateMessageRequest) {
	member, _, ok := c.rooms.Member(fromID)
	if !ok {
		return
	}
	body := Sanitize(req.Message)
	if body == "" {
		return
	}
	if c.blocks.IsBlocked(req.TargetUserID, fromID) {
		log.Printf("private message from %s to %s dropped: sender blocked", fromID, req.TargetUserID)
		return
	}
	c.snd.SendTo(req.TargetUserID, models.NewEvent(models.EvPrivateMessage, models.PrivateMessage{
		FromUserID:   fromID,
		FromUserName: member.Name,
		Message:      body,
		Timestamp:    time.Now().UTC(),
	}))
}

// Pin sets the room's pinned message. Host-only, checked against the room's
// live host so the permission survives host failover.
func (c *Relay) Pin(connID string, req models.MessageRef) {
	_, room, ok := c.rooms.Member(connID)
	if !ok {
		return
	}
	room.Pin(connID, req.MessageID)
}

// Unpin clears the room's pinned message. Host-only.
func (c *Relay) Unpin(connID string) {
	_, room, ok := c.rooms.Member(connID)
	if !ok {
		return
	}
	room.Unpin(connID)
}

// Forget releases per-connection chat state on disconnect.
func (c *Relay) Forget(connID string) {
	c.limiter.Forget(connID)
}
