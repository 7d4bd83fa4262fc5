package rooms

import (
	"sync"
	"time"

	"signaling-service/internal/models"
)

// maxHistory is the number of chat entries kept per room. The oldest entry
// is evicted first.
const maxHistory = 1000

// Sender delivers an outbound event to a connection's channel. Delivery must
// never block the caller; a false return means the event was dropped.
type Sender interface {
	SendTo(connID string, event models.Event) bool
}

// Room holds one session's membership, chat history and host assignment.
// Every mutation takes the room's own lock, so operations on the same room
// serialize while unrelated rooms proceed independently.
type Room struct {
	ID        string
	Name      string
	password  string
	createdAt time.Time

	mu      sync.Mutex
	members []models.Member // insertion order = join order
	host    string
	history []models.Message
	pinned  string

	snd Sender
}

func newRoom(id, name, password string, snd Sender) *Room {
	return &Room{
		ID:        id,
		Name:      name,
		password:  password,
		createdAt: time.Now(),
		snd:       snd,
	}
}

// Members returns a copy of the roster in join order.
func (r *Room) Members() []models.Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Member, len(r.members))
	copy(out, r.members)
	return out
}

// Host returns the connection id of the current host.
func (r *Room) Host() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.host
}

// History returns a copy of the chat buffer, oldest first.
func (r *Room) History() []models.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Message, len(r.history))
	copy(out, r.history)
	return out
}

// PinnedID returns the pinned message id, or "" when nothing is pinned.
func (r *Room) PinnedID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pinned
}

// AppendMessage adds a chat entry to the history, evicting the oldest entry
// past the cap, and broadcasts it to every member including the author.
func (r *Room) AppendMessage(msg models.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history = append(r.history, msg)
	if len(r.history) > maxHistory {
		r.history = r.history[len(r.history)-maxHistory:]
	}
	r.broadcastLocked(models.NewEvent(models.EvChatMessage, msg))
}

// EditMessage updates a message body. Only the author may edit; any other
// caller leaves the history untouched and triggers no broadcast.
func (r *Room) EditMessage(authorID, messageID, newBody string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.history {
		if r.history[i].ID != messageID {
			continue
		}
		if r.history[i].UserID != authorID {
			return false
		}
		r.history[i].Body = newBody
		r.history[i].Edited = true
		r.broadcastLocked(models.NewEvent(models.EvMessageEdited, models.MessageEdited{
			MessageID:  messageID,
			NewMessage: newBody,
			Edited:     true,
		}))
		return true
	}
	return false
}

// DeleteMessage physically removes a message from the history. Author-only.
// A pinned message that gets deleted also clears the pin slot.
func (r *Room) DeleteMessage(authorID, messageID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.history {
		if r.history[i].ID != messageID {
			continue
		}
		if r.history[i].UserID != authorID {
			return false
		}
		r.history = append(r.history[:i], r.history[i+1:]...)
		r.broadcastLocked(models.NewEvent(models.EvMessageDeleted, models.MessageRef{MessageID: messageID}))
		if r.pinned == messageID {
			r.pinned = ""
			r.broadcastLocked(models.NewEvent(models.EvMessageUnpinned, nil))
		}
		return true
	}
	return false
}

// AddReaction appends a reaction to a message and broadcasts it. Reactions
// are author-agnostic and accumulate without deduplication.
func (r *Room) AddReaction(messageID string, reaction models.Reaction) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.history {
		if r.history[i].ID != messageID {
			continue
		}
		r.history[i].Reactions = append(r.history[i].Reactions, reaction)
		r.broadcastLocked(models.NewEvent(models.EvMessageReaction, models.MessageReaction{
			MessageID: messageID,
			UserID:    reaction.UserID,
			UserName:  reaction.UserName,
			Reaction:  reaction.Emoji,
		}))
		return true
	}
	return false
}

// Pin sets the room's single pinned-message slot. The caller must be the
// room's current host at the time of the call, not at join time.
func (r *Room) Pin(callerID, messageID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.host != callerID {
		return false
	}
	found := false
	for i := range r.history {
		if r.history[i].ID == messageID {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	r.pinned = messageID
	r.broadcastLocked(models.NewEvent(models.EvMessagePinned, models.MessageRef{MessageID: messageID}))
	return true
}

// Unpin clears the pinned-message slot. Host-only, checked live.
func (r *Room) Unpin(callerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.host != callerID {
		return false
	}
	r.pinned = ""
	r.broadcastLocked(models.NewEvent(models.EvMessageUnpinned, nil))
	return true
}

// Broadcast delivers an event to every current member.
func (r *Room) Broadcast(event models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastLocked(event)
}

// BroadcastExcept delivers an event to every member but one, typically the
// originator of the event.
func (r *Room) BroadcastExcept(exceptID string, event models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.ID == exceptID {
			continue
		}
		r.snd.SendTo(m.ID, event)
	}
}

func (r *Room) broadcastLocked(event models.Event) {
	for _, m := range r.members {
		r.snd.SendTo(m.ID, event)
	}
}

func (r *Room) memberIndexLocked(connID string) int {
	for i, m := range r.members {
		if m.ID == connID {
			return i
		}
	}
	return -1
}
