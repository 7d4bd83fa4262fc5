package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"signaling-service/internal/chat"
	"signaling-service/internal/models"
	"signaling-service/internal/moderation"
	"signaling-service/internal/observability"
	"signaling-service/internal/rooms"
	"signaling-service/internal/signaling"
	"signaling-service/internal/telemetry"
)

// Dispatcher routes inbound events to the owning component. Every failure
// is absorbed here: a malformed or malicious event from one connection must
// never disturb other rooms or sessions.
type Dispatcher struct {
	rooms   *rooms.Registry
	chat    *chat.Relay
	signals *signaling.Relay
	mod     *moderation.Controller
	audit   *telemetry.AuditEmitter
}

// NewDispatcher wires the components behind the event loop.
func NewDispatcher(reg *rooms.Registry, chatRelay *chat.Relay, signals *signaling.Relay, mod *moderation.Controller, audit *telemetry.AuditEmitter) *Dispatcher {
	return &Dispatcher{
		rooms:   reg,
		chat:    chatRelay,
		signals: signals,
		mod:     mod,
		audit:   audit,
	}
}

// Dispatch handles one inbound event from a connection.
func (d *Dispatcher) Dispatch(c *Client, event models.Event) {
	observability.IncWSEvent(event.Type)

	switch event.Type {
	case models.EvCreateRoom:
		var req models.CreateRoomRequest
		if !decode(c.ID, event, &req) {
			return
		}
		d.createRoom(c, req)

	case models.EvJoinRoom:
		var req models.JoinRoomRequest
		if !decode(c.ID, event, &req) {
			return
		}
		d.joinRoom(c, req)

	case models.EvOffer, models.EvAnswer, models.EvIceCandidate:
		var sig models.Signal
		if !decode(c.ID, event, &sig) {
			return
		}
		d.signals.Forward(event.Type, c.ID, sig)

	case models.EvChatMessage:
		var req models.ChatMessageRequest
		if !decode(c.ID, event, &req) {
			return
		}
		d.chat.SendMessage(c.ID, req)

	case models.EvTyping:
		var isTyping bool
		if err := json.Unmarshal(event.Payload, &isTyping); err != nil {
			log.Printf("bad typing payload from %s: %v", c.ID, err)
			return
		}
		d.chat.Typing(c.ID, isTyping)

	case models.EvEditMessage:
		var req models.EditMessageRequest
		if !decode(c.ID, event, &req) {
			return
		}
		d.chat.EditMessage(c.ID, req)

	case models.EvDeleteMessage:
		var req models.MessageRef
		if !decode(c.ID, event, &req) {
			return
		}
		d.chat.DeleteMessage(c.ID, req)

	case models.EvMessageReaction:
		var req models.ReactionRequest
		if !decode(c.ID, event, &req) {
			return
		}
		d.chat.React(c.ID, req)

	case models.EvPinMessage:
		var req models.MessageRef
		if !decode(c.ID, event, &req) {
			return
		}
		d.chat.Pin(c.ID, req)

	case models.EvUnpinMessage:
		d.chat.Unpin(c.ID)

	case models.EvPrivateMessage:
		var req models.PrivateMessageRequest
		if !decode(c.ID, event, &req) {
			return
		}
		d.chat.PrivateMessage(c.ID, req)

	case models.EvBlockUser:
		var req models.TargetRef
		if !decode(c.ID, event, &req) {
			return
		}
		d.mod.Block(c.ID, req.TargetUserID)

	case models.EvUnblockUser:
		var req models.TargetRef
		if !decode(c.ID, event, &req) {
			return
		}
		d.mod.Unblock(c.ID, req.TargetUserID)

	case models.EvReportUser:
		var req models.ReportRequest
		if !decode(c.ID, event, &req) {
			return
		}
		d.mod.Report(c.ID, req)

	case models.EvKickUser:
		var req models.TargetRef
		if !decode(c.ID, event, &req) {
			return
		}
		d.mod.Kick(c.ID, req.TargetUserID)

	case models.EvMuteUser:
		var req models.TargetRef
		if !decode(c.ID, event, &req) {
			return
		}
		d.mod.Mute(c.ID, req.TargetUserID)

	case models.EvToggleMedia:
		var req models.MediaToggle
		if !decode(c.ID, event, &req) {
			return
		}
		d.toggleMedia(c, req)

	default:
		log.Printf("unknown event type %q from %s", event.Type, c.ID)
	}
}

func (d *Dispatcher) createRoom(c *Client, req models.CreateRoomRequest) {
	name := chat.Sanitize(req.Name)
	roomID, err := d.rooms.CreateRoom(name, req.Password)
	if err != nil {
		c.hub.SendTo(c.ID, models.NewEvent(models.EvError, models.ErrorInfo{Message: "could not create room"}))
		return
	}
	if name == "" {
		name = roomID
	}
	c.hub.SendTo(c.ID, models.NewEvent(models.EvRoomCreated, models.RoomCreated{RoomID: roomID, RoomName: name}))
}

func (d *Dispatcher) joinRoom(c *Client, req models.JoinRoomRequest) {
	if req.RoomID == "" {
		c.hub.SendTo(c.ID, models.NewEvent(models.EvJoinError, models.JoinErrorInfo{Message: "room id is required"}))
		return
	}
	req.UserName = chat.SanitizeName(req.UserName)

	if _, err := d.rooms.Join(c.ID, req); err != nil {
		msg := "could not join room"
		if errors.Is(err, rooms.ErrInvalidPassword) {
			msg = "invalid room password"
		}
		c.hub.SendTo(c.ID, models.NewEvent(models.EvJoinError, models.JoinErrorInfo{Message: msg}))
		return
	}
	d.audit.Emit(context.Background(), "room_joined", "room "+req.RoomID, c.ID)
}

func (d *Dispatcher) toggleMedia(c *Client, req models.MediaToggle) {
	_, room, ok := d.rooms.Member(c.ID)
	if !ok {
		return
	}
	room.BroadcastExcept(c.ID, models.NewEvent(models.EvUserMediaToggle, models.UserMediaToggle{
		UserID: c.ID,
		Video:  req.Video,
		Audio:  req.Audio,
	}))
}

// Disconnect runs the implicit leave for a closed connection. It is safe to
// run concurrently with late operations from the same connection; those act
// on the absence of the id and fall through silently.
func (d *Dispatcher) Disconnect(c *Client) {
	d.rooms.Leave(c.ID)
	d.chat.Forget(c.ID)
	d.mod.Forget(c.ID)
	observability.DecWSActive()
	d.audit.Emit(context.Background(), "ws_disconnect",
		fmt.Sprintf("connected for %dms", time.Since(c.ConnectedAt).Milliseconds()), c.ID)
	log.Printf("user disconnected: %s", c.ID)
}

func decode(connID string, event models.Event, out any) bool {
	if len(event.Payload) == 0 {
		log.Printf("missing %s payload from %s", event.Type, connID)
		return false
	}
	if err := json.Unmarshal(event.Payload, out); err != nil {
		log.Printf("bad %s payload from %s: %v", event.Type, connID, err)
		return false
	}
	return true
}
