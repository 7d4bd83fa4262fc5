package models

import (
	"encoding/json"
	"log"
	"time"
)

// Event is the framed envelope exchanged over a websocket connection in both
// directions. Payload shape depends on Type.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client-to-server event types.
const (
	EvCreateRoom      = "create-room"
	EvJoinRoom        = "join-room"
	EvOffer           = "offer"
	EvAnswer          = "answer"
	EvIceCandidate    = "ice-candidate"
	EvChatMessage     = "chat-message"
	EvTyping          = "typing"
	EvEditMessage     = "edit-message"
	EvDeleteMessage   = "delete-message"
	EvMessageReaction = "message-reaction"
	EvPinMessage      = "pin-message"
	EvUnpinMessage    = "unpin-message"
	EvPrivateMessage  = "private-message"
	EvBlockUser       = "block-user"
	EvUnblockUser     = "unblock-user"
	EvReportUser      = "report-user"
	EvKickUser        = "kick-user"
	EvMuteUser        = "mute-user"
	EvToggleMedia     = "toggle-media"
)

// Server-to-client event types.
const (
	EvConnected       = "connected"
	EvRoomCreated     = "room-created"
	EvExistingUsers   = "existing-users"
	EvChatHistory     = "chat-history"
	EvPinnedMessage   = "pinned-message"
	EvUserJoined      = "user-joined"
	EvUsersUpdated    = "users-updated"
	EvJoinError       = "join-error"
	EvError           = "error"
	EvUserTyping      = "user-typing"
	EvMessageEdited   = "message-edited"
	EvMessageDeleted  = "message-deleted"
	EvMessagePinned   = "message-pinned"
	EvMessageUnpinned = "message-unpinned"
	EvUserLeft        = "user-left"
	EvMadeHost        = "made-host"
	EvKicked          = "kicked"
	EvUserKicked      = "user-kicked"
	EvForceMute       = "force-mute"
	EvUserBlocked     = "user-blocked"
	EvUserUnblocked   = "user-unblocked"
	EvUserReported    = "user-reported"
	EvUserMediaToggle = "user-media-toggle"
)

// NewEvent builds an outbound event, marshalling the payload. A payload that
// cannot be marshalled is a programming error; the event is still emitted
// with an empty payload so the stream stays consistent.
func NewEvent(eventType string, payload any) Event {
	if payload == nil {
		return Event{Type: eventType}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("event marshal failed type=%s: %v", eventType, err)
		return Event{Type: eventType}
	}
	return Event{Type: eventType, Payload: raw}
}

// CreateRoomRequest is the payload of a create-room event.
type CreateRoomRequest struct {
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
}

// RoomCreated is the reply to create-room.
type RoomCreated struct {
	RoomID   string `json:"roomId"`
	RoomName string `json:"roomName"`
}

// JoinRoomRequest is the payload of a join-room event.
type JoinRoomRequest struct {
	RoomID         string `json:"roomId"`
	UserName       string `json:"userName"`
	Password       string `json:"password,omitempty"`
	StartWithVideo bool   `json:"startWithVideo,omitempty"`
	StartWithAudio bool   `json:"startWithAudio,omitempty"`
}

// JoinErrorInfo is sent to the caller when a join is refused.
type JoinErrorInfo struct {
	Message string `json:"message"`
}

// UserJoined is broadcast to existing members when a connection joins.
type UserJoined struct {
	UserID         string `json:"userId"`
	UserName       string `json:"userName"`
	StartWithVideo bool   `json:"startWithVideo"`
	StartWithAudio bool   `json:"startWithAudio"`
}

// UserRef names a single connection in roster-shaped payloads.
type UserRef struct {
	UserID string `json:"userId"`
}

// PinnedInfo carries the room's pinned message id.
type PinnedInfo struct {
	MessageID string `json:"messageId"`
}

// Signal is the payload of offer/answer/ice-candidate events. Inbound it
// carries Target; outbound the relay substitutes Sender. The SDP and
// candidate blobs are opaque to the server.
type Signal struct {
	Target    string          `json:"target,omitempty"`
	Sender    string          `json:"sender,omitempty"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

// ChatMessageRequest is the payload of an inbound chat-message event.
type ChatMessageRequest struct {
	Message  string    `json:"message"`
	Kind     string    `json:"type,omitempty"`
	FileData *FileData `json:"fileData,omitempty"`
}

// ErrorInfo is echoed to a sender whose event was rejected.
type ErrorInfo struct {
	Message string `json:"message"`
}

// UserTyping fans a typing indicator out to the room.
type UserTyping struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	IsTyping bool   `json:"isTyping"`
}

// EditMessageRequest is the payload of an edit-message event.
type EditMessageRequest struct {
	MessageID  string `json:"messageId"`
	NewMessage string `json:"newMessage"`
}

// MessageEdited is broadcast after a successful edit.
type MessageEdited struct {
	MessageID  string `json:"messageId"`
	NewMessage string `json:"newMessage"`
	Edited     bool   `json:"edited"`
}

// MessageRef addresses a message by id (delete-message, pin-message,
// message-deleted, message-pinned).
type MessageRef struct {
	MessageID string `json:"messageId"`
}

// ReactionRequest is the payload of a message-reaction event.
type ReactionRequest struct {
	MessageID string `json:"messageId"`
	Reaction  string `json:"reaction"`
}

// MessageReaction is broadcast when a reaction is recorded.
type MessageReaction struct {
	MessageID string `json:"messageId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Reaction  string `json:"reaction"`
}

// PrivateMessageRequest is the payload of an inbound private-message event.
type PrivateMessageRequest struct {
	TargetUserID string `json:"targetUserId"`
	Message      string `json:"message"`
}

// PrivateMessage is delivered to the target of a private message only.
type PrivateMessage struct {
	FromUserID   string    `json:"fromUserId"`
	FromUserName string    `json:"fromUserName"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
}

// TargetRef addresses another connection (block, kick, mute, report).
type TargetRef struct {
	TargetUserID string `json:"targetUserId"`
}

// ReportRequest is the payload of a report-user event.
type ReportRequest struct {
	TargetUserID string `json:"targetUserId"`
	Reason       string `json:"reason,omitempty"`
}

// MediaToggle is the payload of a toggle-media event.
type MediaToggle struct {
	Video bool `json:"video"`
	Audio bool `json:"audio"`
}

// UserMediaToggle is broadcast to the rest of the room on toggle-media.
type UserMediaToggle struct {
	UserID string `json:"userId"`
	Video  bool   `json:"video"`
	Audio  bool   `json:"audio"`
}
