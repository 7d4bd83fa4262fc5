package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signaling-service/internal/chat"
	"signaling-service/internal/models"
	"signaling-service/internal/moderation"
	"signaling-service/internal/rooms"
	"signaling-service/internal/signaling"
)

func newTestDispatcher() (*Dispatcher, *Hub) {
	hub := NewHub()
	registry := rooms.NewRegistry(hub)
	limiter := chat.NewLimiter(chat.RateLimit, chat.RateWindow)
	blocks := moderation.NewBlocklist()
	chatRelay := chat.NewRelay(registry, limiter, blocks, hub)
	signalRelay := signaling.NewRelay(hub)
	mod := moderation.NewController(registry, hub, hub, blocks, nil)
	return NewDispatcher(registry, chatRelay, signalRelay, mod, nil), hub
}

func attach(hub *Hub, id string) *Client {
	c := &Client{
		ID:   id,
		Send: make(chan models.Event, 16),
		hub:  hub,
		quit: make(chan struct{}),
	}
	hub.add(c)
	return c
}

func drain(c *Client) []models.Event {
	var out []models.Event
	for {
		select {
		case ev := <-c.Send:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestDispatchMalformedPayloads(t *testing.T) {
	d, hub := newTestDispatcher()
	c := attach(hub, "a")

	for _, eventType := range []string{
		models.EvJoinRoom,
		models.EvChatMessage,
		models.EvOffer,
		models.EvKickUser,
		models.EvTyping,
	} {
		d.Dispatch(c, models.Event{Type: eventType, Payload: json.RawMessage(`{broken`)})
		d.Dispatch(c, models.Event{Type: eventType})
	}

	assert.Empty(t, drain(c), "malformed events produce no traffic")
}

func TestDispatchUnknownType(t *testing.T) {
	d, hub := newTestDispatcher()
	c := attach(hub, "a")

	d.Dispatch(c, models.Event{Type: "no-such-event", Payload: json.RawMessage(`{}`)})

	assert.Empty(t, drain(c))
}

func TestDispatchJoinSanitizesName(t *testing.T) {
	d, hub := newTestDispatcher()
	c := attach(hub, "a")

	d.Dispatch(c, models.NewEvent(models.EvJoinRoom, models.JoinRoomRequest{RoomID: "r1"}))

	events := drain(c)
	require.NotEmpty(t, events)
	var found bool
	for _, ev := range events {
		if ev.Type != models.EvUsersUpdated {
			continue
		}
		found = true
		var roster []models.Member
		require.NoError(t, json.Unmarshal(ev.Payload, &roster))
		require.Len(t, roster, 1)
		assert.Equal(t, chat.DefaultName, roster[0].Name)
	}
	assert.True(t, found)
}

func TestDispatchJoinWithoutRoomID(t *testing.T) {
	d, hub := newTestDispatcher()
	c := attach(hub, "a")

	d.Dispatch(c, models.NewEvent(models.EvJoinRoom, models.JoinRoomRequest{UserName: "alice"}))

	events := drain(c)
	require.Len(t, events, 1)
	assert.Equal(t, models.EvJoinError, events[0].Type)
}

func TestDispatchCreateRoomReply(t *testing.T) {
	d, hub := newTestDispatcher()
	c := attach(hub, "a")

	d.Dispatch(c, models.NewEvent(models.EvCreateRoom, models.CreateRoomRequest{Name: "<b>club</b>"}))

	events := drain(c)
	require.Len(t, events, 1)
	require.Equal(t, models.EvRoomCreated, events[0].Type)

	var created models.RoomCreated
	require.NoError(t, json.Unmarshal(events[0].Payload, &created))
	assert.NotEmpty(t, created.RoomID)
	assert.Equal(t, "&lt;b&gt;club&lt;/b&gt;", created.RoomName, "room names get the same escaping as chat")
}

func TestDispatchToggleMedia(t *testing.T) {
	d, hub := newTestDispatcher()
	a := attach(hub, "a")
	b := attach(hub, "b")

	d.Dispatch(a, models.NewEvent(models.EvJoinRoom, models.JoinRoomRequest{RoomID: "r1", UserName: "alice"}))
	d.Dispatch(b, models.NewEvent(models.EvJoinRoom, models.JoinRoomRequest{RoomID: "r1", UserName: "bob"}))
	drain(a)
	drain(b)

	d.Dispatch(a, models.NewEvent(models.EvToggleMedia, models.MediaToggle{Video: false, Audio: true}))

	assert.Empty(t, drain(a), "the toggler already knows its own state")

	events := drain(b)
	require.Len(t, events, 1)
	require.Equal(t, models.EvUserMediaToggle, events[0].Type)

	var got models.UserMediaToggle
	require.NoError(t, json.Unmarshal(events[0].Payload, &got))
	assert.Equal(t, "a", got.UserID)
	assert.False(t, got.Video)
	assert.True(t, got.Audio)
}

func TestDispatchToggleMediaOutsideRoom(t *testing.T) {
	d, hub := newTestDispatcher()
	c := attach(hub, "a")

	d.Dispatch(c, models.NewEvent(models.EvToggleMedia, models.MediaToggle{Video: true, Audio: true}))

	assert.Empty(t, drain(c))
}
