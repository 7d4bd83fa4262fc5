package rooms

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signaling-service/internal/mocks"
	"signaling-service/internal/models"
)

func join(t *testing.T, reg *Registry, connID, roomID, name string) JoinResult {
	t.Helper()
	res, err := reg.Join(connID, models.JoinRoomRequest{RoomID: roomID, UserName: name})
	require.NoError(t, err)
	return res
}

func TestCreateRoomReservesEmptyRoom(t *testing.T) {
	snd := mocks.NewRecorderSender()
	reg := NewRegistry(snd)

	id, err := reg.CreateRoom("standup", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	room, ok := reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, "standup", room.Name)
	assert.Empty(t, room.Members())
	assert.Empty(t, snd.Sent(), "creation joins nobody and notifies nobody")
}

func TestCreateRoomDefaultsNameToID(t *testing.T) {
	reg := NewRegistry(mocks.NewRecorderSender())

	id, err := reg.CreateRoom("", "")
	require.NoError(t, err)

	room, ok := reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, id, room.Name)
}

func TestJoinAutoCreatesUnknownRoom(t *testing.T) {
	snd := mocks.NewRecorderSender()
	reg := NewRegistry(snd)

	res := join(t, reg, "a", "movie-night", "alice")

	assert.Equal(t, "movie-night", res.RoomID)
	assert.True(t, res.IsHost)
	assert.Empty(t, res.Existing)
	assert.Empty(t, res.History)

	_, ok := reg.Get("movie-night")
	assert.True(t, ok)
	assert.Equal(t, []string{models.EvExistingUsers, models.EvChatHistory, models.EvUsersUpdated}, snd.TypesFor("a"))
}

func TestJoinWrongPassword(t *testing.T) {
	snd := mocks.NewRecorderSender()
	reg := NewRegistry(snd)

	id, err := reg.CreateRoom("", "hunter2")
	require.NoError(t, err)

	_, err = reg.Join("a", models.JoinRoomRequest{RoomID: id, UserName: "alice", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidPassword)

	_, _, ok := reg.Member("a")
	assert.False(t, ok, "a refused join must not leave membership behind")
	assert.Empty(t, snd.EventsFor("a"))

	_, err = reg.Join("a", models.JoinRoomRequest{RoomID: id, UserName: "alice", Password: "hunter2"})
	require.NoError(t, err)
}

func TestJoinNotifiesExistingMembers(t *testing.T) {
	snd := mocks.NewRecorderSender()
	reg := NewRegistry(snd)

	join(t, reg, "a", "r1", "alice")
	snd.Reset()

	res := join(t, reg, "b", "r1", "bob")

	assert.False(t, res.IsHost)
	require.Len(t, res.Existing, 1)
	assert.Equal(t, "a", res.Existing[0].ID)

	assert.Equal(t, []string{models.EvUserJoined, models.EvUsersUpdated}, snd.TypesFor("a"))
	assert.Equal(t, []string{models.EvExistingUsers, models.EvChatHistory, models.EvUsersUpdated}, snd.TypesFor("b"))

	var joined models.UserJoined
	require.NoError(t, json.Unmarshal(snd.EventsFor("a")[0].Payload, &joined))
	assert.Equal(t, "b", joined.UserID)
	assert.Equal(t, "bob", joined.UserName)
}

func TestJoinSendsPinnedMessage(t *testing.T) {
	snd := mocks.NewRecorderSender()
	reg := NewRegistry(snd)

	join(t, reg, "a", "r1", "alice")
	room, _ := reg.Get("r1")
	room.AppendMessage(models.Message{ID: "m1", UserID: "a", Body: "hello"})
	require.True(t, room.Pin("a", "m1"))
	snd.Reset()

	res := join(t, reg, "b", "r1", "bob")

	assert.Equal(t, "m1", res.PinnedID)
	assert.Equal(t, []string{models.EvExistingUsers, models.EvChatHistory, models.EvPinnedMessage, models.EvUsersUpdated}, snd.TypesFor("b"))
}

func TestRejoinDetachesPreviousRoom(t *testing.T) {
	snd := mocks.NewRecorderSender()
	reg := NewRegistry(snd)

	join(t, reg, "a", "r1", "alice")
	join(t, reg, "b", "r1", "bob")
	join(t, reg, "a", "r2", "alice")

	assert.False(t, reg.SameRoom("a", "b"))

	r1, ok := reg.Get("r1")
	require.True(t, ok)
	require.Len(t, r1.Members(), 1)
	assert.Equal(t, "b", r1.Members()[0].ID)
	assert.Equal(t, "b", r1.Host(), "host moves when the old host rejoins elsewhere")
}

func TestLeaveReassignsHostToEarliestMember(t *testing.T) {
	snd := mocks.NewRecorderSender()
	reg := NewRegistry(snd)

	join(t, reg, "a", "r1", "alice")
	join(t, reg, "b", "r1", "bob")
	join(t, reg, "c", "r1", "carol")
	snd.Reset()

	reg.Leave("a")

	room, ok := reg.Get("r1")
	require.True(t, ok)
	assert.Equal(t, "b", room.Host())

	assert.Equal(t, []string{models.EvMadeHost, models.EvUserLeft, models.EvUsersUpdated}, snd.TypesFor("b"))
	assert.Equal(t, []string{models.EvUserLeft, models.EvUsersUpdated}, snd.TypesFor("c"))
	assert.Empty(t, snd.TypesFor("a"), "the leaver hears nothing")
}

func TestLeaveLastMemberDeletesRoom(t *testing.T) {
	reg := NewRegistry(mocks.NewRecorderSender())

	join(t, reg, "a", "r1", "alice")
	reg.Leave("a")

	_, ok := reg.Get("r1")
	assert.False(t, ok)
}

func TestLeaveUnknownConnectionIsNoop(t *testing.T) {
	snd := mocks.NewRecorderSender()
	reg := NewRegistry(snd)

	join(t, reg, "a", "r1", "alice")
	snd.Reset()

	reg.Leave("ghost")
	reg.Leave("ghost")

	assert.Empty(t, snd.Sent())
	_, ok := reg.Get("r1")
	assert.True(t, ok)
}

func TestKickByHost(t *testing.T) {
	snd := mocks.NewRecorderSender()
	reg := NewRegistry(snd)

	join(t, reg, "a", "r1", "alice")
	join(t, reg, "b", "r1", "bob")
	join(t, reg, "c", "r1", "carol")
	snd.Reset()

	require.True(t, reg.Kick("a", "b"))

	assert.Equal(t, []string{models.EvKicked}, snd.TypesFor("b"))
	assert.Equal(t, []string{models.EvUserKicked, models.EvUsersUpdated}, snd.TypesFor("c"))

	_, _, ok := reg.Member("b")
	assert.False(t, ok)
}

func TestKickDeniedForNonHost(t *testing.T) {
	snd := mocks.NewRecorderSender()
	reg := NewRegistry(snd)

	join(t, reg, "a", "r1", "alice")
	join(t, reg, "b", "r1", "bob")
	snd.Reset()

	assert.False(t, reg.Kick("b", "a"))
	assert.Empty(t, snd.Sent())

	_, _, ok := reg.Member("a")
	assert.True(t, ok)
}

func TestKickSelfIsNoop(t *testing.T) {
	reg := NewRegistry(mocks.NewRecorderSender())

	join(t, reg, "a", "r1", "alice")

	assert.False(t, reg.Kick("a", "a"))
	_, _, ok := reg.Member("a")
	assert.True(t, ok)
}

func TestKickAcrossRoomsDenied(t *testing.T) {
	reg := NewRegistry(mocks.NewRecorderSender())

	join(t, reg, "a", "r1", "alice")
	join(t, reg, "b", "r2", "bob")

	assert.False(t, reg.Kick("a", "b"))
	_, _, ok := reg.Member("b")
	assert.True(t, ok)
}

func TestMemberAfterLeave(t *testing.T) {
	reg := NewRegistry(mocks.NewRecorderSender())

	join(t, reg, "a", "r1", "alice")
	m, room, ok := reg.Member("a")
	require.True(t, ok)
	require.NotNil(t, room)
	assert.Equal(t, "alice", m.Name)

	reg.Leave("a")
	_, _, ok = reg.Member("a")
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	reg := NewRegistry(mocks.NewRecorderSender())

	join(t, reg, "a", "r1", "alice")
	join(t, reg, "b", "r1", "bob")

	stats := reg.Stats()
	require.Len(t, stats, 1)
	assert.Equal(t, "r1", stats[0].ID)
	assert.Equal(t, 2, stats[0].Members)
}
