package rooms

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"signaling-service/internal/models"
	"signaling-service/internal/observability"
)

// createAttempts bounds the internal retry loop for room id generation.
// Collisions are operationally impossible with uuid ids; the loop enforces
// the contract anyway.
const createAttempts = 5

// Registry owns every live room and the connection-to-room mapping. A room
// is present in the registry exactly as long as it has members, except for
// rooms reserved through CreateRoom that nobody has joined yet.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	byConn map[string]string // connection id -> room id, set at join, cleared at leave

	snd Sender
}

// NewRegistry builds an empty registry delivering events through snd.
func NewRegistry(snd Sender) *Registry {
	return &Registry{
		rooms:  make(map[string]*Room),
		byConn: make(map[string]string),
		snd:    snd,
	}
}

// JoinResult is what a successful join returns to the caller: the state it
// needs to render the room and initiate signaling to each existing peer.
type JoinResult struct {
	RoomID   string
	History  []models.Message
	PinnedID string
	Existing []models.Member
	IsHost   bool
}

// CreateRoom reserves a new room with an optional password. The creator is
// not joined; creation and join are decoupled operations.
func (g *Registry) CreateRoom(name, password string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := 0; i < createAttempts; i++ {
		id := uuid.NewString()
		if _, exists := g.rooms[id]; exists {
			continue
		}
		if name == "" {
			name = id
		}
		g.rooms[id] = newRoom(id, name, password, g.snd)
		observability.SetOpenRooms(len(g.rooms))
		log.Printf("room created: %s", id)
		return id, nil
	}
	return "", ErrRoomIDCollision
}

// Join adds a connection to a room, auto-creating an unknown room with no
// password. On success the caller receives existing-users, chat-history and
// pinned-message events, existing members receive user-joined, and everyone
// receives the updated roster. The returned JoinResult mirrors what was sent
// to the caller.
func (g *Registry) Join(connID string, req models.JoinRoomRequest) (JoinResult, error) {
	g.mu.Lock()

	// A connection re-joining without an explicit leave is first detached
	// from its previous room so it never belongs to two rooms at once.
	if _, joined := g.byConn[connID]; joined {
		g.leaveLocked(connID, models.EvUserLeft)
	}

	room, ok := g.rooms[req.RoomID]
	if !ok {
		room = newRoom(req.RoomID, req.RoomID, "", g.snd)
		g.rooms[req.RoomID] = room
		observability.SetOpenRooms(len(g.rooms))
		log.Printf("room created on join: %s", req.RoomID)
	}
	if room.password != "" && room.password != req.Password {
		g.mu.Unlock()
		return JoinResult{}, ErrInvalidPassword
	}

	room.mu.Lock()
	g.byConn[connID] = room.ID
	g.mu.Unlock()

	existing := make([]models.Member, len(room.members))
	copy(existing, room.members)

	room.members = append(room.members, models.Member{ID: connID, Name: req.UserName})
	if room.host == "" {
		room.host = connID
	}

	history := make([]models.Message, len(room.history))
	copy(history, room.history)
	roster := make([]models.Member, len(room.members))
	copy(roster, room.members)

	res := JoinResult{
		RoomID:   room.ID,
		History:  history,
		PinnedID: room.pinned,
		Existing: existing,
		IsHost:   room.host == connID,
	}

	g.snd.SendTo(connID, models.NewEvent(models.EvExistingUsers, existing))
	g.snd.SendTo(connID, models.NewEvent(models.EvChatHistory, history))
	if room.pinned != "" {
		g.snd.SendTo(connID, models.NewEvent(models.EvPinnedMessage, models.PinnedInfo{MessageID: room.pinned}))
	}

	joined := models.NewEvent(models.EvUserJoined, models.UserJoined{
		UserID:         connID,
		UserName:       req.UserName,
		StartWithVideo: req.StartWithVideo,
		StartWithAudio: req.StartWithAudio,
	})
	for _, m := range existing {
		g.snd.SendTo(m.ID, joined)
	}
	room.broadcastLocked(models.NewEvent(models.EvUsersUpdated, roster))
	room.mu.Unlock()

	log.Printf("user %s joined room %s", connID, room.ID)
	return res, nil
}

// Leave detaches a connection from whatever room it belongs to. It is safe
// to call for connections that never joined and safe to call repeatedly, so
// disconnect cleanup can race in-flight operations from the same connection.
func (g *Registry) Leave(connID string) {
	g.mu.Lock()
	g.leaveLocked(connID, models.EvUserLeft)
	g.mu.Unlock()
}

// Kick removes target from hostID's room. The caller must be the room's
// current host; host identity is checked live, never against a flag cached
// at join time. Kicking yourself is a no-op. Returns true when the target
// was removed, so the connection layer can close its channel.
func (g *Registry) Kick(hostID, targetID string) bool {
	if hostID == targetID {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	roomID, ok := g.byConn[hostID]
	if !ok {
		return false
	}
	room := g.rooms[roomID]
	if room == nil {
		return false
	}

	room.mu.Lock()
	allowed := room.host == hostID && room.memberIndexLocked(targetID) >= 0
	room.mu.Unlock()
	if !allowed {
		return false
	}

	g.snd.SendTo(targetID, models.NewEvent(models.EvKicked, nil))
	g.leaveLocked(targetID, models.EvUserKicked)
	log.Printf("user %s kicked from room %s by %s", targetID, roomID, hostID)
	return true
}

// leaveLocked removes the connection from every room it appears in. A
// connection belongs to at most one room in normal operation, but cleanup
// must tolerate inconsistent state. Callers hold g.mu.
func (g *Registry) leaveLocked(connID, leftEvent string) {
	delete(g.byConn, connID)

	for id, room := range g.rooms {
		room.mu.Lock()
		i := room.memberIndexLocked(connID)
		if i < 0 {
			room.mu.Unlock()
			continue
		}
		room.members = append(room.members[:i], room.members[i+1:]...)

		if len(room.members) == 0 {
			delete(g.rooms, id)
			room.mu.Unlock()
			log.Printf("room deleted: %s", id)
			continue
		}

		if room.host == connID {
			room.host = room.members[0].ID
			g.snd.SendTo(room.host, models.NewEvent(models.EvMadeHost, nil))
			log.Printf("host of room %s reassigned to %s", id, room.host)
		}

		roster := make([]models.Member, len(room.members))
		copy(roster, room.members)
		room.broadcastLocked(models.NewEvent(leftEvent, models.UserRef{UserID: connID}))
		room.broadcastLocked(models.NewEvent(models.EvUsersUpdated, roster))
		room.mu.Unlock()
	}

	observability.SetOpenRooms(len(g.rooms))
}

// Member resolves a connection to its member snapshot and room. The second
// return is nil when the connection is not currently in any room, which is
// the expected state for operations racing a disconnect.
func (g *Registry) Member(connID string) (models.Member, *Room, bool) {
	g.mu.RLock()
	roomID, ok := g.byConn[connID]
	room := g.rooms[roomID]
	g.mu.RUnlock()
	if !ok || room == nil {
		return models.Member{}, nil, false
	}

	room.mu.Lock()
	i := room.memberIndexLocked(connID)
	var m models.Member
	if i >= 0 {
		m = room.members[i]
	}
	room.mu.Unlock()

	if i < 0 {
		return models.Member{}, nil, false
	}
	return m, room, true
}

// SameRoom reports whether two connections are currently in the same room.
func (g *Registry) SameRoom(a, b string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	roomA, okA := g.byConn[a]
	roomB, okB := g.byConn[b]
	return okA && okB && roomA == roomB
}

// Get returns a room by id.
func (g *Registry) Get(roomID string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[roomID]
	return room, ok
}

// RoomInfo is the debug view of one room.
type RoomInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   int       `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats snapshots every room for the debug endpoint.
func (g *Registry) Stats() []RoomInfo {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]RoomInfo, 0, len(g.rooms))
	for _, room := range g.rooms {
		room.mu.Lock()
		out = append(out, RoomInfo{
			ID:        room.ID,
			Name:      room.Name,
			Members:   len(room.members),
			CreatedAt: room.createdAt,
		})
		room.mu.Unlock()
	}
	return out
}
