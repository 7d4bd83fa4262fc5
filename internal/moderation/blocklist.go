package moderation

import "sync"

// Blocklist holds each connection's set of ignored peers. Blocking is
// self-service, unidirectional, and invisible to the blocked party.
type Blocklist struct {
	mu      sync.RWMutex
	blocked map[string]map[string]struct{} // owner -> blocked ids
}

// NewBlocklist builds an empty blocklist.
func NewBlocklist() *Blocklist {
	return &Blocklist{blocked: make(map[string]map[string]struct{})}
}

// Block adds targetID to ownerID's set.
func (b *Blocklist) Block(ownerID, targetID string) {
	if ownerID == targetID || targetID == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.blocked[ownerID]
	if !ok {
		set = make(map[string]struct{})
		b.blocked[ownerID] = set
	}
	set[targetID] = struct{}{}
}

// Unblock removes targetID from ownerID's set.
func (b *Blocklist) Unblock(ownerID, targetID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if set, ok := b.blocked[ownerID]; ok {
		delete(set, targetID)
		if len(set) == 0 {
			delete(b.blocked, ownerID)
		}
	}
}

// IsBlocked reports whether ownerID has blocked otherID.
func (b *Blocklist) IsBlocked(ownerID, otherID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	set, ok := b.blocked[ownerID]
	if !ok {
		return false
	}
	_, blocked := set[otherID]
	return blocked
}

// Forget drops the set a disconnected connection owned. Entries naming the
// connection in other sets are left alone; they refer to an id that will
// never reconnect.
func (b *Blocklist) Forget(connID string) {
	b.mu.Lock()
	delete(b.blocked, connID)
	b.mu.Unlock()
}
