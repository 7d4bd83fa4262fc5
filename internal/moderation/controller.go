// Package moderation implements host-privileged room actions and per-user
// block sets. Unauthorized attempts are silently ignored: fail-closed,
// low-noise.
package moderation

import (
	"context"
	"log"

	"signaling-service/internal/models"
	"signaling-service/internal/rooms"
	"signaling-service/internal/telemetry"
)

// Sender delivers an event to a single connection without blocking.
type Sender interface {
	SendTo(connID string, event models.Event) bool
}

// Closer force-closes a connection's channel, used after a kick.
type Closer interface {
	CloseConn(connID string)
}

// Controller executes kick, mute, block and report actions.
type Controller struct {
	rooms  *rooms.Registry
	snd    Sender
	closer Closer
	blocks *Blocklist
	audit  *telemetry.AuditEmitter
}

// NewController builds a moderation controller.
func NewController(reg *rooms.Registry, snd Sender, closer Closer, blocks *Blocklist, audit *telemetry.AuditEmitter) *Controller {
	return &Controller{rooms: reg, snd: snd, closer: closer, blocks: blocks, audit: audit}
}

// Blocks exposes the block sets for consumers that only check them.
func (m *Controller) Blocks() *Blocklist {
	return m.blocks
}

// Kick removes target from the host's room. The registry enforces the live
// host check and runs the same invariant-preserving removal path as a
// voluntary leave, including host failover if the target held it. The
// target receives a terminal kicked event before its channel is closed.
func (m *Controller) Kick(hostID, targetID string) {
	if !m.rooms.Kick(hostID, targetID) {
		return
	}
	m.closer.CloseConn(targetID)
	m.audit.Emit(context.Background(), "user_kicked", "kicked by "+hostID, targetID)
}

// Mute sends an advisory force-mute directive to the target. The server
// does not track the resulting state; compliance is the client's business.
func (m *Controller) Mute(hostID, targetID string) {
	_, room, ok := m.rooms.Member(hostID)
	if !ok || room.Host() != hostID {
		return
	}
	if !m.rooms.SameRoom(hostID, targetID) {
		return
	}
	m.snd.SendTo(targetID, models.NewEvent(models.EvForceMute, nil))
	m.audit.Emit(context.Background(), "user_muted", "muted by "+hostID, targetID)
}

// Block adds targetID to the caller's block set and acks the caller.
func (m *Controller) Block(connID, targetID string) {
	m.blocks.Block(connID, targetID)
	m.snd.SendTo(connID, models.NewEvent(models.EvUserBlocked, models.UserRef{UserID: targetID}))
}

// Unblock removes targetID from the caller's block set and acks the caller.
func (m *Controller) Unblock(connID, targetID string) {
	m.blocks.Unblock(connID, targetID)
	m.snd.SendTo(connID, models.NewEvent(models.EvUserUnblocked, models.UserRef{UserID: targetID}))
}

// Report records a user report on the audit trail and acks the reporter.
// Reports carry no server-side consequence beyond the trail.
func (m *Controller) Report(connID string, req models.ReportRequest) {
	if req.TargetUserID == "" {
		return
	}
	log.Printf("user %s reported %s", connID, req.TargetUserID)
	m.audit.Emit(context.Background(), "user_reported", "reported by "+connID+": "+req.Reason, req.TargetUserID)
	m.snd.SendTo(connID, models.NewEvent(models.EvUserReported, models.UserRef{UserID: req.TargetUserID}))
}

// Forget releases the block set of a disconnected connection.
func (m *Controller) Forget(connID string) {
	m.blocks.Forget(connID)
}
