// Package rope maintains the graph of rope knots and the connections between
// them, and realizes each connection in the world as collision segments and
// hanging markers.
package rope

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/hoprope/common"
	"github.com/milk9111/hoprope/config"
	"github.com/milk9111/hoprope/ecs"
	"github.com/milk9111/hoprope/network"
)

// VisibleRange is the squared distance within which a player observes an
// endpoint.
const VisibleRange = 2048.0

const (
	KindKnot      ecs.Kind = "hop_rope_knot"
	KindCollision ecs.Kind = "rope_collision"
	KindHanging   ecs.Kind = "hanging_rope"
)

// ItemHopRope is the item that places and carries ropes.
const ItemHopRope = "hop_rope"

const (
	EventRopeAttached = "rope_attached"
	EventRopeDetached = "rope_detached"
)

// RopeEvent is the payload of rope attach/detach world events.
type RopeEvent struct {
	From ecs.EntityID
	To   ecs.EntityID
}

// Level is the world the rope graph lives in. All calls happen on the
// tick goroutine.
type Level interface {
	IsClient() bool
	Entity(id ecs.EntityID) ecs.Entity
	AddFreshEntity(e ecs.Entity) bool
	RemoveEntity(e ecs.Entity, reason ecs.RemovalReason)
	EntitiesInBlock(pos common.BlockPos) []ecs.Entity
	EntitiesOfKind(kind ecs.Kind) []ecs.Entity
	Players() []*ecs.Player
	BlockState(pos common.BlockPos) ecs.BlockState
	BlockHasTag(pos common.BlockPos, tag ecs.Tag) bool
	GameRule(name string) bool
	SendToPlayer(p *ecs.Player, id network.PacketID, payload []byte)
	RopeConfig() config.Rope
	PhysicsWorld() *ecs.PhysicsWorld
	Events() *ecs.EventQueue
	Logger() *log.Logger
}

var _ Level = (*ecs.World)(nil)
