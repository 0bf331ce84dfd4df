package ecs

import (
	"strconv"

	"github.com/milk9111/hoprope/common"
)

// EntityID is the stable integer id the world assigns on add.
type EntityID int32

func (id EntityID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func (id EntityID) Valid() bool {
	return id > 0
}

// Kind identifies an entity type registered with the world.
type Kind string

const (
	KindPlayer Kind = "player"
	KindItem   Kind = "item"
)

type RemovalReason int

const (
	NotRemoved RemovalReason = iota
	Killed
	Discarded
	UnloadedToChunk
	ChangedDimension
)

func (r RemovalReason) String() string {
	switch r {
	case NotRemoved:
		return "not_removed"
	case Killed:
		return "killed"
	case Discarded:
		return "discarded"
	case UnloadedToChunk:
		return "unloaded_to_chunk"
	case ChangedDimension:
		return "changed_dimension"
	default:
		return "removal(" + strconv.Itoa(int(r)) + ")"
	}
}

// Entity is anything the world tracks by id. Implementations embed Base.
type Entity interface {
	ID() EntityID
	Kind() Kind
	Position() common.Vec3
	BlockPos() common.BlockPos
	LeashOffset() common.Vec3
	RopeHoldPosition(tickDelta float64) common.Vec3
	Removed() bool
	RemovalReason() RemovalReason
	base() *Base
}

// AddListener is notified after the entity joins a world.
type AddListener interface {
	OnAddedToWorld(w *World)
}

// RemoveListener is notified before the entity's removed flag flips.
type RemoveListener interface {
	OnRemove(w *World, reason RemovalReason)
}

// Base holds the state shared by every entity.
type Base struct {
	id       EntityID
	kind     Kind
	pos      common.Vec3
	prevPos  common.Vec3
	leash    common.Vec3
	removal  RemovalReason
	removing bool

	world *World
	self  Entity
}

func NewBase(kind Kind, pos common.Vec3) Base {
	return Base{kind: kind, pos: pos, prevPos: pos}
}

func (b *Base) base() *Base { return b }

func (b *Base) ID() EntityID { return b.id }

// SetID assigns a host id before the entity is added, e.g. when mirroring a
// server entity on a client. It is ignored once the entity is in a world.
func (b *Base) SetID(id EntityID) {
	if b.world != nil {
		return
	}
	b.id = id
}

func (b *Base) Kind() Kind { return b.kind }

func (b *Base) Position() common.Vec3 { return b.pos }

// PrevPosition is the position at the start of the current tick.
func (b *Base) PrevPosition() common.Vec3 { return b.prevPos }

func (b *Base) BlockPos() common.BlockPos { return common.BlockPosOf(b.pos) }

// SetPosition moves the entity and keeps the world's block index current.
func (b *Base) SetPosition(p common.Vec3) {
	if b.world == nil || b.self == nil {
		b.pos = p
		return
	}
	b.world.unindex(b.self)
	b.pos = p
	b.world.index(b.self)
}

func (b *Base) LeashOffset() common.Vec3 { return b.leash }

func (b *Base) SetLeashOffset(o common.Vec3) { b.leash = o }

// RopeHoldPosition is the tick-interpolated point a rope attaches to.
func (b *Base) RopeHoldPosition(tickDelta float64) common.Vec3 {
	return common.LerpVec(b.prevPos, b.pos, tickDelta).Add(b.leash)
}

func (b *Base) Removed() bool { return b.removal != NotRemoved }

func (b *Base) RemovalReason() RemovalReason { return b.removal }

// World returns the world the entity was added to, or nil.
func (b *Base) World() *World { return b.world }

// Remove asks the owning world to remove the entity.
func (b *Base) Remove(reason RemovalReason) {
	if b.world == nil || b.self == nil {
		return
	}
	b.world.RemoveEntity(b.self, reason)
}
