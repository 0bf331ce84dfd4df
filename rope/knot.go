package rope

import (
	"github.com/milk9111/hoprope/common"
	"github.com/milk9111/hoprope/ecs"
)

// Knot attachment point relative to its cell's minimum corner.
const (
	knotOffsetXZ = 0.5
	knotOffsetY  = 0.5
)

// Knot anchors ropes to a fence cell.
type Knot struct {
	ecs.Base
	level       Level
	connections []*Connection
	byKey       map[PairKey]*Connection
}

// NewKnot constructs a knot for pos without adding it to level.
func NewKnot(level Level, pos common.BlockPos) *Knot {
	k := &Knot{
		Base:  ecs.NewBase(KindKnot, pos.Vec3()),
		level: level,
		byKey: make(map[PairKey]*Connection),
	}
	k.SetLeashOffset(common.Vec3{X: knotOffsetXZ, Y: knotOffsetY, Z: knotOffsetXZ})
	return k
}

// KnotAt returns the live knot at pos, or nil.
func KnotAt(level Level, pos common.BlockPos) *Knot {
	for _, e := range level.EntitiesInBlock(pos) {
		if k, ok := e.(*Knot); ok && !k.Removed() {
			return k
		}
	}
	return nil
}

// SpawnKnot returns the knot at pos, adding a new one if the cell has none.
// It returns nil if the level refuses the new knot.
func SpawnKnot(level Level, pos common.BlockPos) *Knot {
	if k := KnotAt(level, pos); k != nil {
		return k
	}
	k := NewKnot(level, pos)
	if !level.AddFreshEntity(k) {
		level.Logger().Warn("failed to summon rope knot", "pos", pos)
		return nil
	}
	level.Logger().Debug("knot spawned", "id", k.ID(), "pos", pos)
	return k
}

func (k *Knot) Level() Level { return k.level }

// Connections returns a copy of the incident set.
func (k *Knot) Connections() []*Connection {
	return append([]*Connection(nil), k.connections...)
}

// AddConnection adds c unless an equivalent live connection is present.
func (k *Knot) AddConnection(c *Connection) bool {
	if c == nil || k.SameConnectionExists(c) {
		return false
	}
	if old, ok := k.byKey[c.Key()]; ok && old.Dead() {
		k.removeConnection(old)
	}
	k.connections = append(k.connections, c)
	k.byKey[c.Key()] = c
	return true
}

// SameConnectionExists reports whether a live connection joining the same
// two entities is in the incident set.
func (k *Knot) SameConnectionExists(c *Connection) bool {
	if c == nil {
		return false
	}
	existing, ok := k.byKey[c.Key()]
	return ok && !existing.Dead() && existing.Equal(c)
}

func (k *Knot) removeConnection(c *Connection) {
	for i, other := range k.connections {
		if other == c {
			k.connections = append(k.connections[:i], k.connections[i+1:]...)
			break
		}
	}
	if cur, ok := k.byKey[c.Key()]; ok && cur == c {
		delete(k.byKey, c.Key())
	}
}

// HeldConnections returns the live connections from any knot to holder,
// i.e. the ropes the holder is carrying.
func HeldConnections(level Level, holder ecs.Entity) []*Connection {
	var out []*Connection
	for _, e := range level.EntitiesOfKind(KindKnot) {
		k, ok := e.(*Knot)
		if !ok {
			continue
		}
		for _, c := range k.connections {
			if c.from == k && c.to == holder && !c.Dead() {
				out = append(out, c)
			}
		}
	}
	return out
}

// Interact runs the rope hand interaction on this knot.
//
// A player carrying ropes ties them here: ropes from this knot are taken
// back, ropes from other knots become knot-to-knot connections. Otherwise a
// player holding the rope item starts carrying a rope from this knot.
func (k *Knot) Interact(player *ecs.Player, hand ecs.Hand) ecs.InteractionResult {
	if player == nil || k.Removed() {
		return ecs.Pass
	}
	if k.level.IsClient() {
		return ecs.Success
	}

	held := HeldConnections(k.level, player)
	if len(held) > 0 {
		for _, c := range held {
			switch {
			case c.from == k:
				c.Destroy(true)
			case k.tooFar(c.from):
				k.level.Logger().Debug("rope too long to tie", "from", c.from.ID(), "to", k.ID())
				c.Destroy(true)
			case Create(c.from, k) == nil:
				c.Destroy(true)
			default:
				c.Destroy(false)
			}
		}
		return ecs.Consume
	}

	stack := player.ItemInHand(hand)
	if stack.Empty() || stack.Item != ItemHopRope {
		return ecs.Pass
	}
	if Create(k, player) == nil {
		return ecs.Pass
	}
	if !player.Creative {
		player.ShrinkHand(hand, 1)
	}
	return ecs.Consume
}

func (k *Knot) tooFar(other ecs.Entity) bool {
	return tooLong(k.level, k.Position(), other.Position())
}

// tooLong reports whether a rope between a and b exceeds the configured
// maximum length. A non-positive maximum disables the limit.
func tooLong(level Level, a, b common.Vec3) bool {
	maxLen := level.RopeConfig().MaxLength
	if maxLen <= 0 {
		return false
	}
	return a.DistanceSqr(b) > maxLen*maxLen
}

// Attack is a player breaking the knot by hand.
func (k *Knot) Attack(player *ecs.Player) {
	if k.Removed() || k.level.IsClient() {
		return
	}
	k.Discard(player == nil || !player.Creative)
}

// Discard destroys every incident connection and removes the knot.
func (k *Knot) Discard(mayDrop bool) {
	for _, c := range k.Connections() {
		c.Destroy(mayDrop)
	}
	k.level.RemoveEntity(k, ecs.Killed)
}

// Tick destroys connections whose endpoints are gone or whose carrier
// walked too far, then removes the knot if its fence is gone or it has no
// connections left.
func (k *Knot) Tick() {
	if k.Removed() || k.level.IsClient() {
		return
	}

	for _, c := range k.Connections() {
		switch {
		case c.Dead():
			k.removeConnection(c)
		case c.NeedsDestruction():
			c.Destroy(false)
		case c.from == k && !isKnot(c.to) && k.tooFar(c.to):
			c.Destroy(true)
		}
	}

	if !k.level.BlockHasTag(k.BlockPos(), ecs.TagFences) {
		k.Discard(true)
		return
	}
	if len(k.connections) == 0 {
		k.level.RemoveEntity(k, ecs.Discarded)
	}
}

// OnRemove detaches silently when the knot leaves with its chunk or
// dimension; observers drop the entity themselves.
func (k *Knot) OnRemove(_ *ecs.World, reason ecs.RemovalReason) {
	if reason != ecs.UnloadedToChunk && reason != ecs.ChangedDimension {
		return
	}
	for _, c := range k.Connections() {
		c.RemoveSilently = true
		c.Destroy(false)
	}
}

func isKnot(e ecs.Entity) bool {
	_, ok := e.(*Knot)
	return ok
}
