package rope

import (
	"github.com/milk9111/hoprope/common"
	"github.com/milk9111/hoprope/ecs"
	"github.com/milk9111/hoprope/network"
)

// PairKey identifies a connection independent of direction: Lo <= Hi.
type PairKey struct {
	Lo ecs.EntityID
	Hi ecs.EntityID
}

func makePairKey(a, b ecs.EntityID) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{Lo: a, Hi: b}
}

// Connection is a rope from a knot to another knot or to a mobile entity.
// It owns the collision segments and hanging markers it spawned; those hold
// only a read-only pointer back.
type Connection struct {
	from  *Knot
	to    ecs.Entity
	alive bool

	// RemoveSilently suppresses the detach notification on Destroy.
	RemoveSilently bool

	collisions []ecs.EntityID
}

// Create connects fromKnot to to. It returns nil when either endpoint is not
// live in fromKnot's level, when they are the same entity, or when fromKnot
// already holds an equivalent connection.
func Create(fromKnot *Knot, to ecs.Entity) *Connection {
	if fromKnot == nil || to == nil {
		return nil
	}
	if !registered(fromKnot.level, fromKnot) || !registered(fromKnot.level, to) {
		return nil
	}
	if to == ecs.Entity(fromKnot) {
		return nil
	}
	c := &Connection{from: fromKnot, to: to, alive: true}
	if fromKnot.SameConnectionExists(c) {
		return nil
	}

	fromKnot.AddConnection(c)
	if toKnot, ok := to.(*Knot); ok {
		toKnot.AddConnection(c)
		c.createCollision()
		c.createHangingRopes()
	}

	level := fromKnot.level
	if !level.IsClient() {
		c.sendPacket(network.AttachRopeS2C)
		level.Events().Push(ecs.Event{Type: EventRopeAttached, Data: RopeEvent{From: fromKnot.ID(), To: to.ID()}})
		level.Logger().Debug("rope attached", "from", fromKnot.ID(), "to", to.ID())
	}
	return c
}

// registered reports whether e is live in level under its own id.
func registered(level Level, e ecs.Entity) bool {
	if e.Removed() || !e.ID().Valid() {
		return false
	}
	return level.Entity(e.ID()) == e
}

func (c *Connection) From() *Knot { return c.from }

func (c *Connection) To() ecs.Entity { return c.to }

func (c *Connection) Dead() bool { return !c.alive }

// Key is the canonical unordered identity of the connection.
func (c *Connection) Key() PairKey {
	return makePairKey(c.from.ID(), c.to.ID())
}

// Equal reports whether o joins the same two entities in either direction.
func (c *Connection) Equal(o *Connection) bool {
	if c == nil || o == nil {
		return c == o
	}
	from, oFrom := ecs.Entity(c.from), ecs.Entity(o.from)
	return (from == oFrom && c.to == o.to) || (from == o.to && c.to == oFrom)
}

// SquaredDistance is the squared distance between the endpoint positions.
func (c *Connection) SquaredDistance() float64 {
	return c.from.Position().DistanceSqr(c.to.Position())
}

// ConnectionVec points from the knot's attachment point to where the other
// end holds the rope, interpolated within the current tick.
func (c *Connection) ConnectionVec(tickDelta float64) common.Vec3 {
	fromPos := c.from.Position().Add(c.from.LeashOffset())
	return c.to.RopeHoldPosition(tickDelta).Sub(fromPos)
}

// Collisions returns the ids of the collision segments this connection
// spawned. Some may no longer resolve.
func (c *Connection) Collisions() []ecs.EntityID {
	return append([]ecs.EntityID(nil), c.collisions...)
}

// NeedsDestruction reports whether either endpoint has left the world.
func (c *Connection) NeedsDestruction() bool {
	return c.from.Removed() || c.to.Removed()
}

func (c *Connection) toKnot() (*Knot, bool) {
	k, ok := c.to.(*Knot)
	return k, ok
}

func (c *Connection) endpoints() (start, end common.Vec3) {
	start = c.from.Position().Add(c.from.LeashOffset())
	end = c.to.Position().Add(c.to.LeashOffset())
	return start, end
}

func (c *Connection) createCollision() {
	if len(c.collisions) > 0 {
		return
	}
	level := c.from.level
	if level.IsClient() {
		return
	}

	cfg := level.RopeConfig()
	start, end := c.endpoints()
	distance := start.Distance(end)
	if distance <= 0 {
		return
	}
	step := cfg.CollisionWidth * 2.5 / distance
	centerHoldout := cfg.CollisionWidth / distance

	for k := 1; ; k++ {
		v := step * float64(k)
		if v >= 0.5-centerHoldout {
			break
		}
		c.spawnCollision(start, end, v)
		c.spawnCollision(end, start, v)
	}
	c.spawnCollision(start, end, 0.5)
}

func (c *Connection) spawnCollision(start, end common.Vec3, v float64) {
	level := c.from.level
	cfg := level.RopeConfig()

	ropeVec := end.Sub(start)
	currentVec := ropeVec.Scale(v)
	currentPos := start.Add(currentVec)

	y := YHangingOffset(currentVec.Length(), ropeVec) - cfg.CollisionHeight/2
	pos := common.Vec3{X: currentPos.X, Y: currentPos.Y + y, Z: currentPos.Z}

	e := NewCollisionEntity(pos, c, cfg.CollisionWidth, cfg.CollisionHeight)
	if !level.AddFreshEntity(e) {
		level.Logger().Warn("failed to summon collision entity for a rope", "from", c.from.ID(), "to", c.to.ID(), "pos", pos)
		return
	}
	c.collisions = append(c.collisions, e.ID())
}

func (c *Connection) createHangingRopes() {
	level := c.from.level
	if level.IsClient() {
		return
	}

	cfg := level.RopeConfig()
	start, end := c.endpoints()
	ropeVec := end.Sub(start)
	fromCell := c.from.BlockPos()

	for _, cell := range LineIntersection(c) {
		currentVec := cell.Sub(fromCell).Vec3()
		y := YHangingOffset(currentVec.Length(), ropeVec) - cfg.HangingHeight
		pos := common.Vec3{X: float64(cell.X), Y: start.Y + currentVec.Y + y, Z: float64(cell.Z)}

		e := NewHangingEntity(pos, cell, c)
		if !level.AddFreshEntity(e) {
			level.Logger().Warn("failed to summon hanging rope entity", "from", c.from.ID(), "to", c.to.ID(), "cell", cell)
		}
	}
}

// Destroy kills the connection. The alive flag and the incident sets change
// on both sides; dropping the rope item, removing auxiliary entities and
// notifying observers happen on the server only. Calling Destroy on a dead
// connection does nothing.
func (c *Connection) Destroy(mayDrop bool) {
	if !c.alive {
		return
	}
	c.alive = false
	c.from.removeConnection(c)
	toKnot, isKnot := c.toKnot()
	if isKnot {
		toKnot.removeConnection(c)
	}

	level := c.from.level
	if level.IsClient() {
		return
	}

	drop := mayDrop
	if p, ok := c.to.(*ecs.Player); ok && p.Creative {
		drop = false
	}
	if !level.GameRule(ecs.RuleDoBlockDrops) {
		drop = false
	}
	if drop {
		c.dropItem()
	}

	c.destroyCollision()
	if isKnot {
		c.destroyHangingRopes()
	}

	if !c.RemoveSilently && !c.from.Removed() && !c.to.Removed() {
		c.sendPacket(network.DetachRopeS2C)
	}
	level.Events().Push(ecs.Event{Type: EventRopeDetached, Data: RopeEvent{From: c.from.ID(), To: c.to.ID()}})
	level.Logger().Debug("rope detached", "from", c.from.ID(), "to", c.to.ID(), "drop", drop, "silent", c.RemoveSilently)
}

func (c *Connection) dropItem() {
	level := c.from.level
	stack := ecs.ItemStack{Item: ItemHopRope, Count: 1}
	if p, ok := c.to.(*ecs.Player); ok {
		p.AddItem(stack)
		return
	}

	middle := common.Middle(c.from.Position(), c.to.Position())
	item := ecs.NewItemEntity(middle, stack)
	item.SetDefaultPickupDelay()
	if !level.AddFreshEntity(item) {
		level.Logger().Warn("failed to drop rope item", "pos", middle)
	}
}

func (c *Connection) destroyCollision() {
	level := c.from.level
	for _, id := range c.collisions {
		e := level.Entity(id)
		if ce, ok := e.(*CollisionEntity); ok {
			level.RemoveEntity(ce, ecs.Discarded)
			continue
		}
		kind := ecs.Kind("none")
		if e != nil {
			kind = e.Kind()
		}
		level.Logger().Warn("collision storage referenced an entity that is not a collision entity", "id", id, "kind", kind)
	}
	c.collisions = nil
}

func (c *Connection) destroyHangingRopes() {
	level := c.from.level
	for _, cell := range LineIntersection(c) {
		if e := HangingAt(level, cell, c); e != nil {
			level.RemoveEntity(e, ecs.Discarded)
			continue
		}
		level.Logger().Warn("hanging rope entity missing", "cell", cell, "from", c.from.ID(), "to", c.to.ID())
	}
}

func (c *Connection) sendPacket(id network.PacketID) {
	level := c.from.level
	payload := network.EncodeRope(int32(c.from.ID()), int32(c.to.ID()))
	for _, p := range Observers(level, c) {
		level.SendToPlayer(p, id, payload)
	}
}
