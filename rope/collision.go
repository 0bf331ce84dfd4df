package rope

import (
	"github.com/milk9111/hoprope/common"
	"github.com/milk9111/hoprope/ecs"
)

// CollisionEntity is one short volume along a knot-to-knot rope. Its base
// centre is its position; the volume is registered with the world's
// physics index while it is in the world.
type CollisionEntity struct {
	ecs.Base
	conn   *Connection
	width  float64
	height float64
}

func NewCollisionEntity(pos common.Vec3, conn *Connection, width, height float64) *CollisionEntity {
	return &CollisionEntity{
		Base:   ecs.NewBase(KindCollision, pos),
		conn:   conn,
		width:  width,
		height: height,
	}
}

// Connection returns the owning rope. Callers must not mutate it.
func (e *CollisionEntity) Connection() *Connection { return e.conn }

func (e *CollisionEntity) Size() (width, height float64) { return e.width, e.height }

func (e *CollisionEntity) OnAddedToWorld(w *ecs.World) {
	w.PhysicsWorld().AddCollider(e.ID(), e.Position(), e.width, e.height)
}

func (e *CollisionEntity) OnRemove(w *ecs.World, _ ecs.RemovalReason) {
	w.PhysicsWorld().RemoveCollider(e.ID())
}

// CollisionsNear returns the live collision segments within radius of pos.
func CollisionsNear(level Level, pos common.Vec3, radius float64) []*CollisionEntity {
	var out []*CollisionEntity
	for _, id := range level.PhysicsWorld().QueryColliders(pos, radius) {
		if e, ok := level.Entity(id).(*CollisionEntity); ok && !e.Removed() {
			out = append(out, e)
		}
	}
	return out
}

// CollisionsOf returns the live collision segments owned by c.
func CollisionsOf(level Level, c *Connection) []*CollisionEntity {
	var out []*CollisionEntity
	for _, e := range level.EntitiesOfKind(KindCollision) {
		if ce, ok := e.(*CollisionEntity); ok && ce.conn == c {
			out = append(out, ce)
		}
	}
	return out
}
