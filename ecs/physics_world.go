package ecs

import (
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/hoprope/common"
)

const collisionTypeRope cp.CollisionType = iota + 1

// collider is stored on each shape so queries can filter by height.
type collider struct {
	id   EntityID
	minY float64
	maxY float64
}

// PhysicsWorld indexes rope colliders in a Chipmunk space. Shapes live on
// the static body in the XZ plane; X maps to cp X and Z maps to cp Y.
type PhysicsWorld struct {
	space  *cp.Space
	shapes map[EntityID]*cp.Shape
}

// NewPhysicsWorld creates an empty collider index.
func NewPhysicsWorld() *PhysicsWorld {
	return &PhysicsWorld{
		space:  cp.NewSpace(),
		shapes: make(map[EntityID]*cp.Shape),
	}
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// AddCollider registers a width-wide, height-tall volume whose base centre is
// at pos. An existing collider for id is replaced.
func (pw *PhysicsWorld) AddCollider(id EntityID, pos common.Vec3, width, height float64) {
	if pw == nil || pw.space == nil || !id.Valid() || width <= 0 {
		return
	}
	pw.RemoveCollider(id)

	shape := cp.NewCircle(pw.space.StaticBody, width/2, cp.Vector{X: pos.X, Y: pos.Z})
	shape.SetCollisionType(collisionTypeRope)
	shape.UserData = collider{id: id, minY: pos.Y, maxY: pos.Y + height}
	pw.space.AddShape(shape)
	pw.shapes[id] = shape
}

// RemoveCollider drops the collider for id if present.
func (pw *PhysicsWorld) RemoveCollider(id EntityID) {
	if pw == nil || pw.space == nil {
		return
	}
	shape, ok := pw.shapes[id]
	if !ok {
		return
	}
	pw.space.RemoveShape(shape)
	delete(pw.shapes, id)
}

func (pw *PhysicsWorld) HasCollider(id EntityID) bool {
	if pw == nil {
		return false
	}
	_, ok := pw.shapes[id]
	return ok
}

func (pw *PhysicsWorld) ColliderCount() int {
	if pw == nil {
		return 0
	}
	return len(pw.shapes)
}

// QueryColliders returns the ids of colliders within radius of pos, ordered
// by id.
func (pw *PhysicsWorld) QueryColliders(pos common.Vec3, radius float64) []EntityID {
	if pw == nil || pw.space == nil || radius < 0 {
		return nil
	}
	center := cp.Vector{X: pos.X, Y: pos.Z}
	var out []EntityID
	pw.space.BBQuery(cp.NewBBForCircle(center, radius), cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		c, ok := shape.UserData.(collider)
		if !ok {
			return
		}
		// Box overlap is coarse; check the surface distance.
		if shape.PointQuery(center).Distance > radius {
			return
		}
		if pos.Y < c.minY-radius || pos.Y > c.maxY+radius {
			return
		}
		out = append(out, c.id)
	}, nil)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
