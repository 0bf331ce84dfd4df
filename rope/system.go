package rope

import "github.com/milk9111/hoprope/ecs"

// System ticks every knot and then removes auxiliary entities whose rope is
// gone.
type System struct{}

func NewSystem() *System { return &System{} }

func (s *System) Update(w *ecs.World) {
	if w == nil || w.IsClient() {
		return
	}
	for _, e := range w.EntitiesOfKind(KindKnot) {
		if k, ok := e.(*Knot); ok && !k.Removed() {
			k.Tick()
		}
	}
	SweepOrphans(w)
}

// SweepOrphans removes collision segments and hanging markers whose owner is
// dead or has lost an endpoint. It returns the number removed.
func SweepOrphans(level Level) int {
	n := 0
	for _, kind := range []ecs.Kind{KindCollision, KindHanging} {
		for _, e := range level.EntitiesOfKind(kind) {
			if !orphaned(ownerOf(e)) {
				continue
			}
			level.RemoveEntity(e, ecs.Discarded)
			n++
		}
	}
	if n > 0 {
		level.Logger().Debug("swept orphaned rope entities", "count", n)
	}
	return n
}

func ownerOf(e ecs.Entity) *Connection {
	switch v := e.(type) {
	case *CollisionEntity:
		return v.conn
	case *HangingEntity:
		return v.conn
	}
	return nil
}

func orphaned(c *Connection) bool {
	return c == nil || c.Dead() || c.NeedsDestruction()
}
