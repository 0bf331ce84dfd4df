package rope

import (
	"sort"

	"github.com/milk9111/hoprope/common"
	"github.com/milk9111/hoprope/ecs"
)

func visibleRange(level Level) float64 {
	if r := level.RopeConfig().VisibleRange; r > 0 {
		return r
	}
	return VisibleRange
}

// ObserversOf returns the players within the visible range of pos.
func ObserversOf(level Level, pos common.Vec3) []*ecs.Player {
	r := visibleRange(level)
	var out []*ecs.Player
	for _, p := range level.Players() {
		if p.Position().DistanceSqr(pos) <= r {
			out = append(out, p)
		}
	}
	return out
}

// Observers returns the players that see either end of c, ordered by id.
func Observers(level Level, c *Connection) []*ecs.Player {
	seen := make(map[ecs.EntityID]*ecs.Player)
	for _, p := range ObserversOf(level, c.from.Position()) {
		seen[p.ID()] = p
	}
	for _, p := range ObserversOf(level, c.to.Position()) {
		seen[p.ID()] = p
	}
	out := make([]*ecs.Player, 0, len(seen))
	for _, p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
