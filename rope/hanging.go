package rope

import (
	"sort"

	"github.com/milk9111/hoprope/common"
	"github.com/milk9111/hoprope/ecs"
)

// HangingEntity marks one cell crossed by a rope's baseline. Its position
// carries the sagged height; it is indexed by the crossed cell.
type HangingEntity struct {
	ecs.Base
	cell common.BlockPos
	conn *Connection
}

func NewHangingEntity(pos common.Vec3, cell common.BlockPos, conn *Connection) *HangingEntity {
	return &HangingEntity{
		Base: ecs.NewBase(KindHanging, pos),
		cell: cell,
		conn: conn,
	}
}

// BlockPos is the crossed cell, not the cell containing the sagged position.
func (e *HangingEntity) BlockPos() common.BlockPos { return e.cell }

// Connection returns the owning rope. Callers must not mutate it.
func (e *HangingEntity) Connection() *Connection { return e.conn }

// HangingAt returns the marker c placed at cell, or nil.
func HangingAt(level Level, cell common.BlockPos, c *Connection) *HangingEntity {
	for _, e := range level.EntitiesInBlock(cell) {
		if h, ok := e.(*HangingEntity); ok && h.conn == c && !h.Removed() {
			return h
		}
	}
	return nil
}

// HangingRopesOf returns the live markers owned by c ordered by cell.
func HangingRopesOf(level Level, c *Connection) []*HangingEntity {
	var out []*HangingEntity
	for _, e := range level.EntitiesOfKind(KindHanging) {
		if h, ok := e.(*HangingEntity); ok && h.conn == c {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].cell.Less(out[j].cell) })
	return out
}
