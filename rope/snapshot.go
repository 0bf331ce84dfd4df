package rope

import (
	"errors"
	"fmt"

	"github.com/milk9111/hoprope/common"
	"github.com/milk9111/hoprope/ecs"
	"github.com/milk9111/hoprope/persist"
)

var errClientRestore = errors.New("rope: restore on a client level")

// blockSetter is implemented by levels that can place blocks.
type blockSetter interface {
	SetBlock(pos common.BlockPos, name string)
}

// Capture records every live knot and knot-to-knot rope. Ropes held by
// mobile entities are not recorded.
func Capture(level Level) persist.Snapshot {
	snap := persist.Snapshot{Version: persist.Version}
	for _, e := range level.EntitiesOfKind(KindKnot) {
		k, ok := e.(*Knot)
		if !ok || k.Removed() {
			continue
		}
		pos := k.BlockPos()
		snap.Knots = append(snap.Knots, persist.KnotRecord{Pos: pos, Block: level.BlockState(pos).Block})
		for _, c := range k.connections {
			to, isKnot := c.toKnot()
			if c.from != k || !isKnot || c.Dead() {
				continue
			}
			snap.Ropes = append(snap.Ropes, persist.RopeRecord{From: pos, To: to.BlockPos()})
		}
	}
	return snap
}

// Restore recreates the knots and ropes of snap. Fence blocks are placed
// when the level supports it. Ropes whose knots cannot be spawned are
// skipped with a warning, as are ropes longer than the configured maximum;
// the count of restored ropes is returned.
func Restore(level Level, snap persist.Snapshot) (int, error) {
	if level.IsClient() {
		return 0, errClientRestore
	}
	if snap.Version > persist.Version {
		return 0, fmt.Errorf("rope: restore snapshot version %d", snap.Version)
	}

	if setter, ok := level.(blockSetter); ok {
		for _, kr := range snap.Knots {
			if kr.Block != "" && !level.BlockHasTag(kr.Pos, ecs.TagFences) {
				setter.SetBlock(kr.Pos, kr.Block)
			}
		}
	}

	restored := 0
	for _, rr := range snap.Ropes {
		if tooLong(level, rr.From.Vec3(), rr.To.Vec3()) {
			level.Logger().Warn("skipping overlong rope from snapshot", "from", rr.From, "to", rr.To, "max_length", level.RopeConfig().MaxLength)
			continue
		}
		from := SpawnKnot(level, rr.From)
		to := SpawnKnot(level, rr.To)
		if from == nil || to == nil {
			level.Logger().Warn("skipping rope from snapshot", "from", rr.From, "to", rr.To)
			continue
		}
		if Create(from, to) != nil {
			restored++
		}
	}
	return restored, nil
}
