package rope

import (
	"github.com/milk9111/hoprope/common"
	"github.com/milk9111/hoprope/ecs"
)

// UseItemOn handles a player using the item in hand on the cell at pos.
// Fence cells get a knot if they have none, and the knot's interaction runs
// in the same tick.
func UseItemOn(level Level, player *ecs.Player, hand ecs.Hand, pos common.BlockPos) ecs.InteractionResult {
	if player == nil || !level.BlockHasTag(pos, ecs.TagFences) {
		return ecs.Pass
	}
	if level.IsClient() {
		return ecs.Success
	}

	if k := KnotAt(level, pos); k != nil {
		if k.Interact(player, hand) == ecs.Consume {
			return ecs.Consume
		}
		return ecs.Pass
	}

	// Only start a rope here when the interaction can succeed; otherwise
	// the new knot would be left empty for a tick.
	stack := player.ItemInHand(hand)
	if len(HeldConnections(level, player)) == 0 && (stack.Empty() || stack.Item != ItemHopRope) {
		return ecs.Pass
	}

	k := SpawnKnot(level, pos)
	if k == nil {
		return ecs.Pass
	}
	return k.Interact(player, hand)
}
