package ecs

// PickupRadius is how close, in blocks, a player must be to collect an item.
const PickupRadius = 1.5

// PickupSystem counts down item pickup delays and moves collectable items
// into the nearest player's inventory.
type PickupSystem struct{}

func NewPickupSystem() *PickupSystem {
	return &PickupSystem{}
}

func (s *PickupSystem) Update(w *World) {
	if w == nil || w.IsClient() {
		return
	}

	players := w.Players()
	for _, e := range w.EntitiesOfKind(KindItem) {
		item, ok := e.(*ItemEntity)
		if !ok {
			continue
		}
		if item.PickupDelay > 0 {
			item.PickupDelay--
			continue
		}

		var nearest *Player
		best := PickupRadius * PickupRadius
		for _, p := range players {
			if d := p.Position().DistanceSqr(item.Position()); d <= best {
				nearest, best = p, d
			}
		}
		if nearest == nil {
			continue
		}

		nearest.AddItem(item.Stack)
		w.RemoveEntity(item, Discarded)
		w.Logger().Debug("item picked up", "item", item.Stack.Item, "count", item.Stack.Count, "player", nearest.Name)
	}
}
