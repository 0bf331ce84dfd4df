package ecs

import (
	"testing"

	"github.com/milk9111/hoprope/common"
	"github.com/milk9111/hoprope/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hookEntity struct {
	Base
	added        int
	removed      int
	removedState bool
	reason       RemovalReason
}

func (h *hookEntity) OnAddedToWorld(w *World) { h.added++ }

func (h *hookEntity) OnRemove(w *World, reason RemovalReason) {
	h.removed++
	h.removedState = h.Removed()
	h.reason = reason
}

func newHook(pos common.Vec3) *hookEntity {
	return &hookEntity{Base: NewBase(Kind("hook"), pos)}
}

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]*hookEntity, 0, c.create)
			for i := 0; i < c.create; i++ {
				e := newHook(common.Vec3{X: float64(i), Y: 64})
				require.True(t, w.AddFreshEntity(e))
				ents = append(ents, e)
			}
			require.Equal(t, c.create, w.EntityCount())
			for i, e := range ents {
				assert.Equal(t, EntityID(i+1), e.ID())
				assert.Equal(t, 1, e.added)
			}
			if c.destroyIndex >= 0 {
				e := ents[c.destroyIndex]
				w.RemoveEntity(e, Discarded)
				assert.True(t, e.Removed())
				assert.Nil(t, w.Entity(e.ID()))
				assert.Equal(t, 1, e.removed)
				assert.False(t, e.removedState, "hook runs before the removed flag flips")
				assert.Equal(t, Discarded, e.reason)

				w.RemoveEntity(e, Killed)
				assert.Equal(t, 1, e.removed)
				assert.Equal(t, Discarded, e.RemovalReason())
			}
		})
	}
}

func TestAddFreshEntityRefusals(t *testing.T) {
	w := NewWorld()
	w.SetBuildLimits(0, 256)

	cases := []struct {
		name  string
		setup func() Entity
	}{
		{"nil", func() Entity { return nil }},
		{"below_build_height", func() Entity { return newHook(common.Vec3{Y: -0.5}) }},
		{"at_max_build_height", func() Entity { return newHook(common.Vec3{Y: 256}) }},
		{"twice", func() Entity {
			e := newHook(common.Vec3{Y: 10})
			require.True(t, w.AddFreshEntity(e))
			return e
		}},
		{"removed", func() Entity {
			e := newHook(common.Vec3{Y: 10})
			require.True(t, w.AddFreshEntity(e))
			w.RemoveEntity(e, Killed)
			return e
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.False(t, w.AddFreshEntity(c.setup()))
		})
	}
}

func TestAddFreshEntityCap(t *testing.T) {
	w := NewWorld()
	w.SetMaxEntities(2)
	assert.True(t, w.AddFreshEntity(newHook(common.Vec3{})))
	assert.True(t, w.AddFreshEntity(newHook(common.Vec3{})))
	assert.False(t, w.AddFreshEntity(newHook(common.Vec3{})))
}

func TestPresetIDs(t *testing.T) {
	w := NewWorld()
	e := newHook(common.Vec3{})
	e.SetID(40)
	require.True(t, w.AddFreshEntity(e))
	assert.Equal(t, EntityID(40), e.ID())

	dup := newHook(common.Vec3{})
	dup.SetID(40)
	assert.False(t, w.AddFreshEntity(dup))

	next := newHook(common.Vec3{})
	require.True(t, w.AddFreshEntity(next))
	assert.Equal(t, EntityID(41), next.ID())
}

func TestBlockIndexFollowsMoves(t *testing.T) {
	w := NewWorld()
	p := NewPlayer("alex", common.Vec3{X: 0.5, Y: 64, Z: 0.5})
	require.True(t, w.AddFreshEntity(p))

	assert.Len(t, w.EntitiesInBlock(common.BlockPos{X: 0, Y: 64, Z: 0}), 1)

	p.SetPosition(common.Vec3{X: 3.2, Y: 64, Z: -1.5})
	assert.Empty(t, w.EntitiesInBlock(common.BlockPos{X: 0, Y: 64, Z: 0}))
	assert.Len(t, w.EntitiesInBlock(common.BlockPos{X: 3, Y: 64, Z: -2}), 1)

	w.RemoveEntity(p, Discarded)
	assert.Empty(t, w.EntitiesInBlock(common.BlockPos{X: 3, Y: 64, Z: -2}))
}

func TestUpdateInterpolatesRopeHold(t *testing.T) {
	w := NewWorld()
	p := NewPlayer("alex", common.Vec3{X: 0, Y: 64, Z: 0})
	require.True(t, w.AddFreshEntity(p))

	var ran int
	w.AddSystem(SystemFunc(func(w *World) { ran++ }))
	w.Update()
	p.SetPosition(common.Vec3{X: 2, Y: 64, Z: 0})

	got := p.RopeHoldPosition(0.5)
	assert.InDelta(t, 1.0, got.X, 1e-9)
	assert.InDelta(t, 64+PlayerHandHeight, got.Y, 1e-9)
	assert.Equal(t, 1, ran)
	assert.Equal(t, uint64(1), w.Ticks())
}

func TestBlocksAndTags(t *testing.T) {
	w := NewWorld()
	pos := common.BlockPos{X: 1, Y: 64, Z: 1}
	assert.True(t, w.BlockState(pos).IsAir())
	assert.False(t, w.BlockHasTag(pos, TagFences))

	w.SetBlock(pos, "oak_fence")
	assert.True(t, w.BlockHasTag(pos, TagFences))

	w.SetBlock(pos, "stone")
	assert.False(t, w.BlockHasTag(pos, TagFences))
	w.TagBlock(TagFences, "stone")
	assert.True(t, w.BlockHasTag(pos, TagFences))

	w.SetBlock(pos, BlockAir)
	assert.True(t, w.BlockState(pos).IsAir())
}

func TestGameRules(t *testing.T) {
	w := NewWorld()
	assert.True(t, w.GameRule(RuleDoBlockDrops))
	w.GameRules().SetBool(RuleDoBlockDrops, false)
	assert.False(t, w.GameRule(RuleDoBlockDrops))
	assert.False(t, w.GameRule("unknown"))
}

func TestSendToPlayer(t *testing.T) {
	w := NewWorld()
	lb := network.NewLoopback()
	w.SetSender(lb)
	p := NewPlayer("alex", common.Vec3{Y: 64})
	require.True(t, w.AddFreshEntity(p))

	w.SendToPlayer(p, network.AttachRopeS2C, network.EncodeRope(1, 2))
	w.SendToPlayer(nil, network.AttachRopeS2C, nil)

	sent := lb.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, int32(p.ID()), sent[0].PlayerID)
}

func TestEventsFlushAfterUpdate(t *testing.T) {
	w := NewWorld()
	require.True(t, w.AddFreshEntity(newHook(common.Vec3{})))
	assert.Equal(t, 1, w.Events().Len())

	var seen, peeked []Event
	w.AddSystem(SystemFunc(func(w *World) { peeked = w.Events().Peek() }))
	w.AddSystem(SystemFunc(func(w *World) { seen = w.Events().Peek() }))
	w.Update()
	require.Len(t, peeked, 1)
	assert.Equal(t, EventEntityAdded, peeked[0].Type)
	assert.Equal(t, peeked, seen)
	assert.Equal(t, 0, w.Events().Len())
	assert.Nil(t, w.Events().Peek())
}

func TestPlayerItems(t *testing.T) {
	p := NewPlayer("alex", common.Vec3{})
	p.SetItemInHand(MainHand, ItemStack{Item: "hop_rope", Count: 2})
	p.ShrinkHand(MainHand, 1)
	assert.Equal(t, 1, p.ItemInHand(MainHand).Count)
	p.ShrinkHand(MainHand, 1)
	assert.True(t, p.ItemInHand(MainHand).Empty())

	p.AddItem(ItemStack{Item: "hop_rope", Count: 1})
	p.AddItem(ItemStack{Item: "hop_rope", Count: 2})
	assert.Equal(t, 3, p.CountItem("hop_rope"))
	assert.Len(t, p.Inventory(), 1)
}
