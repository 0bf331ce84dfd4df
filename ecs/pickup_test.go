package ecs

import (
	"testing"

	"github.com/milk9111/hoprope/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickupSystem(t *testing.T) {
	cases := []struct {
		name      string
		playerPos common.Vec3
		ticks     int
		wantInv   int
	}{
		{"waits_for_delay", common.Vec3{X: 1, Y: 64}, DefaultPickupDelay, 0},
		{"collects_after_delay", common.Vec3{X: 1, Y: 64}, DefaultPickupDelay + 1, 2},
		{"too_far", common.Vec3{X: 3, Y: 64}, DefaultPickupDelay + 5, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			w.AddSystem(NewPickupSystem())
			p := NewPlayer("alex", c.playerPos)
			require.True(t, w.AddFreshEntity(p))

			item := NewItemEntity(common.Vec3{X: 0, Y: 64}, ItemStack{Item: "hop_rope", Count: 2})
			item.SetDefaultPickupDelay()
			require.True(t, w.AddFreshEntity(item))

			for i := 0; i < c.ticks; i++ {
				w.Update()
			}

			assert.Equal(t, c.wantInv, p.CountItem("hop_rope"))
			assert.Equal(t, c.wantInv > 0, item.Removed())
		})
	}
}

func TestPickupPrefersNearest(t *testing.T) {
	w := NewWorld()
	w.AddSystem(NewPickupSystem())
	far := NewPlayer("far", common.Vec3{X: 1.2, Y: 64})
	near := NewPlayer("near", common.Vec3{X: 0.5, Y: 64})
	require.True(t, w.AddFreshEntity(far))
	require.True(t, w.AddFreshEntity(near))
	require.True(t, w.AddFreshEntity(NewItemEntity(common.Vec3{Y: 64}, ItemStack{Item: "hop_rope", Count: 1})))

	w.Update()
	assert.Equal(t, 1, near.CountItem("hop_rope"))
	assert.Zero(t, far.CountItem("hop_rope"))
}

func TestPickupSkippedOnClient(t *testing.T) {
	w := NewWorld()
	w.SetClient(true)
	w.AddSystem(NewPickupSystem())
	p := NewPlayer("alex", common.Vec3{Y: 64})
	require.True(t, w.AddFreshEntity(p))
	item := NewItemEntity(common.Vec3{Y: 64}, ItemStack{Item: "hop_rope", Count: 1})
	require.True(t, w.AddFreshEntity(item))

	w.Update()
	assert.False(t, item.Removed())
}
