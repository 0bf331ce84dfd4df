package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMiddle(t *testing.T) {
	got := Middle(Vec3{X: 0, Y: 64, Z: 0}, Vec3{X: 5, Y: 64, Z: 0})
	assert.Equal(t, Vec3{X: 2.5, Y: 64, Z: 0}, got)
}

func TestBlockPosOf(t *testing.T) {
	cases := []struct {
		name string
		in   Vec3
		want BlockPos
	}{
		{"origin", Vec3{}, BlockPos{}},
		{"fraction", Vec3{X: 1.9, Y: 64.5, Z: 0.1}, BlockPos{X: 1, Y: 64, Z: 0}},
		{"negative", Vec3{X: -0.5, Y: -0.01, Z: -3}, BlockPos{X: -1, Y: -1, Z: -3}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, BlockPosOf(c.in))
		})
	}
}

func TestBlockPosLess(t *testing.T) {
	a := BlockPos{X: 1, Y: 70, Z: 0}
	b := BlockPos{X: 1, Y: 64, Z: 1}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
}

func TestVec3Length(t *testing.T) {
	v := Vec3{X: 3, Y: 0, Z: 4}
	assert.InDelta(t, 5.0, v.Length(), 1e-12)
	assert.InDelta(t, 25.0, v.DistanceSqr(Vec3{}), 1e-12)
}
