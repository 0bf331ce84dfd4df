package script

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/milk9111/hoprope/common"
	"github.com/milk9111/hoprope/ecs"
	"github.com/milk9111/hoprope/network"
	"github.com/milk9111/hoprope/rope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	w := ecs.NewWorld()
	w.SetLogger(log.New(&buf))
	return NewRunner(w, nil), &buf
}

func TestDemoScenario(t *testing.T) {
	r, buf := newRunner(t)
	src, err := Scenario("demo")
	require.NoError(t, err)

	require.NoError(t, r.Run(context.Background(), src))

	w := r.World()
	assert.Len(t, w.EntitiesOfKind(rope.KindKnot), 3)
	a := rope.KnotAt(w, common.BlockPos{X: 0, Y: 64, Z: 0})
	require.NotNil(t, a)
	assert.Len(t, a.Connections(), 2)
	assert.Equal(t, 2, r.Player("alex").CountItem(rope.ItemHopRope))
	assert.Empty(t, rope.HeldConnections(w, r.Player("alex")))
	assert.Contains(t, buf.String(), "ropes=1 collisions=15 markers=4")
	assert.Contains(t, buf.String(), "knots=3 held=2")
}

func TestScenarios(t *testing.T) {
	assert.Contains(t, Scenarios(), "demo")
	_, err := Scenario("missing")
	assert.Error(t, err)
}

func TestScriptRemoveReasons(t *testing.T) {
	r, _ := newRunner(t)
	src := `
world.fence(0, 64, 0)
world.fence(4, 64, 0)
world.player("p", 2, 64, 0)
world.give("p", 2)
world.use("p", 0, 64, 0)
world.use("p", 4, 64, 0)
world.remove(world.knot_at(4, 64, 0), "unloaded_to_chunk")
`
	require.NoError(t, r.Run(context.Background(), []byte(src)))

	w := r.World()
	assert.Empty(t, w.EntitiesOfKind(rope.KindCollision))
	assert.Empty(t, w.EntitiesOfKind(rope.KindHanging))
	assert.Empty(t, w.EntitiesOfKind(ecs.KindItem))

	// Only the held rope's detach on tying was sent.
	var detach int
	for _, p := range r.Loopback().SentTo(int32(r.Player("p").ID())) {
		if p.ID == network.DetachRopeS2C {
			detach++
		}
	}
	assert.Equal(t, 1, detach)
}

func TestScriptTickAndMove(t *testing.T) {
	r, _ := newRunner(t)
	src := `
world.fence(0, 64, 0)
world.player("p", 1, 64, 0)
world.give("p", 1)
world.use("p", 0, 64, 0)
world.move("p", 40, 64, 0)
world.tick(2)
`
	require.NoError(t, r.Run(context.Background(), []byte(src)))

	assert.Equal(t, uint64(2), r.World().Ticks())
	assert.Equal(t, 1, r.Player("p").CountItem(rope.ItemHopRope))
	assert.Nil(t, rope.KnotAt(r.World(), common.BlockPos{X: 0, Y: 64, Z: 0}))
}

func TestScriptErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"compile", `world.fence(`},
		{"unknown_player", `world.give("nobody", 1)`},
		{"bad_arg", `world.fence("a", 64, 0)`},
		{"bad_reason", `world.player("p", 0, 64, 0); world.remove(1, "exploded")`},
		{"duplicate_player", `world.player("p", 0, 64, 0); world.player("p", 1, 64, 0)`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, _ := newRunner(t)
			assert.Error(t, r.Run(context.Background(), []byte(c.src)))
		})
	}
}

func TestRunFile(t *testing.T) {
	r, _ := newRunner(t)
	path := filepath.Join(t.TempDir(), "s.tengo")
	require.NoError(t, os.WriteFile(path, []byte(`world.fence(1, 64, 1)`), 0644))
	require.NoError(t, r.RunFile(context.Background(), path))
	assert.True(t, r.World().BlockHasTag(common.BlockPos{X: 1, Y: 64, Z: 1}, ecs.TagFences))

	assert.Error(t, r.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.tengo")))
}

func TestRunCancelled(t *testing.T) {
	r, _ := newRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, r.Run(ctx, []byte(`for { world.tick(1) }`)))
}

func TestScriptDroppedRopeIsCollected(t *testing.T) {
	r, _ := newRunner(t)
	src := `
world.fence(0, 64, 0)
world.fence(4, 64, 0)
world.player("p", 2, 64, 0)
world.give("p", 1)
world.use("p", 0, 64, 0)
world.use("p", 4, 64, 0)
world.attack("p", 0, 64, 0)
`
	require.NoError(t, r.Run(context.Background(), []byte(src)))
	w := r.World()
	require.Len(t, w.EntitiesOfKind(ecs.KindItem), 1)
	assert.Zero(t, r.Player("p").CountItem(rope.ItemHopRope))

	require.NoError(t, r.Run(context.Background(), []byte(`world.tick(11)`)))
	assert.Empty(t, w.EntitiesOfKind(ecs.KindItem))
	assert.Equal(t, 1, r.Player("p").CountItem(rope.ItemHopRope))
	assert.Empty(t, w.EntitiesOfKind(rope.KindKnot))
}
