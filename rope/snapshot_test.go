package rope

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/milk9111/hoprope/common"
	"github.com/milk9111/hoprope/ecs"
	"github.com/milk9111/hoprope/persist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureRestore(t *testing.T) {
	w, _ := newTestWorld(t)
	a := fenceKnot(t, w, common.BlockPos{X: 0, Y: 64, Z: 0})
	b := fenceKnot(t, w, common.BlockPos{X: 5, Y: 64, Z: 0})
	c := fenceKnot(t, w, common.BlockPos{X: 5, Y: 65, Z: 4})
	w.SetBlock(c.BlockPos(), "birch_fence")
	require.NotNil(t, Create(a, b))
	require.NotNil(t, Create(c, b))

	// Held ropes are not persisted.
	p := addPlayer(t, w, "alex", common.Vec3{X: 1, Y: 64})
	require.NotNil(t, Create(a, p))

	snap := Capture(w)
	assert.Equal(t, persist.Version, snap.Version)
	assert.Len(t, snap.Knots, 3)
	assert.Equal(t, "birch_fence", snap.Knots[2].Block)
	assert.ElementsMatch(t, []persist.RopeRecord{
		{From: a.BlockPos(), To: b.BlockPos()},
		{From: c.BlockPos(), To: b.BlockPos()},
	}, snap.Ropes)

	store, err := persist.NewFileStore(filepath.Join(t.TempDir(), "snap.json"))
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), snap))
	loaded, err := store.Load(context.Background())
	require.NoError(t, err)

	restored, _ := newTestWorld(t)
	n, err := Restore(restored, loaded)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, kr := range snap.Knots {
		assert.True(t, restored.BlockHasTag(kr.Pos, ecs.TagFences))
		require.NotNil(t, KnotAt(restored, kr.Pos))
	}
	assert.Len(t, KnotAt(restored, b.BlockPos()).Connections(), 2)
	assert.Len(t, restored.EntitiesOfKind(KindCollision), len(w.EntitiesOfKind(KindCollision)))

	again := Capture(restored)
	assert.ElementsMatch(t, snap.Ropes, again.Ropes)
}

func TestRestoreRefusedOnClient(t *testing.T) {
	w, _ := newTestWorld(t)
	w.SetClient(true)
	_, err := Restore(w, persist.Snapshot{Version: persist.Version})
	assert.Error(t, err)
}

func TestRestoreSkipsUnplaceableKnots(t *testing.T) {
	w, _ := newTestWorld(t)
	snap := persist.Snapshot{
		Version: persist.Version,
		Ropes: []persist.RopeRecord{
			{From: common.BlockPos{X: 0, Y: 310}, To: common.BlockPos{X: 0, Y: 320}},
			{From: common.BlockPos{X: 0, Y: 64}, To: common.BlockPos{X: 3, Y: 64}},
		},
	}
	n, err := Restore(w, snap)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRestoreSkipsOverlongRopes(t *testing.T) {
	w, _ := newTestWorld(t)
	var buf bytes.Buffer
	w.SetLogger(log.New(&buf))

	snap := persist.Snapshot{
		Version: persist.Version,
		Ropes: []persist.RopeRecord{
			{From: common.BlockPos{X: 0, Y: 64}, To: common.BlockPos{X: 40, Y: 64}},
			{From: common.BlockPos{X: 0, Y: 64}, To: common.BlockPos{X: 16, Y: 64}},
		},
	}
	n, err := Restore(w, snap)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Nil(t, KnotAt(w, common.BlockPos{X: 40, Y: 64}))
	assert.Len(t, w.EntitiesOfKind(KindKnot), 2)
	assert.Contains(t, buf.String(), "skipping overlong rope")

	cfg := w.RopeConfig()
	cfg.MaxLength = 0
	w.SetRopeConfig(cfg)
	n, err = Restore(w, snap)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NotNil(t, KnotAt(w, common.BlockPos{X: 40, Y: 64}))
}
