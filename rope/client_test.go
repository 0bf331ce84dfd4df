package rope

import (
	"testing"

	"github.com/milk9111/hoprope/common"
	"github.com/milk9111/hoprope/ecs"
	"github.com/milk9111/hoprope/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClientWorld(t *testing.T) *ecs.World {
	t.Helper()
	w, _ := newTestWorld(t)
	w.SetClient(true)
	return w
}

// mirrorKnot adds a client copy of a server knot under the same id.
func mirrorKnot(t *testing.T, w *ecs.World, server *Knot) *Knot {
	t.Helper()
	k := NewKnot(w, server.BlockPos())
	k.SetID(server.ID())
	require.True(t, w.AddFreshEntity(k))
	return k
}

func TestClientHandlerMirrorsServer(t *testing.T) {
	server, lb := newTestWorld(t)
	a := fenceKnot(t, server, common.BlockPos{X: 0, Y: 64, Z: 0})
	b := fenceKnot(t, server, common.BlockPos{X: 5, Y: 64, Z: 0})
	p := addPlayer(t, server, "alex", common.Vec3{X: 2, Y: 64})

	client := newClientWorld(t)
	ca := mirrorKnot(t, client, a)
	cb := mirrorKnot(t, client, b)
	h := NewClientHandler(client)
	lb.Connect(int32(p.ID()), h.Handler())

	c := Create(a, b)
	require.NotNil(t, c)

	require.Len(t, ca.Connections(), 1)
	assert.Equal(t, ecs.Entity(cb), ca.Connections()[0].To())
	assert.Len(t, cb.Connections(), 1)
	assert.Empty(t, client.EntitiesOfKind(KindCollision))
	assert.Empty(t, client.EntitiesOfKind(KindHanging))

	c.Destroy(false)
	assert.Empty(t, ca.Connections())
	assert.Empty(t, cb.Connections())
	assert.Zero(t, h.Pending())
}

func TestClientHandlerQueuesUnknownEntities(t *testing.T) {
	server, _ := newTestWorld(t)
	a := fenceKnot(t, server, common.BlockPos{X: 0, Y: 64, Z: 0})
	b := fenceKnot(t, server, common.BlockPos{X: 5, Y: 64, Z: 0})

	client := newClientWorld(t)
	ca := mirrorKnot(t, client, a)
	h := NewClientHandler(client)
	client.AddSystem(h)

	payload := network.EncodeRope(int32(a.ID()), int32(b.ID()))
	require.NoError(t, h.Handle(network.AttachRopeS2C, payload))
	assert.Equal(t, 1, h.Pending())
	assert.Empty(t, ca.Connections())

	client.Update()
	assert.Equal(t, 1, h.Pending())

	mirrorKnot(t, client, b)
	client.Update()
	assert.Zero(t, h.Pending())
	assert.Len(t, ca.Connections(), 1)
}

func TestClientHandlerGivesUp(t *testing.T) {
	client := newClientWorld(t)
	h := NewClientHandler(client)
	h.MaxAttempts = 2

	require.NoError(t, h.Handle(network.DetachRopeS2C, network.EncodeRope(7, 8)))
	h.Flush()
	assert.Equal(t, 1, h.Pending())
	h.Flush()
	assert.Zero(t, h.Pending())
}

func TestClientHandlerRejectsBadPackets(t *testing.T) {
	h := NewClientHandler(newClientWorld(t))

	err := h.Handle("hoprope:unknown", network.EncodeRope(1, 2))
	assert.ErrorIs(t, err, network.ErrUnknownPacket)

	err = h.Handle(network.AttachRopeS2C, []byte{0, 0, 0, 1, 0})
	assert.ErrorIs(t, err, network.ErrShortPayload)
	assert.Zero(t, h.Pending())

	// The transport callback logs instead of failing.
	h.Handler()(network.AttachRopeS2C, nil)
	assert.Zero(t, h.Pending())
}
