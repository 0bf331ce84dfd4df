package rope

import (
	"fmt"

	"github.com/milk9111/hoprope/ecs"
	"github.com/milk9111/hoprope/network"
)

// DefaultMaxAttempts bounds how many times a packet naming unknown entities
// is retried before it is dropped.
const DefaultMaxAttempts = 20

type pendingPacket struct {
	id       network.PacketID
	from, to ecs.EntityID
	attempts int
}

// ClientHandler applies attach and detach packets to a client-side level.
// Packets that name entities the client has not seen yet are kept and
// retried on Flush.
type ClientHandler struct {
	level       Level
	pending     []pendingPacket
	MaxAttempts int
}

func NewClientHandler(level Level) *ClientHandler {
	return &ClientHandler{level: level, MaxAttempts: DefaultMaxAttempts}
}

// Handle decodes and applies one packet.
func (h *ClientHandler) Handle(id network.PacketID, payload []byte) error {
	if !network.Known(id) {
		return fmt.Errorf("rope: handle %q: %w", id, network.ErrUnknownPacket)
	}
	from, to, err := network.DecodeRope(payload)
	if err != nil {
		return fmt.Errorf("rope: handle %q: %w", id, err)
	}
	p := pendingPacket{id: id, from: ecs.EntityID(from), to: ecs.EntityID(to)}
	if !h.apply(p) {
		h.pending = append(h.pending, p)
	}
	return nil
}

// Handler adapts Handle to a transport callback, logging bad packets.
func (h *ClientHandler) Handler() network.Handler {
	return func(id network.PacketID, payload []byte) {
		if err := h.Handle(id, payload); err != nil {
			h.level.Logger().Warn("dropping rope packet", "err", err)
		}
	}
}

// Flush retries queued packets in arrival order.
func (h *ClientHandler) Flush() {
	if len(h.pending) == 0 {
		return
	}
	queue := h.pending
	h.pending = nil
	for _, p := range queue {
		if h.apply(p) {
			continue
		}
		p.attempts++
		if h.MaxAttempts > 0 && p.attempts >= h.MaxAttempts {
			h.level.Logger().Warn("giving up on rope packet", "packet", p.id, "from", p.from, "to", p.to)
			continue
		}
		h.pending = append(h.pending, p)
	}
}

func (h *ClientHandler) Pending() int { return len(h.pending) }

// Update lets the handler run as a world system.
func (h *ClientHandler) Update(_ *ecs.World) { h.Flush() }

// apply reports false when an endpoint cannot be resolved yet.
func (h *ClientHandler) apply(p pendingPacket) bool {
	knot, ok := h.level.Entity(p.from).(*Knot)
	to := h.level.Entity(p.to)
	if !ok || to == nil {
		return false
	}

	switch p.id {
	case network.AttachRopeS2C:
		Create(knot, to)
	case network.DetachRopeS2C:
		for _, c := range knot.Connections() {
			if c.to == to {
				c.Destroy(false)
			}
		}
	}
	return true
}
