// Package network carries rope graph updates from the server world to the
// players observing it.
package network

import "errors"

// PacketID names a server-to-client message.
type PacketID string

const (
	// AttachRopeS2C tells the receiver to create a rope between two entities.
	AttachRopeS2C PacketID = "hoprope:attach_rope"
	// DetachRopeS2C tells the receiver to remove the rope between two entities.
	DetachRopeS2C PacketID = "hoprope:detach_rope"
)

var (
	ErrShortPayload  = errors.New("network: payload too short")
	ErrUnknownPacket = errors.New("network: unknown packet")
)

// Known reports whether id is one of the rope packets.
func Known(id PacketID) bool {
	return id == AttachRopeS2C || id == DetachRopeS2C
}

// Sender delivers an opaque payload to one player, addressed by entity id.
type Sender interface {
	Send(playerID int32, id PacketID, payload []byte)
}

// Handler consumes packets on the receiving side.
type Handler func(id PacketID, payload []byte)
