package network

import "sync"

// Packet is one recorded send.
type Packet struct {
	PlayerID int32
	ID       PacketID
	Payload  []byte
}

// Loopback is an in-process Sender. It records every send and hands the
// payload to the handler connected for that player, if any.
type Loopback struct {
	mu       sync.Mutex
	handlers map[int32]Handler
	sent     []Packet
}

func NewLoopback() *Loopback {
	return &Loopback{handlers: make(map[int32]Handler)}
}

// Connect routes packets for playerID to h.
func (l *Loopback) Connect(playerID int32, h Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if h == nil {
		delete(l.handlers, playerID)
		return
	}
	l.handlers[playerID] = h
}

func (l *Loopback) Disconnect(playerID int32) {
	l.Connect(playerID, nil)
}

func (l *Loopback) Send(playerID int32, id PacketID, payload []byte) {
	p := Packet{PlayerID: playerID, ID: id, Payload: append([]byte(nil), payload...)}

	l.mu.Lock()
	l.sent = append(l.sent, p)
	h := l.handlers[playerID]
	l.mu.Unlock()

	if h != nil {
		h(p.ID, p.Payload)
	}
}

// Sent returns a copy of every packet sent so far.
func (l *Loopback) Sent() []Packet {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Packet(nil), l.sent...)
}

// SentTo returns the packets sent to one player.
func (l *Loopback) SentTo(playerID int32) []Packet {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Packet
	for _, p := range l.sent {
		if p.PlayerID == playerID {
			out = append(out, p)
		}
	}
	return out
}

// Reset drops the recorded history.
func (l *Loopback) Reset() {
	l.mu.Lock()
	l.sent = nil
	l.mu.Unlock()
}

var _ Sender = (*Loopback)(nil)
