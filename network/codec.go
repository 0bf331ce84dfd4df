package network

import (
	"encoding/binary"
	"fmt"
)

// Buffer is an append-only big-endian packet writer.
type Buffer struct {
	data []byte
}

func NewBuffer() *Buffer {
	return &Buffer{data: make([]byte, 0, 8)}
}

func (b *Buffer) WriteInt32(v int32) *Buffer {
	b.data = binary.BigEndian.AppendUint32(b.data, uint32(v))
	return b
}

func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// Reader walks a payload written by Buffer.
type Reader struct {
	data []byte
	off  int
}

func NewReader(payload []byte) *Reader {
	return &Reader{data: payload}
}

func (r *Reader) ReadInt32() (int32, error) {
	if len(r.data)-r.off < 4 {
		return 0, fmt.Errorf("read int32 at %d of %d: %w", r.off, len(r.data), ErrShortPayload)
	}
	v := int32(binary.BigEndian.Uint32(r.data[r.off:]))
	r.off += 4
	return v, nil
}

// EncodeRope writes the attach/detach payload: from id then to id.
func EncodeRope(fromID, toID int32) []byte {
	return NewBuffer().WriteInt32(fromID).WriteInt32(toID).Bytes()
}

// DecodeRope reads the payload written by EncodeRope.
func DecodeRope(payload []byte) (fromID, toID int32, err error) {
	r := NewReader(payload)
	if fromID, err = r.ReadInt32(); err != nil {
		return 0, 0, fmt.Errorf("network: decode rope from: %w", err)
	}
	if toID, err = r.ReadInt32(); err != nil {
		return 0, 0, fmt.Errorf("network: decode rope to: %w", err)
	}
	return fromID, toID, nil
}
