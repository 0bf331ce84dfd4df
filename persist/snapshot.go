// Package persist stores rope graph snapshots on disk or in redis.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/milk9111/hoprope/common"
)

// Version is the current snapshot format.
const Version = 1

// ErrNotFound is returned when no snapshot has been saved yet.
var ErrNotFound = errors.New("persist: snapshot not found")

// KnotRecord is a knot and the fence block it sits on.
type KnotRecord struct {
	Pos   common.BlockPos `json:"pos"`
	Block string          `json:"block"`
}

// RopeRecord is a knot-to-knot rope addressed by knot cells, since entity
// ids are not stable across restarts.
type RopeRecord struct {
	From common.BlockPos `json:"from"`
	To   common.BlockPos `json:"to"`
}

type Snapshot struct {
	Version int          `json:"version"`
	Tick    uint64       `json:"tick"`
	Knots   []KnotRecord `json:"knots"`
	Ropes   []RopeRecord `json:"ropes"`
}

// Store saves and loads the latest snapshot.
type Store interface {
	Save(ctx context.Context, s Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
	Close() error
}

// Marshal encodes s as JSON.
func Marshal(s Snapshot) ([]byte, error) {
	if s.Version == 0 {
		s.Version = Version
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("persist: marshal: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a snapshot and rejects formats newer than Version.
func Unmarshal(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("persist: unmarshal: %w", err)
	}
	if s.Version > Version {
		return Snapshot{}, fmt.Errorf("persist: snapshot version %d is newer than %d", s.Version, Version)
	}
	return s, nil
}
