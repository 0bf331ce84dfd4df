package main

import (
	"context"

	"github.com/milk9111/hoprope/config"
	"github.com/milk9111/hoprope/persist"
)

// openStore picks redis when an address is configured, else the snapshot
// file. It returns nil when neither is set.
func openStore(cfg config.Store) (persist.Store, error) {
	switch {
	case cfg.RedisAddr != "":
		return persist.NewRedisStore(cfg.RedisAddr, cfg.RedisKey), nil
	case cfg.SnapshotFile != "":
		return persist.NewFileStore(cfg.SnapshotFile)
	}
	return nil, nil
}

func writeSnapshot(ctx context.Context, path string, snap persist.Snapshot) error {
	store, err := persist.NewFileStore(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(ctx, snap)
}
