// Command ropeview draws a saved rope snapshot from above.
package main

import (
	"context"
	"flag"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/hoprope/ecs"
	"github.com/milk9111/hoprope/persist"
	"github.com/milk9111/hoprope/rope"
)

func main() {
	snapshotPath := flag.String("snapshot", "snapshot.json", "snapshot file written by ropesim")
	flag.Parse()

	w, err := loadWorld(context.Background(), *snapshotPath)
	if err != nil {
		log.Fatal("load snapshot", "path", *snapshotPath, "err", err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("ropeview")

	if err := ebiten.RunGame(newViewer(buildScene(w), filepath.Base(*snapshotPath))); err != nil {
		log.Fatal("viewer", "err", err)
	}
}

// loadWorld restores a snapshot into a fresh world so the ropes are
// materialized the same way the server does it.
func loadWorld(ctx context.Context, path string) (*ecs.World, error) {
	store, err := persist.NewFileStore(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	snap, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	w := ecs.NewWorld()
	w.SetLogger(log.New(io.Discard))
	if _, err := rope.Restore(w, snap); err != nil {
		return nil, err
	}
	return w, nil
}
