package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/hoprope/config"
	"github.com/milk9111/hoprope/ecs"
	"github.com/milk9111/hoprope/persist"
	"github.com/milk9111/hoprope/rope"
)

// sim owns a server world and serializes access to it between the tick loop
// and HTTP handlers.
type sim struct {
	mu     sync.Mutex
	world  *ecs.World
	store  persist.Store
	logger *log.Logger
	events *eventLog
}

func newSim(cfg config.Config, store persist.Store, logger *log.Logger) *sim {
	w := ecs.NewWorld()
	w.Configure(cfg)
	w.SetLogger(logger)
	w.AddSystem(rope.NewSystem())
	w.AddSystem(ecs.NewPickupSystem())
	events := newEventLog(logger)
	w.AddSystem(events)
	return &sim{world: w, store: store, logger: logger, events: events}
}

// with runs fn while holding the world lock.
func (s *sim) with(fn func(w *ecs.World)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.world)
}

// restore loads the stored snapshot, if any, into the world.
func (s *sim) restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	snap, err := s.store.Load(ctx)
	if errors.Is(err, persist.ErrNotFound) {
		s.logger.Info("no snapshot to restore")
		return nil
	}
	if err != nil {
		return err
	}
	var n int
	s.with(func(w *ecs.World) {
		n, err = rope.Restore(w, snap)
	})
	if err != nil {
		return err
	}
	s.logger.Info("snapshot restored", "knots", len(snap.Knots), "ropes", n)
	return nil
}

// save captures the world and writes it to the store.
func (s *sim) save(ctx context.Context) (persist.Snapshot, error) {
	var snap persist.Snapshot
	s.with(func(w *ecs.World) {
		snap = rope.Capture(w)
		snap.Tick = w.Ticks()
	})
	if s.store == nil {
		return snap, errNoStore
	}
	return snap, s.store.Save(ctx, snap)
}

// applyConfig swaps in reloaded rope tuning and log level.
func (s *sim) applyConfig(cfg config.Config) {
	s.with(func(w *ecs.World) {
		w.SetRopeConfig(cfg.Rope)
	})
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		s.logger.SetLevel(level)
	}
}

// tick advances the world at rate ticks per second until ctx is done.
func (s *sim) tick(ctx context.Context, rate int) {
	if rate <= 0 {
		rate = 20
	}
	t := time.NewTicker(time.Second / time.Duration(rate))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.with(func(w *ecs.World) {
				w.Update()
			})
		}
	}
}
