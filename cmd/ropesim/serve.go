package main

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/milk9111/hoprope/config"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Tick a rope world and serve its state over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := opts.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}

			store, err := openStore(cfg.Store)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			s := newSim(cfg, store, logger)
			if err := s.restore(ctx); err != nil {
				return err
			}

			if opts.configPath != "" {
				watcher, err := config.NewWatcher(filepath.Dir(opts.configPath))
				if err != nil {
					return err
				}
				defer watcher.Close()
				go s.watch(ctx, watcher, opts.configPath)
			}

			go s.tick(ctx, cfg.World.TickRate)

			srv := &http.Server{Addr: cfg.Server.Addr, Handler: s.routes(), ReadHeaderTimeout: 5 * time.Second}
			errCh := make(chan error, 1)
			go func() {
				logger.Info("serving", "addr", cfg.Server.Addr, "tick_rate", cfg.World.TickRate)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)

			if store != nil {
				if _, err := s.save(shutdownCtx); err != nil {
					logger.Error("final snapshot failed", "err", err)
				} else {
					logger.Info("final snapshot saved")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

// watch reloads the config file when the watcher reports it changed.
func (s *sim) watch(ctx context.Context, w *config.Watcher, path string) {
	for {
		select {
		case <-ctx.Done():
			return
		case changed, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(changed) != filepath.Base(path) {
				continue
			}
			cfg, err := config.Load(path)
			if err != nil {
				s.logger.Warn("config reload failed", "path", path, "err", err)
				continue
			}
			s.applyConfig(cfg)
			s.logger.Info("config reloaded", "path", path)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Warn("config watcher", "err", err)
		}
	}
}
