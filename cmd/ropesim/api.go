package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/milk9111/hoprope/common"
	"github.com/milk9111/hoprope/ecs"
	"github.com/milk9111/hoprope/rope"
)

var errNoStore = errors.New("no snapshot store configured")

type knotView struct {
	ID          ecs.EntityID    `json:"id"`
	Pos         common.BlockPos `json:"pos"`
	Block       string          `json:"block"`
	Connections int             `json:"connections"`
}

type ropeView struct {
	From       ecs.EntityID `json:"from"`
	To         ecs.EntityID `json:"to"`
	ToKind     ecs.Kind     `json:"to_kind"`
	Collisions int          `json:"collisions"`
	Length     float64      `json:"length"`
}

func (s *sim) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		var ticks uint64
		var entities int
		s.with(func(world *ecs.World) {
			ticks = world.Ticks()
			entities = world.EntityCount()
		})
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "ticks": ticks, "entities": entities})
	})

	r.Get("/knots", func(w http.ResponseWriter, _ *http.Request) {
		out := []knotView{}
		s.with(func(world *ecs.World) {
			for _, e := range world.EntitiesOfKind(rope.KindKnot) {
				k := e.(*rope.Knot)
				out = append(out, knotView{
					ID:          k.ID(),
					Pos:         k.BlockPos(),
					Block:       world.BlockState(k.BlockPos()).Block,
					Connections: len(k.Connections()),
				})
			}
		})
		writeJSON(w, http.StatusOK, out)
	})

	r.Get("/ropes", func(w http.ResponseWriter, _ *http.Request) {
		out := []ropeView{}
		s.with(func(world *ecs.World) {
			for _, e := range world.EntitiesOfKind(rope.KindKnot) {
				k := e.(*rope.Knot)
				for _, c := range k.Connections() {
					if c.From() != k {
						continue
					}
					out = append(out, ropeView{
						From:       k.ID(),
						To:         c.To().ID(),
						ToKind:     c.To().Kind(),
						Collisions: len(c.Collisions()),
						Length:     c.ConnectionVec(1).Length(),
					})
				}
			}
		})
		writeJSON(w, http.StatusOK, out)
	})

	r.Get("/events", func(w http.ResponseWriter, _ *http.Request) {
		var out eventStats
		s.with(func(*ecs.World) {
			out = s.events.snapshot()
		})
		writeJSON(w, http.StatusOK, out)
	})

	r.Post("/snapshot", func(w http.ResponseWriter, req *http.Request) {
		snap, err := s.save(req.Context())
		switch {
		case errors.Is(err, errNoStore):
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		case err != nil:
			s.logger.Error("snapshot failed", "err", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		default:
			writeJSON(w, http.StatusOK, map[string]any{"knots": len(snap.Knots), "ropes": len(snap.Ropes), "tick": snap.Tick})
		}
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
