package main

import (
	"math"

	"github.com/milk9111/hoprope/common"
	"github.com/milk9111/hoprope/ecs"
	"github.com/milk9111/hoprope/rope"
)

// point is a top-down position: world X across, world Z down.
type point struct {
	X, Y float64
}

type segment struct {
	From, To point
	Sag      float64
}

// scene is the top-down content of a world, in world units.
type scene struct {
	Knots      []point
	Ropes      []segment
	Collisions []point
	Cells      []point
	Min, Max   point
}

func topDown(v common.Vec3) point {
	return point{X: v.X, Y: v.Z}
}

func buildScene(w *ecs.World) scene {
	s := scene{
		Min: point{X: math.Inf(1), Y: math.Inf(1)},
		Max: point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	grow := func(p point) {
		s.Min.X = math.Min(s.Min.X, p.X)
		s.Min.Y = math.Min(s.Min.Y, p.Y)
		s.Max.X = math.Max(s.Max.X, p.X)
		s.Max.Y = math.Max(s.Max.Y, p.Y)
	}

	for _, e := range w.EntitiesOfKind(rope.KindKnot) {
		k := e.(*rope.Knot)
		centre := topDown(k.Position().Add(k.LeashOffset()))
		s.Knots = append(s.Knots, centre)
		grow(centre)
		for _, c := range k.Connections() {
			if c.From() != k {
				continue
			}
			to := topDown(c.To().Position().Add(c.To().LeashOffset()))
			chord := c.ConnectionVec(1)
			s.Ropes = append(s.Ropes, segment{
				From: centre,
				To:   to,
				Sag:  -rope.YHangingOffset(chord.Length()/2, chord),
			})
			grow(to)
		}
	}
	for _, e := range w.EntitiesOfKind(rope.KindCollision) {
		s.Collisions = append(s.Collisions, topDown(e.Position()))
	}
	for _, e := range w.EntitiesOfKind(rope.KindHanging) {
		s.Cells = append(s.Cells, topDown(e.BlockPos().Vec3()))
	}

	if len(s.Knots) == 0 {
		s.Min, s.Max = point{}, point{}
	}
	return s
}

// fit returns the scale and offset that map the scene bounds, padded by
// margin world units, into a width x height screen.
func (s scene) fit(width, height int, margin float64) (scale float64, off point) {
	spanX := s.Max.X - s.Min.X + 2*margin
	spanY := s.Max.Y - s.Min.Y + 2*margin
	scale = math.Min(float64(width)/spanX, float64(height)/spanY)
	off = point{
		X: (float64(width)-(s.Max.X-s.Min.X)*scale)/2 - s.Min.X*scale,
		Y: (float64(height)-(s.Max.Y-s.Min.Y)*scale)/2 - s.Min.Y*scale,
	}
	return scale, off
}
