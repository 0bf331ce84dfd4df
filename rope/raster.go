package rope

import (
	"math"
	"sort"

	"github.com/milk9111/hoprope/common"
)

// LineIntersection returns the cells crossed by the connection's baseline.
func LineIntersection(c *Connection) []common.BlockPos {
	if c == nil || c.from == nil || c.to == nil {
		return nil
	}
	return Cells(c.from.BlockPos(), c.to.BlockPos())
}

// Cells returns every cell whose XZ footprint the straight XZ segment between
// the centres of from and to touches, excluding the two endpoint columns.
// Where the segment passes exactly through a corner both side cells are
// included. Each cell's Y is the baseline height where the segment enters
// it. The result is ordered by BlockPos.Less.
func Cells(from, to common.BlockPos) []common.BlockPos {
	dx, dz := to.X-from.X, to.Z-from.Z
	if dx == 0 && dz == 0 {
		return nil
	}
	stepX, stepZ := sign(dx), sign(dz)
	adx, adz := abs(dx), abs(dz)
	dy := float64(to.Y - from.Y)

	seen := make(map[common.BlockPos]struct{}, adx+adz)
	add := func(x, z int, t float64) {
		if (x == from.X && z == from.Z) || (x == to.X && z == to.Z) {
			return
		}
		y := from.Y + int(math.Round(dy*t))
		seen[common.BlockPos{X: x, Y: y, Z: z}] = struct{}{}
	}

	x, z := from.X, from.Z
	ix, iz := 0, 0
	for ix < adx || iz < adz {
		// The k-th boundary along an axis is crossed at t = (2k+1) / (2*len).
		// Compare the next crossings in integers to stay exact.
		var cmp int
		switch {
		case ix >= adx:
			cmp = 1
		case iz >= adz:
			cmp = -1
		default:
			lhs := (2*ix + 1) * adz
			rhs := (2*iz + 1) * adx
			switch {
			case lhs < rhs:
				cmp = -1
			case lhs > rhs:
				cmp = 1
			}
		}

		switch cmp {
		case -1:
			t := float64(2*ix+1) / float64(2*adx)
			x += stepX
			ix++
			add(x, z, t)
		case 1:
			t := float64(2*iz+1) / float64(2*adz)
			z += stepZ
			iz++
			add(x, z, t)
		default:
			t := float64(2*ix+1) / float64(2*adx)
			add(x+stepX, z, t)
			add(x, z+stepZ, t)
			x += stepX
			z += stepZ
			ix++
			iz++
			add(x, z, t)
		}
	}

	out := make([]common.BlockPos, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
