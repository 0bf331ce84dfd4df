package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Vec3 is a world-space position or direction.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) LengthSqr() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSqr())
}

func (v Vec3) DistanceSqr(o Vec3) float64 {
	return v.Sub(o).LengthSqr()
}

func (v Vec3) Distance(o Vec3) float64 {
	return math.Sqrt(v.DistanceSqr(o))
}

// LerpVec interpolates component-wise between a and b.
func LerpVec(a, b Vec3, t float64) Vec3 {
	return Vec3{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t), Z: Lerp(a.Z, b.Z, t)}
}

// Middle returns the midpoint of a and b.
func Middle(a, b Vec3) Vec3 {
	return LerpVec(a, b, 0.5)
}

// BlockPos addresses a voxel cell.
type BlockPos struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// BlockPosOf returns the cell containing v.
func BlockPosOf(v Vec3) BlockPos {
	return BlockPos{
		X: int(math.Floor(v.X)),
		Y: int(math.Floor(v.Y)),
		Z: int(math.Floor(v.Z)),
	}
}

func (p BlockPos) Sub(o BlockPos) BlockPos {
	return BlockPos{X: p.X - o.X, Y: p.Y - o.Y, Z: p.Z - o.Z}
}

func (p BlockPos) Add(o BlockPos) BlockPos {
	return BlockPos{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

// Vec3 returns the cell's minimum corner.
func (p BlockPos) Vec3() Vec3 {
	return Vec3{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}
}

// Less orders cells by X, then Z, then Y.
func (p BlockPos) Less(o BlockPos) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	if p.Z != o.Z {
		return p.Z < o.Z
	}
	return p.Y < o.Y
}
