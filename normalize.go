package stipple

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Bounds is an axis-aligned 3D bounding box.
type Bounds struct {
	Min, Max r3.Vec
}

// Center returns the midpoint of the bounding box.
func (b Bounds) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Size returns the per-axis extent of the bounding box.
func (b Bounds) Size() r3.Vec {
	return r3.Sub(b.Max, b.Min)
}

// MaxDim returns the length of the longest side.
func (b Bounds) MaxDim() float64 {
	s := b.Size()
	return math.Max(s.X, math.Max(s.Y, s.Z))
}

// ComputeBounds returns the axis-aligned bounding box of a point set.
// Returns the zero Bounds for an empty set.
func ComputeBounds(points []RawPoint) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{
		Min: r3.Vec{X: points[0].X, Y: points[0].Y, Z: points[0].Z},
		Max: r3.Vec{X: points[0].X, Y: points[0].Y, Z: points[0].Z},
	}
	for _, p := range points[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Min.Z = math.Min(b.Min.Z, p.Z)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
		b.Max.Z = math.Max(b.Max.Z, p.Z)
	}
	return b
}

// Normalize rescales raw points into a canonical unit cube: the output cloud
// is centered at the origin and its longest bounding-box side has length 1,
// so coordinates land in roughly [-0.5, 0.5].
//
// A degenerate input (all points coincident, so every axis has zero extent)
// would divide by zero; the scale falls back to 1 and every output position
// collapses to the origin instead of going NaN/Inf.
//
// Pure function: the input slice is not modified, and Normalize may be called
// again whenever the raw set changes.
func Normalize(points []RawPoint) []Feature {
	bounds := ComputeBounds(points)
	center := bounds.Center()
	scale := bounds.MaxDim()
	if scale == 0 {
		scale = 1
	}

	out := make([]Feature, len(points))
	for i, p := range points {
		out[i] = Feature{
			ID:       p.ID,
			Position: r3.Scale(1/scale, r3.Sub(r3.Vec{X: p.X, Y: p.Y, Z: p.Z}, center)),
		}
	}
	return out
}
