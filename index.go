package stipple

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrEmptyIndex is returned when querying an index that holds no features.
var ErrEmptyIndex = errors.New("stipple: nearest-neighbor query on empty index")

// NeighborIndex answers closest-point queries against a fixed feature set.
// Queries take a position in the cloud's local (normalized) frame and return
// the winning feature together with its squared distance to the query.
//
// The interface exists so a spatial acceleration structure can be swapped in
// without touching callers; at the expected scale (hundreds to low thousands
// of points) the linear scan is sufficient.
type NeighborIndex interface {
	Nearest(query r3.Vec) (Feature, float64, error)
	Len() int
}

// LinearIndex is a brute-force NeighborIndex over an ordered feature slice.
// It owns the slice for its lifetime; callers must not mutate it.
type LinearIndex struct {
	features []Feature
}

// NewLinearIndex builds an index over the given features.
func NewLinearIndex(features []Feature) *LinearIndex {
	return &LinearIndex{features: features}
}

// Len returns the number of indexed features.
func (ix *LinearIndex) Len() int {
	return len(ix.features)
}

// Features returns the indexed feature slice. MUST NOT be mutated.
func (ix *LinearIndex) Features() []Feature {
	return ix.features
}

// Nearest returns the feature minimizing squared Euclidean distance to query.
// Ties break toward the feature appearing earlier in the set's canonical
// order: the running best is only replaced by a strictly smaller distance.
func (ix *LinearIndex) Nearest(query r3.Vec) (Feature, float64, error) {
	if len(ix.features) == 0 {
		return Feature{}, 0, ErrEmptyIndex
	}
	best := ix.features[0]
	bestDist2 := distSq(best.Position, query)
	for _, f := range ix.features[1:] {
		if d2 := distSq(f.Position, query); d2 < bestDist2 {
			best = f
			bestDist2 = d2
		}
	}
	return best, bestDist2, nil
}

// distSq returns the squared Euclidean distance between a and b.
func distSq(a, b r3.Vec) float64 {
	return r3.Norm2(r3.Sub(a, b))
}
