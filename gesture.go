package stipple

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrDegenerateGesture is returned when a pinch update's start baseline has
// zero length, which would divide by zero when computing the scaling factor.
var ErrDegenerateGesture = errors.New("stipple: pinch gesture baseline has zero length")

// PinchGesture converts exactly two tracked interactor positions into a
// uniform scale plus translation of the cloud's frame. The pivot is the
// midpoint of the two start positions; a point at the pivot stays fixed in
// world space across the update.
//
// Updates ratchet: after each applied step the stored start positions are
// reset to the current positions, so the next step scales relative to the
// last applied state rather than the original gesture start.
type PinchGesture struct {
	frame  *Frame
	order  []*Interactor
	starts map[*Interactor]r3.Vec
}

// NewPinchGesture creates a gesture bound to the given frame.
func NewPinchGesture(frame *Frame) *PinchGesture {
	return &PinchGesture{
		frame:  frame,
		starts: make(map[*Interactor]r3.Vec),
	}
}

// Track adds an interactor to the gesture. Start positions for every tracked
// interactor are rebuilt from their current positions, so a newly formed pair
// begins a fresh gesture.
func (g *PinchGesture) Track(it *Interactor) {
	for _, t := range g.order {
		if t == it {
			return
		}
	}
	g.order = append(g.order, it)
	g.rebuildStarts()
}

// Untrack removes an interactor from the gesture and rebuilds the remaining
// start positions.
func (g *PinchGesture) Untrack(it *Interactor) {
	for i, t := range g.order {
		if t == it {
			copy(g.order[i:], g.order[i+1:])
			g.order[len(g.order)-1] = nil
			g.order = g.order[:len(g.order)-1]
			break
		}
	}
	delete(g.starts, it)
	g.rebuildStarts()
}

// Active reports whether exactly two interactors are tracked.
func (g *PinchGesture) Active() bool {
	return len(g.order) == 2
}

// Update applies one incremental pinch step to the frame. It reports whether
// the frame changed (so callers can trigger a re-render; visible point sizes
// and selection radii are scale-dependent).
//
// No-op unless exactly two interactors are tracked. Returns
// ErrDegenerateGesture if the two start positions coincide.
func (g *PinchGesture) Update() (bool, error) {
	if len(g.order) != 2 {
		return false, nil
	}
	a, b := g.order[0], g.order[1]
	startA, startB := g.starts[a], g.starts[b]
	currA, currB := a.Position(), b.Position()

	baseline := r3.Norm(r3.Sub(startA, startB))
	if baseline == 0 {
		return false, ErrDegenerateGesture
	}
	factor := r3.Norm(r3.Sub(currA, currB)) / baseline
	pivot := r3.Scale(0.5, r3.Add(startA, startB))

	g.frame.Scale *= factor
	pivotOffset := r3.Sub(pivot, g.frame.Position)
	g.frame.Position = r3.Add(g.frame.Position, r3.Scale(1-factor, pivotOffset))

	// Ratchet: the next step is relative to this one.
	g.starts[a] = currA
	g.starts[b] = currB

	return factor != 1 || (currA != startA || currB != startB), nil
}

// rebuildStarts resets every tracked interactor's start position to its
// current position.
func (g *PinchGesture) rebuildStarts() {
	clear(g.starts)
	for _, t := range g.order {
		g.starts[t] = t.Position()
	}
}
