package stipple

import "gonum.org/v1/gonum/spatial/r3"

// Frame is the cloud's containing transform: a world-space position and a
// uniform scale applied to every normalized feature position.
//
// The frame is mutated only by the pinch gesture and read by everything else.
// All reads and writes happen on the simulation tick, so no locking is
// needed; a port to real OS threads must serialize access itself.
type Frame struct {
	Position r3.Vec
	Scale    float64
}

// NewFrame returns a frame at the given position with unit scale.
func NewFrame(position r3.Vec) *Frame {
	return &Frame{Position: position, Scale: 1}
}

// ToWorld converts a local (normalized) position to world space.
func (f *Frame) ToWorld(local r3.Vec) r3.Vec {
	return r3.Add(f.Position, r3.Scale(f.Scale, local))
}

// ToLocal converts a world-space position to the cloud's local frame.
func (f *Frame) ToLocal(world r3.Vec) r3.Vec {
	return r3.Scale(1/f.Scale, r3.Sub(world, f.Position))
}
