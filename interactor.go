package stipple

import "gonum.org/v1/gonum/spatial/r3"

// Interactor is an opaque handle for a probing entity (cursor, finger,
// controller). Interactors are compared by identity, never by value: two
// interactors are the same entity only if they are the same pointer.
//
// The handle carries a live world-space position supplied externally each
// tick; everything else about the entity lives outside the library.
type Interactor struct {
	// Name is an optional debug label.
	Name string

	pos r3.Vec
}

// NewInteractor creates an interactor handle with the given debug label.
func NewInteractor(name string) *Interactor {
	return &Interactor{Name: name}
}

// SetPosition updates the interactor's world-space position.
func (it *Interactor) SetPosition(p r3.Vec) {
	it.pos = p
}

// Position returns the interactor's current world-space position.
func (it *Interactor) Position() r3.Vec {
	return it.pos
}
