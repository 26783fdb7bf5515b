package stipple

import (
	"github.com/hajimehoshi/ebiten/v2"
)

const maxTouches = 10

// inputBridge maps ebiten mouse and touch input onto viewer interactors:
// the mouse cursor probes the cloud while no touches are down, each touch
// becomes its own interactor for its lifetime, and exactly two touches drive
// the pinch gesture through the viewer's interactor events.
//
// Probe positions are unprojected onto the view plane passing through the
// cloud frame's position, so screen motion maps to world motion at the
// cloud's depth.
type inputBridge struct {
	mouse       *Interactor
	mouseProbes bool

	touchUsed   [maxTouches]bool
	touchMap    [maxTouches]ebiten.TouchID
	touchActors [maxTouches]*Interactor
	touchIDs    []ebiten.TouchID

	// Orbit drag state for the left mouse button.
	orbiting       bool
	orbitX, orbitY int
}

func newInputBridge() *inputBridge {
	return &inputBridge{mouse: NewInteractor("mouse")}
}

// update polls input devices and forwards interactor enter/exit/position
// events to the viewer. Called once per tick before Viewer.Step.
func (in *inputBridge) update(v *Viewer, w, h float64) {
	depth := v.Camera.DepthOf(v.frame.Position)
	if depth < v.Camera.Near {
		depth = v.Camera.Near
	}

	touches := in.updateTouches(v, w, h, depth)
	in.updateMouse(v, w, h, depth, touches)
}

// updateTouches maps active touch IDs to interactors using slot allocation:
// a touch keeps its slot (and interactor identity) for its whole lifetime.
// Returns the number of active touches.
func (in *inputBridge) updateTouches(v *Viewer, w, h, depth float64) int {
	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])

	var activeSlots [maxTouches]bool
	for _, tid := range in.touchIDs {
		slot := in.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		it := in.touchActors[slot]
		it.SetPosition(v.Camera.ScreenToWorld(float64(tx), float64(ty), depth, w, h))
		if !v.previews.Probing(it) {
			v.InteractorEnter(it)
		}
	}

	// Release slots whose touch lifted.
	for i := 0; i < maxTouches; i++ {
		if in.touchUsed[i] && !activeSlots[i] {
			v.InteractorExit(in.touchActors[i])
			in.touchUsed[i] = false
			in.touchMap[i] = 0
		}
	}

	return len(in.touchIDs)
}

// touchSlot maps an ebiten.TouchID to a stable slot, allocating one for new
// touches. Returns -1 when all slots are taken.
func (in *inputBridge) touchSlot(tid ebiten.TouchID) int {
	for i := 0; i < maxTouches; i++ {
		if in.touchUsed[i] && in.touchMap[i] == tid {
			return i
		}
	}
	for i := 0; i < maxTouches; i++ {
		if !in.touchUsed[i] {
			in.touchUsed[i] = true
			in.touchMap[i] = tid
			if in.touchActors[i] == nil {
				in.touchActors[i] = NewInteractor("touch")
			}
			return i
		}
	}
	return -1
}

// updateMouse runs the cursor probe and the orbit/zoom camera controls.
// The cursor only probes while no touches are active, so a pinch is always
// between two touch interactors.
func (in *inputBridge) updateMouse(v *Viewer, w, h, depth float64, touches int) {
	mx, my := ebiten.CursorPosition()

	probing := touches == 0
	if probing && !in.mouseProbes {
		v.InteractorEnter(in.mouse)
		in.mouseProbes = true
	} else if !probing && in.mouseProbes {
		v.InteractorExit(in.mouse)
		in.mouseProbes = false
	}
	if in.mouseProbes {
		in.mouse.SetPosition(v.Camera.ScreenToWorld(float64(mx), float64(my), depth, w, h))
	}

	// Left drag orbits, wheel zooms the camera.
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if in.orbiting {
			v.Camera.Yaw -= float64(mx-in.orbitX) * 0.01
			v.Camera.Pitch += float64(my-in.orbitY) * 0.01
			if v.Camera.Pitch > 1.5 {
				v.Camera.Pitch = 1.5
			}
			if v.Camera.Pitch < -1.5 {
				v.Camera.Pitch = -1.5
			}
		}
		in.orbiting = true
		in.orbitX, in.orbitY = mx, my
	} else {
		in.orbiting = false
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		v.Camera.Distance -= wy * 0.1
		if v.Camera.Distance < 0.2 {
			v.Camera.Distance = 0.2
		}
	}
}
