package stipple

import (
	"fmt"
	"log"

	"gonum.org/v1/gonum/spatial/r3"
)

// Viewer ties the cloud pipeline together: it normalizes a raw point set into
// the containing frame, indexes it for probing, and owns the preview
// controller and pinch gesture that react to interactor events.
//
// Scheduling model: Step runs on the fixed simulation tick (nearest-neighbor
// queries, fetch issue/drain, gesture transform); Draw may run at a higher
// per-frame rate and only reads state. Both are driven from a single
// goroutine; fetch goroutines communicate exclusively through the cache's
// completion queue.
type Viewer struct {
	frame    *Frame
	index    *LinearIndex
	cache    *ThumbnailCache
	previews *PreviewController
	pinch    *PinchGesture

	// Camera is the viewing transform used by Draw and by preview
	// billboarding.
	Camera *Camera

	// ColorMode selects point tinting.
	ColorMode ColorMode
	// PointSize is the world-space size of a rendered point quad at unit
	// frame scale.
	PointSize float64
}

// DefaultPointSize is the world-space point quad size at unit frame scale.
const DefaultPointSize = 0.008

// NewViewer validates and normalizes a raw point set and builds the probing
// pipeline over it. fetcher may be nil to use the default HTTP fetcher.
//
// Errors here are fatal: an empty set, duplicate identifiers, or identifiers
// too short to form thumbnail group keys abort initialization.
func NewViewer(points []RawPoint, fetcher Fetcher) (*Viewer, error) {
	if err := ValidatePoints(points); err != nil {
		return nil, fmt.Errorf("stipple: invalid point set: %w", err)
	}

	frame := NewFrame(r3.Vec{})
	index := NewLinearIndex(Normalize(points))
	cache := NewThumbnailCache(fetcher)

	return &Viewer{
		frame:     frame,
		index:     index,
		cache:     cache,
		previews:  NewPreviewController(frame, index, cache),
		pinch:     NewPinchGesture(frame),
		Camera:    NewCamera(),
		PointSize: DefaultPointSize,
	}, nil
}

// Frame returns the cloud's containing frame.
func (v *Viewer) Frame() *Frame {
	return v.frame
}

// Index returns the nearest-neighbor index over the normalized cloud.
func (v *Viewer) Index() *LinearIndex {
	return v.index
}

// Previews returns the preview controller.
func (v *Viewer) Previews() *PreviewController {
	return v.previews
}

// InteractorEnter begins probing for an interactor (trigger-enter). The
// interactor also joins the pinch gesture; the gesture activates while
// exactly two interactors are present.
func (v *Viewer) InteractorEnter(it *Interactor) {
	v.previews.Enter(it)
	v.pinch.Track(it)
}

// InteractorExit stops probing for an interactor (trigger-exit), destroying
// its preview and dropping it from the pinch gesture.
func (v *Viewer) InteractorExit(it *Interactor) {
	v.previews.Exit(it)
	v.pinch.Untrack(it)
}

// Step advances one fixed simulation tick of dt seconds.
func (v *Viewer) Step(dt float64) {
	v.previews.Camera = v.Camera.Position()
	v.previews.Update(dt)

	if _, err := v.pinch.Update(); err != nil {
		// Degenerate baseline: contained here, nothing applied this tick.
		log.Printf("stipple: pinch ignored: %v", err)
	}
}

// PopulateBackground regenerates the ambient background preview set with up
// to count slots.
func (v *Viewer) PopulateBackground(count int) {
	v.previews.PopulateBackground(v.index.Features(), count)
}

// --- Runtime configuration surface ---

// SetBackend selects the thumbnail server path template.
func (v *Viewer) SetBackend(b Backend) {
	v.previews.Backend = b
}

// SetBaseURL sets the thumbnail server base URL.
func (v *Viewer) SetBaseURL(base string) {
	v.previews.BaseURL = base
}

// SetPreviewScale sets the preview quad size multiplier.
func (v *Viewer) SetPreviewScale(scale float64) {
	v.previews.PreviewScale = scale
}

// SetVisibilityDistance sets the world-space radius within which an
// interactor's preview is shown.
func (v *Viewer) SetVisibilityDistance(dist float64) {
	v.previews.VisibilityDistance = dist
}

// SetBackgroundSpacing sets the minimum distance between background preview
// points. Takes effect on the next PopulateBackground.
func (v *Viewer) SetBackgroundSpacing(spacing float64) {
	v.previews.BackgroundSpacing = spacing
}

// SetBackgroundExclusion sets the radius around an active selection within
// which background previews are hidden.
func (v *Viewer) SetBackgroundExclusion(radius float64) {
	v.previews.BackgroundExclusion = radius
}
