package stipple

import (
	"image"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/spatial/r3"
)

// Default tuning values for the preview surface. All distances are world
// units; the cloud's longest side is 1 at unit frame scale.
const (
	DefaultPreviewScale        = 0.15
	DefaultVisibilityDistance  = 0.12
	DefaultBackgroundSpacing   = 0.25
	DefaultBackgroundExclusion = 0.08
	DefaultBaseURL             = "https://iiif.example.org"

	previewFadeDuration = 0.25 // seconds
)

// Preview is a billboard surface displaying a fetched thumbnail near a
// selected point. Created when probing starts (or when a background slot is
// chosen), its texture mutated on fetch success, destroyed when probing ends.
type Preview struct {
	// Position is the world-space placement, tracking the selected point.
	Position r3.Vec
	// Facing is the unit vector from Position toward the viewing camera.
	Facing r3.Vec
	// Scale is the aspect-preserving visual scale, set when a texture lands.
	Scale r3.Vec
	// Alpha fades in from 0 when a new texture is applied.
	Alpha   float64
	Visible bool
	Texture *ebiten.Image

	fade *gween.Tween
}

func newPreview() *Preview {
	return &Preview{Facing: r3.Vec{Z: -1}}
}

// applyTexture swaps in a fetched image, recomputes the aspect-preserving
// scale ((w/maxDim, h/maxDim, 1) * previewScale), and starts the fade-in.
func (p *Preview) applyTexture(img image.Image, previewScale float64) {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	maxDim := math.Max(w, h)
	if maxDim == 0 {
		return
	}
	p.Texture = ebiten.NewImageFromImage(img)
	p.Scale = r3.Vec{X: w / maxDim * previewScale, Y: h / maxDim * previewScale, Z: 1}
	p.Alpha = 0
	p.fade = gween.New(0, 1, previewFadeDuration, ease.OutQuad)
}

// billboard repositions the preview at the given world point and orients it
// toward the camera. Runs every tick regardless of visibility.
func (p *Preview) billboard(position, camera r3.Vec) {
	p.Position = position
	toCam := r3.Sub(camera, position)
	if n := r3.Norm(toCam); n > 0 {
		p.Facing = r3.Scale(1/n, toCam)
	}
}

// step advances the fade-in tween.
func (p *Preview) step(dt float64) {
	if p.fade == nil {
		return
	}
	v, done := p.fade.Update(float32(dt))
	p.Alpha = float64(v)
	if done {
		p.fade = nil
	}
}

// interactorState is the per-interactor probe record: exactly one exists per
// currently probing interactor, held in the controller's owned map.
type interactorState struct {
	interactor *Interactor
	lastID     string
	lastPos    r3.Vec // local-space position of the selected feature
	preview    *Preview
}

// PreviewController orchestrates nearest-neighbor queries, thumbnail fetches,
// and preview placement for every probing interactor, plus the optional
// background preview set.
//
// Invariant: a fetch completion mutates an interactor's preview only if that
// interactor's current selection still matches the identifier the fetch was
// issued for. Completions arriving out of order are harmless; stale ones are
// silently dropped.
type PreviewController struct {
	frame *Frame
	index NeighborIndex
	cache *ThumbnailCache

	// Camera is the viewing position previews billboard toward,
	// supplied externally (typically by the renderer each frame).
	Camera r3.Vec

	// Backend and BaseURL select the thumbnail server.
	Backend Backend
	BaseURL string

	// PreviewScale is the visual size multiplier for preview quads.
	PreviewScale float64
	// VisibilityDistance is the world-space radius around a point within
	// which an interactor's preview is shown. Compared against the local
	// query distance scaled by the frame's current uniform scale, so the
	// radius stays constant in world space under zoom.
	VisibilityDistance float64
	// BackgroundSpacing is the minimum local-space distance between any
	// two background preview points.
	BackgroundSpacing float64
	// BackgroundExclusion hides a background preview while an active
	// selection lies within this local-space radius of it.
	BackgroundExclusion float64

	states     map[*Interactor]*interactorState
	background []*BackgroundPreview
}

// NewPreviewController creates a controller over the given frame, index, and
// cache with default tuning.
func NewPreviewController(frame *Frame, index NeighborIndex, cache *ThumbnailCache) *PreviewController {
	return &PreviewController{
		frame:               frame,
		index:               index,
		cache:               cache,
		BaseURL:             DefaultBaseURL,
		PreviewScale:        DefaultPreviewScale,
		VisibilityDistance:  DefaultVisibilityDistance,
		BackgroundSpacing:   DefaultBackgroundSpacing,
		BackgroundExclusion: DefaultBackgroundExclusion,
		states:              make(map[*Interactor]*interactorState),
	}
}

// Enter begins probing for an interactor: creates its state record and an
// empty preview. No-op if the interactor is already probing.
func (c *PreviewController) Enter(it *Interactor) {
	if _, ok := c.states[it]; ok {
		return
	}
	c.states[it] = &interactorState{
		interactor: it,
		preview:    newPreview(),
	}
}

// Exit stops probing for an interactor, destroying its state and preview.
// An in-flight fetch for it keeps running; its completion finds no state and
// is dropped.
func (c *PreviewController) Exit(it *Interactor) {
	delete(c.states, it)
}

// Probing reports whether the interactor currently has a probe state.
func (c *PreviewController) Probing(it *Interactor) bool {
	_, ok := c.states[it]
	return ok
}

// NumProbing returns the number of currently probing interactors.
func (c *PreviewController) NumProbing() int {
	return len(c.states)
}

// PreviewFor returns the preview handle for an interactor, or nil if it is
// not probing.
func (c *PreviewController) PreviewFor(it *Interactor) *Preview {
	if st, ok := c.states[it]; ok {
		return st.preview
	}
	return nil
}

// SelectedID returns the identifier of the feature an interactor currently
// probes, or "" if none.
func (c *PreviewController) SelectedID(it *Interactor) string {
	if st, ok := c.states[it]; ok {
		return st.lastID
	}
	return ""
}

// AppendPreviews appends every live preview handle, interactor-owned and
// background alike, to buf and returns it. Render order is the caller's
// concern.
func (c *PreviewController) AppendPreviews(buf []*Preview) []*Preview {
	for _, st := range c.states {
		buf = append(buf, st.preview)
	}
	for _, bg := range c.background {
		buf = append(buf, bg.Preview)
	}
	return buf
}

// Update runs one simulation tick: drains fetch completions, re-queries the
// index for every probing interactor, issues fetches for changed selections,
// and refreshes preview placement and background visibility.
func (c *PreviewController) Update(dt float64) {
	c.cache.Drain(c.applyCompletion)

	for _, st := range c.states {
		c.updateState(st)
	}
	c.updateBackground()

	for _, st := range c.states {
		st.preview.step(dt)
	}
	for _, bg := range c.background {
		bg.Preview.step(dt)
	}
}

// updateState advances one interactor's probe state machine for this tick.
func (c *PreviewController) updateState(st *interactorState) {
	local := c.frame.ToLocal(st.interactor.Position())
	feature, dist2, err := c.index.Nearest(local)
	if err != nil {
		// Empty index; nothing to select.
		st.preview.Visible = false
		return
	}

	dist := math.Sqrt(dist2)
	st.preview.Visible = dist < c.VisibilityDistance/c.frame.Scale
	st.preview.billboard(c.frame.ToWorld(feature.Position), c.Camera)
	st.lastPos = feature.Position

	if feature.ID == st.lastID {
		return
	}
	// Selection changed: record it before the fetch resolves so a rapid
	// subsequent change supersedes this one.
	st.lastID = feature.ID
	c.requestFetch(feature, st.interactor)
}

// requestFetch issues an asynchronous thumbnail fetch for a feature on
// behalf of owner (nil for background previews). URL construction failures
// are contained here: logged, fetch abandoned.
func (c *PreviewController) requestFetch(feature Feature, owner *Interactor) {
	url, err := ThumbnailURL(c.Backend, c.BaseURL, feature.ID)
	if err != nil {
		log.Printf("stipple: thumbnail url for %q: %v", feature.ID, err)
		return
	}
	c.cache.Fetch(FetchRequest{
		ID:     feature.ID,
		URL:    url,
		Target: feature.Position,
		Owner:  owner,
	})
}

// applyCompletion routes one fetch completion, enforcing the staleness
// guard: an owned completion applies only while the owner still probes the
// same identifier the fetch was issued for.
func (c *PreviewController) applyCompletion(comp Completion) {
	if comp.Request.Owner == nil {
		for _, bg := range c.background {
			if bg.Feature.ID == comp.Request.ID {
				bg.Preview.applyTexture(comp.Image, c.PreviewScale)
				return
			}
		}
		return // background set regenerated since issuance
	}
	st, ok := c.states[comp.Request.Owner]
	if !ok || st.lastID != comp.Request.ID {
		return // interactor left, or selection superseded the fetch
	}
	st.preview.applyTexture(comp.Image, c.PreviewScale)
}
