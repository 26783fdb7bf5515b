package stipple

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// testCloud is the canonical four-point probe scenario: a corner point and
// three points at distance 10 along each axis. Normalization maps it onto a
// unit cube centered at the origin.
func testCloud() []RawPoint {
	return []RawPoint{
		{ID: "aa01", X: 0, Y: 0, Z: 0},
		{ID: "bb02", X: 10, Y: 0, Z: 0},
		{ID: "cc03", X: 0, Y: 10, Z: 0},
		{ID: "dd04", X: 0, Y: 0, Z: 10},
	}
}

func newTestViewer(t *testing.T) (*Viewer, *gatedFetcher) {
	t.Helper()
	fetcher := newGatedFetcher()
	v, err := NewViewer(testCloud(), fetcher)
	if err != nil {
		t.Fatal(err)
	}
	return v, fetcher
}

func TestNewViewerRejectsInvalidPoints(t *testing.T) {
	cases := []struct {
		name   string
		points []RawPoint
		want   string
	}{
		{"empty", nil, "no points"},
		{"duplicate", []RawPoint{{ID: "aa01"}, {ID: "aa01", X: 1}}, "duplicate"},
		{"short id", []RawPoint{{ID: "a"}}, "malformed identifier"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewViewer(tc.points, newGatedFetcher())
			if err == nil {
				t.Fatal("NewViewer accepted invalid points")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestViewerNormalizesCloud(t *testing.T) {
	v, _ := newTestViewer(t)

	if v.Index().Len() != 4 {
		t.Fatalf("Len = %d, want 4", v.Index().Len())
	}
	want := map[string]r3.Vec{
		"aa01": {X: -0.5, Y: -0.5, Z: -0.5},
		"bb02": {X: 0.5, Y: -0.5, Z: -0.5},
		"cc03": {X: -0.5, Y: 0.5, Z: -0.5},
		"dd04": {X: -0.5, Y: -0.5, Z: 0.5},
	}
	for _, f := range v.Index().Features() {
		assertVec(t, f.ID, f.Position, want[f.ID])
	}
}

func TestViewerProbeScenario(t *testing.T) {
	v, fetcher := newTestViewer(t)
	it := NewInteractor("right hand")
	v.InteractorEnter(it)

	// Probe directly on the normalized corner point.
	it.SetPosition(v.Frame().ToWorld(r3.Vec{X: 0.5, Y: -0.5, Z: -0.5}))
	v.Step(tick)
	if got := v.Previews().SelectedID(it); got != "bb02" {
		t.Fatalf("SelectedID = %q, want %q", got, "bb02")
	}

	fetcher.release(thumbURL(t, "bb02"), encodePNG(t, 24, 24), nil)
	settle(t, v.cache, func() { v.Step(tick) })
	pv := v.Previews().PreviewFor(it)
	if pv.Texture == nil {
		t.Fatal("thumbnail not applied to preview")
	}

	// Equidistant between the first two points the earlier one wins.
	it.SetPosition(v.Frame().ToWorld(r3.Vec{X: 0, Y: -0.5, Z: -0.5}))
	v.Step(tick)
	if got := v.Previews().SelectedID(it); got != "aa01" {
		t.Errorf("SelectedID at midpoint = %q, want %q", got, "aa01")
	}
	fetcher.release(thumbURL(t, "aa01"), encodePNG(t, 24, 24), nil)
	settle(t, v.cache, func() { v.Step(tick) })

	v.InteractorExit(it)
	if v.Previews().Probing(it) {
		t.Error("interactor still probing after exit")
	}
}

func TestViewerPinchScalesFrame(t *testing.T) {
	v, _ := newTestViewer(t)
	a := NewInteractor("left")
	b := NewInteractor("right")
	a.SetPosition(r3.Vec{})
	b.SetPosition(r3.Vec{X: 2})
	v.InteractorEnter(a)
	v.InteractorEnter(b)

	b.SetPosition(r3.Vec{X: 4})
	v.Step(tick)

	assertNear(t, "Scale", v.Frame().Scale, 2)
	// The gesture midpoint stays fixed in world space.
	assertVec(t, "Position", v.Frame().Position, r3.Vec{X: -1})

	// A third interactor suspends the gesture.
	c := NewInteractor("head")
	v.InteractorEnter(c)
	b.SetPosition(r3.Vec{X: 8})
	v.Step(tick)
	assertNear(t, "Scale with three interactors", v.Frame().Scale, 2)
}

func TestViewerConfigurationSurface(t *testing.T) {
	v, _ := newTestViewer(t)

	v.SetBackend(BackendIIIF)
	v.SetBaseURL("https://tiles.example.org")
	v.SetPreviewScale(0.3)
	v.SetVisibilityDistance(0.5)
	v.SetBackgroundSpacing(0.4)
	v.SetBackgroundExclusion(0.2)

	p := v.Previews()
	if p.Backend != BackendIIIF || p.BaseURL != "https://tiles.example.org" {
		t.Error("backend configuration not applied")
	}
	if p.PreviewScale != 0.3 || p.VisibilityDistance != 0.5 {
		t.Error("preview tuning not applied")
	}
	if p.BackgroundSpacing != 0.4 || p.BackgroundExclusion != 0.2 {
		t.Error("background tuning not applied")
	}

	v.PopulateBackground(2)
	if len(p.BackgroundPreviews()) == 0 {
		t.Error("PopulateBackground produced no slots")
	}
}
