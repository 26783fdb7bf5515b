package stipple

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// gridFeatures returns an n×n planar grid with the given pitch, centered at
// the origin.
func gridFeatures(n int, pitch float64) []Feature {
	features := make([]Feature, 0, n*n)
	half := pitch * float64(n-1) / 2
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			features = append(features, Feature{
				ID: fmt.Sprintf("g%03d", i*n+j),
				Position: r3.Vec{
					X: pitch*float64(i) - half,
					Y: pitch*float64(j) - half,
				},
			})
		}
	}
	return features
}

func TestBackgroundSpacing(t *testing.T) {
	features := gridFeatures(5, 0.1)
	ctrl, _, cache := newTestController(features)
	ctrl.BackgroundSpacing = 0.25

	ctrl.PopulateBackground(features, 8)

	bgs := ctrl.BackgroundPreviews()
	if len(bgs) == 0 {
		t.Fatal("no background previews chosen")
	}
	if len(bgs) > 8 {
		t.Fatalf("chose %d previews, want at most 8", len(bgs))
	}
	for i := 0; i < len(bgs); i++ {
		for j := i + 1; j < len(bgs); j++ {
			d := math.Sqrt(distSq(bgs[i].Feature.Position, bgs[j].Feature.Position))
			if d < ctrl.BackgroundSpacing-epsilon {
				t.Errorf("previews %q and %q only %g apart, want >= %g",
					bgs[i].Feature.ID, bgs[j].Feature.ID, d, ctrl.BackgroundSpacing)
			}
		}
	}

	// One fetch per slot, none owned by an interactor.
	if cache.InFlight() != len(bgs) {
		t.Errorf("InFlight = %d, want %d", cache.InFlight(), len(bgs))
	}
	ctrl.Update(tick)
	ctrl.Update(tick)
	if cache.InFlight() != len(bgs) {
		t.Errorf("background slots refetched: InFlight = %d, want %d", cache.InFlight(), len(bgs))
	}
}

func TestBackgroundRegenerateDropsStaleCompletion(t *testing.T) {
	features := testFeatures()
	ctrl, fetcher, cache := newTestController(features)
	ctrl.BackgroundSpacing = 0.01
	ctrl.PopulateBackground(features, len(features))

	// Wipe the set before any completion lands.
	ctrl.PopulateBackground(nil, 0)
	if len(ctrl.BackgroundPreviews()) != 0 {
		t.Fatal("background set not cleared")
	}

	for _, f := range features {
		fetcher.release(thumbURL(t, f.ID), encodePNG(t, 8, 8), nil)
	}
	settle(t, cache, func() { ctrl.Update(tick) })
}

func TestBackgroundVisibilityAndExclusion(t *testing.T) {
	features := testFeatures()
	ctrl, fetcher, cache := newTestController(features)
	ctrl.BackgroundSpacing = 0.01
	ctrl.BackgroundExclusion = 0.05
	ctrl.PopulateBackground(features, len(features))

	bgs := ctrl.BackgroundPreviews()
	if len(bgs) != len(features) {
		t.Fatalf("chose %d previews, want %d", len(bgs), len(features))
	}

	// Untextured slots stay hidden.
	ctrl.Update(tick)
	for _, bg := range bgs {
		if bg.Preview.Visible {
			t.Errorf("slot %q visible before its texture arrived", bg.Feature.ID)
		}
	}

	for _, f := range features {
		fetcher.release(thumbURL(t, f.ID), encodePNG(t, 8, 8), nil)
	}
	settle(t, cache, func() { ctrl.Update(tick) })
	for _, bg := range bgs {
		if !bg.Preview.Visible {
			t.Errorf("textured slot %q not visible", bg.Feature.ID)
		}
	}

	// An active selection hides background slots within the exclusion radius.
	it := NewInteractor("probe")
	ctrl.Enter(it)
	it.SetPosition(r3.Vec{X: -0.4})
	ctrl.Update(tick)
	if got := ctrl.SelectedID(it); got != "aa" {
		t.Fatalf("SelectedID = %q, want %q", got, "aa")
	}
	for _, bg := range bgs {
		want := bg.Feature.ID != "aa"
		if bg.Preview.Visible != want {
			t.Errorf("slot %q Visible = %v during selection, want %v",
				bg.Feature.ID, bg.Preview.Visible, want)
		}
	}

	// Releasing the probe restores the excluded slot.
	fetcher.release(thumbURL(t, "aa"), nil, errors.New("interactor gone"))
	ctrl.Exit(it)
	settle(t, cache, func() { ctrl.Update(tick) })
	for _, bg := range bgs {
		if !bg.Preview.Visible {
			t.Errorf("slot %q not restored after probe exit", bg.Feature.ID)
		}
	}
}
