package stipple

import "math/rand/v2"

// BackgroundPreview is an ambient preview not tied to any interactor, placed
// on a sparse sample of cloud points. Slots are keyed by the feature's stable
// identifier, never by its floating-point position.
type BackgroundPreview struct {
	Feature Feature
	Preview *Preview
}

// BackgroundPreviews returns the current background preview slots.
// The returned slice MUST NOT be mutated.
func (c *PreviewController) BackgroundPreviews() []*BackgroundPreview {
	return c.background
}

// PopulateBackground regenerates the background preview set: a randomized
// greedy selection of up to count features mutually separated by at least
// BackgroundSpacing, each given an independent one-shot fetch with no owner.
// Any previous background set is discarded.
func (c *PreviewController) PopulateBackground(features []Feature, count int) {
	c.background = c.background[:0]
	if count <= 0 {
		return
	}

	for _, f := range selectSpaced(features, count, c.BackgroundSpacing) {
		bg := &BackgroundPreview{Feature: f, Preview: newPreview()}
		c.background = append(c.background, bg)
		c.requestFetch(f, nil)
	}
}

// selectSpaced picks up to count features in random order, rejecting any
// candidate within minSpacing of an already chosen feature.
func selectSpaced(features []Feature, count int, minSpacing float64) []Feature {
	order := make([]int, len(features))
	for i := range order {
		order[i] = i
	}
	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	minSq := minSpacing * minSpacing
	chosen := make([]Feature, 0, count)
	for _, i := range order {
		cand := features[i]
		tooClose := false
		for _, f := range chosen {
			if distSq(cand.Position, f.Position) < minSq {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}
		chosen = append(chosen, cand)
		if len(chosen) == count {
			break
		}
	}
	return chosen
}

// updateBackground refreshes background preview placement and hides any slot
// whose point lies within BackgroundExclusion of an active selection, to
// avoid visual overlap with an interactor's own preview.
func (c *PreviewController) updateBackground() {
	exclSq := c.BackgroundExclusion * c.BackgroundExclusion
	for _, bg := range c.background {
		bg.Preview.billboard(c.frame.ToWorld(bg.Feature.Position), c.Camera)

		visible := bg.Preview.Texture != nil
		for _, st := range c.states {
			if st.lastID == "" {
				continue
			}
			if distSq(st.lastPos, bg.Feature.Position) < exclSq {
				visible = false
				break
			}
		}
		bg.Preview.Visible = visible
	}
}
