package stipple

import (
	"image/color"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default point tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// WhitePixel is a 1x1 white image used to render untextured point quads.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}

// ColorMode selects how cloud points are tinted.
type ColorMode uint8

const (
	// ColorUniform tints every point white.
	ColorUniform ColorMode = iota
	// ColorByPosition maps each normalized coordinate to a color channel
	// (color = position + 0.5 per axis; normalized positions lie in
	// roughly [-0.5, 0.5], so channels land in [0, 1]).
	ColorByPosition
)

// PointColor returns the tint for a feature at the given normalized position.
func (m ColorMode) PointColor(p r3.Vec) Color {
	if m == ColorByPosition {
		return Color{
			R: clamp01(p.X + 0.5),
			G: clamp01(p.Y + 0.5),
			B: clamp01(p.Z + 0.5),
			A: 1,
		}
	}
	return ColorWhite
}

// Range is a general-purpose min/max range.
type Range struct {
	Min, Max float64
}

// Random returns a random float64 in [Min, Max].
func (r Range) Random() float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min)
}

// toRGBA premultiplies and converts to an 8-bit color for image.Fill.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// clamp01 clamps v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
