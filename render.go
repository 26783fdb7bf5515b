package stipple

import (
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Camera is a perspective orbit camera: it looks at Target from a distance
// along the direction given by Yaw and Pitch.
type Camera struct {
	// Target is the world-space point the camera looks at.
	Target r3.Vec
	// Yaw and Pitch are the orbit angles in radians.
	Yaw, Pitch float64
	// Distance is the orbit radius.
	Distance float64
	// FOV is the vertical field of view in radians.
	FOV float64
	// Near is the near clip distance; geometry closer than this is skipped.
	Near float64
}

// NewCamera returns a camera with defaults suited to a unit-cube cloud.
func NewCamera() *Camera {
	return &Camera{
		Distance: 2,
		FOV:      math.Pi / 3,
		Near:     0.05,
	}
}

// Position returns the camera's world-space position.
func (c *Camera) Position() r3.Vec {
	cp := math.Cos(c.Pitch)
	dir := r3.Vec{
		X: cp * math.Sin(c.Yaw),
		Y: math.Sin(c.Pitch),
		Z: cp * math.Cos(c.Yaw),
	}
	return r3.Add(c.Target, r3.Scale(c.Distance, dir))
}

// basis returns the camera's right, up, and forward unit vectors.
func (c *Camera) basis() (right, up, forward r3.Vec) {
	forward = r3.Unit(r3.Sub(c.Target, c.Position()))
	worldUp := r3.Vec{Y: 1}
	right = r3.Cross(forward, worldUp)
	if n := r3.Norm(right); n < 1e-9 {
		// Looking straight up or down; any horizontal right works.
		right = r3.Vec{X: 1}
	} else {
		right = r3.Scale(1/n, right)
	}
	up = r3.Cross(right, forward)
	return right, up, forward
}

// focal returns the focal length in pixels for a viewport of height h.
func (c *Camera) focal(h float64) float64 {
	return (h / 2) / math.Tan(c.FOV/2)
}

// Project maps a world point to screen coordinates plus view depth.
// ok is false when the point is behind the near plane.
func (c *Camera) Project(p r3.Vec, w, h float64) (sx, sy, depth float64, ok bool) {
	right, up, forward := c.basis()
	d := r3.Sub(p, c.Position())
	depth = r3.Dot(d, forward)
	if depth <= c.Near {
		return 0, 0, depth, false
	}
	f := c.focal(h)
	sx = w/2 + r3.Dot(d, right)*f/depth
	sy = h/2 - r3.Dot(d, up)*f/depth
	return sx, sy, depth, true
}

// ScreenToWorld maps screen coordinates back to the world point at the given
// view depth. Inverse of Project for that depth plane.
func (c *Camera) ScreenToWorld(sx, sy, depth, w, h float64) r3.Vec {
	right, up, forward := c.basis()
	f := c.focal(h)
	x := (sx - w/2) * depth / f
	y := (h/2 - sy) * depth / f
	p := c.Position()
	p = r3.Add(p, r3.Scale(x, right))
	p = r3.Add(p, r3.Scale(y, up))
	return r3.Add(p, r3.Scale(depth, forward))
}

// DepthOf returns the view depth of a world point.
func (c *Camera) DepthOf(p r3.Vec) float64 {
	_, _, forward := c.basis()
	return r3.Dot(r3.Sub(p, c.Position()), forward)
}

// pointCmd is one projected point quad awaiting submission.
type pointCmd struct {
	sx, sy float64
	depth  float64
	size   float64
	color  Color
}

// previewCmd is one projected preview quad awaiting submission.
type previewCmd struct {
	sx, sy float64
	depth  float64
	pw, ph float64
	alpha  float64
	tex    *ebiten.Image
}

// Draw renders the cloud and all visible previews to screen, painter-sorted
// back to front. Draw only reads viewer state; it is safe to call at a
// higher rate than Step.
func (v *Viewer) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w == 0 || h == 0 {
		return
	}
	f := v.Camera.focal(h)

	var points []pointCmd
	for _, feat := range v.index.Features() {
		world := v.frame.ToWorld(feat.Position)
		sx, sy, depth, ok := v.Camera.Project(world, w, h)
		if !ok {
			continue
		}
		size := v.PointSize * v.frame.Scale * f / depth
		if size < 1 {
			size = 1
		}
		points = append(points, pointCmd{
			sx: sx, sy: sy, depth: depth, size: size,
			color: v.ColorMode.PointColor(feat.Position),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].depth > points[j].depth
	})

	var op ebiten.DrawImageOptions
	for i := range points {
		p := &points[i]
		op.GeoM.Reset()
		op.GeoM.Scale(p.size, p.size)
		op.GeoM.Translate(p.sx-p.size/2, p.sy-p.size/2)
		op.ColorScale.Reset()
		a := float32(p.color.A)
		op.ColorScale.Scale(float32(p.color.R)*a, float32(p.color.G)*a, float32(p.color.B)*a, a)
		screen.DrawImage(WhitePixel, &op)
	}

	v.drawPreviews(screen, w, h, f)
}

// drawPreviews submits all visible textured preview quads back to front.
func (v *Viewer) drawPreviews(screen *ebiten.Image, w, h, f float64) {
	var cmds []previewCmd
	for _, p := range v.previews.AppendPreviews(nil) {
		if !p.Visible || p.Texture == nil || p.Alpha <= 0 {
			continue
		}
		sx, sy, depth, ok := v.Camera.Project(p.Position, w, h)
		if !ok {
			continue
		}
		cmds = append(cmds, previewCmd{
			sx: sx, sy: sy, depth: depth,
			pw:    p.Scale.X * f / depth,
			ph:    p.Scale.Y * f / depth,
			alpha: p.Alpha,
			tex:   p.Texture,
		})
	}
	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i].depth > cmds[j].depth
	})

	var op ebiten.DrawImageOptions
	for i := range cmds {
		c := &cmds[i]
		tb := c.tex.Bounds()
		tw, th := float64(tb.Dx()), float64(tb.Dy())
		if tw == 0 || th == 0 {
			continue
		}
		op.GeoM.Reset()
		op.GeoM.Scale(c.pw/tw, c.ph/th)
		op.GeoM.Translate(c.sx-c.pw/2, c.sy-c.ph/2)
		op.ColorScale.Reset()
		op.ColorScale.ScaleAlpha(float32(c.alpha))
		screen.DrawImage(c.tex, &op)
	}
}
