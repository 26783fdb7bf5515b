package stipple

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window and game loop created by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// ClearColor fills the screen before each frame. Zero value is black.
	ClearColor Color
}

// Run opens a window and drives the viewer with a standard game loop: input
// and simulation on the fixed tick, rendering every frame. Blocks until the
// window closes.
//
// For full control, implement ebiten.Game yourself and call Viewer.Step and
// Viewer.Draw directly.
func Run(v *Viewer, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 960
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)

	return ebiten.RunGame(&viewerGame{
		viewer: v,
		cfg:    cfg,
		input:  newInputBridge(),
	})
}

type viewerGame struct {
	viewer *Viewer
	cfg    RunConfig
	input  *inputBridge
}

func (g *viewerGame) Update() error {
	g.input.update(g.viewer, float64(g.cfg.Width), float64(g.cfg.Height))
	g.viewer.Step(1.0 / float64(ebiten.TPS()))
	return nil
}

func (g *viewerGame) Draw(screen *ebiten.Image) {
	if g.cfg.ClearColor != (Color{}) {
		screen.Fill(g.cfg.ClearColor.toRGBA())
	}
	g.viewer.Draw(screen)
}

func (g *viewerGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}
