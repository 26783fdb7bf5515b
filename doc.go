// Package stipple is an interactive 3D point-cloud probe viewer for
// [Ebitengine].
//
// A cloud of identified points is normalized into a unit cube and probed by
// interactors (cursor, fingers, controllers): each simulation tick the point
// nearest every interactor is selected, and a thumbnail for that point's
// identifier is fetched asynchronously and billboarded next to it. Two
// simultaneous interactors pinch-scale the whole cloud around the gesture
// midpoint.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window, maps
// mouse and touch input to interactors, and drives the loop for you:
//
//	points, err := stipple.LoadFeatureFile(data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	viewer, err := stipple.NewViewer(points, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	viewer.SetBaseURL("https://thumbs.example.org")
//	stipple.Run(viewer, stipple.RunConfig{Title: "Cloud", Width: 960, Height: 720})
//
// For full control, implement [ebiten.Game] yourself, feed interactor events
// through [Viewer.InteractorEnter], [Viewer.InteractorExit] and
// [Interactor.SetPosition], and call [Viewer.Step] and [Viewer.Draw]
// directly.
//
// # Probing and previews
//
// Selection is a linear nearest-neighbor scan with deterministic
// tie-breaking (earlier points win); swap in another [NeighborIndex] if your
// clouds outgrow it. Thumbnail fetches race freely and may complete out of
// order; a completion is applied only if its interactor still probes the
// same identifier it was issued for, so a preview never shows a point that
// is no longer selected.
//
// # Concurrency
//
// Everything runs on the game loop goroutine except the fetch goroutines,
// which hand their results back through a queue drained once per tick. No
// fetch is ever cancelled; superseded results are discarded on arrival.
//
// [Ebitengine]: https://ebitengine.org
package stipple
