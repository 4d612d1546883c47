// Package dot renders engine snapshots as Graphviz diagrams.
//
// # Overview
//
// This package is a reference rendering collaborator: it draws exactly what
// a [engine.Snapshot] describes. Hidden nodes are left out, and every visible
// node is pinned at its stored position, so Graphviz performs no layout of
// its own. Collapsed nodes with children carry a "+" marker, expanded ones a
// "−" marker, mirroring the toggle a canvas would show.
//
// # Usage
//
//	src := dot.ToDOT(snap, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src)
//
// # Coordinates
//
// Snapshot positions use a y axis that grows downwards; Graphviz grows
// upwards. [ToDOT] flips y and sets inputscale=72 so one snapshot unit is one
// point.
//
// # Dependencies
//
// [RenderSVG] uses [github.com/goccy/go-graphviz] with the neato engine,
// which honours pinned positions.
package dot
