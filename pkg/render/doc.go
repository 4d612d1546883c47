// Package render groups the snapshot renderers.
//
// Renderers draw an [engine.Snapshot] as-is: they never compute positions
// and never show hidden nodes. The only renderer so far is [dot], which
// emits Graphviz source and SVG.
//
// [engine.Snapshot]: github.com/matzehuels/mindtower/pkg/engine#Snapshot
// [dot]: github.com/matzehuels/mindtower/pkg/render/dot
package render
