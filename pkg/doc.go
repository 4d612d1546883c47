// Package pkg holds the mindtower libraries.
//
// Mindtower lays out hierarchical mind maps and keeps the layout stable
// while users collapse branches, switch presets and edit nodes.
//
// # Layers
//
// Core, no I/O:
//
//   - [tree]: node model, normalisation and parent/child index
//   - [layout]: tidy-tree positioning and the preset cycle
//   - [visibility]: collapsed-ancestor resolution
//   - [position]: position store and merge policies
//   - [reconcile]: folding canvas-only nodes back into the node list
//   - [engine]: the command-driven coordinator and its snapshots
//
// Around the engine:
//
//   - [mindmap]: documents with stored positions, JSON I/O
//   - [render/dot]: Graphviz output of a snapshot
//   - [pipeline]: cached layout and render runs
//   - [cache], [store]: pluggable cache (file, Redis) and document store
//     (memory, file, MongoDB) backends
//   - [server]: HTTP API over live engines
//   - [config], [errors], [observability], [buildinfo]: shared plumbing
//
// # Quick Start
//
//	e, _ := engine.New(engine.Options{})
//	e.ReplaceData(nodes)
//	_ = e.ToggleCollapse("branch")
//	snap := e.Snapshot()
//
// [tree]: github.com/matzehuels/mindtower/pkg/tree
// [layout]: github.com/matzehuels/mindtower/pkg/layout
// [visibility]: github.com/matzehuels/mindtower/pkg/visibility
// [position]: github.com/matzehuels/mindtower/pkg/position
// [reconcile]: github.com/matzehuels/mindtower/pkg/reconcile
// [engine]: github.com/matzehuels/mindtower/pkg/engine
// [mindmap]: github.com/matzehuels/mindtower/pkg/mindmap
// [render/dot]: github.com/matzehuels/mindtower/pkg/render/dot
// [pipeline]: github.com/matzehuels/mindtower/pkg/pipeline
// [cache]: github.com/matzehuels/mindtower/pkg/cache
// [store]: github.com/matzehuels/mindtower/pkg/store
// [server]: github.com/matzehuels/mindtower/pkg/server
// [config]: github.com/matzehuels/mindtower/pkg/config
// [errors]: github.com/matzehuels/mindtower/pkg/errors
// [observability]: github.com/matzehuels/mindtower/pkg/observability
// [buildinfo]: github.com/matzehuels/mindtower/pkg/buildinfo
package pkg
