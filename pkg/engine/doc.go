// Package engine coordinates layout, visibility and position state for one
// mind map diagram.
//
// An [Engine] owns the canonical node list, the collapsed set, the position
// store and the preset cycler. Every command is handled to completion before
// it returns, and commands that change structure run one pipeline pass:
//
//	Idle → Reconciling → Indexing → ResolvingVisibility → LayingOut → Merging → Idle
//
// Reconciling normalizes the node list (and folds canvas-only nodes in for
// SyncCanvas), Indexing rebuilds the [tree.Index], ResolvingVisibility derives
// the hidden set, LayingOut computes fresh positions for every node (hidden
// ones included) and Merging feeds them through the [position.Store] policy:
// a full reset on first load, on ReplaceData and after a preset change, an
// incremental merge otherwise.
//
// SetPosition and ResetView bypass the pipeline. While a loading stage other
// than [StageNone] is active, structural commands still update canonical
// state but the pipeline is deferred until the stage returns to none.
//
// Problems the engine can recover from (cycles, dangling parents, canvas
// nodes without a parent, out-of-range preset indices) never fail a command.
// They are logged, passed to [observability.EngineHooks.OnWarning] and listed
// in [Snapshot.Warnings]. Caller mistakes such as an unknown node ID return an
// error and leave all state untouched.
//
// An Engine is not safe for concurrent use.
package engine
