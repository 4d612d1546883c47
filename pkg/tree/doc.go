// Package tree provides the parent-linked node model and the tree index
// shared by layout and visibility computation.
//
// # Overview
//
// A mind map is a rooted forest: every [Node] names at most one parent through
// ParentID, and a node without a parent is a root. The canonical node list is
// flat; [Build] derives the adjacency structure ([Index]) from it:
//
//	nodes, issues := tree.Normalize(raw)   // repair ids, parents, cycles, levels
//	idx := tree.Build(nodes)
//	idx.Children("root")                   // direct children in input order
//	desc, err := idx.Descendants("root")   // full descendant closure
//
// # Repairs
//
// [Normalize] is the only place that mutates structure. It guarantees the
// forest invariants for everything downstream:
//
//  1. Node IDs are unique (first occurrence wins)
//  2. Every ParentID refers to an existing node, otherwise the node is a root
//  3. Level equals the depth of the node (roots are level 0)
//  4. The parent relation is acyclic (the first node of a cycle is re-rooted)
//
// Every repair is reported as a STRUCTURAL error from pkg/errors. Repairs are
// never fatal: the result is always a renderable forest.
//
// # Ordering
//
// Children are reported in the order they appear in the input list. Layout
// relies on this for stable sibling ordering, so nothing in this package
// re-sorts nodes.
package tree
