package tree

import (
	"errors"
	"fmt"
	"slices"

	errs "github.com/matzehuels/mindtower/pkg/errors"
)

var (
	// ErrEmptyNodeID is reported by [Normalize] for nodes without an ID.
	// Such nodes are dropped since nothing can reference them.
	ErrEmptyNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is reported by [Normalize] when two nodes share an ID.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownParent is reported by [Normalize] when a ParentID does not
	// resolve to a node in the list.
	ErrUnknownParent = errors.New("unknown parent")

	// ErrCycle is reported when a parent chain loops back on itself.
	ErrCycle = errors.New("parent chain contains a cycle")
)

// Node is a single mind map entry.
//
// ParentID is empty for roots. Level is derived from the tree structure by
// [Normalize]; values supplied by producers are advisory.
type Node struct {
	ID          string `json:"id" bson:"id"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	ParentID    string `json:"parentId,omitempty" bson:"parent_id,omitempty"`
	Level       int    `json:"level" bson:"level"`
	PageNumber  *int   `json:"pageNumber,omitempty" bson:"page_number,omitempty"`
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool { return n.ParentID == "" }

// Edge is a derived parent→child connection.
// Target's ParentID equals Source.
type Edge struct {
	ID     string `json:"id" bson:"id"`
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// EdgeID returns the canonical edge identifier for a parent/child pair.
func EdgeID(source, target string) string {
	return fmt.Sprintf("e-%s-%s", source, target)
}

// EdgesOf derives the edge list of a node list, one edge per non-root node,
// in node order.
func EdgesOf(nodes []Node) []Edge {
	edges := make([]Edge, 0, len(nodes))
	for _, n := range nodes {
		if n.IsRoot() {
			continue
		}
		edges = append(edges, Edge{ID: EdgeID(n.ParentID, n.ID), Source: n.ParentID, Target: n.ID})
	}
	return edges
}

// Index is the parent/child adjacency of a node list.
//
// The zero value is not usable - use [Build]. An Index is immutable once
// built and is rebuilt whenever the canonical list changes.
type Index struct {
	order    []string            // node IDs in input order
	position map[string]int      // node ID -> index into order
	parent   map[string]string   // child ID -> parent ID
	children map[string][]string // parent ID -> child IDs in input order
	roots    []string
}

// Build indexes nodes. Parent links that point at unknown IDs are treated as
// roots, so Build never fails; run [Normalize] first to get the repairs
// reported.
func Build(nodes []Node) *Index {
	idx := &Index{
		order:    make([]string, 0, len(nodes)),
		position: make(map[string]int, len(nodes)),
		parent:   make(map[string]string, len(nodes)),
		children: make(map[string][]string),
	}
	for _, n := range nodes {
		if _, dup := idx.position[n.ID]; dup {
			continue
		}
		idx.position[n.ID] = len(idx.order)
		idx.order = append(idx.order, n.ID)
	}
	seen := NewIDSet()
	for _, n := range nodes {
		if seen.Has(n.ID) {
			continue
		}
		seen.Add(n.ID)
		if _, ok := idx.position[n.ParentID]; n.ParentID == "" || !ok || n.ParentID == n.ID {
			idx.roots = append(idx.roots, n.ID)
			continue
		}
		idx.parent[n.ID] = n.ParentID
		idx.children[n.ParentID] = append(idx.children[n.ParentID], n.ID)
	}
	return idx
}

// Len returns the number of indexed nodes.
func (x *Index) Len() int { return len(x.order) }

// Has reports whether id is indexed.
func (x *Index) Has(id string) bool {
	_, ok := x.position[id]
	return ok
}

// IDs returns all node IDs in input order.
func (x *Index) IDs() []string { return slices.Clone(x.order) }

// Roots returns the IDs of nodes without a resolvable parent, in input order.
func (x *Index) Roots() []string { return x.roots }

// Children returns the direct children of id in input order. The returned
// slice should not be modified.
func (x *Index) Children(id string) []string { return x.children[id] }

// Parent returns the parent of id and true, or "" and false for roots and
// unknown IDs.
func (x *Index) Parent(id string) (string, bool) {
	p, ok := x.parent[id]
	return p, ok
}

// HasChildren reports whether id has at least one child.
func (x *Index) HasChildren(id string) bool { return len(x.children[id]) > 0 }

// Descendants returns the full descendant closure of id, excluding id itself.
//
// The traversal keeps a visited set so malformed input cannot loop forever.
// When a node is reached twice the walk stops descending there and a
// STRUCTURAL error is returned alongside the IDs collected so far.
func (x *Index) Descendants(id string) (IDSet, error) {
	out := NewIDSet()
	visited := NewIDSet(id)
	var firstErr error

	stack := slices.Clone(x.children[id])
	slices.Reverse(stack)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited.Has(cur) {
			if firstErr == nil {
				firstErr = errs.Wrap(errs.ErrCodeStructural, ErrCycle, "node %q revisited below %q", cur, id)
			}
			continue
		}
		visited.Add(cur)
		out.Add(cur)
		kids := x.children[cur]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return out, firstErr
}

// Ancestors returns the parent chain of id from its parent up to the root.
// Cycles terminate the walk.
func (x *Index) Ancestors(id string) []string {
	var out []string
	seen := NewIDSet(id)
	for {
		p, ok := x.parent[id]
		if !ok || seen.Has(p) {
			return out
		}
		seen.Add(p)
		out = append(out, p)
		id = p
	}
}

// Depth returns the number of ancestors of id.
func (x *Index) Depth(id string) int { return len(x.Ancestors(id)) }
