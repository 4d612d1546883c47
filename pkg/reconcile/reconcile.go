// Package reconcile folds nodes that exist only on the rendering canvas back
// into the canonical node list.
//
// A canvas node is one the rendering side drew by direct manipulation before
// it round-tripped into the canonical list. Its parent is inferred from the
// canvas edge that targets it, and chains of such nodes resolve in
// dependency order, so a grandchild added together with its parent lands one
// level below it.
package reconcile

import (
	"errors"

	errs "github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/tree"
)

// ErrNoParent is wrapped in the RECONCILIATION_FAILURE reported for a canvas
// node whose parent cannot be found.
var ErrNoParent = errors.New("no parent edge")

// CanvasNode is what the rendering side currently displays for a node.
type CanvasNode struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Canvas is the live diagram as the rendering side sees it.
type Canvas struct {
	Nodes []CanvasNode `json:"nodes"`
	Edges []tree.Edge  `json:"edges"`
}

// Result is the outcome of [Reconcile].
type Result struct {
	// Nodes is the updated canonical list: the input list followed by the
	// adopted canvas nodes in the order their parents resolved.
	Nodes []tree.Node
	// Added lists the IDs of the adopted canvas nodes, in the same order.
	Added []string
}

// Reconcile adopts every canvas node missing from canonical.
//
// A node's parent is the source of the first edge targeting it. Nodes without
// a parent edge, or whose parent is neither canonical nor on the canvas,
// become roots and are reported as RECONCILIATION_FAILURE. Canvas-only nodes
// that form a parent cycle among themselves are broken by re-rooting the
// first one in canvas order, reported as STRUCTURAL. Nothing is dropped.
func Reconcile(canonical []tree.Node, canvas Canvas) (Result, []error) {
	var problems []error

	out := make([]tree.Node, len(canonical), len(canonical)+len(canvas.Nodes))
	copy(out, canonical)
	level := make(map[string]int, len(out)+len(canvas.Nodes))
	for _, n := range canonical {
		level[n.ID] = n.Level
	}

	parentOf := make(map[string]string, len(canvas.Edges))
	for _, e := range canvas.Edges {
		if _, ok := parentOf[e.Target]; !ok && e.Source != e.Target {
			parentOf[e.Target] = e.Source
		}
	}

	var pending []CanvasNode
	onCanvas := tree.NewIDSet()
	for _, cn := range canvas.Nodes {
		if cn.ID == "" {
			problems = append(problems, errs.Wrap(errs.ErrCodeStructural, tree.ErrEmptyNodeID, "ignored canvas node titled %q", cn.Title))
			continue
		}
		if _, known := level[cn.ID]; known || onCanvas.Has(cn.ID) {
			continue
		}
		onCanvas.Add(cn.ID)
		pending = append(pending, cn)
	}

	var added []string
	adopt := func(cn CanvasNode, parent string) {
		n := tree.Node{ID: cn.ID, Title: cn.Title, Description: cn.Description, ParentID: parent}
		if parent != "" {
			n.Level = level[parent] + 1
		}
		level[n.ID] = n.Level
		out = append(out, n)
		added = append(added, n.ID)
	}

	for len(pending) > 0 {
		var next []CanvasNode
		for _, cn := range pending {
			parent, hasEdge := parentOf[cn.ID]
			_, resolved := level[parent]
			switch {
			case hasEdge && resolved:
				adopt(cn, parent)
			case hasEdge && onCanvas.Has(parent):
				next = append(next, cn)
			default:
				if hasEdge {
					problems = append(problems, errs.Wrap(errs.ErrCodeReconciliation, ErrNoParent,
						"canvas node %q: parent %q is unknown, added as root", cn.ID, parent))
				} else {
					problems = append(problems, errs.Wrap(errs.ErrCodeReconciliation, ErrNoParent,
						"canvas node %q added as root", cn.ID))
				}
				adopt(cn, "")
			}
		}
		if len(next) == len(pending) {
			cn := next[0]
			problems = append(problems, errs.Wrap(errs.ErrCodeStructural, tree.ErrCycle,
				"canvas node %q re-rooted", cn.ID))
			adopt(cn, "")
			next = next[1:]
		}
		pending = next
	}

	return Result{Nodes: out, Added: added}, problems
}
