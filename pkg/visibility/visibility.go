// Package visibility derives which nodes are hidden by collapsed ancestors.
//
// A node listed in the collapsed set stays visible; only its descendants are
// hidden. Membership is independent per node, so expanding an ancestor
// re-surfaces a descendant's own collapsed state unchanged.
package visibility

import (
	"github.com/matzehuels/mindtower/pkg/tree"
)

// Resolve returns the union of the descendant closures of every collapsed
// node. Collapsed IDs that are not in idx are ignored.
//
// Traversal problems (a node reached twice) are returned as STRUCTURAL errors
// alongside the best-effort hidden set; they never abort resolution.
func Resolve(collapsed tree.IDSet, idx *tree.Index) (tree.IDSet, []error) {
	hidden := tree.NewIDSet()
	var errs []error
	for _, id := range collapsed.Sorted() {
		if !idx.Has(id) || hidden.Has(id) && descendantsHidden(id, idx, hidden) {
			continue
		}
		desc, err := idx.Descendants(id)
		if err != nil {
			errs = append(errs, err)
		}
		hidden.Union(desc)
	}
	return hidden, errs
}

// descendantsHidden reports whether every child of id is already hidden, in
// which case the closure below id was collected by a collapsed ancestor.
func descendantsHidden(id string, idx *tree.Index, hidden tree.IDSet) bool {
	for _, c := range idx.Children(id) {
		if !hidden.Has(c) {
			return false
		}
	}
	return true
}

// Resolver answers per-node visibility questions for the rendering side.
type Resolver struct {
	idx       *tree.Index
	collapsed tree.IDSet
	hidden    tree.IDSet
	errs      []error
}

// NewResolver resolves collapsed against idx once and keeps the result.
func NewResolver(collapsed tree.IDSet, idx *tree.Index) *Resolver {
	hidden, errs := Resolve(collapsed, idx)
	return &Resolver{idx: idx, collapsed: collapsed, hidden: hidden, errs: errs}
}

// Hidden reports whether id is below a collapsed node.
func (r *Resolver) Hidden(id string) bool { return r.hidden.Has(id) }

// HiddenSet returns the resolved hidden set. It must not be modified.
func (r *Resolver) HiddenSet() tree.IDSet { return r.hidden }

// HasChildren reports whether id has at least one child.
func (r *Resolver) HasChildren(id string) bool { return r.idx.HasChildren(id) }

// ChildrenCollapsed reports whether id is collapsed.
func (r *Resolver) ChildrenCollapsed(id string) bool { return r.collapsed.Has(id) }

// Errors returns the traversal problems found while resolving.
func (r *Resolver) Errors() []error { return r.errs }
