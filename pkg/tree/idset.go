package tree

import (
	"maps"
	"slices"
)

// IDSet is a set of node IDs.
type IDSet map[string]struct{}

// NewIDSet returns a set containing ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id.
func (s IDSet) Add(id string) { s[id] = struct{}{} }

// Remove deletes id. Removing a missing ID is a no-op.
func (s IDSet) Remove(id string) { delete(s, id) }

// Has reports whether id is in the set. A nil set contains nothing.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of IDs.
func (s IDSet) Len() int { return len(s) }

// Union adds every ID of other to s.
func (s IDSet) Union(other IDSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Clone returns an independent copy. Cloning a nil set yields an empty set.
func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	maps.Copy(out, s)
	return out
}

// Sorted returns the IDs in ascending order.
func (s IDSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}
