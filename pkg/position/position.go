// Package position holds the last-known 2D position of every node.
//
// The [Store] is the durable half of layout: the layout engine produces fresh
// coordinates on every pass, and the store decides which of them to adopt.
// Two merge policies exist:
//
//   - [FullReset]: drop everything and adopt the fresh layout. Used on first
//     load and whenever the active layout preset changed.
//   - [Incremental]: keep every stored position, adopt fresh positions only
//     for IDs the store has never seen, and forget IDs that left the
//     canonical list. Used for collapse toggles, node add/delete and content
//     edits, so those never move a node the user is looking at.
//
// Direct manipulation (dragging) writes through [Store.Set] and wins over any
// earlier value.
package position

import (
	"fmt"
	"maps"
)

// Position is a point in diagram space. Only consistency across renders is
// guaranteed; the origin and unit are up to the layout engine.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// String formats the position with one decimal.
func (p Position) String() string { return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y) }

// Policy selects how [Store.Merge] treats previously stored positions.
type Policy int

const (
	// Incremental keeps stored positions and only adopts new IDs.
	Incremental Policy = iota
	// FullReset discards the store and adopts the fresh layout.
	FullReset
)

// String returns "incremental" or "full-reset".
func (p Policy) String() string {
	if p == FullReset {
		return "full-reset"
	}
	return "incremental"
}

// Store maps node IDs to positions.
//
// The zero value is not usable - use [NewStore]. Store is not safe for
// concurrent use; it is owned by a single engine.
type Store struct {
	positions map[string]Position
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{positions: make(map[string]Position)}
}

// Get returns the stored position of id.
func (s *Store) Get(id string) (Position, bool) {
	p, ok := s.positions[id]
	return p, ok
}

// Set records p for id, replacing any earlier value.
func (s *Store) Set(id string, p Position) { s.positions[id] = p }

// Delete forgets the given IDs. Unknown IDs are ignored.
func (s *Store) Delete(ids ...string) {
	for _, id := range ids {
		delete(s.positions, id)
	}
}

// Seed replaces the store content with previously persisted positions.
func (s *Store) Seed(positions map[string]Position) {
	s.positions = make(map[string]Position, len(positions))
	maps.Copy(s.positions, positions)
}

// Len returns the number of stored positions.
func (s *Store) Len() int { return len(s.positions) }

// All returns a copy of every stored position.
func (s *Store) All() map[string]Position {
	out := make(map[string]Position, len(s.positions))
	maps.Copy(out, s.positions)
	return out
}

// Merge folds a freshly computed layout into the store.
//
// canonical lists the IDs of the current canonical node list; stored IDs not
// in it are dropped under both policies. Under [FullReset] every canonical ID
// takes its fresh position. Under [Incremental] only canonical IDs without a
// stored position take the fresh one. Merge returns the IDs that adopted a
// fresh position.
func (s *Store) Merge(fresh map[string]Position, canonical []string, policy Policy) []string {
	keep := make(map[string]struct{}, len(canonical))
	for _, id := range canonical {
		keep[id] = struct{}{}
	}

	if policy == FullReset {
		s.positions = make(map[string]Position, len(canonical))
	} else {
		for id := range s.positions {
			if _, ok := keep[id]; !ok {
				delete(s.positions, id)
			}
		}
	}

	var adopted []string
	for _, id := range canonical {
		if _, ok := s.positions[id]; ok {
			continue
		}
		p, ok := fresh[id]
		if !ok {
			continue
		}
		s.positions[id] = p
		adopted = append(adopted, id)
	}
	return adopted
}
