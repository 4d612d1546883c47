// Package store persists diagram documents.
//
// The engine itself never touches storage; the API server saves a
// [mindmap.Document] captured from a live engine and restores it on demand.
// Three backends implement [Store]:
//
//   - [MemoryStore]: process-local, for tests and throwaway servers.
//   - [FileStore]: one JSON file per document, for single-host use.
//   - [MongoStore]: a MongoDB collection keyed by document ID.
package store

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/mindtower/pkg/mindmap"
)

// ErrNotFound is returned by Get and Delete for unknown IDs.
var ErrNotFound = errors.New("document not found")

// Summary describes a stored document without its nodes.
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	NodeCount int       `json:"nodeCount"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store persists documents by ID.
type Store interface {
	Get(ctx context.Context, id string) (*mindmap.Document, error)
	Save(ctx context.Context, doc *mindmap.Document) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Summary, error)
	Close() error
}

func summarize(doc *mindmap.Document) Summary {
	return Summary{ID: doc.ID, Title: doc.Title, NodeCount: len(doc.Nodes), UpdatedAt: doc.UpdatedAt}
}

// sortSummaries orders newest first, then by ID.
func sortSummaries(s []Summary) {
	slices.SortFunc(s, func(a, b Summary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// stamp fills UpdatedAt when the caller left it empty.
func stamp(doc *mindmap.Document) {
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}
}
