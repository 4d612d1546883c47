package tree

import (
	"errors"
	"testing"

	errs "github.com/matzehuels/mindtower/pkg/errors"
)

func TestNormalizeLevels(t *testing.T) {
	in := sample()
	in[3].Level = 7 // advisory values are overwritten

	out, issues := Normalize(in)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}

	want := map[string]int{"A": 0, "B": 1, "C": 1, "D": 2}
	for _, n := range out {
		if n.Level != want[n.ID] {
			t.Errorf("level(%s) = %d, want %d", n.ID, n.Level, want[n.ID])
		}
	}
	if in[3].Level != 7 {
		t.Error("Normalize must not modify its input")
	}
}

func TestNormalizeLevelInvariant(t *testing.T) {
	// Children listed before parents must still get parent level + 1.
	in := []Node{
		{ID: "leaf", ParentID: "mid"},
		{ID: "mid", ParentID: "root"},
		{ID: "root"},
		{ID: "other"},
	}
	out, _ := Normalize(in)

	byID := map[string]Node{}
	for _, n := range out {
		byID[n.ID] = n
	}
	for _, n := range out {
		want := 0
		if n.ParentID != "" {
			want = byID[n.ParentID].Level + 1
		}
		if n.Level != want {
			t.Errorf("level(%s) = %d, want %d", n.ID, n.Level, want)
		}
	}
}

func TestNormalizeRepairs(t *testing.T) {
	tests := []struct {
		name      string
		in        []Node
		wantIDs   []string
		wantRoots []string
		wantErr   error
	}{
		{
			name:      "duplicate id keeps first",
			in:        []Node{{ID: "a"}, {ID: "b", ParentID: "a"}, {ID: "a", Title: "dup"}},
			wantIDs:   []string{"a", "b"},
			wantRoots: []string{"a"},
			wantErr:   ErrDuplicateNodeID,
		},
		{
			name:      "empty id dropped",
			in:        []Node{{ID: "a"}, {ID: "", Title: "nameless"}},
			wantIDs:   []string{"a"},
			wantRoots: []string{"a"},
			wantErr:   ErrEmptyNodeID,
		},
		{
			name:      "orphan becomes root",
			in:        []Node{{ID: "a"}, {ID: "b", ParentID: "ghost"}},
			wantIDs:   []string{"a", "b"},
			wantRoots: []string{"a", "b"},
			wantErr:   ErrUnknownParent,
		},
		{
			name:      "self parent becomes root",
			in:        []Node{{ID: "a", ParentID: "a"}},
			wantIDs:   []string{"a"},
			wantRoots: []string{"a"},
			wantErr:   ErrUnknownParent,
		},
		{
			name:      "two-cycle re-roots first in input order",
			in:        []Node{{ID: "x", ParentID: "y"}, {ID: "y", ParentID: "x"}},
			wantIDs:   []string{"x", "y"},
			wantRoots: []string{"x"},
			wantErr:   ErrCycle,
		},
		{
			name: "cycle hanging off a chain",
			in: []Node{
				{ID: "tail", ParentID: "c"},
				{ID: "a", ParentID: "c"},
				{ID: "b", ParentID: "a"},
				{ID: "c", ParentID: "b"},
			},
			wantIDs:   []string{"tail", "a", "b", "c"},
			wantRoots: []string{"a"},
			wantErr:   ErrCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, issues := Normalize(tt.in)

			var ids, roots []string
			for _, n := range out {
				ids = append(ids, n.ID)
				if n.IsRoot() {
					roots = append(roots, n.ID)
				}
			}
			if !equal(ids, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
			}
			if !equal(roots, tt.wantRoots) {
				t.Errorf("roots = %v, want %v", roots, tt.wantRoots)
			}

			if len(issues) == 0 {
				t.Fatal("expected a repair to be reported")
			}
			found := false
			for _, err := range issues {
				if !errs.Is(err, errs.ErrCodeStructural) {
					t.Errorf("issue %v should carry STRUCTURAL code", err)
				}
				if errors.Is(err, tt.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("issues %v should include %v", issues, tt.wantErr)
			}

			// Result must always be a forest: every node reachable from a root.
			idx := Build(out)
			reached := NewIDSet(idx.Roots()...)
			for _, r := range idx.Roots() {
				d, err := idx.Descendants(r)
				if err != nil {
					t.Fatalf("Descendants(%s) error = %v", r, err)
				}
				reached.Union(d)
			}
			if reached.Len() != len(out) {
				t.Errorf("reachable = %d, want %d", reached.Len(), len(out))
			}
		})
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
