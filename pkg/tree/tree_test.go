package tree

import (
	"errors"
	"slices"
	"testing"

	errs "github.com/matzehuels/mindtower/pkg/errors"
)

// sample builds A(root), B(parent A), C(parent A), D(parent B).
func sample() []Node {
	return []Node{
		{ID: "A"},
		{ID: "B", ParentID: "A"},
		{ID: "C", ParentID: "A"},
		{ID: "D", ParentID: "B"},
	}
}

func TestBuild(t *testing.T) {
	idx := Build(sample())

	if idx.Len() != 4 {
		t.Errorf("Len() = %d, want 4", idx.Len())
	}
	if got := idx.Roots(); !slices.Equal(got, []string{"A"}) {
		t.Errorf("Roots() = %v, want [A]", got)
	}
	if got := idx.Children("A"); !slices.Equal(got, []string{"B", "C"}) {
		t.Errorf("Children(A) = %v, want [B C]", got)
	}
	if p, ok := idx.Parent("D"); !ok || p != "B" {
		t.Errorf("Parent(D) = %q, %v, want B, true", p, ok)
	}
	if _, ok := idx.Parent("A"); ok {
		t.Error("Parent(A) should report no parent")
	}
	if !idx.HasChildren("B") || idx.HasChildren("C") {
		t.Error("HasChildren mismatch for B/C")
	}
	if idx.Depth("D") != 2 {
		t.Errorf("Depth(D) = %d, want 2", idx.Depth("D"))
	}
}

func TestBuildUnknownParentIsRoot(t *testing.T) {
	idx := Build([]Node{{ID: "a"}, {ID: "b", ParentID: "ghost"}, {ID: "c", ParentID: "c"}})

	if got := idx.Roots(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Roots() = %v, want [a b c]", got)
	}
}

func TestBuildIgnoresDuplicates(t *testing.T) {
	idx := Build([]Node{{ID: "a"}, {ID: "b", ParentID: "a"}, {ID: "b"}})

	if idx.Len() != 2 {
		t.Errorf("Len() = %d, want 2", idx.Len())
	}
	if got := idx.Roots(); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Roots() = %v, want [a]", got)
	}
}

func TestDescendants(t *testing.T) {
	idx := Build(sample())

	tests := []struct {
		id   string
		want []string
	}{
		{"A", []string{"B", "C", "D"}},
		{"B", []string{"D"}},
		{"C", nil},
		{"missing", nil},
	}

	for _, tt := range tests {
		got, err := idx.Descendants(tt.id)
		if err != nil {
			t.Errorf("Descendants(%s) error = %v", tt.id, err)
		}
		if !slices.Equal(got.Sorted(), tt.want) && !(len(tt.want) == 0 && got.Len() == 0) {
			t.Errorf("Descendants(%s) = %v, want %v", tt.id, got.Sorted(), tt.want)
		}
	}
}

func TestDescendantsCycleTerminates(t *testing.T) {
	// Built without Normalize: a -> b -> c -> b forms a loop below a.
	idx := &Index{
		order:    []string{"a", "b", "c"},
		position: map[string]int{"a": 0, "b": 1, "c": 2},
		parent:   map[string]string{"b": "c", "c": "b"},
		children: map[string][]string{"a": {"b"}, "b": {"c"}, "c": {"b"}},
		roots:    []string{"a"},
	}

	got, err := idx.Descendants("a")
	if err == nil {
		t.Fatal("Descendants should report a structural error on revisit")
	}
	if !errs.Is(err, errs.ErrCodeStructural) {
		t.Errorf("error code = %v, want %v", errs.GetCode(err), errs.ErrCodeStructural)
	}
	if !errors.Is(err, ErrCycle) {
		t.Error("error should wrap ErrCycle")
	}
	if !slices.Equal(got.Sorted(), []string{"b", "c"}) {
		t.Errorf("Descendants(a) = %v, want [b c]", got.Sorted())
	}
}

func TestAncestors(t *testing.T) {
	idx := Build(sample())
	if got := idx.Ancestors("D"); !slices.Equal(got, []string{"B", "A"}) {
		t.Errorf("Ancestors(D) = %v, want [B A]", got)
	}
	if got := idx.Ancestors("A"); len(got) != 0 {
		t.Errorf("Ancestors(A) = %v, want empty", got)
	}
}

func TestEdgesOf(t *testing.T) {
	edges := EdgesOf(sample())
	want := []Edge{
		{ID: "e-A-B", Source: "A", Target: "B"},
		{ID: "e-A-C", Source: "A", Target: "C"},
		{ID: "e-B-D", Source: "B", Target: "D"},
	}
	if !slices.Equal(edges, want) {
		t.Errorf("EdgesOf() = %v, want %v", edges, want)
	}
}

func TestIDSet(t *testing.T) {
	s := NewIDSet("b", "a")
	s.Add("c")
	s.Remove("b")
	s.Remove("missing")

	if !s.Has("a") || s.Has("b") {
		t.Error("Has mismatch after Add/Remove")
	}
	if !slices.Equal(s.Sorted(), []string{"a", "c"}) {
		t.Errorf("Sorted() = %v, want [a c]", s.Sorted())
	}

	c := s.Clone()
	c.Add("z")
	if s.Has("z") {
		t.Error("Clone should be independent")
	}

	var nilSet IDSet
	if nilSet.Has("a") || nilSet.Len() != 0 {
		t.Error("nil set should be empty")
	}

	s.Union(NewIDSet("x", "y"))
	if s.Len() != 4 {
		t.Errorf("Len() after Union = %d, want 4", s.Len())
	}
}
