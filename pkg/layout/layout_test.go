package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/mindtower/pkg/position"
	"github.com/matzehuels/mindtower/pkg/tree"
)

func sample() []tree.Node {
	return []tree.Node{
		{ID: "A"},
		{ID: "B", ParentID: "A"},
		{ID: "C", ParentID: "A"},
		{ID: "D", ParentID: "B"},
	}
}

func compute(nodes []tree.Node, p Preset) map[string]position.Position {
	return Compute(tree.Build(nodes), nodes, p, DefaultNodeSize)
}

func TestComputeCentersParentBetweenEqualChildren(t *testing.T) {
	nodes := []tree.Node{{ID: "A"}, {ID: "B", ParentID: "A"}, {ID: "C", ParentID: "A"}}
	pos := compute(nodes, DefaultPresets()[0])

	mid := (pos["B"].X + pos["C"].X) / 2
	if pos["A"].X != mid {
		t.Errorf("root x = %v, want midpoint %v", pos["A"].X, mid)
	}
	if pos["A"].X != 0 {
		t.Errorf("single tree should be centred on 0, got %v", pos["A"].X)
	}
	if got, want := pos["C"].X-pos["B"].X, DefaultNodeSize+40; got != want {
		t.Errorf("sibling distance = %v, want %v", got, want)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	nodes := sample()
	for _, p := range DefaultPresets() {
		first := compute(nodes, p)
		second := compute(nodes, p)
		if len(first) != len(second) {
			t.Fatalf("%s: sizes differ: %d vs %d", p.Name, len(first), len(second))
		}
		for id, a := range first {
			b := second[id]
			if math.Float64bits(a.X) != math.Float64bits(b.X) || math.Float64bits(a.Y) != math.Float64bits(b.Y) {
				t.Errorf("%s: %s moved from %v to %v", p.Name, id, a, b)
			}
		}
	}
}

func TestComputeAncestorAboveDescendant(t *testing.T) {
	nodes := sample()
	idx := tree.Build(nodes)

	tests := []struct {
		preset Preset
		along  func(position.Position) float64
	}{
		{DefaultPresets()[0], func(p position.Position) float64 { return p.Y }},
		{DefaultPresets()[1], func(p position.Position) float64 { return p.X }},
		{DefaultPresets()[2], func(p position.Position) float64 { return -p.Y }},
		{DefaultPresets()[3], func(p position.Position) float64 { return -p.X }},
	}
	for _, tt := range tests {
		t.Run(tt.preset.Name, func(t *testing.T) {
			pos := Compute(idx, nodes, tt.preset, DefaultNodeSize)
			for _, n := range nodes {
				p, ok := idx.Parent(n.ID)
				if !ok {
					if got := tt.along(pos[n.ID]); got != 0 {
						t.Errorf("root %s along = %v, want 0", n.ID, got)
					}
					continue
				}
				if got, want := tt.along(pos[n.ID])-tt.along(pos[p]), tt.preset.LevelSpacing; got != want {
					t.Errorf("%s below %s by %v, want %v", n.ID, p, got, want)
				}
			}
		})
	}
}

func TestComputeNoOverlapWithinLevel(t *testing.T) {
	nodes := []tree.Node{
		{ID: "r"},
		{ID: "a", ParentID: "r"},
		{ID: "b", ParentID: "r"},
		{ID: "c", ParentID: "r"},
		{ID: "a1", ParentID: "a"},
		{ID: "a2", ParentID: "a"},
		{ID: "a3", ParentID: "a"},
		{ID: "c1", ParentID: "c"},
		{ID: "c2", ParentID: "c"},
		{ID: "r2"},
		{ID: "x", ParentID: "r2"},
	}
	p := DefaultPresets()[0]
	pos := compute(nodes, p)

	byLevel := map[float64][]float64{}
	for _, n := range nodes {
		byLevel[pos[n.ID].Y] = append(byLevel[pos[n.ID].Y], pos[n.ID].X)
	}
	for y, xs := range byLevel {
		for i := range xs {
			for j := i + 1; j < len(xs); j++ {
				if d := math.Abs(xs[i] - xs[j]); d < DefaultNodeSize+p.SiblingSpacing {
					t.Errorf("level y=%v: nodes %v apart, want >= %v", y, d, DefaultNodeSize+p.SiblingSpacing)
				}
			}
		}
	}
}

func TestComputeSiblingOrderFollowsInput(t *testing.T) {
	nodes := []tree.Node{{ID: "root"}, {ID: "z", ParentID: "root"}, {ID: "a", ParentID: "root"}}
	pos := compute(nodes, DefaultPresets()[0])
	if pos["z"].X >= pos["a"].X {
		t.Errorf("z (%v) should be left of a (%v)", pos["z"].X, pos["a"].X)
	}
}

func TestComputeRootsSideBySide(t *testing.T) {
	nodes := []tree.Node{{ID: "r1"}, {ID: "r2"}}
	pos := compute(nodes, DefaultPresets()[0])
	if pos["r1"].X != -110 || pos["r2"].X != 110 {
		t.Errorf("roots at %v and %v, want -110 and 110", pos["r1"].X, pos["r2"].X)
	}
}

func TestComputeHorizontalSwapsAxes(t *testing.T) {
	nodes := sample()
	td := compute(nodes, Preset{Direction: TopDown, SiblingSpacing: 40, LevelSpacing: 100})
	lr := compute(nodes, Preset{Direction: LeftRight, SiblingSpacing: 40, LevelSpacing: 100})
	rl := compute(nodes, Preset{Direction: RightLeft, SiblingSpacing: 40, LevelSpacing: 100})
	for _, n := range nodes {
		if td[n.ID].X != lr[n.ID].Y || td[n.ID].Y != lr[n.ID].X {
			t.Errorf("%s: TB %v is not LR %v transposed", n.ID, td[n.ID], lr[n.ID])
		}
		if rl[n.ID].X != negate(lr[n.ID].X) {
			t.Errorf("%s: RL %v is not LR %v mirrored", n.ID, rl[n.ID], lr[n.ID])
		}
	}
	if math.Signbit(rl["A"].X) {
		t.Error("root x should be +0, not -0")
	}
}

func TestComputeEmpty(t *testing.T) {
	if got := compute(nil, DefaultPresets()[0]); len(got) != 0 {
		t.Errorf("got %d positions, want 0", len(got))
	}
}

func TestComputeNodeSizeFallback(t *testing.T) {
	nodes := []tree.Node{{ID: "a"}, {ID: "b"}}
	p := DefaultPresets()[0]
	got := Compute(tree.Build(nodes), nodes, p, 0)
	want := compute(nodes, p)
	if got["a"] != want["a"] || got["b"] != want["b"] {
		t.Errorf("zero node size: got %v, want %v", got, want)
	}
}

func TestComputeToleratesCycle(t *testing.T) {
	// a and b point at each other, neither is a root.
	nodes := []tree.Node{{ID: "a", ParentID: "b"}, {ID: "b", ParentID: "a"}, {ID: "c"}}
	pos := compute(nodes, DefaultPresets()[0])
	for _, n := range nodes {
		if _, ok := pos[n.ID]; !ok {
			t.Errorf("%s has no position", n.ID)
		}
	}
}
