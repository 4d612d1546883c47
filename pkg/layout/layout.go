package layout

import (
	"github.com/matzehuels/mindtower/pkg/position"
	"github.com/matzehuels/mindtower/pkg/tree"
)

// Compute lays out every node of nodes that is present in idx.
//
// nodeSize is the extent of a leaf; values <= 0 fall back to
// [DefaultNodeSize]. Nodes that cannot be reached from a root (only possible
// when idx was built from unnormalized input) are laid out as extra roots.
func Compute(idx *tree.Index, nodes []tree.Node, preset Preset, nodeSize float64) map[string]position.Position {
	if nodeSize <= 0 {
		nodeSize = DefaultNodeSize
	}
	l := &tidy{
		idx:      idx,
		spacing:  preset.SiblingSpacing,
		nodeSize: nodeSize,
		extent:   make(map[string]float64, idx.Len()),
		cross:    make(map[string]float64, idx.Len()),
		depth:    make(map[string]int, idx.Len()),
		visiting: tree.NewIDSet(),
	}

	roots := append([]string(nil), idx.Roots()...)
	start := 0.0
	for i, r := range roots {
		if i > 0 {
			start += l.spacing
		}
		l.measure(r)
		l.place(r, start, 0)
		start += l.extent[r]
	}
	for _, n := range nodes {
		if !idx.Has(n.ID) {
			continue
		}
		if _, placed := l.cross[n.ID]; placed {
			continue
		}
		if len(roots) > 0 {
			start += l.spacing
		}
		roots = append(roots, n.ID)
		l.measure(n.ID)
		l.place(n.ID, start, 0)
		start += l.extent[n.ID]
	}

	shift := start / 2
	out := make(map[string]position.Position, len(l.cross))
	for id, c := range l.cross {
		out[id] = orient(preset, c-shift, float64(l.depth[id])*preset.LevelSpacing)
	}
	return out
}

// tidy holds the per-call state of the two layout passes.
type tidy struct {
	idx      *tree.Index
	spacing  float64
	nodeSize float64
	extent   map[string]float64
	cross    map[string]float64
	depth    map[string]int
	visiting tree.IDSet
}

// measure computes subtree extents in post-order.
func (l *tidy) measure(id string) float64 {
	if e, ok := l.extent[id]; ok {
		return e
	}
	if l.visiting.Has(id) {
		return l.nodeSize
	}
	l.visiting.Add(id)

	total := 0.0
	for i, c := range l.idx.Children(id) {
		if i > 0 {
			total += l.spacing
		}
		total += l.measure(c)
	}
	ext := max(total, l.nodeSize)
	l.extent[id] = ext
	return ext
}

// place assigns cross-axis centres in pre-order, starting the subtree of id
// at start.
func (l *tidy) place(id string, start float64, depth int) {
	if _, done := l.cross[id]; done {
		return
	}
	ext := l.extent[id]
	l.cross[id] = start + ext/2
	l.depth[id] = depth

	kids := l.idx.Children(id)
	total := 0.0
	for i, c := range kids {
		if i > 0 {
			total += l.spacing
		}
		total += l.extent[c]
	}
	offset := start + (ext-total)/2
	for _, c := range kids {
		l.place(c, offset, depth+1)
		offset += l.extent[c] + l.spacing
	}
}

// orient maps (cross, along) to x/y for the preset's direction.
func orient(p Preset, cross, along float64) position.Position {
	switch p.Direction {
	case LeftRight:
		return position.Position{X: along, Y: cross}
	case RightLeft:
		return position.Position{X: negate(along), Y: cross}
	case BottomUp:
		return position.Position{X: cross, Y: negate(along)}
	default:
		return position.Position{X: cross, Y: along}
	}
}

// negate flips v without producing negative zero.
func negate(v float64) float64 {
	if v == 0 {
		return 0
	}
	return -v
}
