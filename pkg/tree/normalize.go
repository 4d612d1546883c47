package tree

import (
	errs "github.com/matzehuels/mindtower/pkg/errors"
)

// Normalize repairs a node list so it forms a valid forest.
//
// The returned slice keeps input order and is independent of nodes. Each
// repair is reported as a STRUCTURAL error; the slice is usable regardless.
// Levels are recomputed from depth for every node.
func Normalize(nodes []Node) ([]Node, []error) {
	var issues []error

	out := make([]Node, 0, len(nodes))
	pos := make(map[string]int, len(nodes))
	for _, n := range nodes {
		if n.ID == "" {
			issues = append(issues, errs.Wrap(errs.ErrCodeStructural, ErrEmptyNodeID, "dropped node titled %q", n.Title))
			continue
		}
		if _, dup := pos[n.ID]; dup {
			issues = append(issues, errs.Wrap(errs.ErrCodeStructural, ErrDuplicateNodeID, "dropped second node %q", n.ID))
			continue
		}
		pos[n.ID] = len(out)
		out = append(out, n)
	}

	for i := range out {
		p := out[i].ParentID
		if p == "" {
			continue
		}
		if _, ok := pos[p]; !ok || p == out[i].ID {
			issues = append(issues, errs.Wrap(errs.ErrCodeStructural, ErrUnknownParent,
				"node %q re-rooted: parent %q not found", out[i].ID, p))
			out[i].ParentID = ""
		}
	}

	issues = append(issues, breakCycles(out, pos)...)

	depth := make(map[string]int, len(out))
	var levelOf func(i int) int
	levelOf = func(i int) int {
		if d, ok := depth[out[i].ID]; ok {
			return d
		}
		d := 0
		if p := out[i].ParentID; p != "" {
			d = levelOf(pos[p]) + 1
		}
		depth[out[i].ID] = d
		return d
	}
	for i := range out {
		out[i].Level = levelOf(i)
	}
	return out, issues
}

// breakCycles walks each parent chain with white/gray/black colouring and
// re-roots the first node (in input order) of every cycle it finds.
func breakCycles(nodes []Node, pos map[string]int) []error {
	const (
		white = iota
		gray
		black
	)

	var issues []error
	color := make([]int, len(nodes))
	for start := range nodes {
		if color[start] != white {
			continue
		}
		var path []int
		cur := start
		for {
			if color[cur] == black {
				break
			}
			if color[cur] == gray {
				// cur closes a cycle; re-root its earliest member.
				first := cur
				for i := len(path) - 1; i >= 0 && path[i] != cur; i-- {
					if path[i] < first {
						first = path[i]
					}
				}
				issues = append(issues, errs.Wrap(errs.ErrCodeStructural, ErrCycle,
					"node %q re-rooted to break cycle", nodes[first].ID))
				nodes[first].ParentID = ""
				break
			}
			color[cur] = gray
			path = append(path, cur)
			p := nodes[cur].ParentID
			if p == "" {
				break
			}
			cur = pos[p]
		}
		for _, i := range path {
			color[i] = black
		}
	}
	return issues
}
