package engine

import (
	"slices"

	"github.com/matzehuels/mindtower/pkg/layout"
	"github.com/matzehuels/mindtower/pkg/position"
	"github.com/matzehuels/mindtower/pkg/tree"
	"github.com/matzehuels/mindtower/pkg/visibility"
)

// NodeData is the per-node payload for the rendering side.
type NodeData struct {
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Level             int              `json:"level"`
	PageNumber        *int             `json:"pageNumber,omitempty"`
	HasChildren       bool             `json:"hasChildren"`
	ChildrenCollapsed bool             `json:"childrenCollapsed"`
	LayoutDirection   layout.Direction `json:"layoutDirection"`
}

// RenderNode is one node as the rendering side draws it.
type RenderNode struct {
	ID       string            `json:"id"`
	ParentID string            `json:"parentId,omitempty"`
	Position position.Position `json:"position"`
	Hidden   bool              `json:"hidden"`
	Data     NodeData          `json:"data"`
}

// Snapshot is the renderable state after a command.
type Snapshot struct {
	// Nodes follow canonical order.
	Nodes []RenderNode `json:"nodes"`
	Edges []tree.Edge  `json:"edges"`

	Preset      layout.Preset `json:"preset"`
	PresetIndex int           `json:"presetIndex"`

	LoadingStage      LoadingStage `json:"loadingStage"`
	LayoutInitialized bool         `json:"layoutInitialized"`

	// FitView increases whenever the view should be fitted to the content:
	// after every full reset and on ResetView. A renderer only needs to act
	// on the latest value it has seen.
	FitView uint64 `json:"fitView"`

	// Created is the ID of the node the last command created, if any.
	Created string `json:"created,omitempty"`

	// Warnings lists the problems the last command recovered from.
	Warnings []string `json:"warnings,omitempty"`
}

// Snapshot returns the current renderable state.
func (e *Engine) Snapshot() Snapshot {
	r := e.resolver
	if e.pending {
		r = visibility.NewResolver(e.collapsed, tree.Build(e.nodes))
	}
	preset := e.cycler.Current()

	nodes := make([]RenderNode, 0, len(e.nodes))
	for _, n := range e.nodes {
		p, _ := e.positions.Get(n.ID)
		nodes = append(nodes, RenderNode{
			ID:       n.ID,
			ParentID: n.ParentID,
			Position: p,
			Hidden:   r.Hidden(n.ID),
			Data: NodeData{
				Title:             n.Title,
				Description:       n.Description,
				Level:             n.Level,
				PageNumber:        n.PageNumber,
				HasChildren:       r.HasChildren(n.ID),
				ChildrenCollapsed: r.ChildrenCollapsed(n.ID),
				LayoutDirection:   preset.Direction,
			},
		})
	}

	return Snapshot{
		Nodes:             nodes,
		Edges:             tree.EdgesOf(e.nodes),
		Preset:            preset,
		PresetIndex:       e.cycler.Index(),
		LoadingStage:      e.stage,
		LayoutInitialized: e.initialized,
		FitView:           e.fitView,
		Created:           e.created,
		Warnings:          slices.Clone(e.warnings),
	}
}

// Visible returns the IDs of the nodes that are not hidden, in canonical
// order.
func (s Snapshot) Visible() []string {
	var ids []string
	for _, n := range s.Nodes {
		if !n.Hidden {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Hidden returns the IDs of hidden nodes, in canonical order.
func (s Snapshot) Hidden() []string {
	var ids []string
	for _, n := range s.Nodes {
		if n.Hidden {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Node returns the render node with the given ID.
func (s Snapshot) Node(id string) (RenderNode, bool) {
	i := slices.IndexFunc(s.Nodes, func(n RenderNode) bool { return n.ID == id })
	if i < 0 {
		return RenderNode{}, false
	}
	return s.Nodes[i], true
}
