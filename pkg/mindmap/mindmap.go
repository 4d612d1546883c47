package mindmap

import (
	"time"

	"github.com/matzehuels/mindtower/pkg/engine"
	"github.com/matzehuels/mindtower/pkg/position"
	"github.com/matzehuels/mindtower/pkg/tree"
)

// Data is the node list delivered by the ingestion side.
type Data struct {
	Nodes []tree.Node `json:"nodes" bson:"nodes"`
}

// PersistedNode is a node plus its last known position.
type PersistedNode struct {
	ID          string   `json:"id" bson:"id"`
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description" bson:"description"`
	ParentID    string   `json:"parentId,omitempty" bson:"parent_id,omitempty"`
	Level       int      `json:"level" bson:"level"`
	PageNumber  *int     `json:"pageNumber,omitempty" bson:"page_number,omitempty"`
	PositionX   *float64 `json:"positionX,omitempty" bson:"position_x,omitempty"`
	PositionY   *float64 `json:"positionY,omitempty" bson:"position_y,omitempty"`
}

// Node returns the node without its position.
func (p PersistedNode) Node() tree.Node {
	return tree.Node{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		ParentID:    p.ParentID,
		Level:       p.Level,
		PageNumber:  p.PageNumber,
	}
}

// Position returns the stored position, if both coordinates are present.
func (p PersistedNode) Position() (position.Position, bool) {
	if p.PositionX == nil || p.PositionY == nil {
		return position.Position{}, false
	}
	return position.Position{X: *p.PositionX, Y: *p.PositionY}, true
}

// Document is a saved diagram.
type Document struct {
	ID          string          `json:"id,omitempty" bson:"_id"`
	Title       string          `json:"title,omitempty" bson:"title"`
	Nodes       []PersistedNode `json:"nodes" bson:"nodes"`
	Collapsed   []string        `json:"collapsed,omitempty" bson:"collapsed,omitempty"`
	PresetIndex int             `json:"presetIndex,omitempty" bson:"preset_index"`
	UpdatedAt   time.Time       `json:"updatedAt,omitzero" bson:"updated_at"`
}

// FromData wraps ingestion data in a document without positions.
func FromData(id string, d Data) *Document {
	doc := &Document{ID: id, Nodes: make([]PersistedNode, len(d.Nodes))}
	for i, n := range d.Nodes {
		doc.Nodes[i] = persisted(n, position.Position{}, false)
	}
	return doc
}

// Data returns the document's node list.
func (d *Document) Data() Data {
	out := Data{Nodes: make([]tree.Node, len(d.Nodes))}
	for i, n := range d.Nodes {
		out.Nodes[i] = n.Node()
	}
	return out
}

// Positions returns the stored positions by node ID.
func (d *Document) Positions() map[string]position.Position {
	out := make(map[string]position.Position, len(d.Nodes))
	for _, n := range d.Nodes {
		if p, ok := n.Position(); ok {
			out[n.ID] = p
		}
	}
	return out
}

// Restore loads the document into e. Nodes with stored positions keep
// them; the others are laid out.
func (d *Document) Restore(e *engine.Engine) {
	e.LoadPersisted(d.Data().Nodes, d.Positions(), d.Collapsed, d.PresetIndex)
}

// Capture records the current state of e as a document.
func Capture(id, title string, e *engine.Engine) *Document {
	positions := e.Positions()
	nodes := e.Canonical()
	doc := &Document{
		ID:          id,
		Title:       title,
		Nodes:       make([]PersistedNode, len(nodes)),
		Collapsed:   e.Collapsed(),
		PresetIndex: e.PresetIndex(),
		UpdatedAt:   time.Now().UTC(),
	}
	for i, n := range nodes {
		p, ok := positions[n.ID]
		doc.Nodes[i] = persisted(n, p, ok)
	}
	return doc
}

func persisted(n tree.Node, p position.Position, hasPos bool) PersistedNode {
	out := PersistedNode{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		ParentID:    n.ParentID,
		Level:       n.Level,
		PageNumber:  n.PageNumber,
	}
	if hasPos {
		x, y := p.X, p.Y
		out.PositionX, out.PositionY = &x, &y
	}
	return out
}
