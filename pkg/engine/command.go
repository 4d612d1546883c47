package engine

import (
	"slices"
	"time"

	errs "github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/position"
	"github.com/matzehuels/mindtower/pkg/reconcile"
	"github.com/matzehuels/mindtower/pkg/tree"
)

// Kind identifies a command.
type Kind string

const (
	KindReplaceData     Kind = "replace-data"
	KindToggleCollapse  Kind = "toggle-collapse"
	KindCyclePreset     Kind = "cycle-preset"
	KindSelectPreset    Kind = "select-preset"
	KindAddNode         Kind = "add-node"
	KindDeleteNode      Kind = "delete-node"
	KindSetPosition     Kind = "set-position"
	KindResetView       Kind = "reset-view"
	KindUpdateContent   Kind = "update-content"
	KindDuplicateNode   Kind = "duplicate-node"
	KindSyncCanvas      Kind = "sync-canvas"
	KindSetLoadingStage Kind = "set-loading-stage"
)

// DefaultNodeTitle is the title of nodes created by AddNode.
const DefaultNodeTitle = "New node"

// Command is the serialisable form of every engine operation, as accepted
// by [Engine.Apply]. Only the fields used by Kind are read.
type Command struct {
	Kind        Kind               `json:"kind"`
	ID          string             `json:"id,omitempty"`
	ParentID    string             `json:"parentId,omitempty"`
	Nodes       []tree.Node        `json:"nodes,omitempty"`
	Position    *position.Position `json:"position,omitempty"`
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Canvas      *reconcile.Canvas  `json:"canvas,omitempty"`
	Stage       LoadingStage       `json:"stage,omitempty"`
	Index       int                `json:"index,omitempty"`
}

// Apply dispatches cmd and returns the resulting snapshot. On error the
// engine state is unchanged and the snapshot reflects it.
func (e *Engine) Apply(cmd Command) (Snapshot, error) {
	start := time.Now()
	err := e.dispatch(cmd)
	e.hooks.OnCommand(string(cmd.Kind), time.Since(start), err)
	return e.Snapshot(), err
}

func (e *Engine) dispatch(cmd Command) error {
	switch cmd.Kind {
	case KindReplaceData:
		e.ReplaceData(cmd.Nodes)
		return nil
	case KindToggleCollapse:
		return e.ToggleCollapse(cmd.ID)
	case KindCyclePreset:
		e.CyclePreset()
		return nil
	case KindSelectPreset:
		e.SelectPreset(cmd.Index)
		return nil
	case KindAddNode:
		_, err := e.AddNode(cmd.ParentID)
		return err
	case KindDeleteNode:
		return e.DeleteNode(cmd.ID)
	case KindSetPosition:
		if cmd.Position == nil {
			return errs.New(errs.ErrCodeInvalidInput, "set-position requires a position")
		}
		return e.SetPosition(cmd.ID, *cmd.Position)
	case KindResetView:
		e.ResetView()
		return nil
	case KindUpdateContent:
		return e.UpdateContent(cmd.ID, cmd.Title, cmd.Description)
	case KindDuplicateNode:
		_, err := e.DuplicateNode(cmd.ID)
		return err
	case KindSyncCanvas:
		if cmd.Canvas == nil {
			return errs.New(errs.ErrCodeInvalidInput, "sync-canvas requires a canvas")
		}
		e.SyncCanvas(*cmd.Canvas)
		return nil
	case KindSetLoadingStage:
		e.SetLoadingStage(cmd.Stage)
		return nil
	case "":
		return errs.New(errs.ErrCodeInvalidInput, "command kind is required")
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown command kind %q", cmd.Kind)
	}
}

// begin clears the per-command outputs.
func (e *Engine) begin() {
	e.warnings = nil
	e.created = ""
}

// ReplaceData swaps in a new canonical node list and lays it out from
// scratch. Collapsed IDs that survive the swap stay collapsed.
func (e *Engine) ReplaceData(nodes []tree.Node) {
	e.begin()
	e.nodes = slices.Clone(nodes)
	e.reset = true
	e.run(nil)
}

// LoadPersisted restores a saved diagram. Stored positions seed the
// position store, so the first pass merges incrementally and only nodes
// without a stored position receive a computed one. An out-of-range preset
// index is clamped and reported as a warning.
func (e *Engine) LoadPersisted(nodes []tree.Node, positions map[string]position.Position, collapsed []string, presetIndex int) {
	e.begin()
	e.nodes = slices.Clone(nodes)
	e.positions.Seed(positions)
	e.collapsed = tree.NewIDSet(collapsed...)
	if err := e.cycler.SetIndex(presetIndex); err != nil {
		e.warn(err)
	}
	e.cycler.TakeChanged()
	e.seeded = len(positions) > 0
	e.initialized = false
	e.reset = false
	e.run(nil)
}

// ToggleCollapse flips the collapsed flag of id. Descendants keep their own
// flags. Positions of nodes that stay visible do not change.
func (e *Engine) ToggleCollapse(id string) error {
	if _, err := e.lookup(id); err != nil {
		return err
	}
	e.begin()
	if e.collapsed.Has(id) {
		e.collapsed.Remove(id)
	} else {
		e.collapsed.Add(id)
	}
	e.run(nil)
	return nil
}

// CyclePreset advances to the next preset and re-lays out from scratch.
func (e *Engine) CyclePreset() {
	e.begin()
	e.cycler.Cycle()
	e.run(nil)
}

// SelectPreset jumps to preset i. Out-of-range values are clamped and
// reported as a warning. Selecting the active preset keeps positions.
func (e *Engine) SelectPreset(i int) {
	e.begin()
	if err := e.cycler.SetIndex(i); err != nil {
		e.warn(err)
	}
	e.run(nil)
}

// AddNode appends a new child of parentID, or a new root when parentID is
// empty, and returns its ID. A collapsed parent is expanded so the new node
// is visible.
func (e *Engine) AddNode(parentID string) (string, error) {
	level := 0
	if parentID != "" {
		i, err := e.lookup(parentID)
		if err != nil {
			return "", err
		}
		level = e.nodes[i].Level + 1
	}
	e.begin()
	id := e.uniqueID()
	e.nodes = append(e.nodes, tree.Node{ID: id, Title: DefaultNodeTitle, ParentID: parentID, Level: level})
	e.collapsed.Remove(parentID)
	e.created = id
	e.run(nil)
	return id, nil
}

// DeleteNode removes id and its full descendant closure from the canonical
// list, the collapsed set and the position store.
func (e *Engine) DeleteNode(id string) error {
	if _, err := e.lookup(id); err != nil {
		return err
	}
	e.begin()
	doomed, err := e.index().Descendants(id)
	if err != nil {
		e.warn(err)
	}
	doomed.Add(id)

	e.nodes = slices.DeleteFunc(e.nodes, func(n tree.Node) bool { return doomed.Has(n.ID) })
	for d := range doomed {
		e.collapsed.Remove(d)
		e.positions.Delete(d)
	}
	e.run(nil)
	return nil
}

// SetPosition records a dragged position for id. It bypasses the pipeline
// and wins over any earlier value.
func (e *Engine) SetPosition(id string, p position.Position) error {
	if _, err := e.lookup(id); err != nil {
		return err
	}
	e.begin()
	e.positions.Set(id, p)
	return nil
}

// ResetView requests a fit-to-content without recomputing anything.
func (e *Engine) ResetView() {
	e.begin()
	e.fitView++
}

// UpdateContent edits the title and/or description of id. Nil leaves a
// field unchanged. Positions are kept.
func (e *Engine) UpdateContent(id string, title, description *string) error {
	i, err := e.lookup(id)
	if err != nil {
		return err
	}
	e.begin()
	if title != nil {
		e.nodes[i].Title = *title
	}
	if description != nil {
		e.nodes[i].Description = *description
	}
	e.run(nil)
	return nil
}

// DuplicateNode inserts a copy of id directly after it, as its next
// sibling, and returns the copy's ID. Children are not copied.
func (e *Engine) DuplicateNode(id string) (string, error) {
	i, err := e.lookup(id)
	if err != nil {
		return "", err
	}
	e.begin()
	dup := e.nodes[i]
	dup.ID = e.uniqueID()
	if dup.PageNumber != nil {
		page := *dup.PageNumber
		dup.PageNumber = &page
	}
	e.nodes = slices.Insert(e.nodes, i+1, dup)
	e.created = dup.ID
	e.run(nil)
	return dup.ID, nil
}

// SyncCanvas folds canvas-only nodes into the canonical list.
func (e *Engine) SyncCanvas(c reconcile.Canvas) {
	e.begin()
	e.run(&c)
}

// SetLoadingStage updates the loading gate. Returning to [StageNone] runs
// any deferred pass, or the initial one if none has run yet.
func (e *Engine) SetLoadingStage(s LoadingStage) {
	e.begin()
	e.stage = s
	if s == StageNone && (e.pending || (!e.initialized && len(e.nodes) > 0)) {
		e.run(nil)
	}
}

// uniqueID draws IDs until one is not in use.
func (e *Engine) uniqueID() string {
	for {
		id := e.newID()
		if id != "" && e.find(id) < 0 {
			return id
		}
	}
}
