package engine

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	errs "github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/layout"
	"github.com/matzehuels/mindtower/pkg/observability"
	"github.com/matzehuels/mindtower/pkg/position"
	"github.com/matzehuels/mindtower/pkg/reconcile"
	"github.com/matzehuels/mindtower/pkg/tree"
	"github.com/matzehuels/mindtower/pkg/visibility"
)

// Options configures a new [Engine]. The zero value is valid.
type Options struct {
	// Presets is the preset cycle. Nil means [layout.DefaultPresets].
	Presets []layout.Preset

	// NodeSize is the cross-axis extent of a leaf. Zero means
	// [layout.DefaultNodeSize].
	NodeSize float64

	// Logger receives recovered problems at warn level. Nil discards.
	Logger *log.Logger

	// Hooks receives engine events. Nil means the globally registered
	// [observability.Engine] hooks.
	Hooks observability.EngineHooks

	// NewID generates IDs for AddNode and DuplicateNode. Nil means
	// uuid.NewString.
	NewID func() string
}

// Engine is the stateful coordinator of one diagram.
type Engine struct {
	logger   *log.Logger
	hooks    observability.EngineHooks
	newID    func() string
	nodeSize float64

	nodes     []tree.Node
	idx       *tree.Index
	resolver  *visibility.Resolver
	collapsed tree.IDSet
	positions *position.Store
	cycler    *layout.Cycler

	state       State
	stage       LoadingStage
	initialized bool // a layout pass has run at least once
	seeded      bool // positions came from persistence
	reset       bool // next pass is a full reset
	pending     bool // a pass was deferred by the loading gate
	fitView     uint64
	created     string
	warnings    []string
}

// New returns an idle engine with no nodes.
func New(opts Options) (*Engine, error) {
	presets := opts.Presets
	if presets == nil {
		presets = layout.DefaultPresets()
	}
	for _, p := range presets {
		if err := p.Validate(); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid preset")
		}
	}
	cycler, err := layout.NewCycler(presets)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid preset list")
	}

	e := &Engine{
		logger:    opts.Logger,
		hooks:     opts.Hooks,
		newID:     opts.NewID,
		nodeSize:  opts.NodeSize,
		collapsed: tree.NewIDSet(),
		positions: position.NewStore(),
		cycler:    cycler,
		idx:       tree.Build(nil),
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	if e.hooks == nil {
		e.hooks = observability.Engine()
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	if e.nodeSize <= 0 {
		e.nodeSize = layout.DefaultNodeSize
	}
	e.resolver = visibility.NewResolver(e.collapsed, e.idx)
	return e, nil
}

// State returns the current pipeline phase. Outside of a command it is
// always [Idle].
func (e *Engine) State() State { return e.state }

// LoadingStage returns the active loading stage.
func (e *Engine) LoadingStage() LoadingStage { return e.stage }

// Initialized reports whether a layout pass has run.
func (e *Engine) Initialized() bool { return e.initialized }

// Canonical returns a copy of the canonical node list.
func (e *Engine) Canonical() []tree.Node { return slices.Clone(e.nodes) }

// Collapsed returns the collapsed IDs in ascending order.
func (e *Engine) Collapsed() []string { return e.collapsed.Sorted() }

// Positions returns a copy of the position store.
func (e *Engine) Positions() map[string]position.Position { return e.positions.All() }

// Preset returns the active preset.
func (e *Engine) Preset() layout.Preset { return e.cycler.Current() }

// PresetIndex returns the index of the active preset.
func (e *Engine) PresetIndex() int { return e.cycler.Index() }

// Presets returns the preset cycle.
func (e *Engine) Presets() []layout.Preset { return e.cycler.Presets() }

// run executes one pipeline pass, or defers it while loading.
func (e *Engine) run(canvas *reconcile.Canvas) {
	if e.stage != StageNone {
		e.pending = true
		return
	}
	e.pending = false
	start := time.Now()

	e.state = Reconciling
	if canvas != nil {
		res, problems := reconcile.Reconcile(e.nodes, *canvas)
		e.nodes = res.Nodes
		if len(res.Added) > 0 {
			e.created = res.Added[len(res.Added)-1]
		}
		e.warn(problems...)
	}
	nodes, problems := tree.Normalize(e.nodes)
	e.nodes = nodes
	e.warn(problems...)

	e.state = Indexing
	e.idx = tree.Build(e.nodes)
	for id := range e.collapsed {
		if !e.idx.Has(id) {
			e.collapsed.Remove(id)
		}
	}

	e.state = ResolvingVisibility
	e.resolver = visibility.NewResolver(e.collapsed, e.idx)
	e.warn(e.resolver.Errors()...)

	e.state = LayingOut
	fresh := layout.Compute(e.idx, e.nodes, e.cycler.Current(), e.nodeSize)

	e.state = Merging
	policy := position.Incremental
	if e.cycler.TakeChanged() || e.reset || (!e.initialized && !e.seeded) {
		policy = position.FullReset
	}
	e.positions.Merge(fresh, e.idx.IDs(), policy)
	if policy == position.FullReset {
		e.fitView++
	}
	e.initialized = true
	e.reset = false

	e.state = Idle
	e.hooks.OnPipeline(policy.String(), e.idx.Len(), e.resolver.HiddenSet().Len(), time.Since(start))
}

// warn records recovered problems for the current command.
func (e *Engine) warn(problems ...error) {
	for _, p := range problems {
		if p == nil {
			continue
		}
		e.logger.Warn("recovered", "code", errs.GetCode(p), "err", p)
		e.hooks.OnWarning(p)
		e.warnings = append(e.warnings, p.Error())
	}
}

// index returns an index that reflects the current node list, rebuilding it
// when a pass is pending.
func (e *Engine) index() *tree.Index {
	if e.pending {
		return tree.Build(e.nodes)
	}
	return e.idx
}

// find returns the position of id in the canonical list, or -1.
func (e *Engine) find(id string) int {
	return slices.IndexFunc(e.nodes, func(n tree.Node) bool { return n.ID == id })
}

// lookup validates id and returns its position in the canonical list.
func (e *Engine) lookup(id string) (int, error) {
	if err := errs.ValidateNodeID(id); err != nil {
		return -1, err
	}
	i := e.find(id)
	if i < 0 {
		return -1, errs.New(errs.ErrCodeNotFound, "node %q does not exist", id)
	}
	return i, nil
}
