package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindtower/pkg/cache"
	"github.com/matzehuels/mindtower/pkg/engine"
	errs "github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/layout"
	"github.com/matzehuels/mindtower/pkg/mindmap"
	"github.com/matzehuels/mindtower/pkg/observability"
	"github.com/matzehuels/mindtower/pkg/render/dot"
	"github.com/matzehuels/mindtower/pkg/tree"
)

// Runner executes pipeline stages with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides [cache.TTLLayout] for snapshots when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Layout restores doc into a fresh engine and returns its snapshot.
//
// Unknown presets are INVALID_INPUT errors and unknown collapse IDs are
// NOT_FOUND errors. Problems the engine recovers from are listed in
// Result.Snapshot.Warnings.
func (r *Runner) Layout(ctx context.Context, doc *mindmap.Document, opts Options) (*Result, error) {
	if doc == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no document")
	}
	presets := opts.Presets
	if presets == nil {
		presets = layout.DefaultPresets()
	}
	if len(presets) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "no presets")
	}
	presetIndex, err := opts.resolvePreset(presets)
	if err != nil {
		return nil, err
	}
	if presetIndex < 0 {
		presetIndex = doc.PresetIndex
	}
	preset := presets[wrapIndex(presetIndex, len(presets))]

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, preset.Name, len(doc.Nodes))
	start := time.Now()

	res, err := r.layout(ctx, doc, opts, presets, presetIndex)
	if res != nil {
		res.Duration = time.Since(start)
	}
	hooks.OnLayoutComplete(ctx, preset.Name, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("computed layout",
		"preset", preset.Name,
		"nodes", len(res.Snapshot.Nodes),
		"cached", res.Cached,
		"duration", res.Duration)
	return res, nil
}

func (r *Runner) layout(ctx context.Context, doc *mindmap.Document, opts Options, presets []layout.Preset, presetIndex int) (*Result, error) {
	dataHash, err := cache.HashJSON(doc.Nodes)
	if err != nil {
		return nil, fmt.Errorf("hash nodes: %w", err)
	}
	index := wrapIndex(presetIndex, len(presets))
	preset := presets[index]
	key := r.Keyer.LayoutKey(dataHash, cache.LayoutKeyOpts{
		Preset:         preset.Name,
		PresetIndex:    index,
		StoredIndex:    wrapIndex(doc.PresetIndex, len(presets)),
		Direction:      preset.Direction.String(),
		SiblingSpacing: preset.SiblingSpacing,
		LevelSpacing:   preset.LevelSpacing,
		NodeSize:       opts.NodeSize,
		Collapsed:      append(append([]string(nil), doc.Collapsed...), opts.Collapsed...),
	})

	cacheHooks := observability.Cache()
	if !opts.NoCache {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var snap engine.Snapshot
			if err := json.Unmarshal(data, &snap); err == nil {
				cacheHooks.OnCacheHit(ctx, "layout")
				return &Result{Snapshot: snap, DataHash: dataHash, Cached: true}, nil
			}
			// Undecodable entries fall through to recompute.
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", key, "error", err)
		}
		cacheHooks.OnCacheMiss(ctx, "layout")
	}

	e, err := engine.New(engine.Options{
		Presets:  presets,
		NodeSize: opts.NodeSize,
		Logger:   r.Logger,
	})
	if err != nil {
		return nil, err
	}
	doc.Restore(e)
	warnings := e.Snapshot().Warnings

	// Stored positions belong to the document's own preset; switching
	// presets afterwards discards them.
	if index != wrapIndex(doc.PresetIndex, len(presets)) {
		e.SelectPreset(index)
		warnings = append(warnings, e.Snapshot().Warnings...)
	}
	collapsed := tree.NewIDSet(e.Collapsed()...)
	for _, id := range opts.Collapsed {
		if collapsed.Has(id) {
			continue
		}
		if err := e.ToggleCollapse(id); err != nil {
			return nil, err
		}
		collapsed.Add(id)
		warnings = append(warnings, e.Snapshot().Warnings...)
	}

	snap := e.Snapshot()
	snap.Warnings = warnings
	if data, err := json.Marshal(snap); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "error", err)
		} else {
			cacheHooks.OnCacheSet(ctx, "layout", len(data))
		}
	}
	return &Result{Snapshot: snap, DataHash: dataHash}, nil
}

// Render produces the requested formats for snap. The bool reports whether
// every artifact came from the cache.
func (r *Runner) Render(ctx context.Context, snap engine.Snapshot, opts RenderOptions) (map[string][]byte, bool, error) {
	opts.setDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, hit, err := r.render(ctx, snap, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", time.Since(start))
	return artifacts, hit, nil
}

func (r *Runner) render(ctx context.Context, snap engine.Snapshot, opts RenderOptions) (map[string][]byte, bool, error) {
	snapHash, err := cache.HashJSON(snap)
	if err != nil {
		return nil, false, fmt.Errorf("hash snapshot: %w", err)
	}

	cacheHooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.NoCache {
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.RenderKey(snapHash, opts.keyOpts(format)))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			cacheHooks.OnCacheHit(ctx, "render")
			return artifacts, true, nil
		}
		cacheHooks.OnCacheMiss(ctx, "render")
	}

	rendered, err := RenderSnapshot(ctx, snap, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.RenderKey(snapHash, opts.keyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLRender); err == nil {
			cacheHooks.OnCacheSet(ctx, "render", len(data))
		}
	}
	return rendered, false, nil
}

// RenderSnapshot renders snap without caching.
func RenderSnapshot(ctx context.Context, snap engine.Snapshot, opts RenderOptions) (map[string][]byte, error) {
	opts.setDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var dotText string
	for _, format := range opts.Formats {
		var data []byte
		var err error
		switch format {
		case FormatDOT, FormatSVG:
			if dotText == "" {
				dotText = dot.ToDOT(snap, dot.Options{Detailed: opts.Detailed})
			}
			if format == FormatDOT {
				data = []byte(dotText)
			} else {
				data, err = dot.RenderSVG(ctx, dotText)
			}
		case FormatJSON:
			data, err = json.MarshalIndent(snap, "", "  ")
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLLayout
}

// wrapIndex maps i into [0, n) the way the engine's preset cycler clamps it.
func wrapIndex(i, n int) int { return ((i % n) + n) % n }
