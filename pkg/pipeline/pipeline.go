// Package pipeline runs the batch path of mindtower: document → engine →
// snapshot → rendered artifacts.
//
// The CLI and the API server share this package so both lay out and render
// a diagram the same way and share the same cache keys.
//
// # Stages
//
//  1. Layout: restore the document into an [engine.Engine], apply the
//     requested preset and collapsed nodes, take the snapshot.
//  2. Render: turn a snapshot into DOT, SVG or JSON.
//
// Both stages are pure functions of their inputs, so each result is cached
// under a content-addressed key (see [cache.Keyer]).
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Layout(ctx, doc, pipeline.Options{Preset: "left-right"})
//	if err != nil {
//	    return err
//	}
//	artifacts, _, err := runner.Render(ctx, res.Snapshot, pipeline.RenderOptions{
//	    Formats: []string{pipeline.FormatSVG},
//	})
package pipeline

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/mindtower/pkg/cache"
	"github.com/matzehuels/mindtower/pkg/engine"
	errs "github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/layout"
)

// Output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidInput, "invalid format: %q (must be one of: dot, svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options configures the layout stage.
type Options struct {
	// Presets is the preset cycle. Nil means [layout.DefaultPresets].
	Presets []layout.Preset `json:"-"`

	// Preset selects a preset by name or by zero-based index. Empty keeps
	// the document's stored preset.
	Preset string `json:"preset,omitempty"`

	// Collapsed nodes are collapsed in addition to the document's own.
	Collapsed []string `json:"collapsed,omitempty"`

	// NodeSize is the cross-axis extent of a leaf. Zero means
	// [layout.DefaultNodeSize].
	NodeSize float64 `json:"node_size,omitempty"`

	// NoCache skips the cache lookup. The result is still stored.
	NoCache bool `json:"no_cache,omitempty"`
}

// resolvePreset returns the preset index selected by o, or -1 to keep the
// document's index.
func (o *Options) resolvePreset(presets []layout.Preset) (int, error) {
	if o.Preset == "" {
		return -1, nil
	}
	names := make([]string, len(presets))
	for i, p := range presets {
		if p.Name == o.Preset {
			return i, nil
		}
		names[i] = p.Name
	}
	if i, err := strconv.Atoi(o.Preset); err == nil {
		if i < 0 || i >= len(presets) {
			return 0, errs.New(errs.ErrCodeInvalidInput, "preset index %d out of range [0, %d)", i, len(presets))
		}
		return i, nil
	}
	return 0, errs.New(errs.ErrCodeInvalidInput, "unknown preset %q (available: %s)", o.Preset, strings.Join(names, ", "))
}

// RenderOptions configures the render stage.
type RenderOptions struct {
	// Formats defaults to DOT.
	Formats []string `json:"formats,omitempty"`

	// Detailed adds descriptions and page numbers to node labels.
	Detailed bool `json:"detailed,omitempty"`

	// NoCache skips the cache lookup.
	NoCache bool `json:"no_cache,omitempty"`
}

func (o *RenderOptions) setDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatDOT}
	}
	o.Formats = slices.Compact(slices.Sorted(slices.Values(o.Formats)))
}

// keyOpts returns cache key options for one format.
func (o *RenderOptions) keyOpts(format string) cache.RenderKeyOpts {
	return cache.RenderKeyOpts{Format: format, Detailed: o.Detailed}
}

// Result is the outcome of the layout stage.
type Result struct {
	Snapshot engine.Snapshot

	// DataHash is the content hash of the document's nodes.
	DataHash string

	// Cached reports whether the snapshot came from the cache.
	Cached bool

	Duration time.Duration
}

// Stats summarises a snapshot for status output.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	VisibleCount int
	HiddenCount  int
}

// StatsOf counts the nodes and edges of snap.
func StatsOf(snap engine.Snapshot) Stats {
	hidden := len(snap.Hidden())
	return Stats{
		NodeCount:    len(snap.Nodes),
		EdgeCount:    len(snap.Edges),
		VisibleCount: len(snap.Nodes) - hidden,
		HiddenCount:  hidden,
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("%d nodes (%d hidden), %d edges", s.NodeCount, s.HiddenCount, s.EdgeCount)
}
