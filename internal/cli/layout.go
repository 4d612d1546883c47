package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindtower/pkg/config"
	"github.com/matzehuels/mindtower/pkg/mindmap"
	"github.com/matzehuels/mindtower/pkg/pipeline"
)

// layoutFlags are the flags shared by layout and render.
type layoutFlags struct {
	preset   string
	collapse string
	nodeSize float64
	noCache  bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.preset, "preset", "p", "", "layout preset name or index (default: the document's preset)")
	cmd.Flags().StringVar(&f.collapse, "collapse", "", "node IDs to collapse (comma-separated)")
	cmd.Flags().Float64Var(&f.nodeSize, "node-size", 0, "cross-axis size of a leaf (default from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [mindmap.json]",
		Short: "Lay out a mind map and write the snapshot",
		Long: `Lay out a mind map and write the resulting snapshot as JSON.

The input is either plain ingestion data ({"nodes": [...]}) or a saved
document with positionX/positionY per node. Stored positions are kept;
nodes without one are placed by the tidy-tree layout of the selected preset.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], flags, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")

	return cmd
}

// runLayout loads the document, lays it out, and writes the snapshot.
func (c *CLI) runLayout(ctx context.Context, input string, flags layoutFlags, output string) error {
	runner, cfg, err := c.openRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := c.layoutFile(ctx, runner, cfg, input, flags)
	if err != nil {
		return err
	}

	path := outputPath(input, output, ".layout.json")
	if err := mindmap.WriteSnapshotFile(res.Snapshot, path); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}

	printSuccess("Layout complete")
	printFile(path)
	printStats(pipeline.StatsOf(res.Snapshot), res.Snapshot.Preset, res.Cached)
	printWarnings(res.Snapshot.Warnings)
	printNewline()
	printNextStep("Render", appName+" render "+input)
	return nil
}

// openRunner loads the config and opens a runner on the configured cache.
func (c *CLI) openRunner(ctx context.Context, noCache bool) (*pipeline.Runner, *config.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize runner: %w", err)
	}
	return runner, cfg, nil
}

// layoutFile runs the layout stage for a file with the configured presets.
func (c *CLI) layoutFile(ctx context.Context, runner *pipeline.Runner, cfg *config.Config, input string, flags layoutFlags) (*pipeline.Result, error) {
	doc, err := mindmap.ReadDocumentFile(input)
	if err != nil {
		return nil, fmt.Errorf("load mind map: %w", err)
	}

	nodeSize := cfg.NodeSize
	if flags.nodeSize > 0 {
		nodeSize = flags.nodeSize
	}

	prog := newProgress(loggerFromContext(ctx))
	res, err := runner.Layout(ctx, doc, pipeline.Options{
		Presets:   cfg.Presets,
		Preset:    flags.preset,
		Collapsed: parseList(flags.collapse),
		NodeSize:  nodeSize,
		NoCache:   flags.noCache,
	})
	if err != nil {
		return nil, fmt.Errorf("compute layout: %w", err)
	}
	prog.done("computed layout", "nodes", len(res.Snapshot.Nodes), "cached", res.Cached)
	return res, nil
}
