package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindtower/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags    layoutFlags
		output   string
		formats  string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "render [mindmap.json]",
		Short: "Render a mind map to DOT, SVG or JSON",
		Long: `Render a mind map.

Only visible nodes are drawn; collapsed branches show a "+" marker. Node
positions are pinned to the computed layout, so the SVG output (rendered by
Graphviz neato) matches what an interactive editor shows.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := parseFormats(formats)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], flags, pipeline.RenderOptions{
				Formats:  fs,
				Detailed: detailed,
				NoCache:  flags.noCache,
			}, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): dot (default), svg, json (comma-separated)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include descriptions and page numbers in labels")

	return cmd
}

// runRender lays out the input and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, flags layoutFlags, opts pipeline.RenderOptions, output string) error {
	runner, cfg, err := c.openRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := c.layoutFile(ctx, runner, cfg, input, flags)
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, "Rendering...")
	spinner.Start()
	artifacts, cached, err := runner.Render(ctx, res.Snapshot, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()
	if spinner.Cancelled() {
		return ctx.Err()
	}

	paths := renderPaths(input, output, opts.Formats)
	printSuccess("Render complete")
	for _, format := range opts.Formats {
		path := paths[format]
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(pipeline.StatsOf(res.Snapshot), res.Snapshot.Preset, res.Cached && cached)
	printWarnings(res.Snapshot.Warnings)
	return nil
}

// renderPaths maps each format to its output file. A single format uses
// output verbatim; several formats share output (or the input name) as a
// base path.
func renderPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := input
	if output != "" {
		base = output
	}
	for _, f := range formats {
		suffix := "." + f
		if f == pipeline.FormatJSON {
			suffix = ".snapshot.json"
		}
		paths[f] = outputPath(base, "", suffix)
	}
	return paths
}
