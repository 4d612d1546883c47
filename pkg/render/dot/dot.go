package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mindtower/pkg/engine"
	"github.com/matzehuels/mindtower/pkg/tree"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds the description and page number to node labels.
	// When false, only the title is shown.
	Detailed bool
}

// ToDOT converts the visible part of snap to Graphviz DOT.
func ToDOT(snap engine.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	visible := tree.NewIDSet()
	for _, n := range snap.Nodes {
		if n.Hidden {
			continue
		}
		visible.Add(n.ID)
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range snap.Edges {
		if visible.Has(e.Source) && visible.Has(e.Target) {
			fmt.Fprintf(&buf, "  %q -> %q [id=%q];\n", e.Source, e.Target, e.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n engine.RenderNode, detailed bool) string {
	label := n.Data.Title
	if label == "" {
		label = n.ID
	}
	if n.Data.HasChildren {
		marker := "−"
		if n.Data.ChildrenCollapsed {
			marker = "+"
		}
		label += " " + marker
	}
	if !detailed {
		return label
	}

	parts := []string{label}
	if n.Data.Description != "" {
		parts = append(parts, n.Data.Description)
	}
	if n.Data.PageNumber != nil {
		parts = append(parts, fmt.Sprintf("page %d", *n.Data.PageNumber))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n engine.RenderNode, label string) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("pos=\"%s,%s!\"", fmtCoord(n.Position.X), fmtCoord(-n.Position.Y)),
	}
	if n.Data.ChildrenCollapsed && n.Data.HasChildren {
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

func fmtCoord(v float64) string {
	if v == 0 {
		v = 0 // normalise -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders DOT source to SVG with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's fixed pt size with a scalable root.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
