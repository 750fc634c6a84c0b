package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/causaltower/pkg/admg"
	"github.com/matzehuels/causaltower/pkg/nodeset"
	"github.com/matzehuels/causaltower/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes node properties in labels.
	// When false, only the node name is shown.
	Detailed bool

	// Treatment and Outcome are shaded when non-empty.
	Treatment nodeset.Set
	Outcome   nodeset.Set
}

const (
	treatmentFill = "#fde2b8"
	outcomeFill   = "#cfe5fb"
	bidirectColor = "#c0392b"
)

// ToDOT converts an ADMG to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(g *admg.ADMG, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if g.Title() != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=28;\n", g.Title())
	}
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, name := range g.Names() {
		n, _ := g.Node(name)
		attrs := fmtAttrs(name, fmtLabel(n, opts.Detailed), opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.DirectedEdges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}
	for _, e := range g.BidirectedEdges() {
		fmt.Fprintf(&buf, "  %q -> %q [dir=both, style=dashed, color=%q, constraint=false];\n",
			e.From, e.To, bidirectColor)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *admg.Node, detailed bool) string {
	if !detailed || len(n.Properties) == 0 {
		return n.Name
	}
	var parts []string
	for _, k := range slices.Sorted(maps.Keys(n.Properties)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Properties[k]))
	}
	return n.Name + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(name, label string, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case opts.Treatment.Has(name):
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", treatmentFill), "shape=box")
	case opts.Outcome.Has(name):
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", outcomeFill), "peripheries=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

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

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
