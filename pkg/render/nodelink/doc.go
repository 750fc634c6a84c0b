// Package nodelink renders ADMGs as node-link diagrams.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Drawing Conventions
//
// Directed edges are solid arrows. Bidirected edges (hidden common causes)
// are dashed with an arrowhead at both ends, drawn once per pair and excluded
// from rank computation so the causal order reads top to bottom.
//
// [Options].Treatment and [Options].Outcome shade the nodes of a causal
// query so the diagram can accompany an identification result.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
