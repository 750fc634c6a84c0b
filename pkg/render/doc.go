// Package render converts graph drawings between output formats.
//
// The [nodelink] subpackage draws an ADMG as a Graphviz diagram and returns
// SVG. [ToPDF] and [ToPNG] turn that SVG into the other formats using the
// external rsvg-convert tool (from librsvg):
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [nodelink]: github.com/matzehuels/causaltower/pkg/render/nodelink
package render
