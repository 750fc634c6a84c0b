package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/causaltower/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path; derived from the input when empty
	format   string   // svg, png, pdf or dot
	detailed bool     // label nodes with their relations
	x, y     []string // nodes highlighted as treatment and outcome
	scale    float64  // png scale factor
}

// validRenderFormats is the set of supported render formats.
var validRenderFormats = map[string]bool{
	pipeline.RenderSVG: true,
	pipeline.RenderPNG: true,
	pipeline.RenderPDF: true,
	pipeline.RenderDOT: true,
}

// renderCommand creates the render command for drawing a graph.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: pipeline.RenderSVG, scale: 2}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw a graph as SVG, PNG, PDF or DOT",
		Long: `Render draws the graph as a node-link diagram with Graphviz. Directed
edges are solid arrows; bidirected edges are dashed and double-headed.
Treatment and outcome nodes given with -x and -y are highlighted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "" && !cmd.Flags().Changed("format") {
				if ext := strings.TrimPrefix(filepath.Ext(opts.output), "."); validRenderFormats[ext] {
					opts.format = ext
				}
			}
			if !validRenderFormats[opts.format] {
				return fmt.Errorf("invalid format: %s (must be 'svg', 'png', 'pdf', or 'dot')", opts.format)
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with the format's extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, png, pdf, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with parents, children and bidirected neighbours")
	cmd.Flags().StringSliceVarP(&opts.x, "x", "x", nil, "highlight treatment nodes")
	cmd.Flags().StringSliceVarP(&opts.y, "y", "y", nil, "highlight outcome nodes")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	return cmd
}

// outputPath derives the output file for input when none is given.
func outputPath(output, input, format string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	g, err := pipeline.LoadGraph(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %s: %d nodes", input, g.Len())

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	data, hit, err := runner.Render(ctx, g, pipeline.RenderOptions{
		Format:    opts.format,
		Detailed:  opts.detailed,
		Treatment: opts.x,
		Outcome:   opts.y,
		Scale:     opts.scale,
	})
	if err != nil {
		return err
	}

	out := outputPath(opts.output, input, opts.format)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	prog.done(fmt.Sprintf("Rendered %s", opts.format))
	printSuccess("Rendered %s", input)
	printFile(out)
	printStats(g.Len(), len(g.DirectedEdges())+len(g.BidirectedEdges()), hit)
	return nil
}
