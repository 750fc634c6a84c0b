package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/causaltower/pkg/grapl"
	graphio "github.com/matzehuels/causaltower/pkg/io"
	"github.com/matzehuels/causaltower/pkg/pipeline"
)

// convertCommand converts a graph between GRAPL and JSON. Formats are taken
// from the file extensions.
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a graph between GRAPL and JSON",
		Example: `  causaltower convert frontdoor.grapl frontdoor.json
  causaltower convert frontdoor.json frontdoor.grapl`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]
			g, err := pipeline.LoadGraph(in)
			if err != nil {
				return err
			}

			switch pipeline.DetectSource(out) {
			case pipeline.SourceJSON:
				err = graphio.ExportJSON(g, out)
			default:
				err = grapl.WriteFile(out, g)
			}
			if err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			loggerFromContext(cmd.Context()).Debug("converted", "from", in, "to", out)
			printSuccess("Converted %s", in)
			printFile(out)
			printNextStep("Inspect it", appName+" info "+out)
			return nil
		},
	}
}
