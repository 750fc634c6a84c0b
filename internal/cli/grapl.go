package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/causaltower/pkg/grapl"
	"github.com/matzehuels/causaltower/pkg/pipeline"
)

// graplCommand groups GRAPL source tools.
func (c *CLI) graplCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grapl",
		Short: "Inspect and format GRAPL sources",
	}
	cmd.AddCommand(c.graplTokensCommand())
	cmd.AddCommand(c.graplFmtCommand())
	return cmd
}

// graplTokensCommand dumps the lexer's view of a file, one token per line.
func (c *CLI) graplTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the tokens of a GRAPL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			toks, err := grapl.Tokens(args[0], string(src))
			if err != nil {
				return err
			}
			for _, tok := range toks {
				fmt.Fprintln(cmd.OutOrStdout(), tok)
			}
			return nil
		},
	}
}

// graplFmtCommand prints a file in canonical form: title, sorted
// declarations, then sorted directed and bidirected edges.
func (c *CLI) graplFmtCommand() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Print a graph in canonical GRAPL form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := pipeline.LoadGraph(args[0])
			if err != nil {
				return err
			}
			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), grapl.Marshal(g))
				return err
			}
			if pipeline.DetectSource(args[0]) != pipeline.SourceGRAPL {
				return fmt.Errorf("refusing to overwrite %s with GRAPL", args[0])
			}
			return grapl.WriteFile(args[0], g)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the file in place")
	return cmd
}
