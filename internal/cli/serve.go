package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/causaltower/internal/api"
)

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		maxNodes int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve queries over HTTP",
		Long: `Serve answers queries over HTTP with the same pipeline and cache as the
command line. Set cache.backend = "redis" in the config file to share
answers between several servers.

  GET  /healthz
  POST /v1/query    {"graph": "...", "kind": "identify", "x": ["X"], "y": ["Y"]}
  POST /v1/render   {"graph": "...", "format": "svg"}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Serve.Addr
			}
			if !cmd.Flags().Changed("max-nodes") {
				maxNodes = c.Config.Serve.MaxNodes
			}

			runner, err := c.newRunner(cmd.Context())
			if err != nil {
				return err
			}
			defer runner.Close()

			logger := loggerFromContext(cmd.Context())
			srv := api.New(runner, logger, api.Options{MaxNodes: maxNodes})
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", 0, "reject larger graphs (negative disables)")
	return cmd
}
