package cli

import (
	"github.com/spf13/cobra"

	"design2prompt/internal/app"
)

func newMCPCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the canvas to AI agents over MCP (stdio)",
		Long: `Runs a Model Context Protocol server on stdin/stdout. Destructive tools
wait for approval from a running desktop shell sharing the same database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer core.Close(cmd.Context())
			return app.ServeMCP(cmd.Context(), core)
		},
	}
}

func newServeCmd(opts *rootOpts) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer core.Close(cmd.Context())
			if addr == "" {
				addr = core.Config.Server.Addr
			}
			return app.ServeHTTP(cmd.Context(), core, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
