package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/iceberg/internal/app"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo procedures over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			prefix, _ := cmd.Flags().GetString("prefix")
			strategy, _ := cmd.Flags().GetString("strategy")

			return c.app.Serve(cmd.Context(), app.ServeOptions{
				ConfigPath: configPath(cmd),
				Addr:       addr,
				Prefix:     prefix,
				Strategy:   strategy,
			})
		},
	}
	cmd.Flags().StringP("addr", "a", "", "Listen address (overrides server.addr)")
	cmd.Flags().String("prefix", "", "Route prefix (overrides server.prefix)")
	cmd.Flags().StringP("strategy", "s", "", "Diff strategy: basic or advanced (overrides diff.strategy)")
	return cmd
}
