package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/iceberg/internal/app"
)

func (c *CLI) newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Issue a bearer token for the jwt identity mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ttl, _ := cmd.Flags().GetDuration("ttl")

			return c.app.Token(cmd.Context(), app.TokenOptions{
				ConfigPath: configPath(cmd),
				Subject:    args[0],
				TTL:        ttl,
			})
		},
	}
	cmd.Flags().Duration("ttl", 0, "Token lifetime (default identity.token_ttl)")
	return cmd
}
