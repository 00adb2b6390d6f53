package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/iceberg/internal/app"
)

func (c *CLI) newMutateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mutate <procedure> [input]",
		Short: "Call a mutation",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Mutate(cmd.Context(), app.MutateOptions{
				ConfigPath: configPath(cmd),
				Remote:     remote(cmd),
				Procedure:  args[0],
				Input:      optionalArg(args, 1),
			})
		},
	}
	addRemoteFlags(cmd)
	return cmd
}
