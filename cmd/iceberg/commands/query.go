package commands

import (
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/iceberg/internal/app"
)

func (c *CLI) newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <procedure> [input]",
		Short: "Call a query and show how much of each response went over the wire",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repeat, _ := cmd.Flags().GetInt("repeat")
			interval, _ := cmd.Flags().GetDuration("interval")

			return c.app.Query(cmd.Context(), app.QueryOptions{
				ConfigPath: configPath(cmd),
				Remote:     remote(cmd),
				Procedure:  args[0],
				Input:      optionalArg(args, 1),
				Repeat:     repeat,
				Interval:   interval,
			})
		},
	}
	addRemoteFlags(cmd)
	cmd.Flags().IntP("repeat", "r", 1, "Number of times to send the query")
	cmd.Flags().DurationP("interval", "i", time.Second, "Pause between repeated queries")
	return cmd
}
