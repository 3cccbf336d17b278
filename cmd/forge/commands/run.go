package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/forge/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [tasks...]",
		Short: "Run specified tasks and their dependencies",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			mode, err := outputMode(cmd)
			if err != nil {
				return err
			}
			return c.app.Run(cmd.Context(), args, app.RunOptions{OutputMode: mode})
		},
	}
	addOutputFlags(cmd)
	return cmd
}
