package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/core/domain"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the project, skipping work when nothing changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := outputMode(cmd)
			if err != nil {
				return err
			}
			target, _ := cmd.Flags().GetString("target")
			noCache, _ := cmd.Flags().GetBool("no-cache")

			return c.app.Build(cmd.Context(), app.BuildOptions{
				Target:     target,
				NoCache:    noCache,
				OutputMode: mode,
			})
		},
	}
	cmd.Flags().StringP("target", "t", domain.TaskBuild, "Task to bring up to date")
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the build cache and force execution")
	addOutputFlags(cmd)
	return cmd
}
