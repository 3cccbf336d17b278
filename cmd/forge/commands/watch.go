package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/forge/internal/adapters/watcher"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/core/domain"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild whenever a source file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, _ := cmd.Flags().GetString("target")
			window, _ := cmd.Flags().GetDuration("debounce")
			return c.app.Watch(cmd.Context(), app.WatchOptions{
				Target: target,
				Window: window,
			})
		},
	}
	cmd.Flags().StringP("target", "t", domain.TaskBuild, "Task to rebuild")
	cmd.Flags().Duration("debounce", watcher.DefaultDebounceWindow, "Quiet period before a rebuild starts")
	return cmd
}
