package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"cliscope/internal/app"
)

func newCacheCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the analysis cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List cached analysis records",
		RunE: func(cmd *cobra.Command, args []string) error {
			RenderCacheEntries(cmd.OutOrStdout(), container.CacheStore.Entries())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every cached record",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.CacheStore.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the cache file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), container.CacheStore.Path())
			return nil
		},
	})

	return cmd
}
