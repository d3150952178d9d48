package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cliscope/internal/app"
)

func newHistoryCommand(container *app.Container) *cobra.Command {
	var (
		limit  int
		search string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past analysis runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return errors.New("history is disabled in the configuration")
			}
			events, err := container.HistoryStore.Records(limit, search)
			if err != nil {
				return err
			}
			RenderHistory(cmd.OutOrStdout(), events)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by tool name substring")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all analysis history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return errors.New("history is disabled in the configuration")
			}
			if err := container.HistoryStore.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
			return nil
		},
	})

	return cmd
}
