package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"cliscope/internal/app"
	"cliscope/internal/application/analyze"
	"cliscope/internal/domain"
)

func newAnalyzeCommand(container *app.Container) *cobra.Command {
	var (
		asJSON  bool
		refresh bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "analyze <tool>",
		Short: "Analyze a command-line tool's invocation syntax",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			result, err := container.AnalyzeService.Analyze(ctx, analyze.Request{
				Tool:    args[0],
				Refresh: refresh,
			})
			if err != nil {
				if errors.Is(err, domain.ErrToolNotFound) || errors.Is(err, domain.ErrInvalidToolName) {
					fmt.Fprintln(os.Stderr, err)
					return err
				}
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result.Record)
			}
			RenderRecord(cmd.OutOrStdout(), result.Record, result.CacheHit)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the raw analysis record as JSON")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the cache read (the fresh record is still stored)")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Overall analysis deadline")
	return cmd
}
