// Package cli exposes the engine's command surface: analyze a named tool,
// assess the risk of a literal command string, and inspect the cache and
// history behind them.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"cliscope/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	root := &cobra.Command{
		Use:   "cliscope",
		Short: "cliscope - CLI introspection engine",
		Long: "cliscope infers the invocation syntax of command-line tools by probing\n" +
			"their completion output, framework fingerprints and help text, and caches\n" +
			"the result keyed by the tool's own version.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newAnalyzeCommand(container))
	root.AddCommand(newRiskCommand(container))
	root.AddCommand(newCacheCommand(container))
	root.AddCommand(newHistoryCommand(container))
	root.AddCommand(newVersionCommand())
	return root, nil
}
