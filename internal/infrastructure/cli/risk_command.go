package cli

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"cliscope/internal/app"
)

func newRiskCommand(container *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "risk <command string>",
		Short: "Assess how dangerous a literal command string is",
		Long: "risk classifies a command string against the dangerous-pattern rules\n" +
			"without executing anything. Quote the command to keep it one argument,\n" +
			"or pass it as multiple words.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verdict := container.Classifier.Classify(strings.Join(args, " "))
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(verdict)
			}
			RenderVerdict(cmd.OutOrStdout(), strings.Join(args, " "), verdict)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the verdict as JSON")
	return cmd
}
