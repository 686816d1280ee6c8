package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bfcheck/pkg/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "bfcheck %s (commit: %s, built: %s)\n",
				version.Version, version.Commit, version.Date)
			if err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			return nil
		},
	}
}
