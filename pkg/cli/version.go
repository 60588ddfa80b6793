package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/updater"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/version"
)

// newChecker is replaced in tests.
var newChecker = updater.NewChecker

func newVersionCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, version.String())
			if !check {
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), updater.DefaultTimeout)
			defer cancel()
			tag, url, err := newChecker().CheckForUpdates(ctx)
			if err != nil {
				return fmt.Errorf("update check failed: %w", err)
			}
			if tag == "" {
				fmt.Fprintln(out, "You are on the latest release.")
				return nil
			}
			fmt.Fprintf(out, "A newer release is available: %s\n%s\n", tag, url)
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check for a newer release")
	return cmd
}
