package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set via -ldflags "-X github.com/woxQAQ/hello-wasm/internal/cli.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "hello %s (commit %s, built %s)\n", version, commit, date)
			return err
		},
	}
}
