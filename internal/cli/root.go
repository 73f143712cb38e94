// Package cli implements the crashgate command-line interface using cobra.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "0.1.0-dev"

// Execute runs the root command.
func Execute() error {
	return rootCmd().Execute()
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crashgate",
		Short: "Severity-filtered event forwarder",
		Long: `Crashgate forwards leveled diagnostic events to a remote collector,
filtering by a configured severity threshold and keeping a local
journal of everything it accepts.

Quick start:
  crashgate emit --config crashgate.yaml --level error --message "disk full"
  crashgate check --config crashgate.yaml
  crashgate logs --config crashgate.yaml --last 20`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		emitCmd(),
		checkCmd(),
		logsCmd(),
	)

	return cmd
}
