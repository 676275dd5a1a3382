package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "octopus",
		Short:         "Octopus orchestrates containerized service deploys and their test suites",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug-level logging")

	cmd.AddCommand(newRunCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newPlanCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func logLevel(flags *rootFlags) string {
	if flags.verbose {
		return "debug"
	}
	return "info"
}
