package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linview/octopus/internal/dsl"
	"github.com/linview/octopus/internal/graph"
)

func newValidateCmd(root *rootFlags) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Parse, syntax-check, and semantically validate a configuration document",
		RunE: func(cmd *cobra.Command, args []string) error {
			os.Exit(runValidate(cmd, configPath))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the configuration document")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func runValidate(cmd *cobra.Command, configPath string) int {
	cfg, err := dsl.Load(configPath)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return exitLoadFailed
	}

	if _, err := graph.NewManager(cfg, nil); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return exitLoadFailed
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (%d services, %d tests)\n", configPath, len(cfg.ServiceList()), len(cfg.TestList()))
	return exitSuccess
}
