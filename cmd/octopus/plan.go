package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linview/octopus/internal/dsl"
	"github.com/linview/octopus/internal/graph"
)

func newPlanCmd(root *rootFlags) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the execution plan without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			os.Exit(runPlan(cmd, configPath))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the configuration document")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func runPlan(cmd *cobra.Command, configPath string) int {
	cfg, err := dsl.Load(configPath)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return exitLoadFailed
	}

	mgr, err := graph.NewManager(cfg, nil)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return exitLoadFailed
	}

	plan, err := mgr.BuildPlan()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return exitLoadFailed
	}

	out := cmd.OutOrStdout()
	for i, name := range plan {
		kind, _ := mgr.NodeKind(name)
		fmt.Fprintf(out, "%2d. %-24s %s\n", i+1, name, kind)
	}
	return exitSuccess
}
