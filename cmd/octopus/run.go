package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linview/octopus/internal/dsl"
	"github.com/linview/octopus/internal/engine"
	"github.com/linview/octopus/internal/graph"
	"github.com/linview/octopus/internal/logger"
	"github.com/linview/octopus/internal/runtime"
	"github.com/linview/octopus/internal/subproc"
)

// Exit codes (spec.md §6.4): 0 all nodes succeeded, 1 one or more nodes
// failed/skipped, 2 configuration load failure.
const (
	exitSuccess    = 0
	exitNodeFailed = 1
	exitLoadFailed = 2
)

func newRunCmd(root *rootFlags) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load a configuration, execute its plan, and report node results",
		RunE: func(cmd *cobra.Command, args []string) error {
			os.Exit(runRun(cmd, configPath, root))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the configuration document")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func runRun(cmd *cobra.Command, configPath string, root *rootFlags) int {
	log, err := logger.New(logger.Options{Level: logLevel(root), Component: "octopus"})
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return exitLoadFailed
	}

	ctx := logger.WithRunID(context.Background(), logger.NewRunID())

	cfg, err := dsl.Load(configPath)
	if err != nil {
		log.Error(ctx, "failed to load configuration", "error", err.Error())
		return exitLoadFailed
	}

	mgr, err := graph.NewManager(cfg, log)
	if err != nil {
		log.Error(ctx, "failed to build graph", "error", err.Error())
		return exitLoadFailed
	}

	// The concrete container-runtime adapter is out of scope (spec.md §1);
	// only the in-memory fake ships, so `run` drives the plan against it
	// until a real daemon adapter is wired in.
	eng := engine.NewEngine(cfg, mgr, runtime.NewFakeRuntime(), subproc.NewShellLauncher(), log)

	ok, err := eng.Execute(ctx)
	if err != nil {
		log.Error(ctx, "execution failed", "error", err.Error())
		return exitLoadFailed
	}

	printSummary(cmd, eng)
	if !ok {
		return exitNodeFailed
	}
	return exitSuccess
}

func printSummary(cmd *cobra.Command, eng *engine.Engine) {
	out := cmd.OutOrStdout()
	for _, name := range eng.Plan() {
		node := eng.Nodes()[name]
		fmt.Fprintf(out, "%-24s %-8s %s\n", node.Name, node.Kind, node.Status)
		if node.Err != nil {
			fmt.Fprintf(out, "  %v\n", node.Err)
		}
	}
}
