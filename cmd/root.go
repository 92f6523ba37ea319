// Package cmd implements the tapctl command tree.
package cmd

import (
	"context"

	"github.com/grovetools/tapview/cli"
	"github.com/grovetools/tapview/pkg/profiling"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the full tapctl command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := cli.NewStandardCommand(
		"tapctl",
		"Inspect and manage the state of a captured-traffic analysis backend",
	)

	profiler := profiling.NewCobraProfiler()
	profiler.AddFlags(rootCmd)
	rootCmd.PersistentPreRunE = profiler.PreRun
	rootCmd.PersistentPostRun = profiler.PostRun

	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newPcapsCmd())
	rootCmd.AddCommand(newStreamsCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newTagsCmd())
	rootCmd.AddCommand(newMarkCmd())
	rootCmd.AddCommand(newConvertersCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newPcapOverIPCmd())
	rootCmd.AddCommand(cli.NewVersionCommand("tapctl"))

	return rootCmd
}

// Execute runs tapctl with os.Args and reports any error on stderr.
func Execute(ctx context.Context) error {
	executed, err := NewRootCmd().ExecuteContextC(ctx)
	if err != nil {
		return report(executed, err)
	}
	return nil
}
