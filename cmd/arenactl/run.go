package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/arenakit/internal/scenario"
)

var (
	runFile    string
	runMetrics bool
	runStats   bool
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Run a scripted allocator workload",
		Long: `The run command executes a YAML scenario against a fresh arena and reports
the outcome. Steps may carry expectations; the command fails at the first
one that does not hold.

Example:
  arenactl run split.yaml
  arenactl run split.yaml --file /tmp/arena.bin --stats
  arenactl run split.yaml --metrics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), args)
		},
	}

	cmd.Flags().StringVar(&runFile, "file", "", "Run against a file-backed arena at this path")
	cmd.Flags().BoolVar(&runMetrics, "metrics", false, "Print allocator metrics in Prometheus text format")
	cmd.Flags().BoolVar(&runStats, "stats", false, "Print allocator statistics")
	return cmd
}

func runRun(ctx context.Context, args []string) error {
	path := args[0]
	printVerbose("Loading scenario: %s\n", path)

	s, err := scenario.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	return runWorkload(ctx, s, workloadOptions{
		file:    runFile,
		metrics: runMetrics,
		stats:   runStats,
	})
}
