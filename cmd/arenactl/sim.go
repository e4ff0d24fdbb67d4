package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/arenakit/internal/scenario"
)

var (
	simSeed      int64
	simOps       int
	simMaxSize   uint32
	simBlocks    uint32
	simMaxBlocks uint32
	simEmit      string
	simStats     bool
)

func init() {
	rootCmd.AddCommand(newSimCmd())
}

func newSimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Stress the allocator with a random workload",
		Long: `The sim command generates a random alloc/free workload from a seed, runs it
with periodic invariant checks, and frees everything at the end. The same
seed always produces the same workload; --emit saves it as a script instead
of running it.

Example:
  arenactl sim --seed 42 --ops 10000
  arenactl sim --seed 7 --emit workload.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSim(cmd.Context())
		},
	}

	cmd.Flags().Int64Var(&simSeed, "seed", 1, "Random seed")
	cmd.Flags().IntVar(&simOps, "ops", 1000, "Number of generated steps")
	cmd.Flags().Uint32Var(&simMaxSize, "max-size", 4096, "Largest allocation request in bytes")
	cmd.Flags().Uint32Var(&simBlocks, "blocks", 1, "Initial arena size in 64 KiB blocks")
	cmd.Flags().Uint32Var(&simMaxBlocks, "max-blocks", 0, "Arena size limit in blocks (0 = unlimited)")
	cmd.Flags().StringVar(&simEmit, "emit", "", "Write the generated script to this path instead of running it")
	cmd.Flags().BoolVar(&simStats, "stats", false, "Print allocator statistics")
	return cmd
}

func runSim(ctx context.Context) error {
	if simOps < 0 {
		return fmt.Errorf("--ops must not be negative")
	}

	s := scenario.Random(simSeed, simOps, simMaxSize, scenario.Arena{
		Blocks:    simBlocks,
		MaxBlocks: simMaxBlocks,
	})
	printVerbose("Generated %d steps from seed %d\n", len(s.Steps), simSeed)

	if simEmit != "" {
		data, err := scenario.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to encode scenario: %w", err)
		}
		if err := os.WriteFile(simEmit, data, 0o644); err != nil {
			return fmt.Errorf("failed to write scenario: %w", err)
		}
		printInfo("Wrote %d steps to %s\n", len(s.Steps), simEmit)
		return nil
	}

	return runWorkload(ctx, s, workloadOptions{stats: simStats})
}
