package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/joshuapare/arenakit/arena"
	"github.com/joshuapare/arenakit/arena/alloc"
	"github.com/joshuapare/arenakit/arena/dirty"
	"github.com/joshuapare/arenakit/internal/logger"
	"github.com/joshuapare/arenakit/internal/scenario"
)

// workloadOptions selects the arena and outputs for a run.
type workloadOptions struct {
	file    string // File-backed arena path; in-memory when empty
	metrics bool   // Print Prometheus text exposition after the run
	stats   bool   // Print allocator counters after the run
}

// runWorkload executes s and prints its outcome. A failed expectation is
// reported and then returned, so the command exits non-zero.
func runWorkload(ctx context.Context, s *scenario.Script, opts workloadOptions) error {
	reg := prometheus.NewRegistry()
	allocOpts := []alloc.Option{
		alloc.WithLogger(logger.L),
		alloc.WithMetrics(alloc.NewMetrics(reg)),
	}

	var (
		mem arena.Memory
		dt  *dirty.Tracker
	)
	if opts.file != "" {
		f, err := arena.Create(opts.file, s.Arena.Blocks, s.Arena.MaxBlocks)
		if err != nil {
			return fmt.Errorf("failed to create arena file: %w", err)
		}
		defer f.Close()

		dt = dirty.NewTracker(f)
		allocOpts = append(allocOpts, alloc.WithDirtyTracker(dt))
		mem = f
		printVerbose("Arena file: %s (%d blocks)\n", opts.file, f.Blocks())
	} else {
		mem = s.NewMemory()
	}

	a := alloc.New(mem, allocOpts...)
	res, runErr := scenario.Run(ctx, s, a)

	if dt != nil {
		if err := dt.Flush(ctx, dirty.FlushFull); err != nil {
			return errors.Join(runErr, fmt.Errorf("failed to flush arena file: %w", err))
		}
		printVerbose("Flushed %d dirty range(s)\n", dt.Flushes())
	}

	if err := printResult(res, runErr, opts); err != nil {
		return err
	}
	if opts.metrics {
		if err := printMetrics(reg); err != nil {
			return err
		}
	}
	return runErr
}

// runOutput is the JSON form of a run.
type runOutput struct {
	*scenario.Result
	Error string `json:"error,omitempty"`
}

func printResult(res *scenario.Result, runErr error, opts workloadOptions) error {
	if jsonOut {
		out := runOutput{Result: res}
		if runErr != nil {
			out.Error = runErr.Error()
		}
		return printJSON(out)
	}

	for _, st := range res.Steps {
		switch st.Op {
		case scenario.OpAlloc:
			printVerbose("  [%d] alloc %-8s %6d bytes -> 0x%X (free %d)\n", st.Index, st.Name, st.Size, st.Offset, st.Free)
		case scenario.OpFree:
			if st.Skipped {
				printVerbose("  [%d] free  %-8s skipped, never allocated\n", st.Index, st.Name)
				continue
			}
			printVerbose("  [%d] free  %-8s 0x%X (free %d)\n", st.Index, st.Name, st.Offset, st.Free)
		default:
			printVerbose("  [%d] %-5s (free %d)\n", st.Index, st.Op, st.Free)
		}
	}

	name := res.Script
	if name == "" {
		name = "(unnamed)"
	}
	status := "ok"
	if runErr != nil {
		status = "FAILED"
	}

	printInfo("\nScenario: %s\n", name)
	printInfo("  Steps run:   %d\n", len(res.Steps))
	printInfo("  Arena:       %s\n", humanize.IBytes(uint64(res.Arena)))
	printInfo("  Free:        %s (%d bytes)\n", humanize.IBytes(uint64(res.Free)), res.Free)
	printInfo("  Live blocks: %d\n", res.Live)
	printInfo("  Status:      %s\n", status)

	if opts.stats && !quiet {
		printInfo("\nAllocator Statistics:\n")
		alloc.WriteStats(os.Stdout, res.Stats)
	}
	return nil
}

func printMetrics(g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(os.Stdout, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}
