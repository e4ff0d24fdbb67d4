package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/arenakit/internal/logger"
	"github.com/joshuapare/arenakit/internal/scenario"
	"github.com/joshuapare/arenakit/internal/testutil"
)

const splitScript = `
name: split
arena:
  blocks: 1
steps:
  - {op: alloc, name: a, size: 20, expect: 16}
  - {op: report, expect: 65488}
  - {op: free, name: a}
  - {op: check}
`

func TestRunCommand(t *testing.T) {
	tests := []struct {
		name        string
		script      string
		json        bool
		verbose     bool
		metrics     bool
		stats       bool
		wantErr     bool
		wantContain []string
		wantJSON    bool
	}{
		{
			name:        "text summary",
			script:      splitScript,
			wantContain: []string{"Scenario: split", "Steps run:   4", "Free:        64 KiB (65520 bytes)", "Status:      ok"},
		},
		{
			name:        "verbose steps",
			script:      splitScript,
			verbose:     true,
			wantContain: []string{"alloc a", "-> 0x10", "free  a"},
		},
		{
			name:        "stats",
			script:      splitScript,
			stats:       true,
			wantContain: []string{"Allocator Statistics:", "Alloc calls:        1"},
		},
		{
			name:        "metrics",
			script:      splitScript,
			metrics:     true,
			wantContain: []string{"arena_allocator_allocations_total 1", "arena_allocator_free_bytes 65520"},
		},
		{
			name:        "json",
			script:      splitScript,
			json:        true,
			wantJSON:    true,
			wantContain: []string{`"script": "split"`, `"free": 65520`},
		},
		{
			name:        "failed expectation",
			script:      "steps: [{op: alloc, name: a, size: 8}, {op: report, expect: 3}]",
			wantErr:     true,
			wantContain: []string{"Status:      FAILED"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			jsonOut = tt.json
			verbose = tt.verbose
			runMetrics = tt.metrics
			runStats = tt.stats

			path := writeScript(t, tt.script)
			output, err := captureOutput(t, func() error {
				return runRun(context.Background(), []string{path})
			})

			if tt.wantErr {
				require.ErrorIs(t, err, scenario.ErrExpectation)
			} else {
				require.NoError(t, err)
			}
			if tt.wantJSON {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
		})
	}
}

func TestRunCommand_MissingScript(t *testing.T) {
	resetFlags(t)

	_, err := captureOutput(t, func() error {
		return runRun(context.Background(), []string{filepath.Join(t.TempDir(), "nope.yaml")})
	})
	require.ErrorContains(t, err, "failed to load scenario")
}

func TestRunCommand_FileArena(t *testing.T) {
	resetFlags(t)
	runFile = filepath.Join(t.TempDir(), "arena.bin")

	path := writeScript(t, `
arena: {blocks: 1}
steps:
  - {op: alloc, name: a, size: 20}
  - {op: alloc, name: big, size: 100000}
  - {op: check}
`)
	_, err := captureOutput(t, func() error {
		return runRun(context.Background(), []string{path})
	})
	require.NoError(t, err)

	info, err := os.Stat(runFile)
	require.NoError(t, err)
	require.Equal(t, int64(3*65536), info.Size(), "the file grew with the arena")
	require.Equal(t, uint32(24), testutil.ReadHeader(t, runFile, 8).Size, "allocated header persisted")
}

func TestSimCommand(t *testing.T) {
	resetFlags(t)
	simSeed, simOps, simMaxSize = 42, 500, 2048
	simStats = true

	output, err := captureOutput(t, func() error {
		return runSim(context.Background())
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"Scenario: random-42", "Live blocks: 0", "Status:      ok", "Coalesce fwd:"})
}

func TestSimCommand_BlockLimit(t *testing.T) {
	resetFlags(t)
	simSeed, simOps, simMaxSize = 1, 300, 4096
	simMaxBlocks = 1
	simStats = true

	output, err := captureOutput(t, func() error {
		return runSim(context.Background())
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"Status:      ok", "Live blocks: 0"})
}

func TestSimCommand_Emit(t *testing.T) {
	resetFlags(t)
	simSeed, simOps = 9, 100
	simEmit = filepath.Join(t.TempDir(), "sim.yaml")

	output, err := captureOutput(t, func() error {
		return runSim(context.Background())
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"Wrote", simEmit})

	s, err := scenario.Load(simEmit)
	require.NoError(t, err)
	require.Equal(t, scenario.Random(9, 100, 4096, scenario.Arena{Blocks: 1}), s)
}

func TestLayoutCommand(t *testing.T) {
	resetFlags(t)

	output, err := captureOutput(t, runLayout)
	require.NoError(t, err)
	assertContains(t, output, []string{"Header:         8 bytes", "Growth block:   64 KiB", "First block:    0x8"})

	jsonOut = true
	output, err = captureOutput(t, runLayout)
	require.NoError(t, err)
	assertJSON(t, output)
	assertContains(t, output, []string{`"block_size": 65536`})
}

func TestInitLogging(t *testing.T) {
	resetFlags(t)
	t.Cleanup(func() { _, _ = logger.Init(logger.Options{}) })
	logDir = t.TempDir()

	require.NoError(t, initLogging(nil, nil))
	require.NotNil(t, logCloser)
	require.NoError(t, logCloser.Close())

	entries, err := os.ReadDir(logDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestVersionCommand(t *testing.T) {
	resetFlags(t)
	require.Equal(t, version, rootCmd.Version, "--version and the version command agree")

	output, err := captureOutput(t, runVersion)
	require.NoError(t, err)
	assertContains(t, output, []string{"arenactl " + version, runtime.Version()})

	jsonOut = true
	output, err = captureOutput(t, runVersion)
	require.NoError(t, err)
	assertJSON(t, output)
	assertContains(t, output, []string{`"version": "` + version + `"`, `"commit": "none"`})
}

func TestRootCommand_ErrorPrintedOnce(t *testing.T) {
	resetFlags(t)
	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"run", filepath.Join(t.TempDir(), "nope.yaml")})
	t.Cleanup(func() {
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	_, err := captureOutput(t, func() error {
		return rootCmd.ExecuteContext(context.Background())
	})
	require.ErrorContains(t, err, "failed to load scenario")
	require.Empty(t, stderr.String(), "the error is left to execute to print")
}
