package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/arenakit/arena/alloc"
)

const splitAndMerge = `
name: split-and-merge
arena:
  blocks: 1
steps:
  - {op: report, expect: 65520}
  - {op: alloc, name: a, size: 20, expect: 16}
  - {op: report, expect: 65488}
  - {op: check}
  - {op: free, name: a}
  - {op: report, expect: 65520}
  - {op: check}
`

func runScript(t *testing.T, s *Script) (*Result, error) {
	t.Helper()
	return Run(context.Background(), s, alloc.New(s.NewMemory()))
}

func Test_Parse_Valid(t *testing.T) {
	s, err := Parse([]byte(splitAndMerge))
	require.NoError(t, err)
	require.Equal(t, "split-and-merge", s.Name)
	require.Equal(t, uint32(1), s.Arena.Blocks)
	require.Len(t, s.Steps, 7)
	require.Equal(t, Step{Op: OpAlloc, Name: "a", Size: 20, Expect: U32(16)}, s.Steps[1])
}

func Test_Parse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown op", "steps: [{op: realloc}]"},
		{"free unbound", "steps: [{op: free, name: x}]"},
		{"free without name", "steps: [{op: free}]"},
		{"double bind", "steps: [{op: alloc, name: x}, {op: alloc, name: x}]"},
		{"double free", "steps: [{op: alloc, name: x}, {op: free, name: x}, {op: free, name: x}]"},
		{"fail with expect", "steps: [{op: alloc, fail: true, expect: 16}]"},
		{"fail with may_fail", "steps: [{op: alloc, name: x, fail: true, may_fail: true}]"},
		{"not yaml", "steps: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func Test_Parse_RebindAfterFree(t *testing.T) {
	_, err := Parse([]byte("steps: [{op: alloc, name: x}, {op: free, name: x}, {op: alloc, name: x}]"))
	require.NoError(t, err)
}

func Test_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(splitAndMerge), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "split-and-merge", s.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func Test_Run_SplitAndMerge(t *testing.T) {
	s, err := Parse([]byte(splitAndMerge))
	require.NoError(t, err)

	res, err := runScript(t, s)
	require.NoError(t, err)
	require.Len(t, res.Steps, 7)
	require.Equal(t, uint32(16), res.Steps[1].Offset)
	require.Equal(t, uint32(65488), res.Steps[1].Free)
	require.Equal(t, uint32(65520), res.Free)
	require.Equal(t, uint32(65536), res.Arena)
	require.Zero(t, res.Live)
	require.Equal(t, 1, res.Stats.AllocCalls)
}

func Test_Run_ExpectationFailure(t *testing.T) {
	s := &Script{
		Arena: Arena{Blocks: 1},
		Steps: []Step{
			{Op: OpAlloc, Name: "a", Size: 8},
			{Op: OpReport, Expect: U32(1)},
			{Op: OpCheck},
		},
	}

	res, err := runScript(t, s)
	require.ErrorIs(t, err, ErrExpectation)
	require.Contains(t, err.Error(), "step 1")
	require.Len(t, res.Steps, 1, "stops at the failing step")
	require.Equal(t, 1, res.Live)
}

func Test_Run_ExpectedFailure(t *testing.T) {
	s := &Script{
		Arena: Arena{Blocks: 1, MaxBlocks: 1},
		Steps: []Step{
			{Op: OpAlloc, Name: "big", Size: 70000, Fail: true},
			{Op: OpAlloc, Size: 8},
			{Op: OpCheck},
		},
	}

	res, err := runScript(t, s)
	require.NoError(t, err)
	require.Zero(t, res.Steps[0].Offset)
	require.Equal(t, 1, res.Live)
	require.Equal(t, 1, res.Stats.AllocFailures)

	s.Steps[0].Fail = false
	_, err = runScript(t, s)
	require.ErrorIs(t, err, ErrExpectation)
}

func Test_Run_MayFail(t *testing.T) {
	s, err := Parse([]byte(`
arena: {blocks: 1, max_blocks: 1}
steps:
  - {op: alloc, name: big, size: 70000, may_fail: true}
  - {op: alloc, name: small, size: 8, may_fail: true}
  - {op: free, name: big}
  - {op: check}
  - {op: free, name: small}
  - {op: alloc, name: big, size: 16}
  - {op: free, name: big}
  - {op: report, expect: 65520}
`))
	require.NoError(t, err)

	res, err := runScript(t, s)
	require.NoError(t, err)
	require.Len(t, res.Steps, 8)
	require.Zero(t, res.Steps[0].Offset)
	require.Equal(t, uint32(16), res.Steps[1].Offset)
	require.True(t, res.Steps[2].Skipped, "big was never bound")
	require.False(t, res.Steps[4].Skipped)
	require.False(t, res.Steps[6].Skipped, "big is bound again by step 5")
	require.Equal(t, 1, res.Stats.AllocFailures)
	require.Equal(t, 2, res.Stats.FreeCalls)
	require.Zero(t, res.Live)
}

func Test_Run_Growth(t *testing.T) {
	s := &Script{
		Arena: Arena{Blocks: 0},
		Steps: []Step{
			{Op: OpReport, Expect: U32(0)},
			{Op: OpAlloc, Name: "a", Size: 20, Expect: U32(16)},
			{Op: OpCheck},
		},
	}

	res, err := runScript(t, s)
	require.NoError(t, err)
	require.Equal(t, uint32(65536), res.Arena)
	require.Equal(t, 1, res.Stats.GrowCalls)
}

func Test_Run_Cancelled(t *testing.T) {
	s, err := Parse([]byte(splitAndMerge))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Run(ctx, s, alloc.New(s.NewMemory()))
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, res.Steps)
}

func Test_Random_Deterministic(t *testing.T) {
	a := Random(7, 300, 2048, Arena{Blocks: 1})
	b := Random(7, 300, 2048, Arena{Blocks: 1})
	require.Equal(t, a, b)
	require.NoError(t, a.Validate())

	c := Random(8, 300, 2048, Arena{Blocks: 1})
	require.NotEqual(t, a.Steps, c.Steps)
}

func Test_Random_RunsClean(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 42} {
		s := Random(seed, 1000, 4096, Arena{Blocks: 1})

		res, err := runScript(t, s)
		require.NoError(t, err, "seed %d", seed)
		require.Zero(t, res.Live)
		require.Equal(t, res.Arena-16, res.Free, "everything merges back into one block")
	}
}

func Test_Random_BlockLimit(t *testing.T) {
	tests := []struct {
		seed    int64
		ops     int
		maxSize uint32
	}{
		{1, 300, 4096},
		{2, 500, 8192},
		{3, 500, 8192},
	}
	for _, tt := range tests {
		s := Random(tt.seed, tt.ops, tt.maxSize, Arena{Blocks: 1, MaxBlocks: 1})
		require.NoError(t, s.Validate())

		res, err := runScript(t, s)
		require.NoError(t, err, "seed %d", tt.seed)
		require.Equal(t, OpCheck, res.Steps[len(res.Steps)-2].Op, "ends with a check")
		require.Positive(t, res.Stats.AllocFailures, "seed %d never hit the limit", tt.seed)
		require.Positive(t, res.Stats.GrowRefused)
		require.Equal(t, uint32(65536), res.Arena)
		require.Zero(t, res.Live)
		require.Equal(t, uint32(65520), res.Free)
	}
}

func Test_Marshal_RoundTrip(t *testing.T) {
	s := Random(3, 50, 512, Arena{Blocks: 2, MaxBlocks: 8})

	data, err := Marshal(s)
	require.NoError(t, err)

	got, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, s, got)
}
