package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/arenakit/arena"
	"github.com/joshuapare/arenakit/arena/verify"
)

// Initial free payload of a fresh single-block arena: 65536 - prologue - header.
const freshFree = BlockSize - PrologueSize - HeaderSize

// newFixed returns an allocator over a size-byte arena that can never grow.
func newFixed(t *testing.T, size int) (*FirstFit, *arena.Buffer) {
	t.Helper()
	// A one-block limit refuses any growth of an arena that is not empty.
	mem := arena.WrapBuffer(make([]byte, size), 1)
	return New(mem), mem
}

// requireInvariants audits the arena against the live payload offsets.
func requireInvariants(t *testing.T, a *FirstFit, live ...Offset) {
	t.Helper()
	require.NoError(t, verify.AllInvariants(a.Memory().Bytes(), a.Head(), live))
	require.Equal(t, a.ReportFree(), a.GetStats().FreeBytes, "running free counter drifted")
}

// requireBlocks checks the free list, as (header offset, size) pairs.
func requireBlocks(t *testing.T, a *FirstFit, want ...Block) {
	t.Helper()
	require.Equal(t, want, a.FreeBlocks())
}
