package alloc

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/arenakit/arena"
)

func Test_Metrics_Counters(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := NewMetrics(reg)
	a := New(arena.NewBuffer(1, 2), WithMetrics(m))

	p := a.Allocate(20)
	a.Free(p)
	require.NotEqual(t, Null, a.Allocate(BlockSize-8), "grows by one block and merges backwards")
	require.Equal(t, Null, a.Allocate(4*BlockSize))
	a.Free(Null)

	require.Equal(t, 2.0, testutil.ToFloat64(m.allocations))
	require.Equal(t, 1.0, testutil.ToFloat64(m.frees))
	require.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues(reasonGrowRefused)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.grows))
	require.Equal(t, float64(BlockSize), testutil.ToFloat64(m.grownBytes))
	require.Equal(t, 2.0, testutil.ToFloat64(m.splits))
	require.Equal(t, 1.0, testutil.ToFloat64(m.coalesces.WithLabelValues(directionForward)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.coalesces.WithLabelValues(directionBackward)))
	require.Equal(t, float64(a.ReportFree()), testutil.ToFloat64(m.freeBytes))
	require.Equal(t, float64(2*BlockSize), testutil.ToFloat64(m.arenaBytes))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Positive(t, n)
}

func Test_Metrics_TooLarge(t *testing.T) {
	m := NewMetrics(nil)
	a := New(arena.NewBuffer(1, 0), WithMetrics(m))

	require.Equal(t, Null, a.Allocate(^uint32(0)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues(reasonTooLarge)))
	require.Equal(t, float64(BlockSize), testutil.ToFloat64(m.arenaBytes))
}
