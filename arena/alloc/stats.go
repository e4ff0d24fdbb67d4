package alloc

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// Stats holds allocator counters. FreeBytes is maintained incrementally and
// always equals ReportFree.
type Stats struct {
	AllocCalls       int    // Total Allocate() calls
	AllocFastPath    int    // Allocations that succeeded without growth
	AllocSlowPath    int    // Allocations that required growth
	AllocFailures    int    // Allocations that returned Null
	FreeCalls        int    // Free() calls with a non-null offset
	NullFrees        int    // Free(Null) calls
	GrowCalls        int    // Growth requests sent to the host
	GrowRefused      int    // Growth requests the host refused
	GrowBytes        int64  // Total bytes added by growth
	SplitCount       int    // Blocks split on allocation
	ExactCount       int    // Blocks handed out whole
	CoalesceForward  int    // Merges with the following free block
	CoalesceBackward int    // Merges with the preceding free block
	BytesAllocated   int64  // Total padded bytes handed out
	BytesFreed       int64  // Total payload bytes returned
	LiveBlocks       int    // Allocated blocks not yet freed
	FreeBytes        uint32 // Payload bytes currently on the free list
}

// GetStats returns a copy of the allocator counters.
func (a *FirstFit) GetStats() Stats {
	return a.stats
}

// WriteStats prints s in a human-readable table.
func WriteStats(w io.Writer, s Stats) {
	fmt.Fprintf(w, "Alloc calls:        %d (fast: %d, slow: %d, failed: %d)\n",
		s.AllocCalls, s.AllocFastPath, s.AllocSlowPath, s.AllocFailures)
	fmt.Fprintf(w, "Free calls:         %d (null: %d)\n", s.FreeCalls, s.NullFrees)
	fmt.Fprintf(w, "Live blocks:        %d\n", s.LiveBlocks)
	fmt.Fprintf(w, "Grow calls:         %d (%s added, %d refused)\n",
		s.GrowCalls, humanize.IBytes(uint64(s.GrowBytes)), s.GrowRefused)
	fmt.Fprintf(w, "Bytes allocated:    %s\n", humanize.IBytes(uint64(s.BytesAllocated)))
	fmt.Fprintf(w, "Bytes freed:        %s\n", humanize.IBytes(uint64(s.BytesFreed)))
	fmt.Fprintf(w, "Free bytes:         %s\n", humanize.IBytes(uint64(s.FreeBytes)))
	fmt.Fprintf(w, "Splits:             %d (whole: %d)\n", s.SplitCount, s.ExactCount)
	fmt.Fprintf(w, "Coalesce fwd:       %d\n", s.CoalesceForward)
	fmt.Fprintf(w, "Coalesce back:      %d\n", s.CoalesceBackward)
}
