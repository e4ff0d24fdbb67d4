// Package dirty tracks which parts of a file-backed arena the allocator has
// modified, so they can be made durable without syncing the whole file.
//
// # Overview
//
// The allocator writes block headers in place. When the arena is an
// *arena.File, every such write is reported to a Tracker:
//
//	f, _ := arena.Create("heap.arena", 1, 0)
//	dt := dirty.NewTracker(f)
//	a := alloc.New(f, alloc.WithDirtyTracker(dt))
//
//	off := a.Allocate(128)
//	// ... write the payload, then report it too:
//	dt.Add(int(off), 128)
//
//	_ = dt.Flush(ctx, dirty.FlushFull)
//
// # Page-Level Granularity
//
// Ranges are rounded out to 4KB page boundaries at flush time, sorted, and
// merged, so a burst of small header writes turns into a handful of
// contiguous write-backs:
//
//	Added: [8+8) [40+8) [4100+8) [20480+8)
//	Flushed: [0-0x2000) [0x5000-0x6000)
//
// # Thread Safety
//
// Tracker instances are not thread-safe, matching the allocator.
package dirty
