// Package alloc implements a first-fit free-list allocator over an arena it
// does not own.
//
// # Overview
//
// The allocator manages a single growable byte region (see package arena)
// entirely through 32-bit offsets. Offset 0 is the null sentinel and the
// first 8 bytes of the arena are a reserved prologue, so every real block and
// payload offset is non-zero.
//
// Every block starts with an 8-byte header:
//
//	0x00  next  uint32  next free block in address order (0 = last)
//	0x04  size  uint32  payload bytes after the header
//
// Free blocks form a singly linked list threaded through these headers and
// kept in strictly ascending address order. That ordering is what makes
// coalescing a comparison instead of a search: a freed block merges with its
// successor when its end equals the successor's offset, and with its
// predecessor when the predecessor's end equals its own offset.
//
// # Operations
//
//   - Allocate(n): pad n to 8, take the first block that fits, split off the
//     remainder. Grows the arena once and retries when nothing fits.
//     Returns Null when the host refuses growth.
//   - Free(off): return a block to the list, merging with neighbours.
//     Free(Null) is a no-op.
//   - ReportFree(): sum of payload sizes of all free blocks.
//
// Alloc is the error-returning variant of Allocate for Go callers that want
// to know why an allocation failed.
//
// # Lazy Initialization
//
// Nothing touches the arena until the first call to any operation. At that
// point the allocator asks the host for the current size and carves one free
// block from offset 8 to the end of the arena.
//
// # Growth
//
// When no block fits, the allocator asks the host for enough 64 KiB blocks to
// cover the request plus its header. The new region becomes a free block that
// is released exactly as Free would release it, so it merges with a free
// block at the old end of the arena. The search is then retried exactly once.
//
// # Hazards
//
// The allocator does not detect freeing an offset it never returned, freeing
// twice, or use from more than one goroutine. All three corrupt the free list.
// Use package verify to audit a quiescent arena in tests and tooling.
//
// # Usage Example
//
//	mem := arena.NewBuffer(1, 0)
//	a := alloc.New(mem)
//
//	off, payload, err := a.Alloc(64)
//	if err != nil {
//	    return err
//	}
//	binary.LittleEndian.PutUint32(payload, 42)
//
//	a.Free(off)
package alloc
