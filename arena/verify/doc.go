// Package verify audits the layout of an arena managed by package alloc.
//
// # Overview
//
// The allocator itself never checks for misuse: freeing a foreign offset or
// freeing twice silently corrupts the free list. This package is the other
// half of that trade. It reads raw arena bytes and reports the first broken
// invariant, so tests and tooling can audit a quiescent arena.
//
// Checks:
//   - FreeList: every free block is aligned, inside the arena, strictly after
//     the previous one, and not adjacent to it (adjacent free blocks should
//     have been merged).
//   - Accounting: free and allocated blocks together with the prologue tile
//     the whole arena with no gaps or overlaps.
//
// # Quick Start
//
//	a := alloc.New(mem)
//	p := a.Allocate(40)
//
//	if err := verify.AllInvariants(mem.Bytes(), a.Head(), []uint32{p}); err != nil {
//	    t.Fatalf("arena corrupt: %v", err)
//	}
//
// # ValidationError
//
// All checks return *ValidationError on failure:
//
//	var verr *verify.ValidationError
//	if errors.As(err, &verr) {
//	    fmt.Printf("%s at 0x%X: %s\n", verr.Type, verr.Offset, verr.Message)
//	}
//
// Offset is -1 when the failure is not tied to one location.
//
// # Limitations
//
// Accounting needs the payload offsets of every live allocation; the arena
// does not record which blocks are allocated. It assumes the host reported
// sizes that are multiples of 8, as every host in package arena does.
package verify
