// Package arena provides the byte regions an allocator manages and the host
// primitives used to grow them.
//
// # Overview
//
// An arena is a single contiguous, byte-addressable region that only ever
// grows, in fixed 64 KiB blocks. Everything in it is addressed by a 32-bit
// offset; offset 0 is reserved as the null sentinel and the first 8 bytes are
// never handed out.
//
// The allocator in arena/alloc never owns memory itself. It asks a Host for
// the current size and for more blocks, and reads and writes block headers
// through Memory.Bytes(). Three implementations are provided:
//
//   - Buffer: an in-memory region backed by a Go slice, with an optional
//     block limit so that growth refusal can be exercised.
//   - File: a file-backed region mapped read-write (mmap on Linux and
//     macOS, an in-memory copy written back on other platforms).
//   - HostFuncs: an adapter for hosts that expose the two primitives as plain
//     callbacks, such as a module runtime's imported functions.
//
// # Growth contract
//
//	Size() uint32             current arena length in bytes
//	Grow(blocks uint32) uint32 new length in bytes, or 0 if refused
//
// A refusal is final for that request; callers must not retry it. After a
// successful Grow the slice returned by Bytes() may have moved, so callers
// must re-fetch it.
//
// # Usage Example
//
//	mem := arena.NewBuffer(1, 16) // one 64 KiB block, at most 16
//	a := alloc.New(mem)
//	off := a.Allocate(20)
//	if off == alloc.Null {
//	    // host refused growth
//	}
//	defer a.Free(off)
package arena
