package alloc

import "github.com/joshuapare/arenakit/internal/format"

// Offset is a byte offset into the arena. Payload offsets returned by the
// allocator are always multiples of Alignment.
type Offset = uint32

// Null is the sentinel offset meaning "no block".
const Null Offset = format.NullOffset

// Layout constants. These form the compatibility surface with anything that
// reads or writes the arena directly.
const (
	HeaderSize   = format.HeaderSize
	PrologueSize = format.PrologueSize
	Alignment    = format.Alignment
	BlockSize    = format.BlockSize
)

// maxGrowRetries bounds how many times Allocate grows the arena and searches
// again before giving up.
const maxGrowRetries = 1

// Block describes one block in the arena.
type Block struct {
	Offset Offset // Header offset
	Size   uint32 // Payload size, excluding the header
}

// Payload returns the payload offset of the block.
func (b Block) Payload() Offset { return b.Offset + HeaderSize }

// End returns the offset one past the block's last payload byte.
func (b Block) End() uint64 { return uint64(b.Offset) + HeaderSize + uint64(b.Size) }

// Allocator is the caller-facing surface of an arena allocator.
type Allocator interface {
	// Allocate returns the payload offset of a block of at least n bytes,
	// or Null when the arena cannot grow.
	Allocate(n uint32) Offset

	// Free returns a block obtained from Allocate. Free(Null) is a no-op.
	Free(off Offset)

	// ReportFree returns the total payload bytes across all free blocks.
	ReportFree() uint32
}

// Compile-time interface check
var _ Allocator = (*FirstFit)(nil)
