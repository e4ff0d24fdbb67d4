// Package format describes the on-arena layout used by the allocator: the
// reserved prologue, the block header record, and the alignment and growth
// granularities. Keeping it separate from the allocator lets the verifier
// and tooling decode an arena without pulling in allocator state.
package format

const (
	// NullOffset is the reserved sentinel meaning "no block".
	NullOffset = 0

	// PrologueSize is the number of bytes reserved at the start of the arena
	// so that no real block or payload ever lives at offset 0.
	PrologueSize = 8

	// HeaderSize is the size of a block header.
	// Layout (little-endian):
	//   0x00  next  uint32  offset of the next free block, 0 if last
	//   0x04  size  uint32  payload bytes following the header
	HeaderSize = 8

	// HeaderNextOffset is the offset of the next field within a header.
	HeaderNextOffset = 0x00

	// HeaderSizeOffset is the offset of the size field within a header.
	HeaderSizeOffset = 0x04

	// Alignment is the minimum alignment of every payload offset.
	Alignment = 8

	// AlignmentMask is Alignment-1, used for round-up arithmetic.
	AlignmentMask = Alignment - 1

	// BlockSize is the granularity in which the host grows the arena.
	BlockSize = 65536

	// BlockSizeMask is BlockSize-1.
	BlockSizeMask = BlockSize - 1

	// MaxArenaSize is the largest arena addressable with 32-bit offsets.
	MaxArenaSize = 1<<32 - 1

	// FirstBlockOffset is where lazy initialization places the first block.
	FirstBlockOffset = PrologueSize

	// MinArenaSize is the smallest arena that can hold the first block header.
	MinArenaSize = PrologueSize + HeaderSize
)
