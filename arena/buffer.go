package arena

import "github.com/joshuapare/arenakit/internal/format"

// Buffer is an in-memory arena backed by a Go slice.
//
// NOT thread-safe.
type Buffer struct {
	data      []byte
	maxBlocks uint32
	grows     int
}

// NewBuffer returns a zeroed arena of blocks × 64 KiB. maxBlocks caps the
// total size in blocks; 0 leaves only the 32-bit offset limit.
func NewBuffer(blocks, maxBlocks uint32) *Buffer {
	size, ok := grownSize(0, blocks, 0)
	if !ok {
		size = format.MaxArenaSize &^ format.BlockSizeMask
	}
	return &Buffer{
		data:      make([]byte, size),
		maxBlocks: maxBlocks,
	}
}

// WrapBuffer adopts data as the initial arena. Its length need not be a
// multiple of the block size, which makes it convenient for small fixtures.
func WrapBuffer(data []byte, maxBlocks uint32) *Buffer {
	return &Buffer{data: data, maxBlocks: maxBlocks}
}

// Size returns the current arena length.
func (b *Buffer) Size() uint32 { return uint32(len(b.data)) }

// Bytes returns the arena contents.
func (b *Buffer) Bytes() []byte { return b.data }

// Grows returns how many successful Grow calls the buffer has served.
func (b *Buffer) Grows() int { return b.grows }

// Grow appends blocks × 64 KiB of zeroed bytes. It returns the new size, or 0
// when the limit would be exceeded.
func (b *Buffer) Grow(blocks uint32) uint32 {
	newSize, ok := grownSize(len(b.data), blocks, b.maxBlocks)
	if !ok {
		return 0
	}
	if newSize == len(b.data) {
		return uint32(newSize)
	}

	// Grow the byte slice (zeros are automatically added)
	newData := make([]byte, newSize)
	copy(newData, b.data)
	b.data = newData
	b.grows++

	return uint32(newSize)
}
