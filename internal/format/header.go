package format

import (
	"fmt"

	"github.com/joshuapare/arenakit/internal/buf"
)

// Header is a decoded block header.
//
// A block occupies [Offset, Offset+HeaderSize+Size). Its payload starts at
// Offset+HeaderSize, which is the value handed to callers of the allocator.
type Header struct {
	Offset uint32 // Offset of the header itself
	Next   uint32 // Next free block in address order, 0 if last or allocated
	Size   uint32 // Payload bytes after the header
}

// Payload returns the payload offset of the block.
func (h Header) Payload() uint32 {
	return h.Offset + HeaderSize
}

// End returns the offset one past the last payload byte of the block.
func (h Header) End() uint64 {
	return uint64(h.Offset) + HeaderSize + uint64(h.Size)
}

// ParseHeader decodes the header at off. It validates that the header itself
// fits in b and that off is neither the null sentinel nor misaligned; it does
// not check that the payload fits, since callers differ on how to report that.
func ParseHeader(b []byte, off uint32) (Header, error) {
	if off == NullOffset {
		return Header{}, fmt.Errorf("header: %w", ErrNullOffset)
	}
	if off&AlignmentMask != 0 {
		return Header{}, fmt.Errorf("header at 0x%X: %w", off, ErrMisaligned)
	}
	raw, ok := buf.Slice(b, int(off), HeaderSize)
	if !ok {
		return Header{}, fmt.Errorf("header at 0x%X: %w", off, ErrTruncated)
	}
	return Header{
		Offset: off,
		Next:   buf.U32LE(raw[HeaderNextOffset:]),
		Size:   buf.U32LE(raw[HeaderSizeOffset:]),
	}, nil
}

// PutHeader encodes h at h.Offset. The caller guarantees the header fits.
func PutHeader(b []byte, h Header) {
	PutU32(b, int(h.Offset)+HeaderNextOffset, h.Next)
	PutU32(b, int(h.Offset)+HeaderSizeOffset, h.Size)
}

// HeaderFor returns the header offset that precedes payload offset p.
func HeaderFor(p uint32) uint32 {
	return p - HeaderSize
}
