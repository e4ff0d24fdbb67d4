package arena

import "github.com/joshuapare/arenakit/internal/format"

// Host is the pair of primitives an allocator needs to manage an arena it
// does not own.
type Host interface {
	// Size returns the current arena length in bytes.
	Size() uint32

	// Grow extends the arena by blocks × 64 KiB and returns the new length in
	// bytes, or 0 if the host refuses.
	Grow(blocks uint32) uint32
}

// Memory is a Host whose bytes the allocator can address directly.
type Memory interface {
	Host

	// Bytes returns the whole arena. The slice is only valid until the next
	// successful Grow.
	Bytes() []byte
}

// HostFuncs adapts three callbacks into a Memory. It mirrors hosts that
// expose growth as imported functions rather than as a Go value.
type HostFuncs struct {
	SizeFunc  func() uint32
	GrowFunc  func(blocks uint32) uint32
	BytesFunc func() []byte
}

// Size calls SizeFunc.
func (h HostFuncs) Size() uint32 { return h.SizeFunc() }

// Grow calls GrowFunc, or refuses when it is nil.
func (h HostFuncs) Grow(blocks uint32) uint32 {
	if h.GrowFunc == nil {
		return 0
	}
	return h.GrowFunc(blocks)
}

// Bytes calls BytesFunc.
func (h HostFuncs) Bytes() []byte { return h.BytesFunc() }

// grownSize computes the size after adding blocks to cur, honouring an
// optional total limit in blocks (0 = only the 32-bit offset space). It
// reports false when the growth must be refused.
func grownSize(cur int, blocks, maxBlocks uint32) (int, bool) {
	next := uint64(cur) + uint64(blocks)*format.BlockSize
	limit := uint64(format.MaxArenaSize)
	if maxBlocks > 0 && uint64(maxBlocks)*format.BlockSize < limit {
		limit = uint64(maxBlocks) * format.BlockSize
	}
	if next > limit {
		return 0, false
	}
	return int(next), true
}

var (
	_ Memory = (*Buffer)(nil)
	_ Memory = (*File)(nil)
	_ Memory = HostFuncs{}
)
