package alloc

import (
	"fmt"

	"github.com/joshuapare/arenakit/arena"
	"github.com/joshuapare/arenakit/internal/format"
)

// bridge wraps the host's growth primitives. It holds no state of its own.
type bridge struct {
	host arena.Host
}

// currentSize returns the arena size the host reports right now.
func (b bridge) currentSize() uint32 {
	return b.host.Size()
}

// grow asks the host for blocks more 64 KiB blocks and returns the sizes
// before and after. A refusal is returned as ErrGrowRefused and is never
// retried here. Requests that would overflow the 32-bit offset space are
// refused without calling the host.
func (b bridge) grow(blocks uint32) (oldSize, newSize uint32, err error) {
	oldSize = b.host.Size()

	if uint64(oldSize)+uint64(blocks)*format.BlockSize > format.MaxArenaSize {
		return oldSize, 0, fmt.Errorf("grow %d blocks from %d bytes: %w", blocks, oldSize, ErrGrowRefused)
	}

	newSize = b.host.Grow(blocks)
	if newSize == 0 || newSize <= oldSize {
		return oldSize, 0, fmt.Errorf("grow %d blocks from %d bytes: %w", blocks, oldSize, ErrGrowRefused)
	}
	return oldSize, newSize, nil
}
