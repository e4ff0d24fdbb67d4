package alloc

import "errors"

var (
	// ErrGrowRefused indicates that the host refused to grow the arena.
	ErrGrowRefused = errors.New("alloc: host refused to grow arena")

	// ErrTooLarge indicates a request that cannot be represented in a 32-bit arena.
	ErrTooLarge = errors.New("alloc: request exceeds 32-bit arena")

	// ErrNoSpace indicates that no block fit even after the arena grew.
	ErrNoSpace = errors.New("alloc: no free block large enough")
)
