package arena

import "errors"

var (
	// ErrClosed indicates an operation on a closed file arena.
	ErrClosed = errors.New("arena: closed")

	// ErrTooLarge indicates a requested size beyond the 32-bit offset space.
	ErrTooLarge = errors.New("arena: size exceeds 32-bit offset space")
)
