package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrNullOffset indicates offset 0 was used where a block was required.
	ErrNullOffset = errors.New("format: null offset")
	// ErrMisaligned indicates an offset that is not a multiple of Alignment.
	ErrMisaligned = errors.New("format: misaligned offset")
)
