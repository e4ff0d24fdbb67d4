package dirty

import "context"

// DirtyTracker is the minimal interface for tracking modified byte ranges of
// a file-backed arena. The allocator only notifies; it never flushes.
type DirtyTracker interface {
	// Add marks a byte range as dirty.
	// off is the offset from the start of the arena, length is the number of bytes.
	Add(off, length int)
}

// FlushableTracker extends DirtyTracker with control over persistence.
type FlushableTracker interface {
	DirtyTracker

	// Flush writes dirty ranges back according to mode.
	Flush(ctx context.Context, mode FlushMode) error
}

var _ FlushableTracker = (*Tracker)(nil)
