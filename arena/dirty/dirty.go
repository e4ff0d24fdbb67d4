package dirty

import (
	"context"
	"sort"
)

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
	defaultRangeCapacity = 64

	// standardPageSize is the typical OS page size (4KB).
	standardPageSize = 4096
)

// FlushMode controls durability of a Flush.
type FlushMode int

const (
	// FlushDataOnly writes dirty pages back to the file without an fsync.
	// Use this when batching several flushes before a final FlushFull.
	FlushDataOnly FlushMode = iota

	// FlushFull writes dirty pages back and then fsyncs the file.
	FlushFull
)

// String returns the mode name.
func (m FlushMode) String() string {
	switch m {
	case FlushDataOnly:
		return "data-only"
	case FlushFull:
		return "full"
	default:
		return "unknown"
	}
}

// Range represents a dirty byte range (absolute arena offsets).
type Range struct {
	Off int64 // Absolute offset in the arena
	Len int64 // Length in bytes
}

// Flusher is the file side of a tracker. *arena.File implements it.
type Flusher interface {
	Flush(off, n int) error
	Sync() error
}

// Tracker accumulates dirty ranges and flushes them efficiently.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	target   Flusher
	ranges   []Range // Dirty ranges (coalesced at flush time)
	pageSize int64
	flushes  int
}

// NewTracker creates a dirty tracker that flushes into target.
func NewTracker(target Flusher) *Tracker {
	return &Tracker{
		target:   target,
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: standardPageSize,
	}
}

// Add records a dirty range. It only appends; alignment and merging happen
// at flush time.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	t.ranges = append(t.ranges, Range{
		Off: int64(off),
		Len: int64(length),
	})
}

// Pending reports how many raw ranges are waiting to be flushed.
func (t *Tracker) Pending() int { return len(t.ranges) }

// Flushes reports how many coalesced ranges have been written back so far.
func (t *Tracker) Flushes() int { return t.flushes }

// Flush coalesces all dirty ranges into page-aligned, non-overlapping ranges,
// writes each back, and, for FlushFull, fsyncs the file. Ranges are cleared
// only when every write succeeded.
//
// The context is checked before each range. If cancelled mid-way, some
// ranges may have been written while others have not; they all stay pending.
func (t *Tracker) Flush(ctx context.Context, mode FlushMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, r := range t.coalesce() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.target.Flush(int(r.Off), int(r.Len)); err != nil {
			return err
		}
		t.flushes++
	}
	t.ranges = t.ranges[:0]

	if mode != FlushFull {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.target.Sync()
}

// Reset clears all tracked ranges without flushing them.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// DebugRanges returns a copy of the raw, uncoalesced ranges.
func (t *Tracker) DebugRanges() []Range {
	result := make([]Range, len(t.ranges))
	copy(result, t.ranges)
	return result
}

// DebugCoalescedRanges returns the page-aligned, merged ranges a Flush would write.
func (t *Tracker) DebugCoalescedRanges() []Range {
	return t.coalesce()
}

// coalesce page-aligns all ranges, sorts them, and merges overlapping/adjacent ranges.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize

		end := r.Off + r.Len
		if end%t.pageSize != 0 {
			end = ((end / t.pageSize) + 1) * t.pageSize
		}

		aligned[i] = Range{
			Off: start,
			Len: end - start,
		}
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]

	for i := 1; i < len(aligned); i++ {
		next := aligned[i]

		if next.Off <= current.Off+current.Len {
			end := current.Off + current.Len
			nextEnd := next.Off + next.Len
			if nextEnd > end {
				end = nextEnd
			}
			current.Len = end - current.Off
		} else {
			merged = append(merged, current)
			current = next
		}
	}

	merged = append(merged, current)

	return merged
}
