package alloc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joshuapare/arenakit/arena"
	"github.com/joshuapare/arenakit/internal/buf"
	"github.com/joshuapare/arenakit/internal/format"
	"github.com/joshuapare/arenakit/internal/logger"
)

// Runtime debug flag for allocation logging - controlled by ARENA_LOG_ALLOC env var.
var logAlloc = os.Getenv("ARENA_LOG_ALLOC") != ""

// FirstFit is a first-fit, address-ordered free-list allocator.
//
// All state lives in the value: the free-list head and whether the arena has
// been carved yet. Create one per arena and pass it to every caller.
//
// NOT thread-safe and not reentrant. Concurrent or nested calls corrupt the
// free list; callers must serialize access themselves.
type FirstFit struct {
	mem    arena.Memory
	bridge bridge
	dt     DirtyTracker

	log     *slog.Logger
	debug   bool
	metrics *Metrics

	head        Offset
	initialized bool

	stats Stats

	// Test hook: called before every growth request (nil in production)
	onGrow func(blocks uint32)
}

// New creates an allocator for mem. It does not touch the arena; the first
// operation does.
func New(mem arena.Memory, opts ...Option) *FirstFit {
	a := &FirstFit{
		mem:    mem,
		bridge: bridge{host: mem},
		log:    logger.L,
	}
	if logAlloc {
		a.log = logger.New(os.Stderr, slog.LevelDebug, false)
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With("component", "alloc")
	a.debug = a.log.Enabled(context.Background(), slog.LevelDebug)
	return a
}

// ensureInitialized carves the initial free block on first use.
func (a *FirstFit) ensureInitialized() {
	if a.initialized {
		return
	}
	a.initialized = true

	size := a.bridge.currentSize()
	a.observeArena(size)
	if size < format.MinArenaSize {
		// Nothing to carve; the first Allocate grows the arena.
		if a.debug {
			a.log.Debug("arena too small for initial block", "size", size)
		}
		return
	}

	a.writeHeader(format.Header{
		Offset: format.FirstBlockOffset,
		Next:   Null,
		Size:   size - format.PrologueSize - format.HeaderSize,
	})
	a.head = format.FirstBlockOffset
	a.stats.FreeBytes = size - format.PrologueSize - format.HeaderSize
	a.observeFree()

	if a.debug {
		a.log.Debug("initialized", "arena", size, "free", a.stats.FreeBytes)
	}
}

// Allocate returns the payload offset of a block of at least n bytes, or
// Null if the arena cannot grow enough. The offset is a multiple of 8.
func (a *FirstFit) Allocate(n uint32) Offset {
	off, err := a.allocate(n)
	if err != nil {
		return Null
	}
	return off
}

// Alloc is Allocate for Go callers: it returns the payload as a slice of the
// arena and reports why an allocation failed. The slice is only valid until
// the arena next grows.
func (a *FirstFit) Alloc(n uint32) (Offset, []byte, error) {
	off, err := a.allocate(n)
	if err != nil {
		return Null, nil, err
	}
	return off, a.Payload(off), nil
}

func (a *FirstFit) allocate(n uint32) (Offset, error) {
	a.ensureInitialized()
	a.stats.AllocCalls++

	padded, ok := format.Align8U32(n)
	if !ok {
		return Null, a.fail(n, fmt.Errorf("allocate %d bytes: %w", n, ErrTooLarge), reasonTooLarge)
	}
	total, ok := buf.AddU32(padded, format.HeaderSize)
	if !ok {
		return Null, a.fail(n, fmt.Errorf("allocate %d bytes: %w", n, ErrTooLarge), reasonTooLarge)
	}

	for attempt := 0; attempt <= maxGrowRetries; attempt++ {
		if a.head != Null {
			if off, found := a.takeFirstFit(padded, total); found {
				a.allocated(padded, attempt > 0)
				return off, nil
			}
		}
		if attempt == maxGrowRetries {
			break
		}
		if err := a.grow(total); err != nil {
			reason := reasonGrowRefused
			if errors.Is(err, ErrNoSpace) {
				reason = reasonNoSpace
			}
			return Null, a.fail(n, fmt.Errorf("allocate %d bytes: %w", n, err), reason)
		}
	}

	return Null, a.fail(n, fmt.Errorf("allocate %d bytes after growth: %w", n, ErrNoSpace), reasonNoSpace)
}

// allocated records a successful allocation.
func (a *FirstFit) allocated(padded uint32, grew bool) {
	if grew {
		a.stats.AllocSlowPath++
	} else {
		a.stats.AllocFastPath++
	}
	a.stats.BytesAllocated += int64(padded)
	a.stats.LiveBlocks++
	if a.metrics != nil {
		a.metrics.allocations.Inc()
	}
	a.observeFree()
}

// fail records a failed allocation and returns err.
func (a *FirstFit) fail(n uint32, err error, reason string) error {
	a.stats.AllocFailures++
	if a.metrics != nil {
		a.metrics.failures.WithLabelValues(reason).Inc()
	}
	a.log.Warn("allocation failed", "need", n, "free", a.stats.FreeBytes, "err", err)
	return err
}

// grow extends the arena by enough blocks to hold total bytes and hands the
// new region to the free list.
func (a *FirstFit) grow(total uint32) error {
	blocks := format.BlocksFor(total)
	if a.onGrow != nil {
		a.onGrow(blocks)
	}
	a.stats.GrowCalls++

	oldSize, newSize, err := a.bridge.grow(blocks)
	if err != nil {
		a.stats.GrowRefused++
		return err
	}
	a.stats.GrowBytes += int64(newSize - oldSize)
	a.observeArena(newSize)

	// The region below the prologue is never handed out, and a host whose
	// size was not a multiple of 8 loses the few bytes up to alignment.
	start := oldSize
	if start < format.FirstBlockOffset {
		start = format.FirstBlockOffset
	}
	start = uint32(format.Align8(int(start)))
	if uint64(start)+format.HeaderSize > uint64(newSize) {
		return fmt.Errorf("grow to %d bytes: %w", newSize, ErrNoSpace)
	}

	a.writeHeader(format.Header{
		Offset: start,
		Next:   Null,
		Size:   newSize - start - format.HeaderSize,
	})
	a.release(start)

	if a.metrics != nil {
		a.metrics.grows.Inc()
		a.metrics.grownBytes.Add(float64(newSize - oldSize))
	}
	if a.debug {
		a.log.Debug("grew arena", "blocks", blocks, "from", oldSize, "to", newSize, "need", total)
	}
	return nil
}

// Free returns the block at off to the free list, merging it with adjacent
// free blocks. Free(Null) is a no-op. off must have come from Allocate and
// must not have been freed since; neither is checked.
func (a *FirstFit) Free(off Offset) {
	if off == Null {
		a.stats.NullFrees++
		return
	}
	a.ensureInitialized()
	a.stats.FreeCalls++

	hdr := format.HeaderFor(off)
	a.stats.BytesFreed += int64(a.readHeader(hdr).Size)
	a.stats.LiveBlocks--

	a.release(hdr)

	if a.metrics != nil {
		a.metrics.frees.Inc()
	}
	a.observeFree()
}

// ReportFree returns the total payload bytes across all free blocks.
func (a *FirstFit) ReportFree() uint32 {
	a.ensureInitialized()
	if a.head == Null {
		return 0
	}
	var total uint32
	a.walk(func(h format.Header) bool {
		total += h.Size
		return true
	})
	return total
}

// Head returns the offset of the first free block's header, or Null.
func (a *FirstFit) Head() Offset { return a.head }

// Initialized reports whether the arena has been carved.
func (a *FirstFit) Initialized() bool { return a.initialized }

// Memory returns the arena the allocator manages.
func (a *FirstFit) Memory() arena.Memory { return a.mem }

// FreeBlocks returns the free list in address order.
func (a *FirstFit) FreeBlocks() []Block {
	a.ensureInitialized()
	var blocks []Block
	a.walk(func(h format.Header) bool {
		blocks = append(blocks, Block{Offset: h.Offset, Size: h.Size})
		return true
	})
	return blocks
}

// BlockSize returns the payload size recorded for the block whose payload
// starts at off. It is only meaningful for offsets returned by Allocate.
func (a *FirstFit) BlockSize(off Offset) uint32 {
	if off < format.FirstBlockOffset+format.HeaderSize {
		return 0
	}
	return a.readHeader(format.HeaderFor(off)).Size
}

// Payload returns the arena bytes of the block whose payload starts at off,
// or nil for Null or a block that does not fit the arena. The slice is only
// valid until the arena next grows.
func (a *FirstFit) Payload(off Offset) []byte {
	if off < format.FirstBlockOffset+format.HeaderSize {
		return nil
	}
	size := a.BlockSize(off)
	p, ok := buf.Slice(a.mem.Bytes(), int(off), int(size))
	if !ok {
		return nil
	}
	return p
}

func (a *FirstFit) observeFree() {
	if a.metrics != nil {
		a.metrics.freeBytes.Set(float64(a.stats.FreeBytes))
	}
}

func (a *FirstFit) observeArena(size uint32) {
	if a.metrics != nil {
		a.metrics.arenaBytes.Set(float64(size))
	}
}
