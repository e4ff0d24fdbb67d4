package verify

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/joshuapare/arenakit/internal/format"
)

// ValidationError describes a broken arena invariant.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants runs FreeList and then Accounting.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(data []byte, head uint32, allocated []uint32) error {
	if err := FreeList(data, head); err != nil {
		return err
	}
	return Accounting(data, head, allocated)
}

// FreeList walks the free list starting at head and validates every entry.
func FreeList(data []byte, head uint32) error {
	_, err := freeBlocks(data, head)
	return err
}

// freeBlocks decodes the free list, validating it on the way.
func freeBlocks(data []byte, head uint32) ([]format.Header, error) {
	var (
		blocks []format.Header
		prev   *format.Header
	)
	for cur := head; cur != format.NullOffset; {
		if cur < format.FirstBlockOffset {
			return nil, &ValidationError{
				Type:    "FreeList",
				Message: fmt.Sprintf("block inside prologue (first usable offset 0x%X)", format.FirstBlockOffset),
				Offset:  int(cur),
			}
		}
		h, err := format.ParseHeader(data, cur)
		if err != nil {
			return nil, &ValidationError{Type: "FreeList", Message: err.Error(), Offset: int(cur)}
		}
		if h.End() > uint64(len(data)) {
			return nil, &ValidationError{
				Type:    "FreeList",
				Message: fmt.Sprintf("block extends past arena end: end=0x%X, arena=0x%X", h.End(), len(data)),
				Offset:  int(cur),
			}
		}
		if prev != nil {
			end := prev.End()
			switch {
			case uint64(cur) < end:
				// Also catches cycles, since offsets must strictly increase.
				return nil, &ValidationError{
					Type:    "FreeList",
					Message: fmt.Sprintf("block overlaps or precedes previous block ending at 0x%X", end),
					Offset:  int(cur),
				}
			case uint64(cur) == end:
				return nil, &ValidationError{
					Type:    "FreeList",
					Message: fmt.Sprintf("unmerged adjacent free blocks 0x%X and 0x%X", prev.Offset, cur),
					Offset:  int(cur),
				}
			}
		}
		blocks = append(blocks, h)
		prev = &blocks[len(blocks)-1]
		cur = h.Next
	}
	return blocks, nil
}

// Accounting checks that the prologue, the free blocks reachable from head,
// and the allocated blocks whose payload offsets are given tile the arena
// exactly.
func Accounting(data []byte, head uint32, allocated []uint32) error {
	free, err := freeBlocks(data, head)
	if err != nil {
		return err
	}

	blocks := slices.Clone(free)
	for _, p := range allocated {
		if p < format.FirstBlockOffset+format.HeaderSize {
			return &ValidationError{
				Type:    "Accounting",
				Message: "allocated payload offset inside prologue",
				Offset:  int(p),
			}
		}
		h, err := format.ParseHeader(data, format.HeaderFor(p))
		if err != nil {
			return &ValidationError{Type: "Accounting", Message: err.Error(), Offset: int(p)}
		}
		blocks = append(blocks, h)
	}
	slices.SortFunc(blocks, func(a, b format.Header) int { return cmp.Compare(a.Offset, b.Offset) })

	// Below the smallest usable arena nothing is carved.
	if len(blocks) == 0 && len(data) < format.MinArenaSize {
		return nil
	}

	pos := uint64(format.PrologueSize)
	for _, b := range blocks {
		switch {
		case uint64(b.Offset) > pos:
			return &ValidationError{
				Type:    "Accounting",
				Message: fmt.Sprintf("unaccounted gap of %d bytes", uint64(b.Offset)-pos),
				Offset:  int(pos),
			}
		case uint64(b.Offset) < pos:
			return &ValidationError{
				Type:    "Accounting",
				Message: fmt.Sprintf("block overlaps previous block ending at 0x%X", pos),
				Offset:  int(b.Offset),
			}
		}
		pos = b.End()
	}
	if pos != uint64(len(data)) {
		return &ValidationError{
			Type:    "Accounting",
			Message: fmt.Sprintf("blocks cover 0x%X bytes, arena is 0x%X", pos, len(data)),
			Offset:  -1,
		}
	}
	return nil
}
