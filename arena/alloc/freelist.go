package alloc

import "github.com/joshuapare/arenakit/internal/format"

// unlink makes prev point at next, or moves the head when prev is Null.
func (a *FirstFit) unlink(prev, next Offset) {
	if prev == Null {
		a.head = next
		return
	}
	a.setNext(prev, next)
}

// takeFirstFit walks the list in address order and detaches the first block
// whose payload can hold padded bytes. total is padded plus one header, the
// amount a split consumes. It returns the payload offset.
func (a *FirstFit) takeFirstFit(padded, total uint32) (Offset, bool) {
	prev := Null
	for cur := a.head; cur != Null; {
		h := a.readHeader(cur)

		switch {
		case h.Size == padded:
			// Exact match: splice the whole block out.
			a.unlink(prev, h.Next)
			h.Next = Null
			a.writeHeader(h)
			a.stats.ExactCount++
			a.stats.FreeBytes -= h.Size
			return h.Payload(), true

		case h.Size >= total:
			// Split: the tail stays free in the block's list position.
			tail := format.Header{
				Offset: cur + total,
				Next:   h.Next,
				Size:   h.Size - total,
			}
			a.writeHeader(tail)
			a.unlink(prev, tail.Offset)

			h.Size = padded
			h.Next = Null
			a.writeHeader(h)
			a.stats.SplitCount++
			a.stats.FreeBytes -= total
			if a.metrics != nil {
				a.metrics.splits.Inc()
			}
			if a.debug {
				a.log.Debug("split block", "off", cur, "payload", padded, "remainder", tail.Size)
			}
			return h.Payload(), true

		case h.Size > padded:
			// Too small to split off a header: hand out the whole block.
			a.unlink(prev, h.Next)
			h.Next = Null
			a.writeHeader(h)
			a.stats.ExactCount++
			a.stats.FreeBytes -= h.Size
			return h.Payload(), true
		}

		prev = cur
		cur = h.Next
	}
	return Null, false
}

// neighbours returns the last free block below off and the first free block
// above it. An entry equal to off is skipped so that it is replaced in place.
func (a *FirstFit) neighbours(off Offset) (pred, succ Offset) {
	cur := a.head
	for cur != Null && cur < off {
		pred = cur
		cur = a.readHeader(cur).Next
	}
	if cur == off {
		cur = a.readHeader(cur).Next
	}
	return pred, cur
}

// release inserts the block whose header is at off into the list, merging
// first with its successor and then with its predecessor. The order matters:
// the predecessor adopts the freed block's next pointer, which must already
// reflect the successor merge.
func (a *FirstFit) release(off Offset) {
	freed := a.readHeader(off)
	a.stats.FreeBytes += freed.Size

	if a.head == Null {
		freed.Next = Null
		a.writeHeader(freed)
		a.head = off
		return
	}

	pred, succ := a.neighbours(off)

	if succ != Null && freed.End() == uint64(succ) {
		s := a.readHeader(succ)
		freed.Size += s.Size + format.HeaderSize
		freed.Next = s.Next
		a.stats.FreeBytes += format.HeaderSize
		a.stats.CoalesceForward++
		if a.metrics != nil {
			a.metrics.coalesces.WithLabelValues(directionForward).Inc()
		}
	} else {
		freed.Next = succ
	}
	a.writeHeader(freed)

	if pred == Null {
		a.head = off
		return
	}

	p := a.readHeader(pred)
	if p.End() == uint64(off) {
		p.Size += freed.Size + format.HeaderSize
		p.Next = freed.Next
		a.writeHeader(p)
		a.stats.FreeBytes += format.HeaderSize
		a.stats.CoalesceBackward++
		if a.metrics != nil {
			a.metrics.coalesces.WithLabelValues(directionBackward).Inc()
		}
		return
	}
	a.setNext(pred, off)
}

// walk calls fn for every free block in list order until fn returns false.
func (a *FirstFit) walk(fn func(h format.Header) bool) {
	for cur := a.head; cur != Null; {
		h := a.readHeader(cur)
		if !fn(h) {
			return
		}
		cur = h.Next
	}
}
