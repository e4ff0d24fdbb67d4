package alloc

import "github.com/joshuapare/arenakit/internal/format"

// readHeader decodes the header at off from the current arena bytes.
// The slice is fetched fresh on every call because growth may move it.
func (a *FirstFit) readHeader(off Offset) format.Header {
	data := a.mem.Bytes()
	return format.Header{
		Offset: off,
		Next:   format.ReadU32(data, int(off)+format.HeaderNextOffset),
		Size:   format.ReadU32(data, int(off)+format.HeaderSizeOffset),
	}
}

// writeHeader encodes h at h.Offset and marks it dirty.
func (a *FirstFit) writeHeader(h format.Header) {
	format.PutHeader(a.mem.Bytes(), h)
	if a.dt != nil {
		a.dt.Add(int(h.Offset), format.HeaderSize)
	}
}

// setNext rewrites only the next field of the header at off.
func (a *FirstFit) setNext(off, next Offset) {
	format.PutU32(a.mem.Bytes(), int(off)+format.HeaderNextOffset, next)
	if a.dt != nil {
		a.dt.Add(int(off)+format.HeaderNextOffset, 4)
	}
}
