package format

import "encoding/binary"

// Binary encoding utilities for little-endian integers. Headers are always
// little-endian regardless of the host so that a file-backed arena can be
// inspected on any machine.

// PutU32 writes a uint32 value to the buffer at the specified offset in little-endian format.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// ReadU32 reads a little-endian uint32 from the buffer at the specified offset.
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

