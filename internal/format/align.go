package format

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(20) = 24
func Align8(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}

// Align8U32 returns n aligned up to the next 8-byte boundary and reports
// false when the result does not fit in a uint32.
func Align8U32(n uint32) (uint32, bool) {
	aligned := (uint64(n) + AlignmentMask) &^ AlignmentMask
	if aligned > MaxArenaSize {
		return 0, false
	}
	return uint32(aligned), true
}

// BlocksFor returns the number of BlockSize blocks needed to cover n bytes.
//
// Example:
//
//	BlocksFor(1)     = 1
//	BlocksFor(65536) = 1
//	BlocksFor(65537) = 2
func BlocksFor(n uint32) uint32 {
	return uint32((uint64(n) + BlockSizeMask) / BlockSize)
}

