package snappy

import "math/bits"

// load32 reads a little-endian uint32 from b starting at index i.
func load32(b []byte, i int) uint32 {
	b = b[i : i+4 : len(b)] // help the compiler eliminate bounds checks below
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// load64 reads a little-endian uint64 from b starting at index i.
func load64(b []byte, i int) uint64 {
	b = b[i : i+8 : len(b)]
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

// store32 writes v to b starting at index i, little-endian.
func store32(b []byte, i int, v uint32) {
	b[i+0] = byte(v)
	b[i+1] = byte(v >> 8)
	b[i+2] = byte(v >> 16)
	b[i+3] = byte(v >> 24)
}

// store64 writes v to b starting at index i, little-endian.
func store64(b []byte, i int, v uint64) {
	b[i+0] = byte(v)
	b[i+1] = byte(v >> 8)
	b[i+2] = byte(v >> 16)
	b[i+3] = byte(v >> 24)
	b[i+4] = byte(v >> 32)
	b[i+5] = byte(v >> 40)
	b[i+6] = byte(v >> 48)
	b[i+7] = byte(v >> 56)
}

// log2Floor returns floor(log2(x)) for x > 0. Used to size the match hash
// table: the table size is the smallest power of two covering the sub-block.
func log2Floor(x uint32) uint32 {
	if x == 0 {
		return 0
	}
	return uint32(bits.Len32(x)) - 1
}

// findLSBSet returns the index of the least-significant set bit of x. x
// must be non-zero. A 64-bit XOR of two candidate match words followed by
// findLSBSet/8 locates the first differing byte in one step, rather than
// scanning byte by byte.
func findLSBSet(x uint64) uint {
	return uint(bits.TrailingZeros64(x))
}

// wouldOverflowLeftShift reports whether v<<shift, computed in a uint32,
// would discard any of v's set bits.
func wouldOverflowLeftShift(v uint32, shift uint) bool {
	if shift >= 32 {
		return v != 0
	}
	return v>>(32-shift) != 0
}

