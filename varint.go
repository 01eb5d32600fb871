package snappy

// maxVarintLen32 is the maximum number of bytes a 32-bit value can occupy
// when varint-encoded: ceil(32/7) = 5.
const maxVarintLen32 = 5

// putUvarint32 encodes v into dst (which must have length >= maxVarintLen32)
// using the block format's base-128 varint, and returns the number of bytes
// written.
func putUvarint32(dst []byte, v uint32) int {
	i := 0
	for v >= 0x80 {
		dst[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	dst[i] = byte(v)
	return i + 1
}

// getUvarint32 decodes a base-128 varint from the front of src. It returns
// the decoded value and the number of bytes consumed. A return of n <= 0
// means: n == 0, src ran out before the sequence terminated (the caller may
// have more bytes coming in a later fragment); n < 0, the sequence is
// malformed — either it didn't terminate within maxVarintLen32 bytes, or it
// encodes a value that does not fit in 32 bits.
func getUvarint32(src []byte) (v uint32, n int) {
	for i := 0; i < len(src) && i < maxVarintLen32; i++ {
		b := src[i]
		if b < 0x80 {
			v |= uint32(b) << (7 * uint(i))
			// A fifth byte may only contribute its low 4 bits; anything
			// above that means the value overflows uint32.
			if i == maxVarintLen32-1 && b > 0xf {
				return 0, -1
			}
			return v, i + 1
		}
		v |= uint32(b&0x7f) << (7 * uint(i))
	}
	if len(src) >= maxVarintLen32 {
		return 0, -1 // didn't terminate within 5 bytes
	}
	return 0, 0 // need more input
}
