package snappy

const (
	minTableSize = 1 << 8  // 256
	maxTableSize = 1 << 14 // 16384, per §3 "Hash table"
)

// hashTable is the compressor's match-finding structure: a mapping from a
// 4-byte fingerprint to the most recent sub-block-relative position that
// produced it (§3, §4.2 step 2). A single hashTable is reused across every
// sub-block of a Compress call — §9 treats the table as "an arena cleared
// at sub-block boundaries" and notes that, since correctness depends only
// on the caller re-verifying a candidate with load32 before trusting it,
// the clear can be lazy. We implement that with a generation stamp packed
// into the high 16 bits of each 32-bit slot, so reset() is O(1) instead of
// re-zeroing up to 64KB per sub-block.
type hashTable struct {
	entries []uint32 // high 16 bits: generation; low 16 bits: position
	gen     uint32
	shift   uint32
	mask    int
}

func newHashTable() *hashTable {
	return &hashTable{entries: make([]uint32, maxTableSize)}
}

// reset sizes the table for a sub-block of length n: the smallest power of
// two at least as large as n, clamped to [minTableSize, maxTableSize], and
// bumps the generation so every previously inserted entry reads as absent.
func (h *hashTable) reset(n int) {
	h.gen++
	if h.gen == 0 {
		// Generation wrapped (after 2^32 sub-blocks through one instance);
		// physically clear rather than special-case a "no entry" stamp.
		for i := range h.entries {
			h.entries[i] = 0
		}
		h.gen = 1
	}

	size := minTableSize
	shift := uint32(32) - log2Floor(minTableSize)
	for size < maxTableSize && size < n {
		size <<= 1
		shift--
	}
	h.shift = shift
	h.mask = size - 1
}

// hashFingerprint hashes the 32-bit little-endian fingerprint at src[i:i+4]
// into a table slot, per §4.2 step 4.
func (h *hashTable) hashFingerprint(src []byte, i int) uint32 {
	return hashBytes(load32(src, i), h.shift)
}

func hashBytes(u, shift uint32) uint32 {
	return (u * 0x1e35a7bd) >> shift
}

// lookup returns the position previously inserted for hash, if any entry is
// live in the current generation.
func (h *hashTable) lookup(hash uint32) (pos int, ok bool) {
	e := h.entries[int(hash)&h.mask]
	// Only the low 16 bits of the generation survive the <<16 packing below,
	// so the comparison must be truncated the same way or every generation
	// past 65535 would read back as a permanent miss.
	if uint16(e>>16) != uint16(h.gen) {
		return 0, false
	}
	return int(e & 0xffff), true
}

// insert records pos (a sub-block-relative offset, always < 65536, so it
// fits the 16 low bits) under hash in the current generation.
func (h *hashTable) insert(hash uint32, pos int) {
	h.entries[int(hash)&h.mask] = h.gen<<16 | uint32(uint16(pos))
}
