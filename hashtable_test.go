package snappy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashTableInsertLookupRoundTrip(t *testing.T) {
	h := newHashTable()
	h.reset(1000)

	hash := h.hashFingerprint([]byte{1, 2, 3, 4}, 0)
	_, ok := h.lookup(hash)
	require.False(t, ok)

	h.insert(hash, 42)
	pos, ok := h.lookup(hash)
	require.True(t, ok)
	require.Equal(t, 42, pos)
}

func TestHashTableResetInvalidatesPriorEntries(t *testing.T) {
	h := newHashTable()
	h.reset(1000)
	hash := h.hashFingerprint([]byte{9, 9, 9, 9}, 0)
	h.insert(hash, 7)

	h.reset(1000) // new sub-block: old entries must read as absent
	_, ok := h.lookup(hash)
	require.False(t, ok)
}

func TestHashTableGenerationWrapAroundSixteenBits(t *testing.T) {
	h := newHashTable()
	for i := 0; i < 1<<16+5; i++ {
		h.reset(64)
	}
	hash := h.hashFingerprint([]byte{1, 2, 3, 4}, 0)
	h.insert(hash, 5)
	pos, ok := h.lookup(hash)
	require.True(t, ok)
	require.Equal(t, 5, pos)
}

func TestHashTableSizingClampedToPowerOfTwo(t *testing.T) {
	h := newHashTable()
	h.reset(10) // below minTableSize
	require.Equal(t, minTableSize-1, h.mask)

	h.reset(1 << 20) // far above maxTableSize
	require.Equal(t, maxTableSize-1, h.mask)
}
