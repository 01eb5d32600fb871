package snappy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarintRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 127, 128, 255, 256, 16383, 16384, 1 << 20, 1<<32 - 1}
	for _, v := range values {
		buf := make([]byte, maxVarintLen32)
		n := putUvarint32(buf, v)
		require.Greater(t, n, 0)

		got, used := getUvarint32(buf[:n])
		require.Equal(t, n, used, "value %d", v)
		require.Equal(t, v, got, "value %d", v)
	}
}

func TestVarintNeedsMoreInput(t *testing.T) {
	buf := make([]byte, maxVarintLen32)
	n := putUvarint32(buf, 1<<20)
	for i := 1; i < n; i++ {
		_, used := getUvarint32(buf[:i])
		require.Equal(t, 0, used, "truncated at %d of %d bytes", i, n)
	}
}

func TestVarintMalformedOverlong(t *testing.T) {
	// Six continuation bytes that never terminate within maxVarintLen32.
	buf := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80}
	_, used := getUvarint32(buf)
	require.Less(t, used, 0)
}

func TestVarintMalformedOverflow(t *testing.T) {
	// A fifth byte contributing more than 4 bits overflows uint32.
	buf := []byte{0xff, 0xff, 0xff, 0xff, 0x1f}
	_, used := getUvarint32(buf)
	require.Less(t, used, 0)
}
