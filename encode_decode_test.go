package snappy

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func roundtrip(t *testing.T, src []byte) []byte {
	t.Helper()
	compressed, err := CompressToOwnedBuffer(src)
	require.NoError(t, err)

	n, err := DecodedLen(compressed)
	require.NoError(t, err)
	require.Equal(t, len(src), n)

	decoded, err := DecompressToOwnedBuffer(compressed)
	require.NoError(t, err)
	// cmp.Diff rather than bytes.Equal so a mismatch in a large corpus
	// points at the first differing region instead of just failing.
	if diff := cmp.Diff(src, decoded); diff != "" {
		t.Fatalf("decoded output mismatch (-src +decoded):\n%s", diff)
	}
	return compressed
}

// TestS1Empty is spec scenario S1.
func TestS1Empty(t *testing.T) {
	compressed := roundtrip(t, nil)
	require.Equal(t, []byte{0x00}, compressed)
}

// TestS2SingleByte is spec scenario S2.
func TestS2SingleByte(t *testing.T) {
	roundtrip(t, []byte("a"))
}

// TestS3RunLength is spec scenario S3: a run must compress as one literal
// plus a copy back-reference, not ten literals.
func TestS3RunLength(t *testing.T) {
	src := []byte("aaaaaaaaaa")
	compressed := roundtrip(t, src)
	// A literal "a" followed by any copy tag is 1 (header) + 2 (literal tag
	// + byte) + a short copy tag; certainly far under ten raw literal tags.
	require.Less(t, len(compressed), len(src))
}

// TestS4LargeCompressibleRun is spec scenario S4.
func TestS4LargeCompressibleRun(t *testing.T) {
	src := bytes.Repeat([]byte{'A'}, 100000)
	compressed := roundtrip(t, src)
	require.Less(t, len(compressed), len(src)/10)
}

// TestS5CorruptionDetected is spec scenario S5.
func TestS5CorruptionDetected(t *testing.T) {
	src := []byte("making sure we don't crash with corrupted input")
	compressed, err := CompressToOwnedBuffer(src)
	require.NoError(t, err)
	require.Greater(t, len(compressed), 3)

	corrupt := append([]byte(nil), compressed...)
	corrupt[1]--
	corrupt[3]++

	_, err = DecompressToOwnedBuffer(corrupt)
	require.Error(t, err)
}

func TestMultiSubBlockRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	// More than one maxBlockSize sub-block, with both compressible and
	// random stretches so encodeBlockSeries exercises its hash-table reset
	// across the sub-block boundary.
	src := make([]byte, maxBlockSize*2+12345)
	rng.Read(src[:maxBlockSize])
	for i := maxBlockSize; i < maxBlockSize+50000; i++ {
		src[i] = 'x'
	}
	rng.Read(src[maxBlockSize+50000:])
	roundtrip(t, src)
}

func TestUniversalRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for n := 0; n < 20000; n += 137 {
		b := make([]byte, n)
		rng.Read(b)
		roundtrip(t, b)
	}
}

func TestLengthPrefixProperty(t *testing.T) {
	for _, s := range []string{"", "a", "hello, world", strings.Repeat("xyz", 5000)} {
		compressed, err := CompressToOwnedBuffer([]byte(s))
		require.NoError(t, err)
		n, err := DecodedLen(compressed)
		require.NoError(t, err)
		require.Equal(t, len(s), n)
	}
}

func TestMaxEncodedLenUpperBound(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for _, n := range []int{0, 1, 100, 4096, 70000, 200000} {
		b := make([]byte, n)
		rng.Read(b)
		compressed, err := CompressToOwnedBuffer(b)
		require.NoError(t, err)
		require.LessOrEqual(t, len(compressed), MaxEncodedLen(n))
		require.LessOrEqual(t, len(compressed), 32+n+(n+5)/6)
	}
}

func TestOffsetZeroRejected(t *testing.T) {
	// A hand-built block: declared length 6 (literal "ab" + a 4-byte copy),
	// literal "ab", then a copy tag with offset encoded as 0.
	var block []byte
	block = append(block, 0x06)
	block = append(block, emitLiteralTag("ab")...)
	// tagCopy1: length field = 0 (encodes length 4), offset hi bits 0,
	// offset lo byte 0 -> offset == 0, which must be rejected.
	block = append(block, uint8(0)<<2|tagCopy1, 0x00)

	_, err := DecompressToOwnedBuffer(block)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestOffsetPastWindowRejected(t *testing.T) {
	var block []byte
	block = append(block, 0x06)
	block = append(block, emitLiteralTag("ab")...)
	// offset = 5, but only 2 bytes have been produced so far.
	block = append(block, uint8(0)<<2|tagCopy1, 0x05)

	_, err := DecompressToOwnedBuffer(block)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestDeclaredLengthZeroOnNonEmptyRejected(t *testing.T) {
	// declared length 0, but a literal tag follows: the declared length
	// under-states the block, so decoding must halt with leftover input
	// unconsumed and report corruption rather than silently truncating.
	var block []byte
	block = append(block, 0x00)
	block = append(block, emitLiteralTag("a")...)

	_, err := DecompressToOwnedBuffer(block)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestDeclaredLengthZeroOnEmptyAccepted(t *testing.T) {
	n, err := Decompress(make([]byte, 0), []byte{0x00})
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestDeclaredLengthAboveCapRejected(t *testing.T) {
	buf := make([]byte, maxVarintLen32)
	n := putUvarint32(buf, uint32(decodedLenLimit)+1)
	_, err := DecompressToOwnedBuffer(buf[:n])
	require.ErrorIs(t, err, ErrCorrupt)
}

// TestDecompressIntoExactlySizedBuffer guards against wrapSink silently
// substituting an unrelated buffer when the caller's dst has no slack past
// the declared length — the overwhelmingly common case, since
// make([]byte, n) always has cap(dst) == len(dst) == n.
func TestDecompressIntoExactlySizedBuffer(t *testing.T) {
	src := []byte("aaaaaaaaaa")
	compressed, err := CompressToOwnedBuffer(src)
	require.NoError(t, err)

	dst := make([]byte, len(src))
	n, err := Decompress(dst, compressed)
	require.NoError(t, err)
	require.Equal(t, len(src), n)
	require.True(t, bytes.Equal(src, dst))
}

func TestOutputTooSmall(t *testing.T) {
	src := bytes.Repeat([]byte("hello"), 100)
	compressed, err := CompressToOwnedBuffer(src)
	require.NoError(t, err)

	small := make([]byte, 1)
	_, err = Decompress(small, compressed)
	require.ErrorIs(t, err, ErrOutputTooSmall)

	_, ok := TryDecompress(small, compressed)
	require.False(t, ok)
}

func TestCompressOutputTooSmall(t *testing.T) {
	src := bytes.Repeat([]byte("z"), 10)
	small := make([]byte, 1)
	_, err := Compress(small, src)
	require.ErrorIs(t, err, ErrOutputTooSmall)

	_, ok := TryCompress(small, src)
	require.False(t, ok)
}

// emitLiteralTag hand-builds the tag+bytes for a short literal, for tests
// that construct synthetic blocks byte by byte.
func emitLiteralTag(s string) []byte {
	dst := make([]byte, len(s)+5)
	n := emitLiteral(dst, []byte(s))
	return dst[:n]
}
