// Copyright 2011 The Snappy-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snappy

import "github.com/gosnappy/gosnappy/internal/bufpool"

// emitLiteral writes a literal element of lit to dst and returns the
// number of bytes written. dst must already be long enough; callers are
// responsible for sizing it (see MaxEncodedLen).
func emitLiteral(dst, lit []byte) int {
	i, n := 0, uint(len(lit)-1)
	switch {
	case n < 60:
		dst[0] = uint8(n)<<2 | tagLiteral
		i = 1
	case n < 1<<8:
		dst[0] = 60<<2 | tagLiteral
		dst[1] = uint8(n)
		i = 2
	default:
		dst[0] = 61<<2 | tagLiteral
		dst[1] = uint8(n)
		dst[2] = uint8(n >> 8)
		i = 3
	}
	return i + copy(dst[i:], lit)
}

// emitCopy writes one or more copy elements encoding a single (offset,
// length) back-reference and returns the number of bytes written. length
// may exceed the 64-byte-per-tag limit of COPY_2/COPY_4; emitCopy splits it
// into multiple tags, per §4.2 "Copy emission rules".
func emitCopy(dst []byte, offset, length int) int {
	i := 0
	// A length-68 (64+4) threshold, rather than 64, lets a length-67 copy
	// encode as a length-60 tagCopy2 (3 bytes) plus a length-7 tagCopy1 (2
	// bytes) — 5 bytes total — instead of a length-64 tagCopy2 plus a
	// length-3 tagCopy2, which is 3+3 = 6 bytes. The length-3 remainder has
	// to be tagCopy2 because tagCopy1's minimum length is 4.
	for length >= 68 {
		dst[i+0] = 63<<2 | tagCopy2
		dst[i+1] = uint8(offset)
		dst[i+2] = uint8(offset >> 8)
		i += 3
		length -= 64
	}
	if length > 64 {
		dst[i+0] = 59<<2 | tagCopy2
		dst[i+1] = uint8(offset)
		dst[i+2] = uint8(offset >> 8)
		i += 3
		length -= 60
	}
	if length >= 12 || offset >= 2048 {
		dst[i+0] = uint8(length-1)<<2 | tagCopy2
		dst[i+1] = uint8(offset)
		dst[i+2] = uint8(offset >> 8)
		return i + 3
	}
	dst[i+0] = uint8(offset>>8)<<5 | uint8(length-4)<<2 | tagCopy1
	dst[i+1] = uint8(offset)
	return i + 2
}

// inputMargin is the number of trailing bytes of a sub-block that the main
// match-finding loop never starts a match within (§4.2 step 3, "Reserve the
// final 16 bytes as a tail"). It keeps the 8-byte load64 that encodeBlock
// issues at s-1 after each copy inside src.
const inputMargin = 16 - 1

// minNonLiteralBlockSize is the smallest sub-block encodeBlock will bother
// hash-matching against; anything shorter is emitted as one literal
// (§4.2 step 1).
const minNonLiteralBlockSize = 1 + 1 + inputMargin

// MaxEncodedLen returns the maximum length of a compressed block for an
// input of srcLen bytes (§4.2, §8 property 3), or a negative value if
// srcLen cannot be encoded at all (larger than a block may ever declare).
func MaxEncodedLen(srcLen int) int {
	n := uint64(srcLen)
	if n > 0xffffffff {
		return -1
	}
	// compressed := item* literal*; item := literal* copy. The worst-case
	// blowup is bounded by a run of tiny literals (62/60 ratio) plus the
	// varint header (<=5 bytes) plus slack; see the teacher's derivation.
	n = 32 + n + n/6
	if n > 0xffffffff {
		return -1
	}
	return int(n)
}

// CompressToOwnedBuffer compresses src into a freshly allocated slice sized
// to exactly the compressed length. See §6 "compress_to_owned_buffer".
func CompressToOwnedBuffer(src []byte) ([]byte, error) {
	n := MaxEncodedLen(len(src))
	if n < 0 {
		return nil, ErrTooLarge
	}
	dst := make([]byte, n)
	d := encodeBlockSeries(dst, src)
	return dst[:d], nil
}

// Compress writes the compressed form of src into dst and returns the
// number of bytes written. If dst is not definitely large enough
// (len(dst) < MaxEncodedLen(len(src))) the block is first encoded into a
// pooled scratch buffer sized to the worst case; if the true compressed
// size still does not fit dst, Compress reports ErrOutputTooSmall and
// writes nothing to dst, so callers may retry with a larger buffer per §7.
func Compress(dst, src []byte) (int, error) {
	n := MaxEncodedLen(len(src))
	if n < 0 {
		return 0, ErrTooLarge
	}
	if len(dst) >= n {
		return encodeBlockSeries(dst, src), nil
	}
	scratch := bufpool.Acquire(n)
	defer scratch.Release()
	d := encodeBlockSeries(scratch.Bytes()[:n], src)
	if d > len(dst) {
		return 0, ErrOutputTooSmall
	}
	copy(dst, scratch.Bytes()[:d])
	return d, nil
}

// TryCompress is Compress without an error return: it reports ok=false
// instead of ErrOutputTooSmall, matching §7's "try" variant.
func TryCompress(dst, src []byte) (n int, ok bool) {
	n, err := Compress(dst, src)
	return n, err == nil
}

// encodeBlockSeries writes the varint length header followed by the
// compressed sub-blocks, and returns the total bytes written to dst. dst
// must have length >= MaxEncodedLen(len(src)).
func encodeBlockSeries(dst, src []byte) int {
	d := putUvarint32(dst, uint32(len(src)))

	if len(src) == 0 {
		return d
	}

	var h *hashTable
	for len(src) > 0 {
		p := src
		src = nil
		if len(p) > maxBlockSize {
			p, src = p[:maxBlockSize], p[maxBlockSize:]
		}
		if len(p) < minNonLiteralBlockSize {
			d += emitLiteral(dst[d:], p)
			continue
		}
		if h == nil {
			h = newHashTable()
		}
		d += encodeBlock(dst[d:], p, h)
	}
	return d
}

// encodeBlock compresses a single non-empty sub-block (at most maxBlockSize
// bytes) and returns the number of bytes written to dst, per §4.2.
func encodeBlock(dst, src []byte, h *hashTable) (d int) {
	h.reset(len(src))

	sLimit := len(src) - inputMargin
	nextEmit := 0

	// The first byte is never matched against: there are no prior bytes in
	// this sub-block to copy from.
	s := 1
	nextHash := h.hashFingerprint(src, s)

	for {
		// Heuristic match skipping (§4.2 step 5): the longer we go without
		// a hit, the further we jump between probes, so incompressible
		// input is scanned in roughly O(n / skip) time instead of O(n).
		skip := 32

		nextS := s
		candidate := 0
		for {
			s = nextS
			bytesBetweenHashLookups := skip >> 5
			nextS = s + bytesBetweenHashLookups
			skip += bytesBetweenHashLookups
			if nextS > sLimit {
				goto emitRemainder
			}
			var ok bool
			candidate, ok = h.lookup(nextHash)
			h.insert(nextHash, s)
			nextHash = h.hashFingerprint(src, nextS)
			if ok && load32(src, s) == load32(src, candidate) {
				break
			}
		}

		d += emitLiteral(dst[d:], src[nextEmit:s])

		for {
			// Invariant: a 4-byte match exists at s; extend it greedily.
			base := s
			s += 4
			for i := candidate + 4; s < len(src) && src[i] == src[s]; i, s = i+1, s+1 {
			}
			d += emitCopy(dst[d:], base-candidate, s-base)
			nextEmit = s
			if s >= sLimit {
				goto emitRemainder
			}

			// Insert the fingerprints of the two positions preceding the
			// new s (§4.2 step 6) to catch overlapping matches before
			// falling back to the outer probing loop.
			x := load64(src, s-1)
			prevHash := hashBytes(uint32(x>>0), h.shift)
			h.insert(prevHash, s-1)
			currHash := hashBytes(uint32(x>>8), h.shift)
			var ok bool
			candidate, ok = h.lookup(currHash)
			h.insert(currHash, s)
			if !ok || uint32(x>>8) != load32(src, candidate) {
				nextHash = hashBytes(uint32(x>>16), h.shift)
				s++
				break
			}
		}
	}

emitRemainder:
	if nextEmit < len(src) {
		d += emitLiteral(dst[d:], src[nextEmit:])
	}
	return d
}
