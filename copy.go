package snappy

import "runtime"

// archSupportsUnalignedAccess reports whether the host architecture can
// issue unaligned 64/128-bit loads and stores directly. Where it can't,
// longIncrementalCopy skips its 16-byte strided fast path and decays to the
// chunk-wise copy loop further down — same result, just without the
// speedup. shortIncrementalCopy's 8-byte pattern store is not gated by it.
// See §9 "Unaligned loads/stores".
var archSupportsUnalignedAccess = func() bool {
	switch runtime.GOARCH {
	case "amd64", "386", "arm64", "arm64be", "ppc64", "ppc64le", "s390x", "wasm":
		return true
	default:
		return false
	}
}()

// backCopy performs a back-reference copy of length bytes from offset bytes
// before the current write cursor, per §4.4. It validates the offset and
// length against what has already been written and the declared capacity,
// then dispatches to the short (overlap-tolerant) or long (overlap-free
// past 16 bytes) routine.
func (s *sink) backCopy(offset, length int) error {
	if offset <= 0 || offset > s.pos {
		return ErrCorrupt
	}
	if length > s.remaining() {
		return ErrCorrupt
	}
	if length == 0 {
		return nil
	}
	if offset < 8 {
		shortIncrementalCopy(s, offset, length)
	} else {
		longIncrementalCopy(s, offset, length)
	}
	return nil
}

// shortIncrementalCopy handles the overlap-heavy case, 1 <= offset < 8,
// where a naive 8-byte load would read bytes this very call has not yet
// written. It first builds an 8-byte pattern that repeats with period
// offset (by exponential doubling: copying the already-known prefix onto
// itself until the buffer is full), which turns what would otherwise be a
// run-length fill into a single wide store for the first up-to-8 bytes. Any
// remainder continues as a sequence of offset-sized chunk copies, which are
// non-overlapping by construction once at least `offset` fresh bytes exist.
func shortIncrementalCopy(s *sink, offset, length int) {
	src := s.pos - offset

	var pattern [8]byte
	n := copy(pattern[:], s.buf[src:src+offset])
	for n < len(pattern) {
		n += copy(pattern[n:], pattern[:n])
	}

	first := length
	if first > len(pattern) {
		first = len(pattern)
	}
	if s.hasFastPathSlack() {
		store64(s.buf, s.pos, load64(pattern[:], 0))
	} else {
		copy(s.buf[s.pos:s.pos+first], pattern[:first])
	}
	s.pos += first
	length -= first

	for length > 0 {
		n := offset
		if n > length {
			n = length
		}
		copy(s.buf[s.pos:s.pos+n], s.buf[s.pos-offset:s.pos-offset+n])
		s.pos += n
		length -= n
	}
}

// longIncrementalCopy handles offset >= 8. When offset >= length the source
// and destination ranges never overlap and a single slice copy is both
// correct and fastest. Otherwise it advances in 16-byte strides for as long
// as offset >= 16 (so a single stride's read range can never touch bytes
// the same stride is about to write) and the sink still has its guaranteed
// slack, falling back to offset-sized chunk copies — always overlap-free
// per chunk — for the remainder.
func longIncrementalCopy(s *sink, offset, length int) {
	src := s.pos - offset

	if offset >= length {
		copy(s.buf[s.pos:s.pos+length], s.buf[src:src+length])
		s.pos += length
		return
	}

	if archSupportsUnalignedAccess && offset >= slackBytes {
		for length >= slackBytes && s.hasFastPathSlack() {
			store64(s.buf, s.pos, load64(s.buf, src))
			store64(s.buf, s.pos+8, load64(s.buf, src+8))
			s.pos += slackBytes
			src += slackBytes
			length -= slackBytes
		}
	}

	for length > 0 {
		n := offset
		if n > length {
			n = length
		}
		copy(s.buf[s.pos:s.pos+n], s.buf[src:src+n])
		s.pos += n
		src += n
		length -= n
	}
}
