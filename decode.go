package snappy

// decodeState is one state of the resumable block-decompressor state
// machine described in §4.3. Unlike a single-shot decode loop over a fully
// buffered block, this machine can be fed the compressed byte stream in
// arbitrarily small fragments — one call per fragment — and picks up
// exactly where it left off.
type decodeState int

const (
	stateReadLength decodeState = iota
	stateReadTag
	stateLiteral
	stateDone
)

// blockDecoder is the engine behind the raw block API, which feeds it the
// whole block in one call; the framed-stream Reader reaches it through
// Decompress once a chunk's payload has been read in full. It is not safe
// for concurrent use; a single instance decodes exactly one block across
// its lifetime.
type blockDecoder struct {
	state decodeState

	// scratch assembles a tag byte plus its fixed-size operand bytes (up to
	// 5 total for COPY_4) across fragment boundaries. It is also reused,
	// before the tag stream starts, to assemble the varint length header.
	scratch    [5]byte
	scratchLen int

	declaredLen int
	presetDst   []byte // caller-supplied destination, or nil to allocate
	sink        *sink

	pendingLiteral int // literal payload bytes still to copy from input
}

// newBlockDecoder returns a decoder that will decompress into dst if dst is
// non-nil, or into a freshly allocated buffer if dst is nil. A non-nil dst
// shorter than the declared length makes write report ErrOutputTooSmall.
func newBlockDecoder(dst []byte) *blockDecoder {
	return &blockDecoder{state: stateReadLength, presetDst: dst}
}

// finished reports whether the block has been fully decoded.
func (d *blockDecoder) finished() bool {
	return d.state == stateDone
}

// write feeds another fragment of compressed input and returns how many of
// its bytes were consumed. It returns a non-nil error, per §7, on the first
// structural inconsistency — a bad tag, an out-of-range copy, a declared
// length that is exceeded, or an overlong varint. A declared length that is
// never reached is not an error here; callers detect it with finished.
func (d *blockDecoder) write(p []byte) (consumed int, err error) {
	for consumed < len(p) {
		switch d.state {
		case stateReadLength:
			n, err := d.stepReadLength(p[consumed:])
			consumed += n
			if err != nil {
				return consumed, err
			}

		case stateReadTag:
			n, err := d.stepReadTag(p[consumed:])
			consumed += n
			if err != nil {
				return consumed, err
			}

		case stateLiteral:
			n := d.pendingLiteral
			if avail := len(p) - consumed; n > avail {
				n = avail
			}
			if err := d.sink.appendLiteral(p[consumed : consumed+n]); err != nil {
				return consumed, err
			}
			consumed += n
			d.pendingLiteral -= n
			if d.pendingLiteral == 0 {
				d.advanceAfterElement()
			}

		case stateDone:
			return consumed, nil
		}
	}
	return consumed, nil
}

func (d *blockDecoder) advanceAfterElement() {
	if d.sink.remaining() == 0 {
		d.state = stateDone
		return
	}
	d.state = stateReadTag
}

// stepReadLength accumulates and decodes the varint length header.
func (d *blockDecoder) stepReadLength(p []byte) (consumed int, err error) {
	n := copy(d.scratch[d.scratchLen:], p)
	v, used := getUvarint32(d.scratch[:d.scratchLen+n])
	if used < 0 {
		return n, ErrCorrupt
	}
	if used == 0 {
		d.scratchLen += n
		return n, nil
	}

	fromP := used - d.scratchLen
	if v > decodedLenLimit {
		return fromP, ErrCorrupt
	}
	d.declaredLen = int(v)
	if d.presetDst != nil {
		if len(d.presetDst) < d.declaredLen {
			return fromP, ErrOutputTooSmall
		}
		d.sink = wrapSink(d.presetDst, d.declaredLen)
	} else {
		d.sink = newSink(d.declaredLen)
	}
	d.scratchLen = 0
	if d.declaredLen == 0 {
		d.state = stateDone
	} else {
		d.state = stateReadTag
	}
	return fromP, nil
}

// tagOperandLen returns how many scratch bytes (tag included) must be
// assembled before a tag of this kind can be fully decoded. For literals
// this depends on the tag's own high bits; for copies it is fixed by kind.
func tagOperandLen(tag byte) int {
	switch tag & 0x03 {
	case tagLiteral:
		switch x := tag >> 2; {
		case x < 60:
			return 1
		case x == 60:
			return 2
		case x == 61:
			return 3
		case x == 62:
			return 4
		default: // 63
			return 5
		}
	case tagCopy1:
		return 2
	case tagCopy2:
		return 3
	default: // tagCopy4
		return 5
	}
}

// stepReadTag assembles one tag plus its operand bytes, across as many
// calls as necessary, then executes it: a literal transitions to
// stateLiteral to stream its payload, a copy is applied immediately since
// it needs no further input.
func (d *blockDecoder) stepReadTag(p []byte) (consumed int, err error) {
	if d.scratchLen == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		d.scratch[0] = p[0]
		d.scratchLen = 1
		consumed = 1
	}

	need := tagOperandLen(d.scratch[0])
	for d.scratchLen < need && consumed < len(p) {
		d.scratch[d.scratchLen] = p[consumed]
		d.scratchLen++
		consumed++
	}
	if d.scratchLen < need {
		return consumed, nil
	}

	tag := d.scratch[0]
	switch tag & 0x03 {
	case tagLiteral:
		x := uint32(tag >> 2)
		switch {
		case x < 60: // length encoded in-line, x already correct
		case x == 60:
			x = uint32(d.scratch[1])
		case x == 61:
			x = uint32(d.scratch[1]) | uint32(d.scratch[2])<<8
		case x == 62:
			x = uint32(d.scratch[1]) | uint32(d.scratch[2])<<8 | uint32(d.scratch[3])<<16
		default: // 63
			x = uint32(d.scratch[1]) | uint32(d.scratch[2])<<8 | uint32(d.scratch[3])<<16 | uint32(d.scratch[4])<<24
		}
		length := int(x) + 1
		if length <= 0 {
			return consumed, ErrUnsupported
		}
		if length > d.sink.remaining() {
			return consumed, ErrCorrupt
		}
		d.pendingLiteral = length
		d.scratchLen = 0
		d.state = stateLiteral

	case tagCopy1:
		length := int((tag>>2)&0x7) + 4
		offset := (int(tag>>5)&0x7)<<8 | int(d.scratch[1])
		d.scratchLen = 0
		if err := d.sink.backCopy(offset, length); err != nil {
			return consumed, err
		}
		d.advanceAfterElement()

	case tagCopy2:
		length := int((tag>>2)&0x3f) + 1
		offset := int(d.scratch[1]) | int(d.scratch[2])<<8
		d.scratchLen = 0
		if err := d.sink.backCopy(offset, length); err != nil {
			return consumed, err
		}
		d.advanceAfterElement()

	case tagCopy4:
		length := int((tag>>2)&0x3f) + 1
		offset := int(d.scratch[1]) | int(d.scratch[2])<<8 | int(d.scratch[3])<<16 | int(d.scratch[4])<<24
		d.scratchLen = 0
		if err := d.sink.backCopy(offset, length); err != nil {
			return consumed, err
		}
		d.advanceAfterElement()
	}
	return consumed, nil
}

// DecodedLen returns the declared decompressed length of a block, without
// decompressing it, or ErrCorrupt if the length header is malformed.
func DecodedLen(src []byte) (int, error) {
	v, n := getUvarint32(src)
	if n <= 0 {
		return 0, ErrCorrupt
	}
	if v > decodedLenLimit {
		return 0, ErrCorrupt
	}
	return int(v), nil
}

// Decompress writes the decompressed form of src into dst and returns the
// number of bytes written. It reports ErrOutputTooSmall if dst cannot hold
// the declared length, and ErrCorrupt on any structural inconsistency.
func Decompress(dst, src []byte) (int, error) {
	d := newBlockDecoder(dst)
	consumed, err := d.write(src)
	if err != nil {
		return 0, err
	}
	if !d.finished() || consumed != len(src) {
		return 0, ErrCorrupt
	}
	return d.declaredLen, nil
}

// DecompressToOwnedBuffer decompresses src into a freshly allocated slice
// sized to exactly the decoded length. See §6 "decompress_to_owned_buffer".
func DecompressToOwnedBuffer(src []byte) ([]byte, error) {
	d := newBlockDecoder(nil)
	consumed, err := d.write(src)
	if err != nil {
		return nil, err
	}
	if !d.finished() || consumed != len(src) {
		return nil, ErrCorrupt
	}
	return d.sink.bytes(), nil
}

// TryDecompress is Decompress without an error return, matching §7's "try"
// variant on the compress side.
func TryDecompress(dst, src []byte) (n int, ok bool) {
	n, err := Decompress(dst, src)
	return n, err == nil
}
