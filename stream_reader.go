// Copyright 2011 The Snappy-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snappy

import (
	"io"
	"sync/atomic"

	"github.com/gosnappy/gosnappy/internal/bufpool"
)

// NewReader returns a new Reader that decompresses from r, reading and
// validating the framed stream format of §3/§4.6.
func NewReader(r io.Reader, opts ...Option) *Reader {
	decoded := bufpool.Acquire(maxBlockSize)
	buf := bufpool.Acquire(maxChunkPayload)
	return &Reader{
		r:       r,
		decoded: decoded.Bytes()[:maxBlockSize],
		decOwn:  decoded,
		buf:     buf.Bytes()[:maxChunkPayload],
		bufOwn:  buf,
		opts:    newStreamOptions(opts),
	}
}

// Reader is an io.Reader that reads and decompresses a Snappy-framed
// stream. It is not safe for concurrent use by multiple goroutines, but
// guards against overlapping asynchronous calls on the same instance (see
// ReadContext).
type Reader struct {
	r   io.Reader
	err error

	opGuard

	decoded []byte
	decOwn  *bufpool.Buffer
	buf     []byte
	bufOwn  *bufpool.Buffer
	i, j    int // decoded[i:j] is the buffered, not-yet-returned output

	seenStreamID bool
	closed       atomic.Bool
	opts         streamOptions
}

// Reset discards the Reader's state and makes it read from r, as if it was
// newly created with NewReader. If the Reader was previously Close'd, its
// pooled buffers were released back to internal/bufpool; Reset reacquires
// fresh ones rather than continuing to read into a buffer that may since
// have been handed to another instance.
func (r *Reader) Reset(reader io.Reader) {
	r.r = reader
	r.err = nil
	r.i = 0
	r.j = 0
	r.seenStreamID = false
	r.closed.Store(false)

	if r.decOwn == nil {
		decoded := bufpool.Acquire(maxBlockSize)
		r.decoded = decoded.Bytes()[:maxBlockSize]
		r.decOwn = decoded
	}
	if r.bufOwn == nil {
		buf := bufpool.Acquire(maxChunkPayload)
		r.buf = buf.Bytes()[:maxChunkPayload]
		r.bufOwn = buf
	}
}

func (r *Reader) readFull(p []byte, allowEOF bool) (ok bool) {
	if _, err := io.ReadFull(r.r, p); err != nil {
		switch {
		case err == io.ErrUnexpectedEOF || (err == io.EOF && !allowEOF):
			r.err = ErrCorruptStream
		case err == io.EOF:
			r.err = io.EOF // clean end of stream, only allowed between chunks
		default:
			r.err = err
		}
		return false
	}
	return true
}

// Read satisfies the io.Reader interface.
func (r *Reader) Read(p []byte) (int, error) {
	if err := r.opGuard.enter(); err != nil {
		return 0, err
	}
	defer r.opGuard.leave()
	return r.readLocked(p)
}

func (r *Reader) readLocked(p []byte) (int, error) {
	if r.closed.Load() {
		return 0, ErrClosed
	}
	if r.err != nil {
		return 0, r.err
	}
	for {
		if r.i < r.j {
			n := copy(p, r.decoded[r.i:r.j])
			r.i += n
			return n, nil
		}
		if !r.readFull(r.buf[:chunkHeaderSize], true) {
			return 0, r.err
		}
		chunkType := r.buf[0]
		chunkLen := int(r.buf[1]) | int(r.buf[2])<<8 | int(r.buf[3])<<16

		if chunkType == chunkTypeStreamIdentifier {
			if r.seenStreamID {
				r.err = ErrCorruptStream // only one allowed, at the start
				return 0, r.err
			}
			if chunkLen != len(magicBody) {
				r.err = ErrCorruptStream
				return 0, r.err
			}
			if !r.readFull(r.buf[:len(magicBody)], false) {
				return 0, r.err
			}
			if string(r.buf[:len(magicBody)]) != magicBody {
				r.err = ErrCorruptStream
				return 0, r.err
			}
			r.seenStreamID = true
			continue
		}
		if !r.seenStreamID {
			r.err = ErrCorruptStream // every stream must start with 0xff
			return 0, r.err
		}

		switch chunkType {
		case chunkTypeCompressedData:
			n, ok := r.readCompressedChunk(chunkLen)
			if !ok {
				return 0, r.err
			}
			r.i, r.j = 0, n
			r.record(chunkType, n)
			continue

		case chunkTypeUncompressedData:
			n, ok := r.readUncompressedChunk(chunkLen)
			if !ok {
				return 0, r.err
			}
			r.i, r.j = 0, n
			r.record(chunkType, n)
			continue

		case chunkTypePadding:
			if !r.drain(chunkLen) {
				return 0, r.err
			}
			continue
		}

		switch classifyUnknownChunk(chunkType) {
		case unknownSkippable:
			if !r.drain(chunkLen) {
				return 0, r.err
			}
			continue
		default: // unknownUnskippable, §3 "0x02..0x7F"
			r.err = ErrCorruptStream
			return 0, r.err
		}
	}
}

// Seek always fails: a decompressing stream is forward-only (§6
// "NotSupported").
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	return 0, ErrNotSupported
}

// readCompressedChunk reads, CRC-validates and decompresses a
// chunkTypeCompressedData payload into r.decoded, returning its length.
func (r *Reader) readCompressedChunk(chunkLen int) (n int, ok bool) {
	if chunkLen < checksumSize || chunkLen > maxChunkPayload {
		r.err = ErrCorruptStream
		return 0, false
	}
	buf := r.buf[:chunkLen]
	if !r.readFull(buf, false) {
		return 0, false
	}
	checksum := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	payload := buf[checksumSize:]

	declared, err := DecodedLen(payload)
	if err != nil || declared > len(r.decoded) {
		r.err = ErrCorruptStream
		return 0, false
	}
	if _, err := Decompress(r.decoded[:declared], payload); err != nil {
		r.err = ErrCorruptStream
		return 0, false
	}
	if crcChecksum(r.decoded[:declared]) != checksum {
		if r.opts.metrics != nil {
			r.opts.metrics.ChecksumFailure.Inc()
		}
		r.err = ErrCorruptStream
		return 0, false
	}
	return declared, true
}

// readUncompressedChunk reads and CRC-validates a chunkTypeUncompressedData
// payload directly into r.decoded.
func (r *Reader) readUncompressedChunk(chunkLen int) (n int, ok bool) {
	if chunkLen < checksumSize || chunkLen > maxChunkPayload {
		r.err = ErrCorruptStream
		return 0, false
	}
	hdr := r.buf[:checksumSize]
	if !r.readFull(hdr, false) {
		return 0, false
	}
	checksum := uint32(hdr[0]) | uint32(hdr[1])<<8 | uint32(hdr[2])<<16 | uint32(hdr[3])<<24

	n = chunkLen - checksumSize
	if n > len(r.decoded) {
		r.err = ErrCorruptStream
		return 0, false
	}
	if !r.readFull(r.decoded[:n], false) {
		return 0, false
	}
	if crcChecksum(r.decoded[:n]) != checksum {
		if r.opts.metrics != nil {
			r.opts.metrics.ChecksumFailure.Inc()
		}
		r.err = ErrCorruptStream
		return 0, false
	}
	return n, true
}

// drain discards the next chunkLen bytes: padding and unknown-skippable
// chunks carry no meaning to this decoder (§3, §4.6).
func (r *Reader) drain(chunkLen int) bool {
	for chunkLen > 0 {
		n := chunkLen
		if n > len(r.buf) {
			n = len(r.buf)
		}
		if !r.readFull(r.buf[:n], false) {
			return false
		}
		chunkLen -= n
	}
	return true
}

func (r *Reader) record(chunkType byte, n int) {
	if r.opts.metrics == nil {
		return
	}
	kind := "compressed"
	if chunkType == chunkTypeUncompressedData {
		kind = "uncompressed"
	}
	r.opts.metrics.ChunksWritten.WithLabelValues(kind).Inc()
	r.opts.metrics.BytesIn.Add(float64(n))
}

// Close releases the Reader's pooled buffers back to internal/bufpool.
func (r *Reader) Close() error {
	if err := r.opGuard.enter(); err != nil {
		return err
	}
	defer r.opGuard.leave()
	if r.closed.Load() {
		return ErrClosed
	}
	r.closed.Store(true)
	if r.decOwn != nil {
		r.decOwn.Release()
		r.decOwn = nil
	}
	if r.bufOwn != nil {
		r.bufOwn.Release()
		r.bufOwn = nil
	}
	return nil
}
