// Copyright 2011 The Snappy-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snappy

import (
	"io"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/gosnappy/gosnappy/internal/bufpool"
)

// NewWriter returns a new Writer that compresses to w.
//
// The Writer returned does not buffer writes. There is no need to Flush or
// Close such a Writer.
//
// Deprecated: the Writer returned is not suitable for many small writes,
// only for few large writes. Use NewBufferedWriter instead, which is
// efficient regardless of the frequency and shape of the writes, and
// remember to Close that Writer when done.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	obuf := bufpool.Acquire(obufLen)
	return &Writer{
		w:       w,
		obuf:    obuf.Bytes()[:obufLen],
		obufOwn: obuf,
		opts:    newStreamOptions(opts),
	}
}

// NewBufferedWriter returns a new Writer that compresses to w using the
// framing format described in §3/§4.5.
//
// The Writer returned buffers writes. Users must call Close to guarantee
// all data has been forwarded to the underlying io.Writer. They may also
// call Flush zero or more times before calling Close.
func NewBufferedWriter(w io.Writer, opts ...Option) *Writer {
	ibuf := bufpool.Acquire(maxBlockSize)
	obuf := bufpool.Acquire(obufLen)
	return &Writer{
		w:       w,
		ibuf:    ibuf.Bytes()[:0:maxBlockSize],
		ibufOwn: ibuf,
		obuf:    obuf.Bytes()[:obufLen],
		obufOwn: obuf,
		opts:    newStreamOptions(opts),
	}
}

// Writer is an io.Writer that writes Snappy-framed, CRC32C-checked,
// compressed bytes (§4.5). It is not safe for concurrent use by multiple
// goroutines, matching the single-threaded model of §5, but guards against
// overlapping asynchronous calls on the same instance (see WriteContext).
type Writer struct {
	w   io.Writer
	err error

	opGuard

	// ibuf buffers incoming (uncompressed) bytes. Its use is optional: for
	// backwards compatibility, Writers created by NewWriter have ibuf ==
	// nil, do not buffer incoming bytes, and therefore do not need to be
	// Flush'ed or Close'd.
	ibuf    []byte
	ibufOwn *bufpool.Buffer

	// obuf buffers the outgoing (framed, compressed) bytes.
	obuf    []byte
	obufOwn *bufpool.Buffer

	wroteStreamHeader bool
	closed            atomic.Bool
	opts              streamOptions
}

// Reset discards the writer's state and switches the Snappy writer to write
// to w. This permits reusing a Writer rather than allocating a new one. If
// the Writer was previously Close'd, its pooled buffers were released back
// to internal/bufpool; Reset reacquires fresh ones rather than continuing to
// write into a buffer that may since have been handed to another instance.
func (w *Writer) Reset(writer io.Writer) {
	w.w = writer
	w.err = nil

	if w.obufOwn == nil {
		obuf := bufpool.Acquire(obufLen)
		w.obuf = obuf.Bytes()[:obufLen]
		w.obufOwn = obuf
	}
	if w.ibuf != nil || w.ibufOwn != nil {
		if w.ibufOwn == nil {
			ibuf := bufpool.Acquire(maxBlockSize)
			w.ibuf = ibuf.Bytes()[:0:maxBlockSize]
			w.ibufOwn = ibuf
		} else {
			w.ibuf = w.ibuf[:0]
		}
	}

	w.wroteStreamHeader = false
	w.closed.Store(false)
}

// Write satisfies the io.Writer interface.
func (w *Writer) Write(p []byte) (nRet int, errRet error) {
	if err := w.opGuard.enter(); err != nil {
		return 0, err
	}
	defer w.opGuard.leave()
	return w.writeLocked(p)
}

func (w *Writer) writeLocked(p []byte) (nRet int, errRet error) {
	if w.closed.Load() {
		return 0, ErrClosed
	}
	if w.ibuf == nil {
		// Do not buffer incoming bytes. This does not perform or compress
		// well if the caller writes many small slices, so it is
		// deprecated but kept for backwards compatibility.
		return w.write(p)
	}

	// The remainder of this method is based on bufio.Writer.Write from the
	// standard library.
	for len(p) > (cap(w.ibuf)-len(w.ibuf)) && w.err == nil {
		var n int
		if len(w.ibuf) == 0 {
			n, _ = w.write(p)
		} else {
			n = copy(w.ibuf[len(w.ibuf):cap(w.ibuf)], p)
			w.ibuf = w.ibuf[:len(w.ibuf)+n]
			w.flushLocked()
		}
		nRet += n
		p = p[n:]
	}
	if w.err != nil {
		return nRet, w.err
	}
	n := copy(w.ibuf[len(w.ibuf):cap(w.ibuf)], p)
	w.ibuf = w.ibuf[:len(w.ibuf)+n]
	nRet += n
	return nRet, nil
}

func (w *Writer) write(p []byte) (nRet int, errRet error) {
	if w.err != nil {
		return 0, w.err
	}
	for len(p) > 0 {
		obufStart := len(magicChunk)
		if !w.wroteStreamHeader {
			w.wroteStreamHeader = true
			copy(w.obuf, magicChunk)
			obufStart = 0
		}

		var uncompressed []byte
		if len(p) > maxBlockSize {
			uncompressed, p = p[:maxBlockSize], p[maxBlockSize:]
		} else {
			uncompressed, p = p, nil
		}
		checksum := crcChecksum(uncompressed)

		// Compress the buffer, discarding the result if it is not smaller
		// than the raw bytes, in which case the chunk is emitted
		// uncompressed.
		compressed := encodeBlockAsChunkBody(w.obuf[obufHeaderLen:], uncompressed)
		chunkType := uint8(chunkTypeCompressedData)
		chunkLen := 4 + len(compressed)
		obufEnd := obufHeaderLen + len(compressed)
		if len(compressed) >= len(uncompressed) {
			chunkType = chunkTypeUncompressedData
			chunkLen = 4 + len(uncompressed)
			obufEnd = obufHeaderLen
		}

		w.obuf[len(magicChunk)+0] = chunkType
		w.obuf[len(magicChunk)+1] = uint8(chunkLen >> 0)
		w.obuf[len(magicChunk)+2] = uint8(chunkLen >> 8)
		w.obuf[len(magicChunk)+3] = uint8(chunkLen >> 16)
		w.obuf[len(magicChunk)+4] = uint8(checksum >> 0)
		w.obuf[len(magicChunk)+5] = uint8(checksum >> 8)
		w.obuf[len(magicChunk)+6] = uint8(checksum >> 16)
		w.obuf[len(magicChunk)+7] = uint8(checksum >> 24)

		if _, err := w.w.Write(w.obuf[obufStart:obufEnd]); err != nil {
			w.err = errors.Wrap(err, "snappy: writing chunk header/body")
			return nRet, w.err
		}
		if chunkType == chunkTypeUncompressedData {
			if _, err := w.w.Write(uncompressed); err != nil {
				w.err = errors.Wrap(err, "snappy: writing uncompressed chunk payload")
				return nRet, w.err
			}
		}
		nRet += len(uncompressed)
		w.recordChunk(chunkType, len(uncompressed), chunkLen-checksumSize)
	}
	return nRet, nil
}

func (w *Writer) recordChunk(chunkType uint8, rawLen, outLen int) {
	if w.opts.metrics == nil {
		return
	}
	kind := "compressed"
	if chunkType == chunkTypeUncompressedData {
		kind = "uncompressed"
	}
	w.opts.metrics.ChunksWritten.WithLabelValues(kind).Inc()
	w.opts.metrics.BytesIn.Add(float64(rawLen))
	w.opts.metrics.BytesOut.Add(float64(outLen))
	if rawLen > 0 {
		w.opts.metrics.CompressionRate.Observe(float64(outLen) / float64(rawLen))
	}
}

// Seek always fails: a compressing stream has no notion of position (§6
// "NotSupported"). The method exists so callers that type-assert for
// io.Seeker get a clean rejection instead of a failed assertion.
func (w *Writer) Seek(offset int64, whence int) (int64, error) {
	return 0, ErrNotSupported
}

// encodeBlockAsChunkBody compresses uncompressed (<= maxBlockSize bytes,
// i.e. a single sub-block) into dst as a complete block, varint length
// prefix included: Reader hands a compressed-data chunk's payload to the
// block decompressor, which starts by reading that prefix (§4.6).
func encodeBlockAsChunkBody(dst, uncompressed []byte) []byte {
	d := putUvarint32(dst, uint32(len(uncompressed)))
	if len(uncompressed) < minNonLiteralBlockSize {
		n := emitLiteral(dst[d:], uncompressed)
		return dst[:d+n]
	}
	h := newHashTable()
	n := encodeBlock(dst[d:], uncompressed, h)
	return dst[:d+n]
}

// Flush flushes the Writer to its underlying io.Writer.
func (w *Writer) Flush() error {
	if err := w.opGuard.enter(); err != nil {
		return err
	}
	defer w.opGuard.leave()
	return w.flushLocked()
}

func (w *Writer) flushLocked() error {
	if w.err != nil {
		return w.err
	}
	if len(w.ibuf) == 0 {
		return nil
	}
	w.write(w.ibuf)
	w.ibuf = w.ibuf[:0]
	return w.err
}

// Close calls Flush and then closes the Writer, releasing its pooled
// buffers back to internal/bufpool.
func (w *Writer) Close() error {
	if err := w.opGuard.enter(); err != nil {
		return err
	}
	defer w.opGuard.leave()
	if w.closed.Load() {
		return ErrClosed
	}
	w.flushLocked()
	ret := w.err
	if w.err == nil {
		w.err = ErrClosed
	}
	w.closed.Store(true)
	if w.ibufOwn != nil {
		w.ibufOwn.Release()
		w.ibufOwn = nil
	}
	if w.obufOwn != nil {
		w.obufOwn.Release()
		w.obufOwn = nil
	}
	return ret
}
