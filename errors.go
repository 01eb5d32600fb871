package snappy

import "errors"

// Sentinel errors for the raw block and framed stream codecs. These are kept
// as plain values, not wrapped, so the hot decode/encode paths can return
// them without allocating; callers compare with errors.Is.
var (
	// ErrCorrupt reports a malformed block: a bad tag, a truncated operand,
	// a copy offset out of range, a declared-length mismatch, or a varint
	// that overruns its bound. See spec §7 "CorruptBlock".
	ErrCorrupt = errors.New("snappy: corrupt input")

	// ErrTooLarge reports a source too large to compress as one block
	// (MaxEncodedLen returns a negative value for its length). A declared
	// length above decodedLenLimit is reported as ErrCorrupt instead.
	ErrTooLarge = errors.New("snappy: decoded block is too large")

	// ErrUnsupported reports a literal or copy length that decodes to zero
	// or negative, which the format never produces from a conforming
	// encoder.
	ErrUnsupported = errors.New("snappy: unsupported input")

	// ErrOutputTooSmall reports a destination buffer that cannot hold the
	// result of an operation; callers may retry with a larger buffer.
	ErrOutputTooSmall = errors.New("snappy: output buffer too small")

	// ErrCorruptStream reports a framed-stream protocol violation: a
	// missing or duplicate stream identifier, an unknown unskippable
	// chunk, a chunk length out of range, or a CRC32C mismatch.
	ErrCorruptStream = errors.New("snappy: corrupt stream")

	// ErrNotSupported reports a stream operation that the format does not
	// support; Writer.Seek and Reader.Seek are the operations that return it.
	ErrNotSupported = errors.New("snappy: operation not supported")

	// ErrClosed reports use of a Writer or Reader after Close.
	ErrClosed = errors.New("snappy: use of closed stream")

	// ErrConcurrentOperation reports an attempt to start a second
	// asynchronous operation on a stream instance while one is already in
	// flight. See §5 "Suspension".
	ErrConcurrentOperation = errors.New("snappy: concurrent operation on the same stream")
)
