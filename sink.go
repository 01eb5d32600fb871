package snappy

// sink is the decode-time output view described in §2.9 and §4.3: a
// contiguous write cursor over a buffer that is normally over-allocated by
// slackBytes past its logical capacity (a sink wrapping a caller buffer
// without spare capacity has no slack; see wrapSink). That slack lets the
// copy helpers in
// copy.go issue one unconditional 16-byte store per short copy without a
// length check, then let the *next* write simply overwrite whatever
// garbage landed in the slack region. The slack is never exposed: Bytes
// truncates it away.
const slackBytes = 16

// sink owns buf for the lifetime of a single block decode. It is not safe
// for concurrent use, matching the single-threaded model of §5.
type sink struct {
	buf   []byte // len(buf) is limit+slackBytes when owned, or exactly limit when wrapping a caller buffer with no spare capacity
	pos   int    // next write offset; 0 <= pos <= limit
	limit int    // declared decoded length
}

// newSink allocates a sink capable of holding exactly limit logical bytes,
// plus the guaranteed tail slack.
func newSink(limit int) *sink {
	return &sink{buf: make([]byte, limit+slackBytes), limit: limit}
}

// wrapSink builds a sink over a caller-supplied destination. dst must have
// length >= limit. If dst also has at least slackBytes of spare capacity
// past limit, the sink gets the unchecked fast-path stores; otherwise it is
// built directly over dst anyway (never a fresh, unrelated buffer), and
// hasFastPathSlack reports false so copy.go's bounds-checked slow paths do
// the writing instead.
func wrapSink(dst []byte, limit int) *sink {
	if dst == nil {
		return newSink(limit)
	}
	if cap(dst) >= limit+slackBytes {
		return &sink{buf: dst[:limit+slackBytes:limit+slackBytes], limit: limit}
	}
	return &sink{buf: dst[:limit:limit], limit: limit}
}

// hasFastPathSlack reports whether the sink's backing array actually has
// the full slack available at the current cursor — true whenever the sink
// owns its own buffer (newSink) or the caller's buffer had enough spare
// capacity (wrapSink). When false, copy.go must use the bounds-checked slow
// paths for the remainder of the block.
func (s *sink) hasFastPathSlack() bool {
	return len(s.buf)-s.pos >= slackBytes
}

// remaining returns how many more logical bytes can still be written.
func (s *sink) remaining() int {
	return s.limit - s.pos
}

// appendLiteral copies src into the sink at the current cursor. It reports
// ErrCorrupt if src would overflow the declared length.
func (s *sink) appendLiteral(src []byte) error {
	if len(src) > s.remaining() {
		return ErrCorrupt
	}
	copy(s.buf[s.pos:], src)
	s.pos += len(src)
	return nil
}

// bytes returns the logically valid, slack-free output. Valid only once the
// sink has been fully written (pos == limit).
func (s *sink) bytes() []byte {
	return s.buf[:s.limit]
}
