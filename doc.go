// Copyright 2011 The Snappy-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package snappy implements the Snappy compression format. It aims for very
// high speeds and reasonable compression.
//
// There are actually two Snappy formats: block and stream. They are related,
// but different: trying to decompress block-compressed data as if it was
// stream-compressed data, or vice versa, will fail.
//
// The block format, the more common case, is used when the complete size of
// the original data is known upfront, at the time compression starts, and
// is format compatible with the C++ Snappy library's snappy::Compress and
// snappy::Uncompress functions. The stream format, also known as the
// framing format, is for when that isn't always true.
//
// The block format is the bulk of the work to compress and decompress,
// codified in the §4.2 and §4.3 component design: a hash-keyed literal/copy
// emitter on encode, and a tag-driven state machine on decode. The stream
// format (§4.5, §4.6) wraps one or more blocks in CRC32C-checked chunks so
// the format can be produced and consumed incrementally.
package snappy
