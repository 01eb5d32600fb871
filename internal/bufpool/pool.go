// Package bufpool implements the "pooled memory owner" collaborator that
// spec §1 and §6 name but explicitly keep out of the codec core: the core
// depends only on the minimal contract "acquire a buffer of requested size,
// release it deterministically." This is the concrete implementation of
// that contract, built on sync.Pool the way moby-moby and
// syncthing-syncthing pool their own per-request scratch buffers.
package bufpool

import "sync"

// sizeClasses are the pool buckets, one sync.Pool per bucket so that a
// request for a 4KB literal scratch doesn't get handed back a 64KB chunk
// buffer (and vice versa). The largest class comfortably covers one
// framed-stream chunk (64KiB data) plus its CRC and the compressor's
// worst-case expansion.
var sizeClasses = [...]int{256, 1024, 4096, 16384, 65536, 1 << 17}

var pools = func() [len(sizeClasses)]sync.Pool {
	var p [len(sizeClasses)]sync.Pool
	for i, size := range sizeClasses {
		size := size
		p[i].New = func() any {
			b := make([]byte, size)
			return &b
		}
	}
	return p
}()

// Buffer is a scoped buffer checked out from the pool. Callers must call
// Release exactly once when finished; failing to do so never corrupts
// state, it just leaks the buffer back to the garbage collector instead of
// the pool (see spec §5 "Shared resources").
type Buffer struct {
	class int // index into pools, or -1 if this buffer bypassed the pool
	buf   *[]byte
}

// Acquire returns a Buffer whose Bytes() slice has length at least size:
// pooled buffers have the length of their size class. Requests larger than
// the biggest size class allocate exactly size bytes directly and are not
// returned to any pool on Release.
func Acquire(size int) *Buffer {
	for i, cap := range sizeClasses {
		if size <= cap {
			b := pools[i].Get().(*[]byte)
			if cap2 := len(*b); cap2 < size {
				*b = make([]byte, size)
			}
			return &Buffer{class: i, buf: b}
		}
	}
	b := make([]byte, size)
	return &Buffer{class: -1, buf: &b}
}

// Bytes returns the full backing slice. Callers should only treat the
// first `size` bytes passed to Acquire as meaningful.
func (b *Buffer) Bytes() []byte {
	return *b.buf
}

// Release returns the buffer to its pool. Calling Release more than once,
// or using Bytes() afterward, is a caller error (it is not guarded against,
// matching sync.Pool's own contract).
func (b *Buffer) Release() {
	if b.class < 0 {
		return
	}
	pools[b.class].Put(b.buf)
}
