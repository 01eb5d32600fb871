package snappy

import (
	"hash/crc32"
	"sync"

	"golang.org/x/sys/cpu"
)

// crcTable is the Castagnoli (CRC32C) table the format is defined over.
// hash/crc32's Update/Checksum dispatch to a hardware-accelerated
// implementation (SSE4.2 CRC32 instructions on amd64, the CRC32 extension on
// arm64) whenever the table was built from crc32.Castagnoli and the host
// supports it, falling back to a table-driven software loop otherwise. That
// capability probe-and-fallback is exactly what §2.2 and §9 ask for, so the
// core leans on the standard library here rather than reimplementing it.
var crcTable = crc32.MakeTable(crc32.Castagnoli)

var logHardwareCRCOnce sync.Once

// hasHardwareCRC32C reports whether the current CPU exposes the crc32c
// instruction hash/crc32 would use. It has no effect on the checksum value,
// only on the one-time diagnostic logged by crcChecksum the first time it
// runs on a platform without hardware support, which is useful when
// triaging throughput regressions reported against this package.
func hasHardwareCRC32C() bool {
	return cpu.X86.HasSSE42 || cpu.ARM64.HasCRC32
}

// crcChecksum computes the masked CRC32C of b, as required at the front of
// every framed-stream data chunk (§3 "Masked CRC32C").
func crcChecksum(b []byte) uint32 {
	if !hasHardwareCRC32C() {
		logHardwareCRCOnce.Do(func() {
			logger().Debug("snappy: no hardware CRC32C instruction detected, using software fallback")
		})
	}
	c := crc32.Update(0, crcTable, b)
	return maskChecksum(c)
}

// maskChecksum applies the format's bit-rotation mask to a raw CRC32C value.
// Masking (rather than using the raw CRC) avoids the checksum of data that
// is itself mostly zero bytes colliding with the checksum of truly empty
// data; see §3.
func maskChecksum(c uint32) uint32 {
	return ((c >> 15) | (c << 17)) + 0xa282ead8
}
