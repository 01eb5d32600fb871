package snappy

// Tag kinds, carried in the low two bits of every tag byte. See §3 "Tag".
const (
	tagLiteral = 0x00
	tagCopy1   = 0x01
	tagCopy2   = 0x02
	tagCopy4   = 0x03
)

// maxBlockSize is the sub-block window size the compressor scans
// independently (§3 "Sub-block"). The hash table is reset, and match
// offsets cannot cross, this boundary.
const maxBlockSize = 65536

// decodedLenLimit caps the value a block's length prefix may declare. It is
// not part of the wire format (§4.1, §9 "Open questions") — it exists only
// so a corrupt or hostile length prefix cannot make a decoder try to
// allocate an unreasonable amount of memory before any content has been
// validated.
const decodedLenLimit = 1 << 30
