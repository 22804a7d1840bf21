// Package bitstream owns the bit-granular read/write engine used to build and
// parse compact binary messages.
//
// Bit order is most significant bit first within each byte: the first bit
// written to an empty byte lands in its high-order bit.
//
//	byte   0               1
//	      +---------------+---------------+-
//	      |7 6 5 4 3 2 1 0|7 6 5 4 3 2 1 0|
//	      +---------------+---------------+-
//	bit    0 1 2 3 4 5 6 7 8 9 ...
//
// Ownership boundary:
// - bit buffer and cursor/lock discipline
// - Writer (append, finalize once) and Reader (bounded consume)
// - compact-integer and string field codecs
// - tagged field variants (RawBits, CompactInt, AllocatedString, PrefixedString)
package bitstream
