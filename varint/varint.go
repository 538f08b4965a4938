// Package varint implements the 7-bit-per-byte, continuation-bit variable
// length unsigned integer encoding used throughout NAF archives: the max
// line length, sequence count, and every section's original/compressed
// sizes.
//
// Encoding: each byte carries 7 data bits in its low bits. While more bytes
// follow, the high bit is set. Bytes are emitted most-significant-group
// first, so decoding accumulates by shifting left 7 and OR-ing in the next
// group — including the terminal byte, which carries the low 7 bits with
// its continuation bit clear.
package varint

import (
	"bufio"
	"io"

	"github.com/trafficone/naf/errs"
)

// maxShift is the largest left-shift that cannot push a nonzero bit past
// bit 63 on the next group; 57 = 64 - 7.
const maxShift = 57

// ReadUint64 reads one variable-length unsigned integer from r.
//
// It mirrors the reference decoder's read_number byte-for-byte: the leading
// byte 0x80 (continuation set, zero payload) is rejected as a redundant
// encoding, and overflow is detected before it can corrupt the accumulator.
func ReadUint64(r io.ByteReader) (uint64, error) {
	c, err := r.ReadByte()
	if err != nil {
		return 0, errs.Wrap(errs.KindTruncated, err, "varint: reading first byte")
	}

	if c == 0x80 {
		return 0, errs.ErrVarintRedundant
	}

	var a uint64
	for c&0x80 != 0 {
		if a&(uint64(0x7F)<<maxShift) != 0 {
			return 0, errs.ErrVarintOverflow
		}
		a = (a << 7) | uint64(c&0x7F)

		c, err = r.ReadByte()
		if err != nil {
			return 0, errs.Wrap(errs.KindTruncated, err, "varint: reading continuation byte")
		}
	}

	if a&(uint64(0x7F)<<maxShift) != 0 {
		return 0, errs.ErrVarintOverflow
	}
	a = (a << 7) | uint64(c)

	return a, nil
}

// ReadUint64FromReader adapts an io.Reader that is not already an
// io.ByteReader (e.g. a bounded section window) for ReadUint64.
func ReadUint64FromReader(r io.Reader) (uint64, error) {
	if br, ok := r.(io.ByteReader); ok {
		return ReadUint64(br)
	}

	return ReadUint64(bufio.NewReader(r))
}

// AppendUint64 appends the varint encoding of v to dst and returns the
// extended slice. The encoding of 0 is the single byte 0x00.
func AppendUint64(dst []byte, v uint64) []byte {
	// Collect 7-bit groups, most-significant first.
	var groups [10]byte
	n := 0
	groups[n] = byte(v & 0x7F)
	n++
	v >>= 7
	for v != 0 {
		groups[n] = byte(v & 0x7F)
		n++
		v >>= 7
	}

	// Emit most-significant group first, with continuation bits set on
	// every group but the last one we emit (which was the first one filled).
	for i := n - 1; i > 0; i-- {
		dst = append(dst, groups[i]|0x80)
	}
	dst = append(dst, groups[0])

	return dst
}

// Encode returns the varint encoding of v as a freshly allocated slice.
func Encode(v uint64) []byte {
	return AppendUint64(make([]byte, 0, 10), v)
}
