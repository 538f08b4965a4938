package section

import (
	"io"

	"github.com/trafficone/naf/errs"
	"github.com/trafficone/naf/format"
	"github.com/trafficone/naf/varint"
)

// oneByteReader adapts r to io.ByteReader without reading ahead, so the
// caller's position in r stays exactly at the last byte consumed. A
// buffered adapter would pull bytes past the header and desync the
// section-frame walk that follows.
type oneByteReader struct {
	r   io.Reader
	buf [1]byte
}

func (o *oneByteReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(o.r, o.buf[:]); err != nil {
		return 0, err
	}

	return o.buf[0], nil
}

func byteReaderFor(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}

	return &oneByteReader{r: r}
}

// Magic is the three-byte signature every NAF archive begins with.
var Magic = [3]byte{0x01, 0xF9, 0xEC}

// MaxSupportedVersion is the highest format version this package parses.
// Anything beyond this refuses to guess at a sequence-type bit layout it
// has never seen and is reported as errs.KindUnsupportedVersion.
const MaxSupportedVersion = 2

// versionMask isolates the four low bits of the version byte that carry
// the numeric format version; the top two bits (6 and 7) carry the
// sequence type for version 2 archives (version 1 is always implicit DNA).
const (
	versionMask     = 0x0F
	seqTypeShift    = 6
	seqTypeBitsMask = 0x03
)

// Header is the fixed-and-variable-length archive header: magic, format
// version, flags, sequence type, name separator, and the two varint fields
// that precede the optional section table.
type Header struct {
	Version       uint8
	Flags         Flags
	SequenceType  format.SequenceType
	NameSeparator byte
	MaxLineLength uint64
	SequenceCount uint64
}

// ParseHeader reads and validates the archive header from r. It consumes
// exactly the header's bytes and leaves r positioned at the first section
// frame.
func ParseHeader(r io.Reader) (Header, error) {
	br := byteReaderFor(r)

	var h Header

	var magic [3]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return Header{}, classifyReadErr(err, "header: reading magic")
	}
	if magic != Magic {
		return Header{}, errs.ErrBadMagic
	}

	versionByte, err := br.ReadByte()
	if err != nil {
		return Header{}, classifyReadErr(err, "header: reading version")
	}

	h.Version = versionByte & versionMask
	if h.Version < 1 || h.Version > MaxSupportedVersion {
		return Header{}, errs.New(errs.KindUnsupportedVersion, "header: unsupported format version %d", h.Version)
	}

	if h.Version == 1 {
		h.SequenceType = format.SequenceDNA
	} else {
		h.SequenceType = format.SequenceType((versionByte >> seqTypeShift) & seqTypeBitsMask)
	}

	flagsByte, err := br.ReadByte()
	if err != nil {
		return Header{}, classifyReadErr(err, "header: reading flags")
	}
	h.Flags = Flags(flagsByte)

	h.NameSeparator, err = br.ReadByte()
	if err != nil {
		return Header{}, classifyReadErr(err, "header: reading name separator")
	}

	h.MaxLineLength, err = varint.ReadUint64(br)
	if err != nil {
		return Header{}, errs.Wrap(errs.KindOf(err, errs.KindCorrupt), err, "header: reading max line length")
	}

	h.SequenceCount, err = varint.ReadUint64(br)
	if err != nil {
		return Header{}, errs.Wrap(errs.KindOf(err, errs.KindCorrupt), err, "header: reading sequence count")
	}

	return h, nil
}

// Bytes serializes the header back into its on-wire form.
func (h Header) Bytes() []byte {
	out := make([]byte, 0, 6+20)
	out = append(out, Magic[:]...)

	versionByte := h.Version & versionMask
	if h.Version != 1 {
		versionByte |= byte(h.SequenceType&seqTypeBitsMask) << seqTypeShift
	}
	out = append(out, versionByte)
	out = append(out, byte(h.Flags))
	out = append(out, h.NameSeparator)
	out = varint.AppendUint64(out, h.MaxLineLength)
	out = varint.AppendUint64(out, h.SequenceCount)

	return out
}

func classifyReadErr(err error, msg string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errs.Wrap(errs.KindTruncated, err, "%s", msg)
	}

	return errs.Wrap(errs.KindIO, err, "%s", msg)
}
