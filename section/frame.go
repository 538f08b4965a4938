package section

import (
	"io"

	"github.com/trafficone/naf/errs"
	"github.com/trafficone/naf/internal/pool"
	"github.com/trafficone/naf/varint"
)

// Frame is a section's self-describing header: the decompressed size and
// the compressed byte count that immediately follows it in the stream.
type Frame struct {
	OriginalSize   uint64
	CompressedSize uint64
}

// ReadFrame reads a frame header (two varints) from r.
func ReadFrame(r io.Reader) (Frame, error) {
	br := byteReaderFor(r)

	orig, err := varint.ReadUint64(br)
	if err != nil {
		return Frame{}, errs.Wrap(errs.KindOf(err, errs.KindCorrupt), err, "frame: reading original size")
	}

	comp, err := varint.ReadUint64(br)
	if err != nil {
		return Frame{}, errs.Wrap(errs.KindOf(err, errs.KindCorrupt), err, "frame: reading compressed size")
	}

	return Frame{OriginalSize: orig, CompressedSize: comp}, nil
}

// Bytes serializes the frame header.
func (f Frame) Bytes() []byte {
	out := varint.AppendUint64(nil, f.OriginalSize)
	out = varint.AppendUint64(out, f.CompressedSize)

	return out
}

// BoundedReader returns a reader limited to exactly f.CompressedSize bytes
// of r, for a section body that follows the frame header.
func (f Frame) BoundedReader(r io.Reader) io.Reader {
	return io.LimitReader(r, int64(f.CompressedSize))
}

// Skip advances past a section's compressed body without decoding it,
// seeking when r supports it and discarding the bytes otherwise.
// archive.Open does not call it; it seeks past each body itself.
func Skip(r io.Reader, f Frame) error {
	if seeker, ok := r.(io.Seeker); ok {
		_, err := seeker.Seek(int64(f.CompressedSize), io.SeekCurrent)
		if err != nil {
			return errs.Wrap(errs.KindIO, err, "frame: seeking past section")
		}

		return nil
	}

	n, err := io.CopyN(io.Discard, r, int64(f.CompressedSize))
	if err != nil {
		if n < int64(f.CompressedSize) {
			return errs.Wrap(errs.KindTruncated, err, "frame: skipping section")
		}

		return errs.Wrap(errs.KindIO, err, "frame: skipping section")
	}

	return nil
}

// ReadAndDecompress reads a whole framed section body and decompresses it
// with codec, verifying the result matches the declared original size. The
// compressed bytes are staged in a pooled section buffer; only the
// decompressed result, which callers retain, is freshly allocated.
func ReadAndDecompress(r io.Reader, f Frame, codec interface {
	Decompress([]byte) ([]byte, error)
}) ([]byte, error) {
	scratch := pool.GetSectionBuffer()
	defer pool.PutSectionBuffer(scratch)

	scratch.Grow(int(f.CompressedSize))
	compressed := scratch.B[:f.CompressedSize]
	if _, err := io.ReadFull(f.BoundedReader(r), compressed); err != nil {
		return nil, errs.Wrap(errs.KindTruncated, err, "frame: reading compressed body")
	}

	decompressed, err := codec.Decompress(compressed)
	if err != nil {
		return nil, errs.Wrap(errs.KindCorrupt, err, "frame: decompressing body")
	}

	if uint64(len(decompressed)) != f.OriginalSize {
		return nil, errs.New(errs.KindCorrupt, "frame: decompressed size %d does not match declared %d", len(decompressed), f.OriginalSize)
	}

	// A pass-through codec returns the scratch slice itself; detach the
	// result before the buffer goes back to the pool.
	if len(decompressed) > 0 && len(compressed) > 0 && &decompressed[0] == &compressed[0] {
		decompressed = append([]byte(nil), decompressed...)
	}

	return decompressed, nil
}
