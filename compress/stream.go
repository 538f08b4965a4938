//go:build !cgo_gozstd

package compress

import (
	"io"

	"github.com/trafficone/naf/errs"
)

// streamSource is the minimal reader a StreamDecompressor needs from the
// framed section reader: exactly the bytes of one section's compressed
// payload, no more.
type streamSource = io.Reader

// StreamDecompressor is a streaming decompressor adapter: a pull source
// that yields decompressed bytes on demand instead of requiring the whole
// section to be materialized up front.
//
// It wraps a zstd decoding stream over a bounded section reader. Callers
// drive it with Next until it reports eof; it refills its internal input
// buffer from the section reader as needed and never reads past the
// section's declared compressed size (enforced by the caller handing it an
// io.Reader already bounded to that length, e.g. io.LimitReader).
type StreamDecompressor struct {
	dec          *zstdDecoderHandle
	originalSize uint64
	produced     uint64
}

// zstdDecoderHandle lets StreamDecompressor stay backend-agnostic: on the
// default build this wraps *zstd.Decoder from klauspost/compress.
type zstdDecoderHandle struct {
	read func(p []byte) (int, error)
	closeFn func()
}

// NewStreamDecompressor creates a StreamDecompressor reading compressed
// bytes from src (which must already be bounded to the section's declared
// compressed_size, typically via io.LimitReader) and expecting exactly
// originalSize decompressed bytes in total.
func NewStreamDecompressor(src io.Reader, originalSize uint64) (*StreamDecompressor, error) {
	zr, err := newZstdStreamDecoder(src)
	if err != nil {
		return nil, errs.Wrap(errs.KindCorrupt, err, "compress: opening zstd stream")
	}

	return &StreamDecompressor{
		dec: &zstdDecoderHandle{
			read:    zr.Read,
			closeFn: zr.Close,
		},
		originalSize: originalSize,
	}, nil
}

// Next fills out with up to len(out) decompressed bytes, returning how many
// were written and whether the section's declared original size has now
// been fully produced.
//
// It returns an *errs.Error of KindCorrupt if the underlying decoder
// reports an error, KindTruncated if the stream ends before originalSize
// bytes have been produced, and KindCorrupt if the stream holds more than
// originalSize bytes. The oversize check is real, not assumed: once the
// declared size is reached, Next probes the decoder for one more byte and
// only reports eof if none arrives.
func (d *StreamDecompressor) Next(out []byte) (n int, eof bool, err error) {
	if d.produced >= d.originalSize {
		if err := d.verifyEOF(); err != nil {
			return 0, false, err
		}

		return 0, true, nil
	}

	n, readErr := d.dec.read(out)
	d.produced += uint64(n)

	if readErr != nil && readErr != io.EOF {
		return n, false, errs.Wrap(errs.KindCorrupt, readErr, "compress: zstd stream decode error")
	}

	if d.produced > d.originalSize {
		return n, false, errs.New(errs.KindCorrupt, "compress: zstd stream produced more than the declared %d bytes", d.originalSize)
	}

	if readErr == io.EOF || n == 0 {
		if d.produced < d.originalSize {
			return n, false, errs.New(errs.KindTruncated, "compress: zstd stream ended at %d of %d declared bytes", d.produced, d.originalSize)
		}

		return n, true, nil
	}

	if d.produced == d.originalSize {
		if err := d.verifyEOF(); err != nil {
			return n, false, err
		}

		return n, true, nil
	}

	return n, false, nil
}

// verifyEOF confirms the decoder has nothing left once the declared
// original size has been produced; a single extra byte means the section's
// frame header lied about its size.
func (d *StreamDecompressor) verifyEOF() error {
	var probe [1]byte
	for {
		pn, perr := d.dec.read(probe[:])
		if pn > 0 {
			return errs.New(errs.KindCorrupt, "compress: zstd stream produced more than the declared %d bytes", d.originalSize)
		}
		if perr == io.EOF {
			return nil
		}
		if perr != nil {
			return errs.Wrap(errs.KindCorrupt, perr, "compress: zstd stream decode error")
		}
	}
}

// Close releases the underlying decoder.
func (d *StreamDecompressor) Close() {
	if d.dec != nil && d.dec.closeFn != nil {
		d.dec.closeFn()
	}
}
