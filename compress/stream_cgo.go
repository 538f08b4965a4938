//go:build cgo_gozstd

package compress

import (
	"io"

	"github.com/trafficone/naf/errs"
)

// StreamDecompressor provides the same pull interface as the default
// build's streaming adapter, but the gozstd backend (built with
// -tags cgo_gozstd) has no incremental streaming API exposed here, so it
// materializes the whole section up front and serves Next from that buffer.
// Memory use therefore grows with the section's decompressed size.
type StreamDecompressor struct {
	data         []byte
	pos          int
	originalSize uint64
}

// NewStreamDecompressor reads all of src, decompresses it with the cgo
// backend, and prepares a StreamDecompressor over the result.
func NewStreamDecompressor(src io.Reader, originalSize uint64) (*StreamDecompressor, error) {
	compressed, err := io.ReadAll(src)
	if err != nil {
		return nil, errs.Wrap(errs.KindIO, err, "compress: reading section for cgo zstd stream")
	}

	codec := NewZstdCodec()
	decoded, err := codec.Decompress(compressed)
	if err != nil {
		return nil, errs.Wrap(errs.KindCorrupt, err, "compress: cgo zstd decompression")
	}

	if uint64(len(decoded)) != originalSize {
		return nil, errs.New(errs.KindCorrupt, "compress: cgo zstd produced %d bytes, expected %d", len(decoded), originalSize)
	}

	return &StreamDecompressor{data: decoded, originalSize: originalSize}, nil
}

// Next copies up to len(out) bytes from the materialized buffer.
func (d *StreamDecompressor) Next(out []byte) (n int, eof bool, err error) {
	if d.pos >= len(d.data) {
		return 0, true, nil
	}

	n = copy(out, d.data[d.pos:])
	d.pos += n

	return n, d.pos >= len(d.data), nil
}

// Close is a no-op; the decoded buffer is reclaimed by the garbage collector.
func (d *StreamDecompressor) Close() {}
