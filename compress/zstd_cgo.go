//go:build cgo_gozstd

// This file provides a cgo-based Zstd backend using valyala/gozstd, kept
// out of the default build since cgo cross-compilation isn't always
// available. Build with -tags cgo_gozstd to switch the default codec over
// to this backend.
package compress

import (
	"fmt"

	"github.com/valyala/gozstd"
)

// ZstdCodec provides Zstandard compression and decompression using the cgo
// gozstd backend.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

// NewZstdCodec creates a new Zstd codec.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}

// Compress compresses data using gozstd's default level.
func (c ZstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress decompresses data using gozstd.
func (c ZstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := gozstd.Decompress(nil, data)
	if err != nil {
		return nil, fmt.Errorf("compress: zstd (cgo) decompression failed: %w", err)
	}

	return out, nil
}
