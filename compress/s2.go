package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2Codec compresses and decompresses section payloads with S2, an
// available alternative for the extended section's codec-note entry
// (format.CompressionS2).
type S2Codec struct{}

var _ Codec = S2Codec{}

// NewS2Codec creates an S2 codec.
func NewS2Codec() S2Codec {
	return S2Codec{}
}

// Compress compresses data using S2.
func (c S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decompresses S2-compressed data.
func (c S2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("compress: s2 decompression failed: %w", err)
	}

	return out, nil
}
