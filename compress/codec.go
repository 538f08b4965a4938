// Package compress provides the compression codecs used to inflate a NAF
// section's payload, plus a streaming adapter that lets the archive session
// pull decompressed bytes from a section without materializing the whole
// thing in memory.
//
// Every section the reference encoder produces is Zstd-compressed, but the
// extended section's codec-note entry can name any of
// the four algorithms below for the archive's whole-buffer sections (title,
// ids, names, lengths, mask), so the session reads those through this
// package's Codec abstraction rather than hard-wiring Zstd into the section
// reader. The data and quality sections are always read as Zstd.
package compress

import (
	"github.com/trafficone/naf/errs"
	"github.com/trafficone/naf/format"
)

// Decompressor inflates a fully-buffered compressed payload into its
// original bytes.
//
// Implementations validate the input format and return an error if the
// data is corrupted or uses an incompatible algorithm.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Compressor deflates a payload. naf only ever decodes archives, but the
// Codec interface (and therefore Compressor) is kept symmetric with the
// algorithms themselves, matching how each one is implemented as a pair.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// NewCodec is a factory that returns the Codec for the given compression
// type, or an error if compressionType is not one of the four known values.
func NewCodec(compressionType format.CompressionType) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCodec(), nil
	case format.CompressionZstd:
		return NewZstdCodec(), nil
	case format.CompressionS2:
		return NewS2Codec(), nil
	case format.CompressionLZ4:
		return NewLZ4Codec(), nil
	default:
		return nil, errs.New(errs.KindCorrupt, "compress: unknown compression type %d", compressionType)
	}
}
