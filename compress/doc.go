// Package compress documents the codecs available to a NAF section and how
// the streaming adapter fits over them.
//
// # Algorithms
//
//   - Zstd (format.CompressionZstd): the reference encoder's only output
//     format. Pure-Go by default (klauspost/compress/zstd); build with
//     -tags cgo_gozstd to use the cgo valyala/gozstd backend instead.
//   - S2 (format.CompressionS2), LZ4 (format.CompressionLZ4): available
//     through the extended section's codec-note entry, for archives that
//     opt a non-reference encoder into a faster-but-larger codec.
//   - None (format.CompressionNone): bypass, mostly useful for tests.
//
// # Streaming
//
// In the default build, StreamDecompressor is the only one of these that
// does not require the whole compressed section to be buffered in memory
// first (the cgo_gozstd build materializes the section): it wraps a zstd
// decoding stream with a pull interface, Next(out []byte) (n int, eof bool,
// err error), so the sequence and quality streamers can decode a
// multi-gigabyte data section through a small, fixed-size buffer.
//
// The other codecs (S2, LZ4, None) only appear on small metadata sections
// (ids, names, lengths, mask, title, extended) through the Codec interface's
// whole-buffer Decompress, since those sections are bounded by the sequence
// count rather than by genome size.
package compress
