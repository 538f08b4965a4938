package compress

// ZstdCodec provides Zstandard compression and decompression for NAF
// section payloads.
//
// This is the default compression algorithm used by the reference
// encoder for every section: title, ids, names, lengths, mask, data, and
// quality are all emitted Zstd-compressed, so this codec is on the hot path
// for every projection that touches payload bytes.
//
// The default build uses the pure-Go klauspost/compress/zstd backend (see
// zstd_pure.go), which needs no C toolchain and is safe to cross-compile.
// Building with -tags cgo_gozstd switches to the cgo valyala/gozstd backend
// (see zstd_cgo.go) instead, trading portability for the reference zstd
// library's encoder.
