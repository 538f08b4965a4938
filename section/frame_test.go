package section_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficone/naf/compress"
	"github.com/trafficone/naf/section"
)

func TestFrameRoundTrip(t *testing.T) {
	f := section.Frame{OriginalSize: 4, CompressedSize: 2}
	raw := f.Bytes()

	got, err := section.ReadFrame(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestBoundedReaderStopsAtCompressedSize(t *testing.T) {
	f := section.Frame{OriginalSize: 4, CompressedSize: 4}
	body := []byte("ABCDtrailing-garbage")

	r := f.BoundedReader(bytes.NewReader(body))
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("ABCD"), out)
}

func TestReadAndDecompressValidatesOriginalSize(t *testing.T) {
	codec := compress.NewZstdCodec()
	payload := []byte("ACGTACGT")
	compressed, err := codec.Compress(payload)
	require.NoError(t, err)

	f := section.Frame{OriginalSize: uint64(len(payload)), CompressedSize: uint64(len(compressed))}
	out, err := section.ReadAndDecompress(bytes.NewReader(compressed), f, codec)
	require.NoError(t, err)
	assert.Equal(t, payload, out)
}

func TestReadAndDecompressRejectsSizeMismatch(t *testing.T) {
	codec := compress.NewZstdCodec()
	payload := []byte("ACGTACGT")
	compressed, err := codec.Compress(payload)
	require.NoError(t, err)

	f := section.Frame{OriginalSize: uint64(len(payload)) + 1, CompressedSize: uint64(len(compressed))}
	_, err = section.ReadAndDecompress(bytes.NewReader(compressed), f, codec)
	require.Error(t, err)
}

func TestSkipAdvancesPastSection(t *testing.T) {
	f := section.Frame{OriginalSize: 3, CompressedSize: 3}
	rest := []byte("ABCrest-of-stream")
	r := bytes.NewReader(rest)

	err := section.Skip(r, f)
	require.NoError(t, err)

	remaining, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("rest-of-stream"), remaining)
}
