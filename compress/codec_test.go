package compress_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficone/naf/compress"
	"github.com/trafficone/naf/errs"
	"github.com/trafficone/naf/format"
)

func allCodecs() map[string]compress.Codec {
	return map[string]compress.Codec{
		"none": compress.NewNoOpCodec(),
		"zstd": compress.NewZstdCodec(),
		"s2":   compress.NewS2Codec(),
		"lz4":  compress.NewLZ4Codec(),
	}
}

func TestCodecRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("ACGTACGTNNNN"), 200)

	for name, codec := range allCodecs() {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, payload, decompressed)
		})
	}
}

func TestCodecEmptyPayload(t *testing.T) {
	for name, codec := range allCodecs() {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			assert.Empty(t, decompressed)
		})
	}
}

func TestNewCodecFactory(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	} {
		codec, err := compress.NewCodec(ct)
		require.NoError(t, err)
		assert.NotNil(t, codec)
	}

	_, err := compress.NewCodec(format.CompressionType(99))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindCorrupt))
}

func TestStreamDecompressorYieldsExactOriginalSize(t *testing.T) {
	payload := bytes.Repeat([]byte("ACGT"), 4096)
	compressed, err := compress.NewZstdCodec().Compress(payload)
	require.NoError(t, err)

	sd, err := compress.NewStreamDecompressor(bytes.NewReader(compressed), uint64(len(payload)))
	require.NoError(t, err)
	defer sd.Close()

	var out bytes.Buffer
	buf := make([]byte, 37) // deliberately not a multiple of len(payload)
	for {
		n, eof, err := sd.Next(buf)
		require.NoError(t, err)
		out.Write(buf[:n])
		if eof {
			break
		}
	}

	assert.Equal(t, payload, out.Bytes())
}

func TestStreamDecompressorTruncated(t *testing.T) {
	payload := bytes.Repeat([]byte("ACGT"), 4096)
	compressed, err := compress.NewZstdCodec().Compress(payload)
	require.NoError(t, err)

	// Claim more original bytes than the stream actually contains.
	sd, err := compress.NewStreamDecompressor(bytes.NewReader(compressed), uint64(len(payload)+10))
	require.NoError(t, err)
	defer sd.Close()

	var truncated bool
	buf := make([]byte, 128)
	for i := 0; i < 1000; i++ {
		_, eof, err := sd.Next(buf)
		if err != nil {
			truncated = true

			break
		}
		if eof {
			break
		}
	}

	assert.True(t, truncated)
}

func TestStreamDecompressorBoundedBySectionWindow(t *testing.T) {
	payload := []byte("ACGTACGTACGT")
	compressed, err := compress.NewZstdCodec().Compress(payload)
	require.NoError(t, err)

	// Append trailing garbage the caller must never read past; the framed
	// section reader is responsible for bounding via io.LimitReader.
	framed := append(append([]byte{}, compressed...), []byte("trailing-garbage")...)
	bounded := io.LimitReader(bytes.NewReader(framed), int64(len(compressed)))

	sd, err := compress.NewStreamDecompressor(bounded, uint64(len(payload)))
	require.NoError(t, err)
	defer sd.Close()

	var out bytes.Buffer
	buf := make([]byte, 4)
	for {
		n, eof, err := sd.Next(buf)
		require.NoError(t, err)
		out.Write(buf[:n])
		if eof {
			break
		}
	}
	assert.Equal(t, payload, out.Bytes())
}

func TestStreamDecompressorRejectsOversizedStream(t *testing.T) {
	payload := bytes.Repeat([]byte("ACGT"), 64)
	compressed, err := compress.NewZstdCodec().Compress(payload)
	require.NoError(t, err)

	// Declare fewer bytes than the stream really holds.
	sd, err := compress.NewStreamDecompressor(bytes.NewReader(compressed), uint64(len(payload))-10)
	require.NoError(t, err)
	defer sd.Close()

	buf := make([]byte, 1024)
	var lastErr error
	for {
		_, eof, err := sd.Next(buf)
		if err != nil {
			lastErr = err
			break
		}
		if eof {
			break
		}
	}

	require.Error(t, lastErr)
	assert.True(t, errs.Is(lastErr, errs.KindCorrupt))
}

func TestStreamDecompressorRejectsTruncatedStream(t *testing.T) {
	payload := bytes.Repeat([]byte("ACGT"), 64)
	compressed, err := compress.NewZstdCodec().Compress(payload)
	require.NoError(t, err)

	// Declare more bytes than the stream really holds.
	sd, err := compress.NewStreamDecompressor(bytes.NewReader(compressed), uint64(len(payload))+10)
	require.NoError(t, err)
	defer sd.Close()

	buf := make([]byte, 1024)
	var lastErr error
	for {
		_, eof, err := sd.Next(buf)
		if err != nil {
			lastErr = err
			break
		}
		if eof {
			break
		}
	}

	require.Error(t, lastErr)
	assert.True(t, errs.Is(lastErr, errs.KindTruncated))
}
