package varint_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficone/naf/errs"
	"github.com/trafficone/naf/varint"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 4, 127, 128, 129, 300, 16384, 1 << 20,
		1<<63 - 1, 1 << 62, 0x7FFFFFFFFFFFFFFF,
	}

	for _, v := range values {
		enc := varint.Encode(v)
		got, err := varint.ReadUint64(bytes.NewReader(enc))
		require.NoError(t, err)
		assert.Equal(t, v, got, "round trip for %d", v)
	}
}

func TestEncodeZeroIsSingleByte(t *testing.T) {
	assert.Equal(t, []byte{0x00}, varint.Encode(0))
}

func TestEncodeFourIsSingleByte(t *testing.T) {
	// A lengths section holding a single record of length 4 decompresses
	// to the single byte 0x04.
	assert.Equal(t, []byte{0x04}, varint.Encode(4))
}

func TestDecodeRejectsRedundantLeadingByte(t *testing.T) {
	_, err := varint.ReadUint64(bytes.NewReader([]byte{0x80}))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindCorrupt))
}

func TestDecodeRejectsOverflow(t *testing.T) {
	// Ten continuation bytes carrying nonzero bits past position 64.
	overflow := bytes.Repeat([]byte{0xFF}, 10)
	_, err := varint.ReadUint64(bytes.NewReader(overflow))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindCorrupt))
}

func TestDecodeTruncated(t *testing.T) {
	// A continuation byte with nothing following.
	_, err := varint.ReadUint64(bytes.NewReader([]byte{0x81}))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindTruncated))
}

func TestDecodeEmptyInput(t *testing.T) {
	_, err := varint.ReadUint64(bytes.NewReader(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadUint64FromReaderWithoutByteReader(t *testing.T) {
	// io.MultiReader does not implement io.ByteReader, forcing the bufio fallback.
	r := io.MultiReader(bytes.NewReader([]byte{0x82, 0x2C}))
	got, err := varint.ReadUint64FromReader(r)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), got)
}
