package archive_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficone/naf/archive"
	"github.com/trafficone/naf/compress"
	"github.com/trafficone/naf/errs"
	"github.com/trafficone/naf/format"
	"github.com/trafficone/naf/section"
	"github.com/trafficone/naf/varint"
)

// archiveBuilder assembles a well-formed NAF byte stream for tests, section
// by section, compressing each with zstd exactly as the reference encoder
// does.
type archiveBuilder struct {
	header section.Header
	parts  map[string][]byte // section name -> raw (pre-compression) bytes
}

func newArchiveBuilder(seqCount uint64, nameSep byte) *archiveBuilder {
	return &archiveBuilder{
		header: section.Header{
			Version:       1,
			SequenceType:  format.SequenceDNA,
			NameSeparator: nameSep,
			MaxLineLength: 0,
			SequenceCount: seqCount,
		},
		parts: map[string][]byte{},
	}
}

func (b *archiveBuilder) withIds(ids ...string) *archiveBuilder {
	var raw []byte
	for _, id := range ids {
		raw = append(raw, []byte(id)...)
		raw = append(raw, 0x00)
	}
	b.parts["ids"] = raw
	b.header.Flags.WithIds(true)

	return b
}

func (b *archiveBuilder) withNames(names ...string) *archiveBuilder {
	var raw []byte
	for _, n := range names {
		raw = append(raw, []byte(n)...)
		raw = append(raw, 0x00)
	}
	b.parts["names"] = raw
	b.header.Flags.WithNames(true)

	return b
}

func (b *archiveBuilder) withLengths(lengths ...uint64) *archiveBuilder {
	var raw []byte
	for _, l := range lengths {
		raw = varint.AppendUint64(raw, l)
	}
	b.parts["lengths"] = raw
	b.header.Flags.WithLengths(true)

	return b
}

func (b *archiveBuilder) withMaskRuns(runs ...byte) *archiveBuilder {
	b.parts["mask"] = append([]byte{}, runs...)
	b.header.Flags.WithMask(true)

	return b
}

func (b *archiveBuilder) withData(packed ...byte) *archiveBuilder {
	b.parts["data"] = append([]byte{}, packed...)
	b.header.Flags.WithData(true)

	return b
}

func (b *archiveBuilder) withQuality(q ...byte) *archiveBuilder {
	b.parts["quality"] = append([]byte{}, q...)
	b.header.Flags.WithQuality(true)

	return b
}

func (b *archiveBuilder) build(t *testing.T) []byte {
	t.Helper()

	codec := compress.NewZstdCodec()
	out := append([]byte{}, b.header.Bytes()...)

	order := []string{"title", "ids", "names", "lengths", "mask", "data", "quality"}
	for _, name := range order {
		raw, ok := b.parts[name]
		if !ok {
			continue
		}

		compressed, err := codec.Compress(raw)
		require.NoError(t, err)

		f := section.Frame{OriginalSize: uint64(len(raw)), CompressedSize: uint64(len(compressed))}
		out = append(out, f.Bytes()...)
		out = append(out, compressed...)
	}

	return out
}

func TestEmptyArchive(t *testing.T) {
	raw := []byte{0x01, 0xF9, 0xEC, 0x01, 0x00, 0x20, 0x00, 0x00}

	sess, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess.Close()

	assert.Equal(t, uint64(0), sess.NumberOfSequences())

	var buf bytes.Buffer
	require.NoError(t, sess.EmitFasta(&buf, archive.Options{UseMask: true}))
	assert.Empty(t, buf.Bytes())
}

func TestSingleRecordFastaAndFourBit(t *testing.T) {
	b := newArchiveBuilder(1, ' ').
		withIds("s1").
		withLengths(4).
		withData(0x84, 0x21)
	raw := b.build(t)

	sess, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess.Close()

	var fasta bytes.Buffer
	require.NoError(t, sess.EmitFasta(&fasta, archive.Options{UseMask: true}))
	assert.Equal(t, ">s1\nACGT\n", fasta.String())

	sess2, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess2.Close()

	var fourBit bytes.Buffer
	require.NoError(t, sess2.EmitFourBit(&fourBit))
	assert.Equal(t, []byte{0x84, 0x21}, fourBit.Bytes())
}

func TestMaskedRecord(t *testing.T) {
	// sequence ACGTAC packed: A=8,C=4 -> 0x84; G=2,T=1 -> 0x21; A=8,C=4 -> 0x84
	b := newArchiveBuilder(1, ' ').
		withIds("s1").
		withLengths(6).
		withData(0x84, 0x21, 0x84).
		withMaskRuns(2, 2, 2)
	raw := b.build(t)

	sess, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess.Close()

	var fasta bytes.Buffer
	require.NoError(t, sess.EmitFasta(&fasta, archive.Options{UseMask: true}))
	assert.Equal(t, ">s1\nacGTac\n", fasta.String())
}

func TestTwoRecordsLineWrap(t *testing.T) {
	// ACGT -> 0x84 0x21 ; NN -> 0xFF (N=15 -> nibble 0xF twice)
	b := newArchiveBuilder(2, ' ').
		withIds("s1", "s2").
		withLengths(4, 2).
		withData(0x84, 0x21, 0xFF)
	raw := b.build(t)

	sess, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess.Close()

	var fasta bytes.Buffer
	require.NoError(t, sess.EmitFasta(&fasta, archive.Options{UseMask: true, LineLength: 3}))
	assert.Equal(t, ">s1\nACG\nT\n>s2\nNN\n", fasta.String())
}

func TestFastq(t *testing.T) {
	b := newArchiveBuilder(1, ' ').
		withIds("s1").
		withLengths(4).
		withData(0x84, 0x21).
		withQuality('!', '!', '!', '!')
	raw := b.build(t)

	sess, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess.Close()

	var fastq bytes.Buffer
	require.NoError(t, sess.EmitFastq(&fastq, archive.Options{UseMask: true}))
	assert.Equal(t, "@s1\nACGT\n+\n!!!!\n", fastq.String())
}

func TestFastqRejectedWithoutQuality(t *testing.T) {
	b := newArchiveBuilder(1, ' ').
		withIds("s1").
		withLengths(4).
		withData(0x84, 0x21)
	raw := b.build(t)

	sess, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess.Close()

	var buf bytes.Buffer
	err = sess.EmitFastq(&buf, archive.Options{UseMask: true})
	require.Error(t, err)
}

func TestVarintOverflowInLengthsIsCorrupt(t *testing.T) {
	b := newArchiveBuilder(1, ' ')
	b.parts["lengths"] = bytes.Repeat([]byte{0xFF}, 10)
	b.header.Flags.WithLengths(true)
	raw := b.build(t)

	sess, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess.Close()

	_, err = sess.Lengths()
	require.Error(t, err)
	assert.Equal(t, errs.KindCorrupt, errs.GetKind(err))
}

func TestIdsCountMismatchIsRejected(t *testing.T) {
	b := newArchiveBuilder(2, ' ').withIds("s1") // only one id for sequence_count=2
	raw := b.build(t)

	sess, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess.Close()

	_, err = sess.Ids()
	require.Error(t, err)
}

func TestMaskedFastqDrivesStreamsInLockstep(t *testing.T) {
	// Two records whose sequence, mask, and quality streams must advance
	// together: ACGT then NN, mask runs [2,2,2], quality "!!!!" and "##".
	b := newArchiveBuilder(2, ' ').
		withIds("s1", "s2").
		withLengths(4, 2).
		withData(0x84, 0x21, 0xFF).
		withMaskRuns(2, 2, 2).
		withQuality('!', '!', '!', '!', '#', '#')
	raw := b.build(t)

	sess, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess.Close()

	var fastq bytes.Buffer
	require.NoError(t, sess.EmitFastq(&fastq, archive.Options{UseMask: true}))
	assert.Equal(t, "@s1\nacGT\n+\n!!!!\n@s2\nnn\n+\n##\n", fastq.String())
}

func TestMaskRunEndingAtRecordBoundaryCarriesToggledState(t *testing.T) {
	b := newArchiveBuilder(2, ' ').
		withIds("s1", "s2").
		withLengths(2, 2).
		withData(0x84, 0x21).
		withMaskRuns(2, 2)
	raw := b.build(t)

	sess, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess.Close()

	var fasta bytes.Buffer
	require.NoError(t, sess.EmitFasta(&fasta, archive.Options{UseMask: true}))
	assert.Equal(t, ">s1\nac\n>s2\nGT\n", fasta.String())
}

func TestMaskSumMismatchIsCorrupt(t *testing.T) {
	b := newArchiveBuilder(1, ' ').
		withIds("s1").
		withLengths(4).
		withData(0x84, 0x21).
		withMaskRuns(2, 2, 1) // sums to 5, total length is 4
	raw := b.build(t)

	sess, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess.Close()

	var fasta bytes.Buffer
	err = sess.EmitFasta(&fasta, archive.Options{UseMask: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrMaskSumMismatch)
}

func TestNoMaskEmitsUppercase(t *testing.T) {
	b := newArchiveBuilder(1, ' ').
		withIds("s1").
		withLengths(6).
		withData(0x84, 0x21, 0x84).
		withMaskRuns(2, 2, 2)
	raw := b.build(t)

	sess, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess.Close()

	var fasta bytes.Buffer
	require.NoError(t, sess.EmitFasta(&fasta, archive.Options{UseMask: false}))
	assert.Equal(t, ">s1\nACGTAC\n", fasta.String())
}

func TestSeqProjectionConcatenatesWithoutSeparators(t *testing.T) {
	b := newArchiveBuilder(2, ' ').
		withIds("s1", "s2").
		withLengths(4, 2).
		withData(0x84, 0x21, 0xFF)
	raw := b.build(t)

	sess, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess.Close()

	var out bytes.Buffer
	require.NoError(t, sess.EmitSeq(&out, archive.Options{UseMask: true}))
	assert.Equal(t, "ACGTNN", out.String())
}

func TestOddLengthDropsPaddingNibble(t *testing.T) {
	// ACG packs to 0x84 0x20: the final low nibble is padding.
	b := newArchiveBuilder(1, ' ').
		withIds("s1").
		withLengths(3).
		withData(0x84, 0x20)
	raw := b.build(t)

	sess, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess.Close()

	var fasta bytes.Buffer
	require.NoError(t, sess.EmitFasta(&fasta, archive.Options{UseMask: true}))
	assert.Equal(t, ">s1\nACG\n", fasta.String())
}

func TestFastaNamesJoinedWithSeparator(t *testing.T) {
	b := newArchiveBuilder(1, '_').
		withIds("s1").
		withNames("sample one").
		withLengths(4).
		withData(0x84, 0x21)
	raw := b.build(t)

	sess, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess.Close()

	var fasta bytes.Buffer
	require.NoError(t, sess.EmitFasta(&fasta, archive.Options{UseMask: true}))
	assert.Equal(t, ">s1_sample one\nACGT\n", fasta.String())
}

func TestQualityShorterThanLengthsIsTruncated(t *testing.T) {
	b := newArchiveBuilder(1, ' ').
		withIds("s1").
		withLengths(4).
		withData(0x84, 0x21).
		withQuality('!', '!', '!') // one byte short
	raw := b.build(t)

	sess, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess.Close()

	var out bytes.Buffer
	err = sess.EmitFastq(&out, archive.Options{UseMask: true})
	require.Error(t, err)
	assert.Equal(t, errs.KindTruncated, errs.GetKind(err))
}

func TestQualityLongerThanLengthsIsCorrupt(t *testing.T) {
	b := newArchiveBuilder(1, ' ').
		withIds("s1").
		withLengths(4).
		withData(0x84, 0x21).
		withQuality('!', '!', '!', '!', '!') // one byte over
	raw := b.build(t)

	sess, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess.Close()

	var out bytes.Buffer
	err = sess.EmitFastq(&out, archive.Options{UseMask: true})
	require.Error(t, err)
	assert.Equal(t, errs.KindCorrupt, errs.GetKind(err))
}

func TestFourBitRejectedForProteinArchive(t *testing.T) {
	b := newArchiveBuilder(1, ' ').
		withIds("s1").
		withLengths(4).
		withData(0x84, 0x21)
	b.header.Version = 2
	b.header.SequenceType = format.SequenceProtein
	raw := b.build(t)

	sess, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess.Close()

	var out bytes.Buffer
	err = sess.EmitFourBit(&out)
	require.Error(t, err)
	assert.Equal(t, errs.KindUnsupportedProjection, errs.GetKind(err))
}

func TestFastaWithoutLengthsIsRejected(t *testing.T) {
	b := newArchiveBuilder(1, ' ').
		withIds("s1").
		withData(0x84, 0x21)
	raw := b.build(t)

	sess, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess.Close()

	var out bytes.Buffer
	err = sess.EmitFasta(&out, archive.Options{UseMask: true})
	require.Error(t, err)
	assert.Equal(t, errs.KindUnsupportedProjection, errs.GetKind(err))
}

func TestMetadataProjections(t *testing.T) {
	b := newArchiveBuilder(2, ' ').
		withIds("s1", "s2").
		withNames("first", "second").
		withLengths(4, 2).
		withData(0x84, 0x21, 0xFF).
		withMaskRuns(4, 2)
	raw := b.build(t)

	sess, err := archive.Open(bytes.NewReader(raw))
	require.NoError(t, err)
	defer sess.Close()

	assert.Equal(t, "NAF v.1", sess.FormatName())
	assert.Equal(t, []string{"ids", "names", "lengths", "mask", "data"}, sess.PartList())
	assert.Equal(t, uint64(2), sess.NumberOfSequences())

	total, err := sess.TotalLength()
	require.NoError(t, err)
	assert.Equal(t, uint64(6), total)

	maskTotal, err := sess.TotalMaskLength()
	require.NoError(t, err)
	assert.Equal(t, uint64(6), maskTotal)

	sizes := sess.PartSizes()
	require.Len(t, sizes, 5)
	assert.Equal(t, uint64(6), sizes[0][0]) // ids: "s1\x00s2\x00"
}
