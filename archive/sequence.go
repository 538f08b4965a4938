package archive

import (
	"io"

	"github.com/trafficone/naf/alphabet"
	"github.com/trafficone/naf/compress"
	"github.com/trafficone/naf/errs"
	"github.com/trafficone/naf/internal/pool"
)

// SequenceStreamer decodes the data section's packed 4-bit nucleotide
// codes into characters one base at a time, pulling compressed bytes
// through a bounded zstd stream as needed.
type SequenceStreamer struct {
	dec *compress.StreamDecompressor
	buf *pool.ByteBuffer

	bufPos, bufLen int
	streamEOF      bool

	havePendingLow bool
	pendingLow     byte

	basesProduced uint64
	totalBases    uint64
}

// newSequenceStreamer opens a streaming decompressor over the session's
// data section, bounded by its frame, and records totalBases, the number
// of 4-bit codes the caller expects to draw. NextChar does not stop at that
// count; the caller bounds how many bases it requests.
func (s *Session) newSequenceStreamer(totalBases uint64) (*SequenceStreamer, error) {
	if !s.hasSection(kindData) {
		return nil, nil
	}

	dec, err := compress.NewStreamDecompressor(s.sectionReader(kindData), s.locs[kindData].frame.OriginalSize)
	if err != nil {
		return nil, err
	}

	buf := pool.GetStreamBuffer()
	ss := &SequenceStreamer{dec: dec, buf: buf, totalBases: totalBases}
	s.track(func() error {
		dec.Close()
		pool.PutStreamBuffer(buf)

		return nil
	})

	return ss, nil
}

func (ss *SequenceStreamer) nextByte() (byte, error) {
	if ss.bufPos >= ss.bufLen {
		if ss.streamEOF {
			return 0, errs.New(errs.KindTruncated, "sequence: data stream exhausted before all bases consumed")
		}

		room := ss.buf.B[:cap(ss.buf.B)]
		n, eof, err := ss.dec.Next(room)
		if err != nil {
			return 0, err
		}

		ss.bufPos = 0
		ss.bufLen = n
		ss.streamEOF = eof

		if n == 0 {
			if eof {
				return 0, errs.New(errs.KindTruncated, "sequence: data stream exhausted before all bases consumed")
			}

			return 0, errs.New(errs.KindIO, "sequence: zero-byte read from data stream")
		}
	}

	b := ss.buf.B[:cap(ss.buf.B)][ss.bufPos]
	ss.bufPos++

	return b, nil
}

// NextChar returns the character for the next base, high nibble of each
// packed byte first. Each fresh byte is expanded through the precomputed
// pair table in one lookup; the low nibble's character is held for the
// following call.
func (ss *SequenceStreamer) NextChar() (byte, error) {
	if ss.havePendingLow {
		ss.havePendingLow = false
		ss.basesProduced++

		return ss.pendingLow, nil
	}

	b, err := ss.nextByte()
	if err != nil {
		return 0, err
	}

	hi, lo := alphabet.Pair(b)
	ss.pendingLow = lo
	ss.havePendingLow = true
	ss.basesProduced++

	return hi, nil
}

// CopyRaw copies the decompressor's raw packed-byte output verbatim to w,
// for the 4BIT projection, which ignores lengths and mask and preserves
// any trailing padding nibble.
func (ss *SequenceStreamer) CopyRaw(w io.Writer) error {
	buf := pool.GetStreamBuffer()
	defer pool.PutStreamBuffer(buf)

	room := buf.B[:cap(buf.B)]
	for {
		n, eof, err := ss.dec.Next(room)
		if err != nil {
			return err
		}
		if n > 0 {
			if _, err := w.Write(room[:n]); err != nil {
				return errs.Wrap(errs.KindIO, err, "sequence: writing 4bit output")
			}
		}
		if eof {
			return nil
		}
	}
}
