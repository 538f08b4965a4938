package archive

import (
	"github.com/trafficone/naf/compress"
	"github.com/trafficone/naf/errs"
	"github.com/trafficone/naf/internal/pool"
)

// QualityStreamer parallels SequenceStreamer for the quality section,
// emitting bytes 1:1 to the formatter instead of splitting them into
// nibbles.
type QualityStreamer struct {
	dec *compress.StreamDecompressor
	buf *pool.ByteBuffer

	bufPos, bufLen int
	streamEOF      bool
}

// newQualityStreamer opens a streaming decompressor over the session's
// quality section.
func (s *Session) newQualityStreamer() (*QualityStreamer, error) {
	if !s.hasSection(kindQuality) {
		return nil, nil
	}

	dec, err := compress.NewStreamDecompressor(s.sectionReader(kindQuality), s.locs[kindQuality].frame.OriginalSize)
	if err != nil {
		return nil, err
	}

	buf := pool.GetStreamBuffer()
	qs := &QualityStreamer{dec: dec, buf: buf}
	s.track(func() error {
		dec.Close()
		pool.PutStreamBuffer(buf)

		return nil
	})

	return qs, nil
}

// NextBytes fills out with exactly len(out) quality bytes for one record.
// Fewer available bytes than requested is Truncated; the caller is
// responsible for detecting Corrupt (excess bytes) by checking EOF after
// the last record.
func (qs *QualityStreamer) NextBytes(out []byte) error {
	for i := range out {
		if qs.bufPos >= qs.bufLen {
			if qs.streamEOF {
				return errs.New(errs.KindTruncated, "quality: stream exhausted before all records consumed")
			}

			room := qs.buf.B[:cap(qs.buf.B)]
			n, eof, err := qs.dec.Next(room)
			if err != nil {
				return err
			}

			qs.bufPos = 0
			qs.bufLen = n
			qs.streamEOF = eof

			if n == 0 && !eof {
				return errs.New(errs.KindIO, "quality: zero-byte read from quality stream")
			}
			if n == 0 && eof {
				return errs.New(errs.KindTruncated, "quality: stream exhausted before all records consumed")
			}
		}

		out[i] = qs.buf.B[:cap(qs.buf.B)][qs.bufPos]
		qs.bufPos++
	}

	return nil
}

// Done reports whether the quality stream has no more bytes to offer,
// used to detect Corrupt (excess quality bytes beyond declared lengths).
// When the buffered bytes are spent but the decompressor has not yet
// flagged end of stream, it probes for one more block first.
func (qs *QualityStreamer) Done() bool {
	if qs.bufPos < qs.bufLen {
		return false
	}

	if !qs.streamEOF {
		room := qs.buf.B[:cap(qs.buf.B)]
		n, eof, err := qs.dec.Next(room)
		if err != nil {
			return false
		}

		qs.bufPos = 0
		qs.bufLen = n
		qs.streamEOF = eof
	}

	return qs.bufPos >= qs.bufLen && qs.streamEOF
}
