package archive

import (
	"io"

	"github.com/trafficone/naf/errs"
	"github.com/trafficone/naf/format"
	"github.com/trafficone/naf/internal/pool"
)

// Emit drives the session to produce the requested projection on w. It is
// the single entry point cmd/naf uses once it has decided which projection
// and options apply.
func (s *Session) Emit(w io.Writer, proj format.Projection, opts Options) error {
	switch proj {
	case format.ProjectionFourBit:
		return s.EmitFourBit(w)
	case format.ProjectionSeq:
		return s.EmitSeq(w, opts)
	case format.ProjectionFasta:
		return s.EmitFasta(w, opts)
	case format.ProjectionFastq:
		return s.EmitFastq(w, opts)
	default:
		return errs.New(errs.KindConfig, "archive: %s is not a streaming projection", proj)
	}
}

// Options configures the output formatter's textual projections.
type Options struct {
	// LineLength is the FASTA wrap width; 0 means no wrapping.
	LineLength uint64
	// UseMask applies the soft-mask case selection; when false (--no-mask)
	// every base is emitted uppercase regardless of the archive's mask.
	UseMask bool
}

// toLower lowercases an uppercase IUPAC character; every code in
// alphabet.Codes is already uppercase ASCII or '-'.
func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}

	return c
}

// EmitFourBit writes the data section's raw packed bytes verbatim. The
// packed form only exists for nucleotide archives; protein and text
// archives have no 4-bit encoding to reproduce.
func (s *Session) EmitFourBit(w io.Writer) error {
	if st := s.Header.SequenceType; st == format.SequenceProtein || st == format.SequenceText {
		return errs.New(errs.KindUnsupportedProjection, "4bit: archive holds %s, not nucleotides", st)
	}
	if !s.hasSection(kindData) {
		return nil
	}

	ss, err := s.newSequenceStreamer(0)
	if err != nil {
		return err
	}

	return ss.CopyRaw(w)
}

// EmitSeq writes the concatenated decoded bases with no record separators
// and no headers, applying the mask if requested.
func (s *Session) EmitSeq(w io.Writer, opts Options) error {
	return s.walkRecords(w, opts, recordModeSeq)
}

// EmitFasta writes each record as a '>'-headed, line-wrapped FASTA entry.
func (s *Session) EmitFasta(w io.Writer, opts Options) error {
	return s.walkRecords(w, opts, recordModeFasta)
}

// EmitFastq writes each record as a four-line FASTQ entry; the archive
// must carry a quality section.
func (s *Session) EmitFastq(w io.Writer, opts Options) error {
	if !s.Header.Flags.HasQuality() {
		return errs.New(errs.KindUnsupportedProjection, "fastq: archive has no quality section")
	}

	return s.walkRecords(w, opts, recordModeFastq)
}

type recordMode int

const (
	recordModeSeq recordMode = iota
	recordModeFasta
	recordModeFastq
)

// walkRecords drives the mask cursor, sequence streamer, ids/names, lengths
// cursor, and (for FASTQ) quality streamer in lockstep across every record,
// in the style of the output formatter's BeforeRecord/InSequence/
// (InQuality)/AfterRecord state machine.
func (s *Session) walkRecords(w io.Writer, opts Options, mode recordMode) error {
	if s.Header.SequenceCount == 0 {
		return nil
	}
	if !s.hasSection(kindLengths) {
		return errs.New(errs.KindUnsupportedProjection, "archive: no lengths section, cannot segment records")
	}
	if !s.hasSection(kindData) {
		return errs.New(errs.KindUnsupportedProjection, "archive: no data section, nothing to decode")
	}

	lengths, err := s.Lengths()
	if err != nil {
		return err
	}

	var ids, names [][]byte
	if mode != recordModeSeq {
		ids, err = s.Ids()
		if err != nil {
			return err
		}
		names, err = s.Names()
		if err != nil {
			return err
		}
	}

	var total uint64
	for _, l := range lengths {
		total += l
	}

	if want := (total + 1) / 2; s.locs[kindData].frame.OriginalSize != want {
		return errs.New(errs.KindCorrupt, "archive: data section holds %d bytes, lengths require %d",
			s.locs[kindData].frame.OriginalSize, want)
	}

	ss, err := s.newSequenceStreamer(total)
	if err != nil {
		return err
	}

	var mc *MaskCursor
	if opts.UseMask {
		mc, err = s.NewMaskCursor(total)
		if err != nil {
			return err
		}
	}

	var qs *QualityStreamer
	if mode == recordModeFastq {
		qs, err = s.newQualityStreamer()
		if err != nil {
			return err
		}
	}

	print := pool.GetPrintBuffer()
	defer pool.PutPrintBuffer(print)

	lineLength := opts.LineLength

	for recIdx := uint64(0); recIdx < s.Header.SequenceCount; recIdx++ {
		recLen := lengths[recIdx]

		if mode != recordModeSeq {
			print.Reset()
			if mode == recordModeFasta {
				print.WriteByte('>')
			} else {
				print.WriteByte('@')
			}
			if ids != nil {
				print.Write(ids[recIdx])
			}
			if names != nil && len(names[recIdx]) > 0 {
				print.WriteByte(s.Header.NameSeparator)
				print.Write(names[recIdx])
			}
			print.WriteByte('\n')
			if _, err := print.WriteTo(w); err != nil {
				return errs.Wrap(errs.KindIO, err, "archive: writing record header")
			}
		}

		lineRemaining := lineLength

		print.Reset()
		for i := uint64(0); i < recLen; i++ {
			ch, err := ss.NextChar()
			if err != nil {
				return err
			}

			if mc != nil {
				on, err := mc.On()
				if err != nil {
					return err
				}
				if on {
					ch = toLower(ch)
				}
			}

			print.WriteByte(ch)

			if mode == recordModeFasta && lineLength > 0 {
				lineRemaining--
				if lineRemaining == 0 {
					print.WriteByte('\n')
					lineRemaining = lineLength
				}
			}

			// Drain mid-record so one very long sequence never holds the
			// whole record's text in memory at once.
			if print.Len() >= pool.PrintBufferDefaultSize {
				if _, err := print.WriteTo(w); err != nil {
					return errs.Wrap(errs.KindIO, err, "archive: writing record body")
				}
				print.Reset()
			}
		}

		switch mode {
		case recordModeFasta:
			if recLen > 0 && (lineLength == 0 || lineRemaining != lineLength) {
				print.WriteByte('\n')
			}
		case recordModeFastq:
			print.WriteByte('\n')
		}

		if _, err := print.WriteTo(w); err != nil {
			return errs.Wrap(errs.KindIO, err, "archive: writing record body")
		}

		if mode == recordModeFastq {
			print.Reset()
			print.Write([]byte("+\n"))
			if _, err := print.WriteTo(w); err != nil {
				return errs.Wrap(errs.KindIO, err, "fastq: writing plus line")
			}

			qbuf := make([]byte, recLen)
			if err := qs.NextBytes(qbuf); err != nil {
				return err
			}

			print.Reset()
			print.Write(qbuf)
			print.Write([]byte{'\n'})
			if _, err := print.WriteTo(w); err != nil {
				return errs.Wrap(errs.KindIO, err, "fastq: writing quality line")
			}
		}
	}

	if mc != nil {
		if err := mc.Finish(); err != nil {
			return err
		}
	}

	if qs != nil && !qs.Done() {
		return errs.New(errs.KindCorrupt, "fastq: excess quality bytes beyond declared lengths")
	}

	return nil
}
