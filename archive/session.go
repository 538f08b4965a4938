// Package archive implements the decoder pipeline for a NAF container: it
// parses the header and section frame table, then lazily instantiates
// field loaders, a mask state machine, and nucleotide/quality streamers to
// serve whichever projection the caller asked for.
package archive

import (
	"io"

	"github.com/trafficone/naf/errs"
	"github.com/trafficone/naf/section"
)

// kind enumerates the fixed section order a NAF archive uses.
type kind int

const (
	kindTitle kind = iota
	kindIds
	kindNames
	kindLengths
	kindMask
	kindData
	kindQuality
	kindExtended
	kindCount
)

// location records where a present section's frame header and body sit in
// the source stream.
type location struct {
	frame      section.Frame
	bodyOffset int64
}

// Source is what a Session decodes from. ReaderAt lets the session hand
// each decoder its own independent window over a section body, so the
// mask loader, sequence streamer, and quality streamer can advance in
// lockstep without fighting over one shared cursor. Both *os.File and
// *bytes.Reader satisfy it.
type Source interface {
	io.ReadSeeker
	io.ReaderAt
}

// Session owns the parsed header and frame table for one archive and lazily
// builds the field loaders, mask cursor, and streamers a projection needs.
// It is single-owner and single-use: one Session per archive, discarded
// (via Close) once the caller is done with it.
type Session struct {
	Header  section.Header
	src     Source
	present [kindCount]bool
	locs    [kindCount]location

	ids     [][]byte
	names   [][]byte
	lengths []uint64
	maskRaw []byte

	idsLoaded, namesLoaded, lengthsLoaded, maskLoaded bool

	extended       extendedInfo
	extendedLoaded bool

	closers []func() error
}

// Open parses an archive's header and walks its section table, recording
// each present section's frame and body offset without decompressing
// anything. Projections skip sections they don't need by seeking
// compressed_size bytes past each frame.
func Open(src Source) (*Session, error) {
	h, err := section.ParseHeader(src)
	if err != nil {
		return nil, err
	}

	s := &Session{Header: h, src: src}

	order := []struct {
		k     kind
		hasFn func(section.Flags) bool
	}{
		{kindTitle, section.Flags.HasTitle},
		{kindIds, section.Flags.HasIds},
		{kindNames, section.Flags.HasNames},
		{kindLengths, section.Flags.HasLengths},
		{kindMask, section.Flags.HasMask},
		{kindData, section.Flags.HasData},
		{kindQuality, section.Flags.HasQuality},
		{kindExtended, section.Flags.HasExtended},
	}

	for _, o := range order {
		if !o.hasFn(h.Flags) {
			continue
		}

		f, err := section.ReadFrame(src)
		if err != nil {
			return nil, err
		}

		pos, err := src.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, errs.Wrap(errs.KindIO, err, "archive: locating section body")
		}

		s.present[o.k] = true
		s.locs[o.k] = location{frame: f, bodyOffset: pos}

		if _, err := src.Seek(int64(f.CompressedSize), io.SeekCurrent); err != nil {
			return nil, errs.Wrap(errs.KindIO, err, "archive: skipping section body")
		}
	}

	return s, nil
}

// Close releases any buffers or decoders the session's lazily-built
// components acquired.
func (s *Session) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil

	return firstErr
}

func (s *Session) track(closeFn func() error) {
	s.closers = append(s.closers, closeFn)
}

// sectionReader returns an independent bounded window over the given
// section's compressed body. Each caller gets its own cursor, so decoders
// that interleave reads (sequence and quality during FASTQ emission, the
// mask alongside either) never disturb one another.
func (s *Session) sectionReader(k kind) *io.SectionReader {
	loc := s.locs[k]

	return io.NewSectionReader(s.src, loc.bodyOffset, int64(loc.frame.CompressedSize))
}

// hasSection reports whether the given section is present in the archive.
func (s *Session) hasSection(k kind) bool { return s.present[k] }

// SequenceCount returns the archive's declared record count.
func (s *Session) SequenceCount() uint64 { return s.Header.SequenceCount }
