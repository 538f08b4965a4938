package archive

import (
	"bytes"

	"github.com/trafficone/naf/errs"
	"github.com/trafficone/naf/section"
	"github.com/trafficone/naf/varint"
)

// Title returns the archive's title section, decompressed, or an empty
// slice if the archive has none.
func (s *Session) Title() ([]byte, error) {
	if !s.hasSection(kindTitle) {
		return nil, nil
	}

	codec, err := s.sectionCodec()
	if err != nil {
		return nil, err
	}

	return section.ReadAndDecompress(s.sectionReader(kindTitle), s.locs[kindTitle].frame, codec)
}

// splitRecords decompresses a section and splits it on 0x00 into exactly
// sequence_count records, per the ids/names framing.
func (s *Session) splitRecords(k kind) ([][]byte, error) {
	codec, err := s.sectionCodec()
	if err != nil {
		return nil, err
	}

	raw, err := section.ReadAndDecompress(s.sectionReader(k), s.locs[k].frame, codec)
	if err != nil {
		return nil, err
	}

	var parts [][]byte
	if len(raw) > 0 {
		parts = bytes.Split(raw, []byte{0x00})
		// A well-formed section ends with a separator after the last
		// record, which bytes.Split turns into a trailing empty slice.
		if len(parts) > 0 && len(parts[len(parts)-1]) == 0 {
			parts = parts[:len(parts)-1]
		}
	}

	if uint64(len(parts)) != s.Header.SequenceCount {
		return nil, errs.ErrFieldCountMismatch
	}

	return parts, nil
}

// Ids returns the archive's per-record accession ids.
func (s *Session) Ids() ([][]byte, error) {
	if !s.hasSection(kindIds) {
		return nil, nil
	}
	if s.idsLoaded {
		return s.ids, nil
	}

	parts, err := s.splitRecords(kindIds)
	if err != nil {
		return nil, err
	}

	s.ids = parts
	s.idsLoaded = true

	return s.ids, nil
}

// Names returns the archive's per-record free-form descriptors.
func (s *Session) Names() ([][]byte, error) {
	if !s.hasSection(kindNames) {
		return nil, nil
	}
	if s.namesLoaded {
		return s.names, nil
	}

	parts, err := s.splitRecords(kindNames)
	if err != nil {
		return nil, err
	}

	s.names = parts
	s.namesLoaded = true

	return s.names, nil
}

// Lengths returns the archive's per-record base counts, in record order.
func (s *Session) Lengths() ([]uint64, error) {
	if !s.hasSection(kindLengths) {
		return nil, nil
	}
	if s.lengthsLoaded {
		return s.lengths, nil
	}

	codec, err := s.sectionCodec()
	if err != nil {
		return nil, err
	}

	raw, err := section.ReadAndDecompress(s.sectionReader(kindLengths), s.locs[kindLengths].frame, codec)
	if err != nil {
		return nil, err
	}

	r := bytes.NewReader(raw)
	lengths := make([]uint64, 0, s.Header.SequenceCount)
	for i := uint64(0); i < s.Header.SequenceCount; i++ {
		v, err := varint.ReadUint64(r)
		if err != nil {
			return nil, errs.Wrap(errs.KindCorrupt, err, "archive: reading length entry %d", i)
		}
		lengths = append(lengths, v)
	}

	if r.Len() != 0 {
		return nil, errs.New(errs.KindCorrupt, "archive: %d trailing bytes after lengths", r.Len())
	}

	s.lengths = lengths
	s.lengthsLoaded = true

	return s.lengths, nil
}

// TotalLength returns the sum of all record lengths.
func (s *Session) TotalLength() (uint64, error) {
	lengths, err := s.Lengths()
	if err != nil {
		return 0, err
	}

	var total uint64
	for _, l := range lengths {
		total += l
	}

	return total, nil
}
