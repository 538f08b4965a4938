package archive

import "fmt"

// FormatName identifies the container format and the archive's format
// version, e.g. "NAF v.1".
func (s *Session) FormatName() string {
	return fmt.Sprintf("NAF v.%d", s.Header.Version)
}

// PartList names the optional sections present in the archive, in their
// fixed wire order.
func (s *Session) PartList() []string {
	names := []string{"title", "ids", "names", "lengths", "mask", "data", "quality", "extended"}
	kinds := []kind{kindTitle, kindIds, kindNames, kindLengths, kindMask, kindData, kindQuality, kindExtended}

	var out []string
	for i, k := range kinds {
		if s.present[k] {
			out = append(out, names[i])
		}
	}

	return out
}

// PartSizes returns each present section's (original_size, compressed_size)
// pair, in the same order as PartList.
func (s *Session) PartSizes() [][2]uint64 {
	kinds := []kind{kindTitle, kindIds, kindNames, kindLengths, kindMask, kindData, kindQuality, kindExtended}

	var out [][2]uint64
	for _, k := range kinds {
		if s.present[k] {
			loc := s.locs[k]
			out = append(out, [2]uint64{loc.frame.OriginalSize, loc.frame.CompressedSize})
		}
	}

	return out
}

// NumberOfSequences returns the archive's declared record count.
func (s *Session) NumberOfSequences() uint64 { return s.Header.SequenceCount }

// TotalMaskLength returns the sum of all mask run lengths, which by
// invariant equals TotalLength when a mask section is present.
func (s *Session) TotalMaskLength() (uint64, error) {
	raw, err := s.Mask()
	if err != nil {
		return 0, err
	}

	return sumMaskRuns(raw)
}
