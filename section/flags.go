package section

// Flags is the section-presence flags byte at offset 4 of the archive
// header; all eight bits are flags, and the sequence type is read from the
// version byte instead. Bit order (MSB first): has_quality, has_data,
// has_mask, has_lengths, has_names, has_ids, has_title, has_extended.
type Flags uint8

const (
	flagQuality Flags = 1 << 7
	flagData    Flags = 1 << 6
	flagMask    Flags = 1 << 5
	flagLengths Flags = 1 << 4
	flagNames   Flags = 1 << 3
	flagIds     Flags = 1 << 2
	flagTitle   Flags = 1 << 1
	flagExtended Flags = 1 << 0
)

// HasQuality reports whether the archive carries a quality section.
func (f Flags) HasQuality() bool { return f&flagQuality != 0 }

// HasData reports whether the archive carries a data (nucleotide) section.
func (f Flags) HasData() bool { return f&flagData != 0 }

// HasMask reports whether the archive carries a mask section.
func (f Flags) HasMask() bool { return f&flagMask != 0 }

// HasLengths reports whether the archive carries a lengths section.
func (f Flags) HasLengths() bool { return f&flagLengths != 0 }

// HasNames reports whether the archive carries a names section.
func (f Flags) HasNames() bool { return f&flagNames != 0 }

// HasIds reports whether the archive carries an ids section.
func (f Flags) HasIds() bool { return f&flagIds != 0 }

// HasTitle reports whether the archive carries a title section.
func (f Flags) HasTitle() bool { return f&flagTitle != 0 }

// HasExtended reports whether the archive carries an extended section.
func (f Flags) HasExtended() bool { return f&flagExtended != 0 }

// WithQuality sets or clears the has_quality bit.
func (f *Flags) WithQuality(v bool) { f.set(flagQuality, v) }

// WithData sets or clears the has_data bit.
func (f *Flags) WithData(v bool) { f.set(flagData, v) }

// WithMask sets or clears the has_mask bit.
func (f *Flags) WithMask(v bool) { f.set(flagMask, v) }

// WithLengths sets or clears the has_lengths bit.
func (f *Flags) WithLengths(v bool) { f.set(flagLengths, v) }

// WithNames sets or clears the has_names bit.
func (f *Flags) WithNames(v bool) { f.set(flagNames, v) }

// WithIds sets or clears the has_ids bit.
func (f *Flags) WithIds(v bool) { f.set(flagIds, v) }

// WithTitle sets or clears the has_title bit.
func (f *Flags) WithTitle(v bool) { f.set(flagTitle, v) }

// WithExtended sets or clears the has_extended bit.
func (f *Flags) WithExtended(v bool) { f.set(flagExtended, v) }

func (f *Flags) set(bit Flags, v bool) {
	if v {
		*f |= bit
	} else {
		*f &^= bit
	}
}
