// Package alphabet provides the fixed 16-symbol IUPAC nucleotide code table
// used by the NAF data section, plus a precomputed table that expands a
// packed byte (two 4-bit codes) directly into its two-character ASCII form.
package alphabet

// Codes is the 4-bit code to IUPAC character table, in code order: index 0
// is '-', index 1 is 'T', and so on through index 15, 'N'.
var Codes = [16]byte{
	'-', 'T', 'G', 'K', 'C', 'Y', 'S', 'B',
	'A', 'W', 'R', 'D', 'M', 'H', 'V', 'N',
}

// pairs[b] holds the two ASCII characters produced by packed byte b: the
// high nibble's character followed by the low nibble's character. It is
// built once at package init from Codes so the hot decode loop over the
// data section never has to do two table lookups and a nibble split per
// byte.
var pairs [256][2]byte

func init() {
	for i := 0; i < 16; i++ {
		for j := 0; j < 16; j++ {
			pairs[(i<<4)|j] = [2]byte{Codes[i], Codes[j]}
		}
	}
}

// Pair returns the two characters encoded by a packed data byte: the high
// nibble's character first, then the low nibble's.
func Pair(b byte) (hi, lo byte) {
	p := pairs[b]
	return p[0], p[1]
}
