// Package format defines the small enumerations shared across the naf
// packages: the sequence type carried in the archive header, the
// compression algorithm a section (or the extended section's codec-note
// entry) was compressed with, and the output projection a session can emit.
package format

// SequenceType identifies what kind of residues the data section encodes.
// Version 1 archives are always SequenceDNA; version 2 archives may name
// any of the four.
type SequenceType uint8

const (
	SequenceDNA SequenceType = iota
	SequenceRNA
	SequenceProtein
	SequenceText
)

func (s SequenceType) String() string {
	switch s {
	case SequenceDNA:
		return "DNA"
	case SequenceRNA:
		return "RNA"
	case SequenceProtein:
		return "protein"
	case SequenceText:
		return "text"
	default:
		return "unknown"
	}
}

// CompressionType identifies the general-purpose compression algorithm a
// section's payload was compressed with. Every section produced by the
// reference encoder uses CompressionZstd; the other values only come into
// play through the extended section's codec-note entry.
type CompressionType uint8

const (
	CompressionNone CompressionType = iota + 1
	CompressionZstd
	CompressionS2
	CompressionLZ4
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Projection selects which view of the archive a session emits.
type Projection uint8

const (
	ProjectionUndecided Projection = iota
	ProjectionFormatName
	ProjectionPartList
	ProjectionPartSizes
	ProjectionNumberOfSequences
	ProjectionTitle
	ProjectionIDs
	ProjectionNames
	ProjectionLengths
	ProjectionTotalLength
	ProjectionMask
	ProjectionTotalMaskLength
	ProjectionFourBit
	ProjectionSeq
	ProjectionFasta
	ProjectionFastq
)

func (p Projection) String() string {
	switch p {
	case ProjectionFormatName:
		return "format"
	case ProjectionPartList:
		return "part-list"
	case ProjectionPartSizes:
		return "sizes"
	case ProjectionNumberOfSequences:
		return "number"
	case ProjectionTitle:
		return "title"
	case ProjectionIDs:
		return "ids"
	case ProjectionNames:
		return "names"
	case ProjectionLengths:
		return "lengths"
	case ProjectionTotalLength:
		return "total-length"
	case ProjectionMask:
		return "mask"
	case ProjectionTotalMaskLength:
		return "total-mask-length"
	case ProjectionFourBit:
		return "4bit"
	case ProjectionSeq:
		return "seq"
	case ProjectionFasta:
		return "fasta"
	case ProjectionFastq:
		return "fastq"
	default:
		return "undecided"
	}
}
