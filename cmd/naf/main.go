// Command naf decodes Nucleotide Archival Format containers into one of
// several projections: structural metadata, per-record fields, the raw
// 4-bit packed nucleotide stream, or reconstituted FASTA/FASTQ records.
package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/trafficone/naf/archive"
	"github.com/trafficone/naf/errs"
	"github.com/trafficone/naf/format"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("naf", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		showFormat      = fs.Bool("format", false, "print the container format name")
		showPartList    = fs.Bool("part-list", false, "print the names of present sections")
		showSizes       = fs.Bool("sizes", false, "print each present section's original and compressed size")
		showNumber      = fs.Bool("number", false, "print the number of sequences")
		showTitle       = fs.Bool("title", false, "print the archive title")
		showIds         = fs.Bool("ids", false, "print sequence ids, one per line")
		showNames       = fs.Bool("names", false, "print sequence names, one per line")
		showLengths     = fs.Bool("lengths", false, "print sequence lengths, one per line")
		showTotalLength = fs.Bool("total-length", false, "print the sum of all sequence lengths")
		showMask        = fs.Bool("mask", false, "print the raw mask run-length bytes")
		showTotalMask   = fs.Bool("total-mask-length", false, "print the sum of all mask run lengths")
		show4bit        = fs.Bool("4bit", false, "print the raw packed 4-bit nucleotide stream")
		showSeq         = fs.Bool("seq", false, "print concatenated decoded bases with no headers")
		showFasta       = fs.Bool("fasta", false, "print FASTA records")
		showFastq       = fs.Bool("fastq", false, "print FASTQ records")
		_               = fs.Bool("dna", false, "treat the archive as DNA (default; accepted for compatibility)")
		lineLength      = fs.Int("line-length", 0, "FASTA line wrap width; 0 means no wrapping (default: the archive's stored width)")
		noMask          = fs.Bool("no-mask", false, "emit every base uppercase, ignoring the archive's soft mask")
		showVersion     = fs.Bool("version", false, "print the version and exit")
	)

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: naf [options] [file]

Decodes a Nucleotide Archival Format (NAF) container. Reads from stdin if
no file is given.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		return 1
	}

	if *showVersion {
		fmt.Fprintln(stdout, version)

		return 0
	}

	lineLengthSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "line-length" {
			lineLengthSet = true
		}
	})
	if lineLengthSet && *lineLength < 0 {
		fmt.Fprintln(stderr, errs.New(errs.KindConfig, "naf: --line-length must be >= 0"))

		return 1
	}

	proj, err := selectProjection(selectors{
		formatName: *showFormat, partList: *showPartList, sizes: *showSizes,
		number: *showNumber, title: *showTitle, ids: *showIds, names: *showNames,
		lengths: *showLengths, totalLength: *showTotalLength, mask: *showMask,
		totalMaskLength: *showTotalMask, fourBit: *show4bit, seq: *showSeq,
		fasta: *showFasta, fastq: *showFastq,
	})
	if err != nil {
		fmt.Fprintln(stderr, err)

		return 1
	}

	src, closeSrc, err := openInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, err)

		return 1
	}
	defer closeSrc()

	sess, err := archive.Open(src)
	if err != nil {
		fmt.Fprintln(stderr, err)

		return 1
	}
	defer sess.Close()

	if proj == format.ProjectionUndecided {
		proj = defaultProjection(sess)
	}

	if proj == format.ProjectionFourBit && stdout == io.Writer(os.Stdout) && isTerminal(os.Stdout) {
		fmt.Fprintln(stderr, "naf: refusing to write raw 4bit output to a terminal")

		return 1
	}

	w := bufio.NewWriter(stdout)
	defer w.Flush()

	wrap := sess.Header.MaxLineLength
	if lineLengthSet {
		wrap = uint64(*lineLength)
	}

	if err := emit(sess, proj, w, !*noMask, wrap); err != nil {
		w.Flush()
		fmt.Fprintln(stderr, err)

		return 1
	}

	return 0
}

type selectors struct {
	formatName, partList, sizes, number, title, ids, names, lengths  bool
	totalLength, mask, totalMaskLength, fourBit, seq, fasta, fastq bool
}

// selectProjection enforces the mutually-exclusive output selector policy:
// at most one may be set.
func selectProjection(s selectors) (format.Projection, error) {
	type entry struct {
		set  bool
		proj format.Projection
	}
	entries := []entry{
		{s.formatName, format.ProjectionFormatName},
		{s.partList, format.ProjectionPartList},
		{s.sizes, format.ProjectionPartSizes},
		{s.number, format.ProjectionNumberOfSequences},
		{s.title, format.ProjectionTitle},
		{s.ids, format.ProjectionIDs},
		{s.names, format.ProjectionNames},
		{s.lengths, format.ProjectionLengths},
		{s.totalLength, format.ProjectionTotalLength},
		{s.mask, format.ProjectionMask},
		{s.totalMaskLength, format.ProjectionTotalMaskLength},
		{s.fourBit, format.ProjectionFourBit},
		{s.seq, format.ProjectionSeq},
		{s.fasta, format.ProjectionFasta},
		{s.fastq, format.ProjectionFastq},
	}

	chosen := format.ProjectionUndecided
	count := 0
	for _, e := range entries {
		if e.set {
			chosen = e.proj
			count++
		}
	}

	if count > 1 {
		return format.ProjectionUndecided, errs.New(errs.KindConfig, "naf: output selectors are mutually exclusive")
	}

	return chosen, nil
}

// defaultProjection picks FASTQ when the archive has quality, otherwise
// FASTA with the mask applied.
func defaultProjection(sess *archive.Session) format.Projection {
	if sess.Header.Flags.HasQuality() {
		return format.ProjectionFastq
	}

	return format.ProjectionFasta
}

// openInput returns a seekable view of the archive. A regular file serves
// directly; stdin is not seekable, so it is drained into memory first.
func openInput(path string) (archive.Source, func() error, error) {
	if path == "" || path == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, nil, errs.Wrap(errs.KindIO, err, "naf: reading stdin")
		}

		return bytes.NewReader(raw), func() error { return nil }, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errs.Wrap(errs.KindIO, err, "naf: opening input")
	}

	return f, f.Close, nil
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}

	return (fi.Mode() & os.ModeCharDevice) != 0
}

func emit(sess *archive.Session, proj format.Projection, w io.Writer, useMask bool, lineLength uint64) error {
	switch proj {
	case format.ProjectionFormatName:
		fmt.Fprintln(w, sess.FormatName())

		return nil
	case format.ProjectionPartList:
		for _, name := range sess.PartList() {
			fmt.Fprintln(w, name)
		}

		return nil
	case format.ProjectionPartSizes:
		for _, sz := range sess.PartSizes() {
			fmt.Fprintf(w, "%d %d\n", sz[0], sz[1])
		}

		return nil
	case format.ProjectionNumberOfSequences:
		fmt.Fprintln(w, sess.NumberOfSequences())

		return nil
	case format.ProjectionTitle:
		title, err := sess.Title()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(title))

		return nil
	case format.ProjectionIDs:
		ids, err := sess.Ids()
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(w, string(id))
		}

		return nil
	case format.ProjectionNames:
		names, err := sess.Names()
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(w, string(n))
		}

		return nil
	case format.ProjectionLengths:
		lengths, err := sess.Lengths()
		if err != nil {
			return err
		}
		for _, l := range lengths {
			fmt.Fprintln(w, l)
		}

		return nil
	case format.ProjectionTotalLength:
		total, err := sess.TotalLength()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, total)

		return nil
	case format.ProjectionMask:
		m, err := sess.Mask()
		if err != nil {
			return err
		}
		_, err = w.Write(m)

		return err
	case format.ProjectionTotalMaskLength:
		total, err := sess.TotalMaskLength()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, total)

		return nil
	case format.ProjectionFourBit, format.ProjectionSeq, format.ProjectionFasta, format.ProjectionFastq:
		return sess.Emit(w, proj, archive.Options{UseMask: useMask, LineLength: lineLength})
	default:
		return errs.New(errs.KindConfig, "naf: no projection selected")
	}
}
