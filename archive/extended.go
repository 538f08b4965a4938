package archive

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/trafficone/naf/compress"
	"github.com/trafficone/naf/errs"
	"github.com/trafficone/naf/format"
	"github.com/trafficone/naf/section"
	"github.com/trafficone/naf/varint"
)

const (
	extendedTagEnd      = 0x00
	extendedTagChecksum = 0x01
	extendedTagCodec    = 0x02
)

// extendedInfo holds the results of parsing an archive's extended section:
// the codec every other section was compressed with, and the checksum
// entry's digest, if present.
type extendedInfo struct {
	codec       format.CompressionType
	checksum    uint64
	hasChecksum bool
}

// loadExtended decompresses and parses the extended section, if present,
// and caches the codec-note it carries. Archives without an extended
// section default to Zstd for every other section, matching the only mode
// the reference encoder ever produces.
func (s *Session) loadExtended() error {
	if s.extendedLoaded {
		return nil
	}

	info := extendedInfo{codec: format.CompressionZstd}

	if !s.hasSection(kindExtended) {
		s.extended = info
		s.extendedLoaded = true

		return nil
	}

	raw, err := section.ReadAndDecompress(s.sectionReader(kindExtended), s.locs[kindExtended].frame, compress.NewZstdCodec())
	if err != nil {
		return err
	}

	r := bytes.NewReader(raw)
	for {
		tag, err := r.ReadByte()
		if err != nil {
			return errs.Wrap(errs.KindCorrupt, err, "extended: reading entry tag")
		}
		if tag == extendedTagEnd {
			break
		}

		codecByte, err := r.ReadByte()
		if err != nil {
			return errs.Wrap(errs.KindCorrupt, err, "extended: reading entry codec")
		}

		origSize, err := varint.ReadUint64(r)
		if err != nil {
			return errs.Wrap(errs.KindCorrupt, err, "extended: reading entry original size")
		}

		compSize, err := varint.ReadUint64(r)
		if err != nil {
			return errs.Wrap(errs.KindCorrupt, err, "extended: reading entry compressed size")
		}

		payload := make([]byte, compSize)
		if _, err := io.ReadFull(r, payload); err != nil {
			return errs.Wrap(errs.KindTruncated, err, "extended: reading entry payload")
		}

		codec, err := compress.NewCodec(format.CompressionType(codecByte))
		if err != nil {
			return err
		}

		decoded, err := codec.Decompress(payload)
		if err != nil {
			return errs.Wrap(errs.KindCorrupt, err, "extended: decompressing entry")
		}
		if uint64(len(decoded)) != origSize {
			return errs.New(errs.KindCorrupt, "extended: entry original size mismatch")
		}

		switch tag {
		case extendedTagChecksum:
			if len(decoded) != 8 {
				return errs.New(errs.KindCorrupt, "extended: checksum entry must be 8 bytes")
			}
			info.checksum = binary.LittleEndian.Uint64(decoded)
			info.hasChecksum = true
		case extendedTagCodec:
			if len(decoded) != 1 {
				return errs.New(errs.KindCorrupt, "extended: codec-note entry must be 1 byte")
			}
			info.codec = format.CompressionType(decoded[0])
		default:
			// Unknown tag: skip, forward-compatible with future entries.
		}
	}

	s.extended = info
	s.extendedLoaded = true

	return nil
}

// sectionCodec returns the codec whole-buffer sections (title, ids, names,
// lengths, mask) were compressed with, per the extended section's
// codec-note, defaulting to Zstd.
func (s *Session) sectionCodec() (compress.Codec, error) {
	if err := s.loadExtended(); err != nil {
		return nil, err
	}

	return compress.NewCodec(s.extended.codec)
}

// VerifyChecksum recomputes the xxHash64 digest over every present
// section's decompressed bytes, in section order, and compares it against
// the extended section's checksum entry. It returns (false, nil) if the
// archive carries no checksum entry.
func (s *Session) VerifyChecksum() (bool, error) {
	if err := s.loadExtended(); err != nil {
		return false, err
	}
	if !s.extended.hasChecksum {
		return false, nil
	}

	digest := xxhash.New()

	kinds := []kind{kindTitle, kindIds, kindNames, kindLengths, kindMask, kindData, kindQuality}
	for _, k := range kinds {
		if !s.present[k] {
			continue
		}

		codec, err := s.sectionCodecForStreamingAware(k)
		if err != nil {
			return false, err
		}

		raw, err := section.ReadAndDecompress(s.sectionReader(k), s.locs[k].frame, codec)
		if err != nil {
			return false, err
		}

		if _, err := digest.Write(raw); err != nil {
			return false, errs.Wrap(errs.KindIO, err, "extended: hashing section")
		}
	}

	if digest.Sum64() != s.extended.checksum {
		return false, errs.ErrChecksumMismatch
	}

	return true, nil
}

// sectionCodecForStreamingAware returns the codec to use for whole-buffer
// decompression of k when recomputing the checksum; the data and quality
// sections are always Zstd (they're read through the streaming adapter
// everywhere else), the rest honor the codec-note.
func (s *Session) sectionCodecForStreamingAware(k kind) (compress.Codec, error) {
	if k == kindData || k == kindQuality {
		return compress.NewZstdCodec(), nil
	}

	return s.sectionCodec()
}
