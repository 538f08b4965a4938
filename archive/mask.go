package archive

import (
	"bytes"

	"github.com/trafficone/naf/errs"
	"github.com/trafficone/naf/section"
)

// MaskCursor replays a run-length-encoded soft-mask bitmap one base at a
// time. The initial state is masked (lowercase); a run byte of 255
// contributes 255 to the current run without flipping state, and a byte
// below 255 terminates the run and flips state.
type MaskCursor struct {
	runs      []byte
	pos       int
	remaining int
	on        bool
}

// newMaskCursor builds a cursor over raw, the fully decompressed mask
// bytes, and loads its first run. An empty mask stream is only valid for
// an archive whose total base count is zero; On reports Truncated if a
// base is ever requested from it.
func newMaskCursor(raw []byte) (*MaskCursor, error) {
	c := &MaskCursor{runs: raw, on: true}
	if len(raw) == 0 {
		return c, nil
	}
	if err := c.loadRun(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *MaskCursor) loadRun() error {
	run := 0
	for {
		if c.pos >= len(c.runs) {
			return errs.New(errs.KindTruncated, "mask: stream ended mid-run")
		}

		b := c.runs[c.pos]
		c.pos++
		run += int(b)

		if b < 255 {
			break
		}
	}

	c.remaining = run

	return nil
}

// On reports the mask state for the current base and advances the cursor
// by one base.
func (c *MaskCursor) On() (bool, error) {
	if c.remaining == 0 {
		c.on = !c.on
		if err := c.loadRun(); err != nil {
			return false, err
		}
	}

	cur := c.on
	c.remaining--

	return cur, nil
}

// Finish verifies that the current run is spent and that no mask bytes,
// zero or not, are left unconsumed once the caller has walked exactly
// total_base_count bases.
func (c *MaskCursor) Finish() error {
	if c.remaining != 0 {
		return errs.New(errs.KindCorrupt, "mask: %d bases remain in the current run after all records consumed", c.remaining)
	}
	if c.pos < len(c.runs) {
		return errs.New(errs.KindCorrupt, "mask: %d trailing bytes after mask stream exhausted", len(c.runs)-c.pos)
	}

	return nil
}

// Mask returns the session's fully decompressed mask bytes, caching the
// result for reuse by both the MASK projection and the sequence streamer.
func (s *Session) Mask() ([]byte, error) {
	if !s.hasSection(kindMask) {
		return nil, nil
	}
	if s.maskLoaded {
		return s.maskRaw, nil
	}

	codec, err := s.sectionCodec()
	if err != nil {
		return nil, err
	}

	raw, err := section.ReadAndDecompress(s.sectionReader(kindMask), s.locs[kindMask].frame, codec)
	if err != nil {
		return nil, err
	}

	s.maskRaw = raw
	s.maskLoaded = true

	return raw, nil
}

// NewMaskCursor builds a MaskCursor over the session's mask section and
// validates the sum of its runs against totalLength, per the archive's
// mask-sum invariant.
func (s *Session) NewMaskCursor(totalLength uint64) (*MaskCursor, error) {
	raw, err := s.Mask()
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	if sum, err := sumMaskRuns(raw); err != nil {
		return nil, err
	} else if sum != totalLength {
		return nil, errs.ErrMaskSumMismatch
	}

	return newMaskCursor(raw)
}

func sumMaskRuns(raw []byte) (uint64, error) {
	var total uint64
	r := bytes.NewReader(raw)
	for r.Len() > 0 {
		b, _ := r.ReadByte()
		total += uint64(b)
	}

	return total, nil
}
