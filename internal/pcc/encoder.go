package pcc

import "github.com/pkg/errors"

// EncoderOptions controls the coding parameters written to each unit.
type EncoderOptions struct {
	OccupancyPrecision uint8
	MaxCandidateCount  uint8
}

// DefaultEncoderOptions returns precision 4 with four candidates per block.
func DefaultEncoderOptions() EncoderOptions {
	return EncoderOptions{OccupancyPrecision: 4, MaxCandidateCount: 4}
}

// FrameInput is what the encoder needs for one frame.
type FrameInput struct {
	Patches      []Patch
	BlockToPatch []uint32
	OccupancyMap []bool
	AbsoluteD1   bool
}

// Encoder writes groups of frames in the layout Decoder reads. It produces
// occupancy-only streams (no video sub-streams).
type Encoder struct {
	opts EncoderOptions
}

// NewEncoder returns an encoder using opts.
func NewEncoder(opts EncoderOptions) *Encoder {
	return &Encoder{opts: opts}
}

// EncodeGroup appends a group header and one occupancy unit per frame to w.
// h.FrameCount is taken from len(frames).
func (e *Encoder) EncodeGroup(w *BitstreamWriter, h SequenceHeader, frames []FrameInput) error {
	if len(frames) == 0 || len(frames) > 255 {
		return invariantf("group of %d frames", len(frames))
	}
	h.FrameCount = uint8(len(frames))
	if err := h.Validate(); err != nil {
		return err
	}
	EncodeHeader(w, &h)
	for i := range frames {
		if err := e.EncodeFrame(w, &h, &frames[i]); err != nil {
			return errors.Wrapf(err, "frame %d", i)
		}
	}
	return nil
}

// EncodeFrame appends one occupancy unit.
func (e *Encoder) EncodeFrame(w *BitstreamWriter, h *SequenceHeader, f *FrameInput) error {
	geom, err := newBlockGeometry(h, e.opts.OccupancyPrecision)
	if err != nil {
		return err
	}
	if len(f.BlockToPatch) != geom.blockCount() {
		return invariantf("block-to-patch has %d entries, grid has %d", len(f.BlockToPatch), geom.blockCount())
	}
	if len(f.OccupancyMap) != int(h.Width)*int(h.Height) {
		return invariantf("occupancy map has %d entries, picture has %d", len(f.OccupancyMap), int(h.Width)*int(h.Height))
	}

	unit := OccupancyUnitHeader{
		PatchCount:         uint32(len(f.Patches)),
		OccupancyPrecision: e.opts.OccupancyPrecision,
		MaxCandidateCount:  e.opts.MaxCandidateCount,
	}
	var maxU0, maxV0, maxU1, maxV1, maxD1 uint32
	for i := range f.Patches {
		p := &f.Patches[i]
		if p.NormalAxis > 2 {
			return invariantf("patch %d: normal axis %d", i, p.NormalAxis)
		}
		if int(p.U0)+int(p.SizeU0) > geom.gridWidth || int(p.V0)+int(p.SizeV0) > geom.gridHeight {
			return invariantf("patch %d outside the block grid", i)
		}
		maxU0, maxV0 = max(maxU0, p.U0), max(maxV0, p.V0)
		maxU1, maxV1, maxD1 = max(maxU1, p.U1), max(maxV1, p.V1), max(maxD1, p.D1)
	}
	unit.BitCountU0 = bitCountForValue(maxU0)
	unit.BitCountV0 = bitCountForValue(maxV0)
	unit.BitCountU1 = bitCountForValue(maxU1)
	unit.BitCountV1 = bitCountForValue(maxV1)
	unit.BitCountD1 = bitCountForValue(maxD1)

	models := newSegmentModels(&unit, geom)
	enc := NewArithEncoder()
	enc.Start()
	encodePatches(enc, models, &unit, f.Patches, f.AbsoluteD1)
	candidates := BuildCandidateLists(f.Patches, geom.gridWidth, geom.gridHeight)
	if err := encodeBlockToPatch(enc, models, &unit, candidates, f.BlockToPatch); err != nil {
		return err
	}
	if err := encodeOccupancy(enc, models, geom, f.BlockToPatch, f.OccupancyMap, int(h.Width)); err != nil {
		return err
	}
	unit.SegmentSize = uint32(enc.Stop())

	encodeUnitHeader(w, &unit)
	_, err = w.Write(enc.Bytes())
	return err
}

func bitCountForValue(v uint32) uint8 {
	if v == ^uint32(0) {
		return 32
	}
	return BitCountFor(v + 1)
}

// AssignBlockToPatch derives a block-to-patch map from patch boxes and an
// occupancy map: each block holding at least one occupied pixel goes to the
// first patch covering it, every other block to 0.
func AssignBlockToPatch(h *SequenceHeader, patches []Patch, occupancyMap []bool) []uint32 {
	gw, gh := h.BlockGrid()
	res := int(h.OccupancyResolution)
	width := int(h.Width)
	blockToPatch := make([]uint32, gw*gh)
	for v0 := 0; v0 < gh; v0++ {
		for u0 := 0; u0 < gw; u0++ {
			if !blockHasOccupancy(occupancyMap, width, res, u0, v0) {
				continue
			}
			for i := range patches {
				if patches[i].Covers(u0, v0) {
					blockToPatch[v0*gw+u0] = uint32(i + 1)
					break
				}
			}
		}
	}
	return blockToPatch
}

func blockHasOccupancy(occupancyMap []bool, width, res, u0, v0 int) bool {
	for y := v0 * res; y < (v0+1)*res; y++ {
		for x := u0 * res; x < (u0+1)*res; x++ {
			if occupancyMap[y*width+x] {
				return true
			}
		}
	}
	return false
}
