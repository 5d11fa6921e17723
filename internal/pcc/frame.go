package pcc

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// maxPatchCount bounds the patch table allocated from an untrusted count.
const maxPatchCount = 1 << 24

// FrameContext is the decoded occupancy and patch data of one frame.
type FrameContext struct {
	Index  int
	Width  int
	Height int
	Unit   OccupancyUnitHeader

	Patches []Patch
	// BlockToPatch holds patch index + 1 per block, 0 for unoccupied blocks.
	BlockToPatch   []uint32
	OccupancyMap   []bool
	AbsoluteD1     bool
	OccupiedBlocks int
}

// Occupied reports whether pixel (x, y) holds geometry.
func (f *FrameContext) Occupied(x, y int) bool {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return false
	}
	return f.OccupancyMap[y*f.Width+x]
}

// OccupiedPixels counts the set entries of the occupancy map.
func (f *FrameContext) OccupiedPixels() int {
	n := 0
	for _, o := range f.OccupancyMap {
		if o {
			n++
		}
	}
	return n
}

// Image renders the occupancy map, occupied pixels white.
func (f *FrameContext) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if f.OccupancyMap[y*f.Width+x] {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// decodeFrame decodes one occupancy unit at the cursor and leaves the cursor
// exactly past the declared segment.
func decodeFrame(bs *Bitstream, h *SequenceHeader, index int, strict bool) (*FrameContext, error) {
	unit, err := decodeUnitHeader(bs)
	if err != nil {
		return nil, err
	}
	geom, err := newBlockGeometry(h, unit.OccupancyPrecision)
	if err != nil {
		return nil, err
	}
	if unit.PatchCount > maxPatchCount {
		return nil, malformedf("patch count %d exceeds %d", unit.PatchCount, maxPatchCount)
	}

	dec := NewArithDecoder(bs.Tail())
	dec.Start()
	s := &segmentDecoder{
		dec:    dec,
		models: newSegmentModels(&unit, geom),
		unit:   &unit,
		geom:   geom,
		strict: strict,
	}

	f := &FrameContext{
		Index:  index,
		Width:  int(h.Width),
		Height: int(h.Height),
		Unit:   unit,
	}
	if f.Patches, f.AbsoluteD1, err = s.decodePatches(h.OccupancyResolution); err != nil {
		return nil, err
	}
	candidates := BuildCandidateLists(f.Patches, geom.gridWidth, geom.gridHeight)
	if f.BlockToPatch, err = s.resolveBlockToPatch(candidates); err != nil {
		return nil, err
	}
	if f.OccupancyMap, f.OccupiedBlocks, err = s.decodeOccupancy(f.BlockToPatch, f.Width, f.Height); err != nil {
		return nil, err
	}
	dec.Stop()

	if strict {
		// The decoder holds four bytes in its register while the encoder
		// flushes one or two, so a matching segment leaves 2 or 3 bytes of
		// lookahead past the declared size.
		lookahead := dec.BytesRead() - int(unit.SegmentSize)
		if lookahead < 2 || lookahead > 3 {
			return nil, conformancef("declared segment of %d bytes, decoder read %d", unit.SegmentSize, dec.BytesRead())
		}
	}
	if err := bs.Advance(int(unit.SegmentSize)); err != nil {
		return nil, errors.Wrap(err, "skipping coded segment")
	}
	return f, nil
}
