package pcc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func testHeader(width, height uint16, res uint8) SequenceHeader {
	return SequenceHeader{
		FrameCount:               1,
		Width:                    width,
		Height:                   height,
		OccupancyResolution:      res,
		Radius2Smoothing:         64,
		NeighborCountSmoothing:   16,
		Radius2BoundaryDetection: 64,
		ThresholdSmoothing:       4,
	}
}

// fillPatchOccupancy sets a random precision-aligned pattern in every block
// owned by a patch, keeping at least one sub-block occupied per block.
func fillPatchOccupancy(rng *rand.Rand, h *SequenceHeader, precision int, blockToPatch []uint32, density float64) []bool {
	width, height := int(h.Width), int(h.Height)
	res := int(h.OccupancyResolution)
	gw, _ := h.BlockGrid()
	occ := make([]bool, width*height)
	n := res / precision
	for b, owner := range blockToPatch {
		if owner == 0 {
			continue
		}
		u0, v0 := b%gw, b/gw
		cells := make([]bool, n*n)
		hit := false
		for i := range cells {
			cells[i] = rng.Float64() < density
			hit = hit || cells[i]
		}
		if !hit {
			cells[rng.Intn(len(cells))] = true
		}
		for v1 := 0; v1 < n; v1++ {
			for u1 := 0; u1 < n; u1++ {
				if !cells[v1*n+u1] {
					continue
				}
				for y := 0; y < precision; y++ {
					for x := 0; x < precision; x++ {
						px := u0*res + u1*precision + x
						py := v0*res + v1*precision + y
						occ[py*width+px] = true
					}
				}
			}
		}
	}
	return occ
}

func randomPatches(rng *rand.Rand, h *SequenceHeader, count int) []Patch {
	gw, gh := h.BlockGrid()
	patches := make([]Patch, count)
	for i := range patches {
		p := &patches[i]
		p.SizeU0 = uint32(1 + rng.Intn(gw))
		p.SizeV0 = uint32(1 + rng.Intn(gh))
		p.U0 = uint32(rng.Intn(gw - int(p.SizeU0) + 1))
		p.V0 = uint32(rng.Intn(gh - int(p.SizeV0) + 1))
		p.U1 = uint32(rng.Intn(1024))
		p.V1 = uint32(rng.Intn(1024))
		p.D1 = uint32(rng.Intn(256))
		p.OccupancyResolution = h.OccupancyResolution
		p.SetNormalAxis(uint8(rng.Intn(3)))
	}
	return patches
}

func randomFrame(rng *rand.Rand, h *SequenceHeader, precision, patchCount int) FrameInput {
	patches := randomPatches(rng, h, patchCount)
	full := make([]bool, int(h.Width)*int(h.Height))
	for i := range full {
		full[i] = true
	}
	blockToPatch := AssignBlockToPatch(h, patches, full)
	// leave some covered blocks empty
	for b := range blockToPatch {
		if rng.Intn(5) == 0 {
			blockToPatch[b] = 0
		}
	}
	return FrameInput{
		Patches:      patches,
		BlockToPatch: blockToPatch,
		OccupancyMap: fillPatchOccupancy(rng, h, precision, blockToPatch, 0.6),
		AbsoluteD1:   rng.Intn(2) == 0,
	}
}

func encodeGroup(t *testing.T, opts EncoderOptions, h SequenceHeader, frames []FrameInput) []byte {
	t.Helper()
	w := NewBitstreamWriter()
	require.NoError(t, NewEncoder(opts).EncodeGroup(w, h, frames))
	return w.Bytes()
}

// unitBuilder hand-assembles an occupancy unit so tests can write values the
// encoder refuses to produce.
type unitBuilder struct {
	unit   OccupancyUnitHeader
	geom   blockGeometry
	enc    *ArithEncoder
	models *segmentModels
}

func newUnitBuilder(t *testing.T, h *SequenceHeader, unit OccupancyUnitHeader) *unitBuilder {
	t.Helper()
	geom, err := newBlockGeometry(h, unit.OccupancyPrecision)
	require.NoError(t, err)
	b := &unitBuilder{unit: unit, geom: geom, enc: NewArithEncoder()}
	b.models = newSegmentModels(&b.unit, geom)
	b.enc.Start()
	return b
}

func (b *unitBuilder) finish(w *BitstreamWriter) {
	b.unit.SegmentSize = uint32(b.enc.Stop())
	encodeUnitHeader(w, &b.unit)
	w.Write(b.enc.Bytes())
}
