package pcc

import "github.com/pkg/errors"

// OccupancyUnitHeaderSize is the size of the fixed fields that precede each
// frame's arithmetic-coded segment.
const OccupancyUnitHeaderSize = 15

const traversalOrderCount = 4

// maxFieldBits bounds the per-field bit counts; every patch field is a uint32.
const maxFieldBits = 32

// OccupancyUnitHeader holds the fixed-width fields of a frame's occupancy unit.
type OccupancyUnitHeader struct {
	PatchCount         uint32
	OccupancyPrecision uint8
	MaxCandidateCount  uint8
	BitCountU0         uint8
	BitCountV0         uint8
	BitCountU1         uint8
	BitCountV1         uint8
	BitCountD1         uint8
	SegmentSize        uint32
}

// UnitSize returns the full encoded size of the unit.
func (u *OccupancyUnitHeader) UnitSize() int {
	return OccupancyUnitHeaderSize + int(u.SegmentSize)
}

func decodeUnitHeader(bs *Bitstream) (OccupancyUnitHeader, error) {
	var u OccupancyUnitHeader
	var err error
	if u.PatchCount, err = bs.ReadUint32(); err != nil {
		return u, errors.Wrap(err, "patch count")
	}
	fields := []*uint8{
		&u.OccupancyPrecision, &u.MaxCandidateCount,
		&u.BitCountU0, &u.BitCountV0, &u.BitCountU1, &u.BitCountV1, &u.BitCountD1,
	}
	for i, f := range fields {
		if *f, err = bs.ReadUint8(); err != nil {
			return u, errors.Wrapf(err, "unit header byte %d", 4+i)
		}
	}
	for i, bits := range fields[2:] {
		if *bits > maxFieldBits {
			return u, malformedf("unit header byte %d: bit count %d exceeds %d", 6+i, *bits, maxFieldBits)
		}
	}
	if u.SegmentSize, err = bs.ReadUint32(); err != nil {
		return u, errors.Wrap(err, "segment size")
	}
	if int(u.SegmentSize) > bs.Remaining() {
		return u, errors.Wrapf(ErrTruncated, "segment of %d bytes at offset %d, %d remaining",
			u.SegmentSize, bs.Position(), bs.Remaining())
	}
	return u, nil
}

func encodeUnitHeader(w *BitstreamWriter, u *OccupancyUnitHeader) {
	w.WriteUint32(u.PatchCount)
	w.WriteUint8(u.OccupancyPrecision)
	w.WriteUint8(u.MaxCandidateCount)
	w.WriteUint8(u.BitCountU0)
	w.WriteUint8(u.BitCountV0)
	w.WriteUint8(u.BitCountU1)
	w.WriteUint8(u.BitCountV1)
	w.WriteUint8(u.BitCountD1)
	w.WriteUint32(u.SegmentSize)
}

// blockGeometry is the per-frame sub-block layout derived from the
// occupancy resolution and precision.
type blockGeometry struct {
	resolution  int
	precision   int
	gridWidth   int
	gridHeight  int
	blockSize0  int
	pointCount0 int
}

func newBlockGeometry(h *SequenceHeader, precision uint8) (blockGeometry, error) {
	if err := h.Validate(); err != nil {
		return blockGeometry{}, err
	}
	res := int(h.OccupancyResolution)
	if precision == 0 || res%int(precision) != 0 {
		return blockGeometry{}, malformedf("occupancy precision %d does not divide resolution %d", precision, res)
	}
	g := blockGeometry{
		resolution: res,
		precision:  int(precision),
		blockSize0: res / int(precision),
	}
	g.gridWidth, g.gridHeight = h.BlockGrid()
	g.pointCount0 = g.blockSize0 * g.blockSize0
	if g.pointCount0 < 2 || g.pointCount0 > MaxDataSymbols {
		return blockGeometry{}, malformedf("%d sub-blocks per block is outside [2, %d]", g.pointCount0, MaxDataSymbols)
	}
	return g, nil
}

func (g blockGeometry) blockCount() int { return g.gridWidth * g.gridHeight }

// segmentModels bundles every adaptive model of one coded segment. Encoder
// and decoder build identical sets.
type segmentModels struct {
	static     StaticBitModel
	sizeU0     AdaptiveBitModel
	sizeV0     AdaptiveBitModel
	absoluteD1 AdaptiveBitModel
	fullBlock  AdaptiveBitModel
	occupancy  AdaptiveBitModel

	orientation    *AdaptiveDataModel
	candidateIndex *AdaptiveDataModel
	traversalIndex *AdaptiveDataModel
	runCount       *AdaptiveDataModel
	runLength      *AdaptiveDataModel
}

func newSegmentModels(u *OccupancyUnitHeader, g blockGeometry) *segmentModels {
	return &segmentModels{
		static:         NewStaticBitModel(),
		sizeU0:         NewAdaptiveBitModel(),
		sizeV0:         NewAdaptiveBitModel(),
		absoluteD1:     NewAdaptiveBitModel(),
		fullBlock:      NewAdaptiveBitModel(),
		occupancy:      NewAdaptiveBitModel(),
		orientation:    NewAdaptiveDataModel(4),
		candidateIndex: NewAdaptiveDataModel(int(u.MaxCandidateCount) + 2),
		traversalIndex: NewAdaptiveDataModel(traversalOrderCount + 1),
		runCount:       NewAdaptiveDataModel(g.pointCount0),
		runLength:      NewAdaptiveDataModel(g.pointCount0),
	}
}
