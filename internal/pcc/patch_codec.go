package pcc

import "math"

// segmentDecoder is the decode session for one frame's coded segment. It is
// created by decodeFrame and passed down by pointer; no callee keeps it.
type segmentDecoder struct {
	dec    *ArithDecoder
	models *segmentModels
	unit   *OccupancyUnitHeader
	geom   blockGeometry
	strict bool
}

// sizeAccumulator reconstructs patch sizes from their coded deltas. It is
// reset for every frame and lives only for one decodePatches call.
type sizeAccumulator struct {
	prevU0 int64
	prevV0 int64
}

func (a *sizeAccumulator) apply(index int, deltaU0, deltaV0 int64) (uint32, uint32, error) {
	u0 := a.prevU0 + deltaU0
	v0 := a.prevV0 + deltaV0
	if u0 < 0 || v0 < 0 || u0 > math.MaxUint32 || v0 > math.MaxUint32 {
		return 0, 0, malformedf("patch %d: reconstructed size %dx%d out of range", index, u0, v0)
	}
	a.prevU0, a.prevV0 = u0, v0
	return uint32(u0), uint32(v0), nil
}

// decodePatches reads the absoluteD1 flag followed by every patch.
func (s *segmentDecoder) decodePatches(occupancyResolution uint8) ([]Patch, bool, error) {
	m := s.models
	absoluteD1 := s.dec.DecodeBit(&m.absoluteD1) != 0

	patches := make([]Patch, s.unit.PatchCount)
	var acc sizeAccumulator
	for i := range patches {
		p := &patches[i]
		p.OccupancyResolution = occupancyResolution
		p.U0 = DecodeUInt32(s.unit.BitCountU0, s.dec, &m.static)
		p.V0 = DecodeUInt32(s.unit.BitCountV0, s.dec, &m.static)
		p.U1 = DecodeUInt32(s.unit.BitCountU1, s.dec, &m.static)
		p.V1 = DecodeUInt32(s.unit.BitCountV1, s.dec, &m.static)
		p.D1 = DecodeUInt32(s.unit.BitCountD1, s.dec, &m.static)

		deltaU0 := UIntToInt(s.dec.ExpGolombDecode(0, &m.static, &m.sizeU0))
		deltaV0 := UIntToInt(s.dec.ExpGolombDecode(0, &m.static, &m.sizeV0))
		var err error
		if p.SizeU0, p.SizeV0, err = acc.apply(i, deltaU0, deltaV0); err != nil {
			return nil, false, err
		}

		axis := s.dec.DecodeSymbol(m.orientation)
		if axis > 2 && s.strict {
			return nil, false, conformancef("patch %d: normal axis %d", i, axis)
		}
		p.SetNormalAxis(uint8(axis))

		if err := s.checkPatchBounds(i, p); err != nil {
			return nil, false, err
		}
	}
	return patches, absoluteD1, nil
}

func (s *segmentDecoder) checkPatchBounds(index int, p *Patch) error {
	if uint64(p.U0)+uint64(p.SizeU0) > uint64(s.geom.gridWidth) ||
		uint64(p.V0)+uint64(p.SizeV0) > uint64(s.geom.gridHeight) {
		return malformedf("patch %d: blocks (%d,%d)+(%dx%d) outside %dx%d grid",
			index, p.U0, p.V0, p.SizeU0, p.SizeV0, s.geom.gridWidth, s.geom.gridHeight)
	}
	return nil
}

// encodePatches mirrors decodePatches.
func encodePatches(enc *ArithEncoder, m *segmentModels, u *OccupancyUnitHeader, patches []Patch, absoluteD1 bool) {
	enc.EncodeBit(uint32(boolByte(absoluteD1)), &m.absoluteD1)
	var prevU0, prevV0 int64
	for i := range patches {
		p := &patches[i]
		EncodeUInt32(p.U0, u.BitCountU0, enc, &m.static)
		EncodeUInt32(p.V0, u.BitCountV0, enc, &m.static)
		EncodeUInt32(p.U1, u.BitCountU1, enc, &m.static)
		EncodeUInt32(p.V1, u.BitCountV1, enc, &m.static)
		EncodeUInt32(p.D1, u.BitCountD1, enc, &m.static)

		enc.ExpGolombEncode(IntToUInt(int64(p.SizeU0)-prevU0), 0, &m.static, &m.sizeU0)
		enc.ExpGolombEncode(IntToUInt(int64(p.SizeV0)-prevV0), 0, &m.static, &m.sizeV0)
		prevU0, prevV0 = int64(p.SizeU0), int64(p.SizeV0)

		enc.EncodeSymbol(uint32(p.NormalAxis), m.orientation)
	}
}
