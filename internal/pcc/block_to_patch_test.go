package pcc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestBuildCandidateListsOrder(t *testing.T) {
	patches := []Patch{
		{U0: 0, V0: 0, SizeU0: 2, SizeV0: 1},
		{U0: 1, V0: 0, SizeU0: 2, SizeV0: 2},
	}
	got := BuildCandidateLists(patches, 3, 2)
	want := [][]uint32{
		{1, 0}, {2, 1, 0}, {2, 0},
		{0}, {2, 0}, {2, 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("candidate lists mismatch (-want +got):\n%s", diff)
	}

	total := 0
	for _, l := range got {
		total += len(l)
	}
	require.GreaterOrEqual(t, total, len(got))
}

func TestResolveBlockToPatchSingleCandidateIsFree(t *testing.T) {
	r := require.New(t)
	h := testHeader(64, 64, 16)
	unit := OccupancyUnitHeader{OccupancyPrecision: 4, MaxCandidateCount: 4}
	geom, err := newBlockGeometry(&h, unit.OccupancyPrecision)
	r.NoError(err)

	dec := NewArithDecoder([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02})
	dec.Start()
	s := &segmentDecoder{dec: dec, models: newSegmentModels(&unit, geom), unit: &unit, geom: geom}
	before := *dec

	candidates := BuildCandidateLists(nil, geom.gridWidth, geom.gridHeight)
	blockToPatch, err := s.resolveBlockToPatch(candidates)
	r.NoError(err)
	r.Equal(make([]uint32, 16), blockToPatch)
	r.Equal(before, *dec, "no symbol may be decoded for uncovered blocks")
}

func TestBlockToPatchEscapeRoundTrip(t *testing.T) {
	r := require.New(t)
	h := testHeader(64, 64, 16)
	// Three patches stacked on block (0,0); with one candidate slot, owners
	// deeper in the list must be escaped.
	patches := []Patch{
		{U0: 0, V0: 0, SizeU0: 2, SizeV0: 2},
		{U0: 0, V0: 0, SizeU0: 1, SizeV0: 1},
		{U0: 0, V0: 0, SizeU0: 3, SizeV0: 1},
	}
	unit := OccupancyUnitHeader{PatchCount: 3, OccupancyPrecision: 4, MaxCandidateCount: 1}
	b := newUnitBuilder(t, &h, unit)
	candidates := BuildCandidateLists(patches, b.geom.gridWidth, b.geom.gridHeight)
	r.Equal([]uint32{3, 2, 1, 0}, candidates[0])

	blockToPatch := make([]uint32, 16)
	blockToPatch[0] = 1 // index 2 in [3 2 1 0]: escaped
	blockToPatch[1] = 3 // index 0 in [3 1 0]
	blockToPatch[2] = 0 // index 1 in [3 0]: escaped
	blockToPatch[4] = 1 // index 0 in [1 0]
	r.NoError(encodeBlockToPatch(b.enc, b.models, &b.unit, candidates, blockToPatch))
	b.enc.Stop()

	dec := NewArithDecoder(b.enc.Bytes())
	dec.Start()
	s := &segmentDecoder{dec: dec, models: newSegmentModels(&unit, b.geom), unit: &unit, geom: b.geom, strict: true}
	got, err := s.resolveBlockToPatch(candidates)
	r.NoError(err)
	r.Equal(blockToPatch, got)
}

func TestEncodeBlockToPatchRejectsUncoveredOwner(t *testing.T) {
	h := testHeader(32, 32, 16)
	unit := OccupancyUnitHeader{PatchCount: 0, OccupancyPrecision: 4, MaxCandidateCount: 4}
	b := newUnitBuilder(t, &h, unit)
	candidates := BuildCandidateLists(nil, 2, 2)
	err := encodeBlockToPatch(b.enc, b.models, &b.unit, candidates, []uint32{0, 1, 0, 0})
	require.True(t, errors.Is(err, ErrInvariant))
}

func TestExplicitIndexBits(t *testing.T) {
	r := require.New(t)
	r.Equal(uint8(0), explicitIndexBits(0))
	r.Equal(uint8(1), explicitIndexBits(1))
	r.Equal(uint8(2), explicitIndexBits(3))
	r.Equal(uint8(3), explicitIndexBits(4))
}

func TestCandidateIndexAboveMaximum(t *testing.T) {
	h := testHeader(16, 16, 16)
	unit := OccupancyUnitHeader{PatchCount: 3, OccupancyPrecision: 4, MaxCandidateCount: 1}
	geom, err := newBlockGeometry(&h, unit.OccupancyPrecision)
	require.NoError(t, err)

	// three patches stack on the only block: candidates [3, 2, 1, 0]
	patches := []Patch{{SizeU0: 1, SizeV0: 1}, {SizeU0: 1, SizeV0: 1}, {SizeU0: 1, SizeV0: 1}}
	candidates := BuildCandidateLists(patches, 1, 1)
	require.Equal(t, []uint32{3, 2, 1, 0}, candidates[0])

	enc := NewArithEncoder()
	enc.Start()
	// symbol 2 is one past the escape for a maximum of 1
	enc.EncodeSymbol(2, newSegmentModels(&unit, geom).candidateIndex)
	enc.Stop()

	for _, strict := range []bool{false, true} {
		dec := NewArithDecoder(enc.Bytes())
		dec.Start()
		s := &segmentDecoder{dec: dec, models: newSegmentModels(&unit, geom), unit: &unit, geom: geom, strict: strict}
		blockToPatch, err := s.resolveBlockToPatch(candidates)
		if strict {
			require.True(t, errors.Is(err, ErrConformance), "got %v", err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, []uint32{1}, blockToPatch)
	}
}
