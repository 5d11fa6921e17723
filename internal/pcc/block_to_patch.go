package pcc

// BuildCandidateLists returns, for every block of a gridWidth-wide grid, the
// patch indices (1-based) whose bounding box covers it followed by 0. Patches
// are visited in reverse decode order, so earlier patches sit closer to the
// end of each list. Every patch must lie inside the grid.
func BuildCandidateLists(patches []Patch, gridWidth, gridHeight int) [][]uint32 {
	candidates := make([][]uint32, gridWidth*gridHeight)
	for patchIndex := len(patches) - 1; patchIndex >= 0; patchIndex-- {
		p := &patches[patchIndex]
		for v0 := 0; v0 < int(p.SizeV0); v0++ {
			row := (int(p.V0) + v0) * gridWidth
			for u0 := 0; u0 < int(p.SizeU0); u0++ {
				b := row + int(p.U0) + u0
				candidates[b] = append(candidates[b], uint32(patchIndex+1))
			}
		}
	}
	for b := range candidates {
		candidates[b] = append(candidates[b], 0)
	}
	return candidates
}

// explicitIndexBits is the width of an escaped block-to-patch value, which
// ranges over [0, patchCount].
func explicitIndexBits(patchCount uint32) uint8 {
	return BitCountFor(patchCount + 1)
}

// resolveBlockToPatch decodes the owner of every block. Blocks no patch
// covers have the single candidate 0 and cost nothing.
func (s *segmentDecoder) resolveBlockToPatch(candidates [][]uint32) ([]uint32, error) {
	m := s.models
	maxCandidates := uint32(s.unit.MaxCandidateCount)
	indexBits := explicitIndexBits(s.unit.PatchCount)

	blockToPatch := make([]uint32, len(candidates))
	for b, list := range candidates {
		if len(list) == 1 {
			blockToPatch[b] = list[0]
			continue
		}
		idx := s.dec.DecodeSymbol(m.candidateIndex)
		if idx == maxCandidates {
			v := DecodeUInt32(indexBits, s.dec, &m.static)
			if s.strict && v > s.unit.PatchCount {
				return nil, conformancef("block %d: explicit patch index %d > %d patches", b, v, s.unit.PatchCount)
			}
			blockToPatch[b] = v
			continue
		}
		if int(idx) >= len(list) {
			return nil, malformedf("block %d: candidate index %d with %d candidates", b, idx, len(list))
		}
		// The alphabet reserves max+1; lenient decoding still indexes the list.
		if s.strict && idx > maxCandidates {
			return nil, conformancef("block %d: candidate index %d above maximum %d", b, idx, maxCandidates)
		}
		blockToPatch[b] = list[idx]
	}
	return blockToPatch, nil
}

// encodeBlockToPatch mirrors resolveBlockToPatch.
func encodeBlockToPatch(enc *ArithEncoder, m *segmentModels, u *OccupancyUnitHeader, candidates [][]uint32, blockToPatch []uint32) error {
	maxCandidates := uint32(u.MaxCandidateCount)
	indexBits := explicitIndexBits(u.PatchCount)
	for b, list := range candidates {
		owner := blockToPatch[b]
		if len(list) == 1 {
			if owner != list[0] {
				return invariantf("block %d: owner %d but no patch covers it", b, owner)
			}
			continue
		}
		idx := uint32(len(list))
		for i, c := range list {
			if c == owner {
				idx = uint32(i)
				break
			}
		}
		if idx < uint32(len(list)) && idx < maxCandidates {
			enc.EncodeSymbol(idx, m.candidateIndex)
			continue
		}
		if owner > u.PatchCount {
			return invariantf("block %d: owner %d > %d patches", b, owner, u.PatchCount)
		}
		enc.EncodeSymbol(maxCandidates, m.candidateIndex)
		EncodeUInt32(owner, indexBits, enc, &m.static)
	}
	return nil
}
