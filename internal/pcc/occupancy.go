package pcc

// decodeOccupancy expands the run-length coded sub-blocks of every occupied
// block into a width×height occupancy map. Blocks are visited in row-major
// grid order; unoccupied blocks cost nothing and stay empty.
func (s *segmentDecoder) decodeOccupancy(blockToPatch []uint32, width, height int) ([]bool, int, error) {
	g := s.geom
	orders := TraversalOrders(g.blockSize0)

	occupancyMap := make([]bool, width*height)
	block0 := make([]bool, g.pointCount0)
	occupied := 0
	for v0 := 0; v0 < g.gridHeight; v0++ {
		for u0 := 0; u0 < g.gridWidth; u0++ {
			if blockToPatch[v0*g.gridWidth+u0] == 0 {
				continue
			}
			occupied++
			if err := s.decodeBlock(block0, orders, v0*g.gridWidth+u0); err != nil {
				return nil, 0, err
			}
			upsampleBlock(occupancyMap, width, block0, g, u0, v0)
		}
	}
	return occupancyMap, occupied, nil
}

func (s *segmentDecoder) decodeBlock(block0 []bool, orders [traversalOrderCount][]Location, blockIndex int) error {
	m := s.models
	n := s.geom.blockSize0
	if s.dec.DecodeBit(&m.fullBlock) != 0 {
		for i := range block0 {
			block0[i] = true
		}
		return nil
	}

	orderIndex := s.dec.DecodeSymbol(m.traversalIndex)
	if orderIndex >= traversalOrderCount {
		return malformedf("block %d: traversal order %d", blockIndex, orderIndex)
	}
	order := orders[orderIndex]
	runCountMinusOne := int(s.dec.DecodeSymbol(m.runCount)) + 1
	occupancy := s.dec.DecodeBit(&m.occupancy) != 0

	i := 0
	for r := 0; r < runCountMinusOne; r++ {
		runLength := int(s.dec.DecodeSymbol(m.runLength))
		if i+runLength+1 > len(order) {
			return malformedf("block %d: run %d of length %d overflows %d sub-blocks",
				blockIndex, r, runLength+1, len(order))
		}
		for j := 0; j <= runLength; j++ {
			loc := order[i]
			block0[loc.V*n+loc.U] = occupancy
			i++
		}
		occupancy = !occupancy
	}
	for ; i < len(order); i++ {
		loc := order[i]
		block0[loc.V*n+loc.U] = occupancy
	}
	return nil
}

// upsampleBlock broadcasts every sub-block to a precision×precision square.
func upsampleBlock(occupancyMap []bool, width int, block0 []bool, g blockGeometry, u0, v0 int) {
	for v1 := 0; v1 < g.blockSize0; v1++ {
		v2 := v0*g.resolution + v1*g.precision
		for u1 := 0; u1 < g.blockSize0; u1++ {
			u2 := u0*g.resolution + u1*g.precision
			occupancy := block0[v1*g.blockSize0+u1]
			for v3 := 0; v3 < g.precision; v3++ {
				row := (v2 + v3) * width
				for u3 := 0; u3 < g.precision; u3++ {
					occupancyMap[row+u2+u3] = occupancy
				}
			}
		}
	}
}

// downsampleBlock marks a sub-block occupied when any of its pixels is.
func downsampleBlock(block0 []bool, occupancyMap []bool, width int, g blockGeometry, u0, v0 int) {
	for v1 := 0; v1 < g.blockSize0; v1++ {
		v2 := v0*g.resolution + v1*g.precision
		for u1 := 0; u1 < g.blockSize0; u1++ {
			u2 := u0*g.resolution + u1*g.precision
			occupancy := false
			for v3 := 0; v3 < g.precision && !occupancy; v3++ {
				row := (v2 + v3) * width
				for u3 := 0; u3 < g.precision; u3++ {
					if occupancyMap[row+u2+u3] {
						occupancy = true
						break
					}
				}
			}
			block0[v1*g.blockSize0+u1] = occupancy
		}
	}
}

// blockRuns returns the run lengths (minus one) of block0 along order.
func blockRuns(block0 []bool, n int, order []Location, runs []int) []int {
	runs = runs[:0]
	first := order[0]
	current := block0[first.V*n+first.U]
	runLength := 0
	for _, loc := range order[1:] {
		occupancy := block0[loc.V*n+loc.U]
		if occupancy != current {
			runs = append(runs, runLength)
			current = occupancy
			runLength = 0
		} else {
			runLength++
		}
	}
	return append(runs, runLength)
}

// encodeOccupancy mirrors decodeOccupancy.
func encodeOccupancy(enc *ArithEncoder, m *segmentModels, g blockGeometry, blockToPatch []uint32, occupancyMap []bool, width int) error {
	orders := TraversalOrders(g.blockSize0)
	n := g.blockSize0
	block0 := make([]bool, g.pointCount0)
	var runs, bestRuns []int
	for v0 := 0; v0 < g.gridHeight; v0++ {
		for u0 := 0; u0 < g.gridWidth; u0++ {
			b := v0*g.gridWidth + u0
			if blockToPatch[b] == 0 {
				continue
			}
			downsampleBlock(block0, occupancyMap, width, g, u0, v0)
			full := true
			for _, o := range block0 {
				if !o {
					full = false
					break
				}
			}
			enc.EncodeBit(uint32(boolByte(full)), &m.fullBlock)
			if full {
				continue
			}

			best := 0
			bestRuns = bestRuns[:0]
			for k, order := range orders {
				runs = blockRuns(block0, n, order, runs)
				if k == 0 || len(runs) < len(bestRuns) {
					best = k
					runs, bestRuns = bestRuns, runs
				}
			}
			if len(bestRuns) < 2 {
				return invariantf("block %d: owned by patch %d but has no occupied sample", b, blockToPatch[b])
			}
			enc.EncodeSymbol(uint32(best), m.traversalIndex)
			enc.EncodeSymbol(uint32(len(bestRuns)-2), m.runCount)
			first := orders[best][0]
			enc.EncodeBit(uint32(boolByte(block0[first.V*n+first.U])), &m.occupancy)
			for _, r := range bestRuns[:len(bestRuns)-1] {
				enc.EncodeSymbol(uint32(r), m.runLength)
			}
		}
	}
	return nil
}
