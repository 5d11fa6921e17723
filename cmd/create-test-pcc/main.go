package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/jdeng/gopcc/internal/pcc"
)

// createTestStream writes groups of synthetic frames: a few rectangular
// patches per frame, each owning its covered blocks, with a disc-shaped
// footprint inside every patch so blocks get partial occupancy.
func createTestStream(filename string, groups, frames int, width, height uint16, seed int64) error {
	rng := rand.New(rand.NewSource(seed))
	h := pcc.SequenceHeader{
		Width:                    width,
		Height:                   height,
		OccupancyResolution:      16,
		Radius2Smoothing:         64,
		NeighborCountSmoothing:   16,
		Radius2BoundaryDetection: 64,
		ThresholdSmoothing:       4,
		NoAttributes:             true,
	}
	w := pcc.NewBitstreamWriter()
	enc := pcc.NewEncoder(pcc.DefaultEncoderOptions())
	for g := 0; g < groups; g++ {
		inputs := make([]pcc.FrameInput, frames)
		for i := range inputs {
			inputs[i] = syntheticFrame(rng, &h)
		}
		if err := enc.EncodeGroup(w, h, inputs); err != nil {
			return err
		}
	}
	w.WriteUint8(0) // end of stream

	return os.WriteFile(filename, w.Bytes(), 0644)
}

func syntheticFrame(rng *rand.Rand, h *pcc.SequenceHeader) pcc.FrameInput {
	gw, gh := h.BlockGrid()
	res := int(h.OccupancyResolution)
	width := int(h.Width)
	occ := make([]bool, width*int(h.Height))

	patches := make([]pcc.Patch, 1+rng.Intn(6))
	for i := range patches {
		p := &patches[i]
		p.SizeU0 = uint32(1 + rng.Intn(min(gw, 4)))
		p.SizeV0 = uint32(1 + rng.Intn(min(gh, 4)))
		p.U0 = uint32(rng.Intn(gw - int(p.SizeU0) + 1))
		p.V0 = uint32(rng.Intn(gh - int(p.SizeV0) + 1))
		p.U1 = uint32(rng.Intn(512))
		p.V1 = uint32(rng.Intn(512))
		p.D1 = uint32(rng.Intn(256))
		p.OccupancyResolution = h.OccupancyResolution
		p.SetNormalAxis(uint8(rng.Intn(3)))

		x0, y0 := int(p.U0)*res, int(p.V0)*res
		sw, sh := int(p.SizeU0)*res, int(p.SizeV0)*res
		cx, cy := float64(x0)+float64(sw)/2, float64(y0)+float64(sh)/2
		rx, ry := float64(sw)/2, float64(sh)/2
		for y := y0; y < y0+sh; y++ {
			for x := x0; x < x0+sw; x++ {
				dx, dy := (float64(x)+0.5-cx)/rx, (float64(y)+0.5-cy)/ry
				if dx*dx+dy*dy <= 1 {
					occ[y*width+x] = true
				}
			}
		}
	}

	return pcc.FrameInput{
		Patches:      patches,
		BlockToPatch: pcc.AssignBlockToPatch(h, patches, occ),
		OccupancyMap: occ,
		AbsoluteD1:   rng.Intn(2) == 0,
	}
}

func main() {
	output := flag.String("output", "test.pcc", "Output stream file")
	groups := flag.Int("groups", 1, "Number of groups of frames")
	frames := flag.Int("frames", 2, "Frames per group")
	width := flag.Int("width", 128, "Picture width, a multiple of 16")
	height := flag.Int("height", 128, "Picture height, a multiple of 16")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	if err := createTestStream(*output, *groups, *frames, uint16(*width), uint16(*height), *seed); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating test stream: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created %s\n", *output)
}
