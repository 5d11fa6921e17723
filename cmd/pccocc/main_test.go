package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jdeng/gopcc/internal/config"
	"github.com/jdeng/gopcc/internal/pcc"
)

func TestRunWritesFramePNGs(t *testing.T) {
	dir := t.TempDir()
	h := pcc.SequenceHeader{Width: 32, Height: 16, OccupancyResolution: 16}
	patch := pcc.Patch{SizeU0: 2, SizeV0: 1, OccupancyResolution: 16}
	occ := make([]bool, 32*16)
	for i := 0; i < 32*4; i++ {
		occ[i] = true
	}
	frame := pcc.FrameInput{
		Patches:      []pcc.Patch{patch},
		BlockToPatch: pcc.AssignBlockToPatch(&h, []pcc.Patch{patch}, occ),
		OccupancyMap: occ,
	}
	w := pcc.NewBitstreamWriter()
	require.NoError(t, pcc.NewEncoder(pcc.DefaultEncoderOptions()).EncodeGroup(w, h, []pcc.FrameInput{frame, frame}))
	input := filepath.Join(dir, "in.pcc")
	require.NoError(t, os.WriteFile(input, w.Bytes(), 0644))

	cfg := config.Default()
	cfg.Output.Dir = filepath.Join(dir, "out")
	cfg.Output.Prefix = "occ"
	require.NoError(t, run(input, cfg, zap.NewNop()))

	for _, name := range []string{"occ_g000_f000.png", "occ_g000_f001.png"} {
		_, err := os.Stat(filepath.Join(cfg.Output.Dir, name))
		require.NoError(t, err, name)
	}
}

func TestRunForwardsNbThread(t *testing.T) {
	dir := t.TempDir()
	h := pcc.SequenceHeader{Width: 16, Height: 16, OccupancyResolution: 16}
	patch := pcc.Patch{SizeU0: 1, SizeV0: 1, OccupancyResolution: 16}
	occ := make([]bool, 16*16)
	occ[0] = true
	frame := pcc.FrameInput{Patches: []pcc.Patch{patch}, BlockToPatch: []uint32{1}, OccupancyMap: occ}
	w := pcc.NewBitstreamWriter()
	require.NoError(t, pcc.NewEncoder(pcc.DefaultEncoderOptions()).EncodeGroup(w, h, []pcc.FrameInput{frame}))
	input := filepath.Join(dir, "in.pcc")
	require.NoError(t, os.WriteFile(input, w.Bytes(), 0644))

	cfg := config.Default()
	cfg.Decoder.NbThread = 6
	cfg.Output.WritePNG = false
	core, logs := observer.New(zapcore.DebugLevel)
	require.NoError(t, run(input, cfg, zap.New(core)))

	entries := logs.FilterMessage("reconstruction parameters").All()
	require.Len(t, entries, 1)
	require.Equal(t, int64(6), entries[0].ContextMap()["nbThread"])
}
