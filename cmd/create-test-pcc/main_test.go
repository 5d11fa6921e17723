package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jdeng/gopcc/pkg/pcc"
)

func TestCreateTestStreamDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pcc")
	require.NoError(t, createTestStream(path, 2, 3, 96, 64, 5))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	decoder, err := pcc.New(pcc.Options{SrcData: data, Strict: true})
	require.NoError(t, err)
	require.NoError(t, decoder.DecodeAll())
	require.Len(t, decoder.Groups(), 2)
	require.Len(t, decoder.Frames(), 6)
	require.Equal(t, len(data), decoder.Position())
	for _, f := range decoder.Frames() {
		require.Equal(t, 96, f.Width())
		require.Positive(t, f.OccupiedPixels())
	}
}
