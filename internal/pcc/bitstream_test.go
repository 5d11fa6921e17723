package pcc

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestBitstreamLittleEndianReads(t *testing.T) {
	r := require.New(t)
	bs := NewBitstream([]byte{0x01, 0x34, 0x12, 0x78, 0x56, 0x34, 0x12, 0xFF})

	v8, err := bs.ReadUint8()
	r.NoError(err)
	r.Equal(uint8(0x01), v8)

	v16, err := bs.ReadUint16()
	r.NoError(err)
	r.Equal(uint16(0x1234), v16)

	v32, err := bs.ReadUint32()
	r.NoError(err)
	r.Equal(uint32(0x12345678), v32)

	r.Equal(7, bs.Position())
	r.Equal(1, bs.Remaining())
	r.Equal(8, bs.Capacity())
	r.Equal([]byte{0xFF}, bs.Tail())
}

func TestBitstreamTruncated(t *testing.T) {
	r := require.New(t)
	bs := NewBitstream([]byte{0x01, 0x02, 0x03})

	_, err := bs.ReadUint32()
	r.True(errors.Is(err, ErrTruncated))
	r.Equal(0, bs.Position(), "failed read must not move the cursor")

	r.NoError(bs.Advance(3))
	r.Nil(bs.Tail())
	_, err = bs.ReadUint8()
	r.True(errors.Is(err, ErrTruncated))
	r.True(errors.Is(bs.Advance(1), ErrTruncated))
	r.True(errors.Is(bs.Seek(4), ErrTruncated))
}

func TestBitstreamView(t *testing.T) {
	r := require.New(t)
	bs := NewBitstream([]byte{0xAA, 0xBB, 0xCC})
	view, err := bs.View(1)
	r.NoError(err)

	b, err := view.ReadUint8()
	r.NoError(err)
	r.Equal(uint8(0xBB), b)
	r.Equal(0, bs.Position(), "view must not move the parent")

	_, err = bs.View(4)
	r.Error(err)
}

func TestBitstreamWriterMatchesReader(t *testing.T) {
	r := require.New(t)
	w := NewBitstreamWriter()
	w.WriteUint8(7)
	w.WriteUint16(0xBEEF)
	w.WriteUint32(0xCAFEF00D)
	r.Equal(7, w.Len())

	bs := NewBitstream(w.Bytes())
	v8, _ := bs.ReadUint8()
	v16, _ := bs.ReadUint16()
	v32, _ := bs.ReadUint32()
	r.Equal(uint8(7), v8)
	r.Equal(uint16(0xBEEF), v16)
	r.Equal(uint32(0xCAFEF00D), v32)
}
