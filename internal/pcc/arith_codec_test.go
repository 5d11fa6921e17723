package pcc

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArithRoundTripBits(t *testing.T) {
	r := require.New(t)
	rng := rand.New(rand.NewSource(1))

	bits := make([]uint32, 5000)
	for i := range bits {
		// skewed so the adaptive model actually adapts
		if rng.Intn(10) == 0 {
			bits[i] = 1
		}
	}

	enc := NewArithEncoder()
	enc.Start()
	static, adaptive := NewStaticBitModel(), NewAdaptiveBitModel()
	for i, b := range bits {
		if i%3 == 0 {
			enc.EncodeStatic(b, &static)
		} else {
			enc.EncodeBit(b, &adaptive)
		}
	}
	n := enc.Stop()
	r.Less(n, len(bits)/8, "skewed input should compress")

	dec := NewArithDecoder(enc.Bytes())
	dec.Start()
	static, adaptive = NewStaticBitModel(), NewAdaptiveBitModel()
	for i, want := range bits {
		var got uint32
		if i%3 == 0 {
			got = dec.DecodeStatic(&static)
		} else {
			got = dec.DecodeBit(&adaptive)
		}
		r.Equalf(want, got, "bit %d", i)
	}
	dec.Stop()
	r.LessOrEqual(dec.BytesRead()-n, 3)
	r.GreaterOrEqual(dec.BytesRead()-n, 2)
}

func TestArithRoundTripSymbols(t *testing.T) {
	for _, alphabet := range []int{2, 4, 5, 16, 17, 64, 257, MaxDataSymbols} {
		alphabet := alphabet
		t.Run(strconv.Itoa(alphabet), func(t *testing.T) {
			r := require.New(t)
			rng := rand.New(rand.NewSource(int64(alphabet)))
			symbols := make([]uint32, 4000)
			for i := range symbols {
				// geometric-ish distribution with occasional large symbols
				s := rng.Intn(4)
				if rng.Intn(8) == 0 {
					s = rng.Intn(alphabet)
				}
				if s >= alphabet {
					s = alphabet - 1
				}
				symbols[i] = uint32(s)
			}

			enc := NewArithEncoder()
			enc.Start()
			em := NewAdaptiveDataModel(alphabet)
			for _, s := range symbols {
				enc.EncodeSymbol(s, em)
			}
			enc.Stop()

			dec := NewArithDecoder(enc.Bytes())
			dec.Start()
			dm := NewAdaptiveDataModel(alphabet)
			for i, want := range symbols {
				r.Equalf(want, dec.DecodeSymbol(dm), "symbol %d of alphabet %d", i, alphabet)
			}
		})
	}
}

func TestNewAdaptiveDataModelRejectsBadAlphabet(t *testing.T) {
	require.Panics(t, func() { NewAdaptiveDataModel(1) })
	require.Panics(t, func() { NewAdaptiveDataModel(MaxDataSymbols + 1) })
}

func TestArithEncoderCarryPropagation(t *testing.T) {
	r := require.New(t)
	// Long runs of the improbable symbol push base upward and force carries.
	m := NewAdaptiveBitModel()
	enc := NewArithEncoder()
	enc.Start()
	var bits []uint32
	for i := 0; i < 3000; i++ {
		b := uint32(0)
		if i%97 < 90 {
			b = 1
		}
		bits = append(bits, b)
		enc.EncodeBit(b, &m)
	}
	enc.Stop()

	m = NewAdaptiveBitModel()
	dec := NewArithDecoder(enc.Bytes())
	dec.Start()
	for i, want := range bits {
		r.Equalf(want, dec.DecodeBit(&m), "bit %d", i)
	}
}

func TestExpGolombRoundTrip(t *testing.T) {
	r := require.New(t)
	values := []int64{0, 1, -1, 2, -2, 7, -8, 100, -100, 65535, -65536, 1 << 20}

	enc := NewArithEncoder()
	enc.Start()
	static, adaptive := NewStaticBitModel(), NewAdaptiveBitModel()
	for _, v := range values {
		enc.ExpGolombEncode(IntToUInt(v), 0, &static, &adaptive)
	}
	enc.Stop()

	dec := NewArithDecoder(enc.Bytes())
	dec.Start()
	static, adaptive = NewStaticBitModel(), NewAdaptiveBitModel()
	for _, want := range values {
		r.Equal(want, UIntToInt(dec.ExpGolombDecode(0, &static, &adaptive)))
	}
}

func TestZigZagMapping(t *testing.T) {
	r := require.New(t)
	for code, want := range []int64{0, -1, 1, -2, 2, -3, 3} {
		r.Equal(want, UIntToInt(uint32(code)))
		r.Equal(uint32(code), IntToUInt(want))
	}
}

func TestDecodeUInt32(t *testing.T) {
	r := require.New(t)
	cases := []struct {
		bits  uint8
		value uint32
	}{
		{0, 0}, {1, 1}, {3, 5}, {8, 0xA5}, {16, 0xBEEF}, {31, 0x7FFFFFFF}, {32, 0xDEADBEEF}, {32, 0},
	}

	enc := NewArithEncoder()
	enc.Start()
	m := NewStaticBitModel()
	for _, c := range cases {
		EncodeUInt32(c.value, c.bits, enc, &m)
	}
	enc.Stop()

	dec := NewArithDecoder(enc.Bytes())
	dec.Start()
	for _, c := range cases {
		r.Equalf(c.value, DecodeUInt32(c.bits, dec, &m), "%d bits", c.bits)
	}
}

func TestDecodeUInt32ZeroBitsConsumesNothing(t *testing.T) {
	r := require.New(t)
	dec := NewArithDecoder([]byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC})
	dec.Start()
	m := NewStaticBitModel()
	before := *dec
	r.Zero(DecodeUInt32(0, dec, &m))
	r.Equal(before, *dec)
}

func TestBitCountFor(t *testing.T) {
	r := require.New(t)
	for rangeSize, want := range map[uint32]uint8{0: 0, 1: 0, 2: 1, 3: 2, 4: 2, 5: 3, 256: 8, 257: 9} {
		r.Equalf(want, BitCountFor(rangeSize), "range %d", rangeSize)
	}
	r.Equal(uint8(32), bitCountForValue(^uint32(0)))
	r.Equal(uint8(0), bitCountForValue(0))
}
