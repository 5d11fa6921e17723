package pcc

import "math/bits"

// DecodeUInt32 decodes a bitCount-wide unsigned integer as bitCount static
// binary decisions, least significant bit first. The value is assembled
// arithmetically, so it is already in host order on every platform.
func DecodeUInt32(bitCount uint8, dec *ArithDecoder, bModel0 *StaticBitModel) uint32 {
	var value uint32
	for i := uint8(0); i < bitCount && i < maxFieldBits; i++ {
		value |= dec.DecodeStatic(bModel0) << i
	}
	return value
}

// EncodeUInt32 is the mirror of DecodeUInt32.
func EncodeUInt32(value uint32, bitCount uint8, enc *ArithEncoder, bModel0 *StaticBitModel) {
	for i := uint8(0); i < bitCount && i < maxFieldBits; i++ {
		enc.EncodeStatic((value>>i)&1, bModel0)
	}
}

// BitCountFor returns the number of bits needed to represent every value in
// [0, rangeSize).
func BitCountFor(rangeSize uint32) uint8 {
	if rangeSize <= 1 {
		return 0
	}
	return uint8(bits.Len32(rangeSize - 1))
}
