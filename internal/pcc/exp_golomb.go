package pcc

// ExpGolombDecode decodes an order-k Exp-Golomb value. The unary prefix is
// coded against the adaptive model, the binary suffix against the static one.
func (d *ArithDecoder) ExpGolombDecode(k int, bModel0 *StaticBitModel, bModel1 *AdaptiveBitModel) uint32 {
	var symbol, binarySymbol uint32
	for d.DecodeBit(bModel1) == 1 {
		symbol += 1 << uint(k)
		k++
		if k >= 32 {
			// only a corrupt stream has a prefix this long
			break
		}
	}
	for k > 0 {
		k--
		if d.DecodeStatic(bModel0) == 1 {
			binarySymbol |= 1 << uint(k)
		}
	}
	return symbol + binarySymbol
}

// ExpGolombEncode is the mirror of ExpGolombDecode.
func (e *ArithEncoder) ExpGolombEncode(symbol uint32, k int, bModel0 *StaticBitModel, bModel1 *AdaptiveBitModel) {
	for {
		if uint64(symbol) >= uint64(1)<<uint(k) {
			e.EncodeBit(1, bModel1)
			symbol -= 1 << uint(k)
			k++
			continue
		}
		e.EncodeBit(0, bModel1)
		for k > 0 {
			k--
			e.EncodeStatic((symbol>>uint(k))&1, bModel0)
		}
		return
	}
}

// UIntToInt maps the zig-zag code back to a signed value: 0, -1, 1, -2, 2, ...
func UIntToInt(v uint32) int64 {
	if v&1 != 0 {
		return -int64((uint64(v) + 1) >> 1)
	}
	return int64(v >> 1)
}

// IntToUInt is the inverse of UIntToInt.
func IntToUInt(v int64) uint32 {
	if v < 0 {
		return uint32(-1 - 2*v)
	}
	return uint32(2 * v)
}
