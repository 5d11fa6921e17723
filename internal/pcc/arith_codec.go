package pcc

// ArithDecoder is a multiplication-based binary/multi-symbol range decoder.
// A decoder is bound to one coded segment and owned by a single frame decode.
type ArithDecoder struct {
	data    []byte
	pos     int // index of the last byte shifted into value
	value   uint32
	length  uint32
	overrun int
	started bool
}

// NewArithDecoder binds a decoder to data. The decoder may look ahead past the
// logical end of the coded segment, so callers pass the whole remaining
// buffer; bytes past the end of data read as zero.
func NewArithDecoder(data []byte) *ArithDecoder {
	return &ArithDecoder{data: data}
}

func (d *ArithDecoder) byteAt(i int) uint32 {
	if i < len(d.data) {
		return uint32(d.data[i])
	}
	d.overrun++
	return 0
}

// Start primes the code register with the first four bytes.
func (d *ArithDecoder) Start() {
	d.length = arithMaxLength
	d.value = d.byteAt(0)<<24 | d.byteAt(1)<<16 | d.byteAt(2)<<8 | d.byteAt(3)
	d.pos = 3
	d.started = true
}

// Stop ends the session.
func (d *ArithDecoder) Stop() { d.started = false }

// BytesRead returns how many bytes have been shifted into the code register.
func (d *ArithDecoder) BytesRead() int { return d.pos + 1 }

// Overrun returns how many reads fell beyond the bound buffer.
func (d *ArithDecoder) Overrun() int { return d.overrun }

func (d *ArithDecoder) renorm() {
	for {
		d.pos++
		d.value = d.value<<8 | d.byteAt(d.pos)
		d.length <<= 8
		if d.length >= arithMinLength {
			return
		}
	}
}

// DecodeStatic decodes one bit against a static model.
func (d *ArithDecoder) DecodeStatic(m *StaticBitModel) uint32 {
	var bit uint32
	x := m.bit0Prob * (d.length >> bitModelLengthShift)
	if d.value < x {
		d.length = x
	} else {
		bit = 1
		d.value -= x
		d.length -= x
	}
	if d.length < arithMinLength {
		d.renorm()
	}
	return bit
}

// DecodeBit decodes one bit against an adaptive model and updates it.
func (d *ArithDecoder) DecodeBit(m *AdaptiveBitModel) uint32 {
	var bit uint32
	x := m.bit0Prob * (d.length >> bitModelLengthShift)
	if d.value < x {
		d.length = x
	} else {
		bit = 1
		d.value -= x
		d.length -= x
	}
	if d.length < arithMinLength {
		d.renorm()
	}
	m.observe(bit)
	return bit
}

// DecodeSymbol decodes one symbol against an adaptive data model.
func (d *ArithDecoder) DecodeSymbol(m *AdaptiveDataModel) uint32 {
	var s, x uint32
	y := d.length
	if m.decoderTable != nil {
		d.length >>= dataModelLengthShift
		dv := d.value / d.length
		t := dv >> m.tableShift
		s = m.decoderTable[t]
		n := m.decoderTable[t+1] + 1
		for n > s+1 {
			mid := (s + n) >> 1
			if m.distribution[mid] > dv {
				n = mid
			} else {
				s = mid
			}
		}
		x = m.distribution[s] * d.length
		if s != m.lastSymbol {
			y = m.distribution[s+1] * d.length
		}
	} else {
		d.length >>= dataModelLengthShift
		n := m.dataSymbols
		mid := n >> 1
		for {
			z := d.length * m.distribution[mid]
			if z > d.value {
				n = mid
				y = z
			} else {
				s = mid
				x = z
			}
			mid = (s + n) >> 1
			if mid == s {
				break
			}
		}
	}
	d.value -= x
	d.length = y - x
	if d.length < arithMinLength {
		d.renorm()
	}
	m.observe(s, false)
	return s
}

// ArithEncoder is the encoder matching ArithDecoder.
type ArithEncoder struct {
	buf    []byte
	base   uint32
	length uint32
}

// NewArithEncoder returns an encoder with an empty output buffer.
func NewArithEncoder() *ArithEncoder { return &ArithEncoder{} }

// Start resets the coding interval.
func (e *ArithEncoder) Start() {
	e.buf = e.buf[:0]
	e.base = 0
	e.length = arithMaxLength
}

// Stop flushes the interval and returns the number of coded bytes.
func (e *ArithEncoder) Stop() int {
	initBase := e.base
	if e.length > 2*arithMinLength {
		e.base += arithMinLength
		e.length = arithMinLength >> 1
	} else {
		e.base += arithMinLength >> 1
		e.length = arithMinLength >> 9
	}
	if initBase > e.base {
		e.propagateCarry()
	}
	e.renorm()
	return len(e.buf)
}

// Bytes returns the coded segment produced by the last Stop.
func (e *ArithEncoder) Bytes() []byte { return e.buf }

func (e *ArithEncoder) propagateCarry() {
	p := len(e.buf) - 1
	for p >= 0 && e.buf[p] == 0xFF {
		e.buf[p] = 0
		p--
	}
	if p >= 0 {
		e.buf[p]++
	}
}

func (e *ArithEncoder) renorm() {
	for {
		e.buf = append(e.buf, byte(e.base>>24))
		e.base <<= 8
		e.length <<= 8
		if e.length >= arithMinLength {
			return
		}
	}
}

func (e *ArithEncoder) encodeBinary(bit, bit0Prob uint32) {
	x := bit0Prob * (e.length >> bitModelLengthShift)
	if bit == 0 {
		e.length = x
	} else {
		initBase := e.base
		e.base += x
		e.length -= x
		if initBase > e.base {
			e.propagateCarry()
		}
	}
	if e.length < arithMinLength {
		e.renorm()
	}
}

// EncodeStatic codes one bit against a static model.
func (e *ArithEncoder) EncodeStatic(bit uint32, m *StaticBitModel) {
	e.encodeBinary(bit, m.bit0Prob)
}

// EncodeBit codes one bit against an adaptive model and updates it.
func (e *ArithEncoder) EncodeBit(bit uint32, m *AdaptiveBitModel) {
	if bit != 0 {
		bit = 1
	}
	e.encodeBinary(bit, m.bit0Prob)
	m.observe(bit)
}

// EncodeSymbol codes one symbol against an adaptive data model.
func (e *ArithEncoder) EncodeSymbol(symbol uint32, m *AdaptiveDataModel) {
	var x uint32
	initBase := e.base
	if symbol == m.lastSymbol {
		x = m.distribution[symbol] * (e.length >> dataModelLengthShift)
		e.base += x
		e.length -= x
	} else {
		e.length >>= dataModelLengthShift
		x = m.distribution[symbol] * e.length
		e.base += x
		e.length = m.distribution[symbol+1]*e.length - x
	}
	if initBase > e.base {
		e.propagateCarry()
	}
	if e.length < arithMinLength {
		e.renorm()
	}
	m.observe(symbol, true)
}
