package pcc

import "fmt"

const (
	arithMinLength = uint32(0x01000000) // renormalization threshold
	arithMaxLength = uint32(0xFFFFFFFF)

	bitModelLengthShift = 13
	bitModelMaxCount    = uint32(1) << bitModelLengthShift

	dataModelLengthShift = 15
	dataModelMaxCount    = uint32(1) << dataModelLengthShift

	// MaxDataSymbols bounds the alphabet of an AdaptiveDataModel.
	MaxDataSymbols = 1 << 11
)

// StaticBitModel is a binary model with a fixed probability of zero.
type StaticBitModel struct {
	bit0Prob uint32
}

// NewStaticBitModel returns the equiprobable binary model.
func NewStaticBitModel() StaticBitModel {
	return StaticBitModel{bit0Prob: 1 << (bitModelLengthShift - 1)}
}

// AdaptiveBitModel tracks the frequency of zeros and periodically rescales
// its probability estimate.
type AdaptiveBitModel struct {
	updateCycle     uint32
	bitsUntilUpdate uint32
	bit0Prob        uint32
	bit0Count       uint32
	bitCount        uint32
}

// NewAdaptiveBitModel returns a model initialised to equal probabilities.
func NewAdaptiveBitModel() AdaptiveBitModel {
	var m AdaptiveBitModel
	m.Reset()
	return m
}

// Reset restores the equiprobable state.
func (m *AdaptiveBitModel) Reset() {
	m.bit0Count = 1
	m.bitCount = 2
	m.bit0Prob = 1 << (bitModelLengthShift - 1)
	m.updateCycle = 4
	m.bitsUntilUpdate = 4
}

func (m *AdaptiveBitModel) observe(bit uint32) {
	if bit == 0 {
		m.bit0Count++
	}
	m.bitsUntilUpdate--
	if m.bitsUntilUpdate == 0 {
		m.update()
	}
}

func (m *AdaptiveBitModel) update() {
	m.bitCount += m.updateCycle
	if m.bitCount > bitModelMaxCount {
		m.bitCount = (m.bitCount + 1) >> 1
		m.bit0Count = (m.bit0Count + 1) >> 1
		if m.bit0Count == m.bitCount {
			m.bitCount++
		}
	}
	scale := uint32(0x80000000) / m.bitCount
	m.bit0Prob = (m.bit0Count * scale) >> (31 - bitModelLengthShift)

	m.updateCycle = (5 * m.updateCycle) >> 2
	if m.updateCycle > 64 {
		m.updateCycle = 64
	}
	m.bitsUntilUpdate = m.updateCycle
}

// AdaptiveDataModel is a k-ary adaptive model. Alphabets larger than 16
// symbols carry a lookup table to speed up decoding.
type AdaptiveDataModel struct {
	distribution       []uint32
	symbolCount        []uint32
	decoderTable       []uint32
	totalCount         uint32
	updateCycle        uint32
	symbolsUntilUpdate uint32
	dataSymbols        uint32
	lastSymbol         uint32
	tableSize          uint32
	tableShift         uint32
}

// NewAdaptiveDataModel returns a uniform model over symbols outcomes. It
// panics when symbols is outside [2, MaxDataSymbols]; callers validate
// stream-derived alphabet sizes first.
func NewAdaptiveDataModel(symbols int) *AdaptiveDataModel {
	if symbols < 2 || symbols > MaxDataSymbols {
		panic(fmt.Sprintf("pcc: invalid data model alphabet size %d", symbols))
	}
	m := &AdaptiveDataModel{
		dataSymbols: uint32(symbols),
		lastSymbol:  uint32(symbols - 1),
	}
	if symbols > 16 {
		tableBits := uint32(3)
		for m.dataSymbols > uint32(1)<<(tableBits+2) {
			tableBits++
		}
		m.tableSize = 1 << tableBits
		m.tableShift = dataModelLengthShift - tableBits
		m.decoderTable = make([]uint32, m.tableSize+2)
	}
	m.distribution = make([]uint32, symbols)
	m.symbolCount = make([]uint32, symbols)
	m.Reset()
	return m
}

// Symbols returns the alphabet size.
func (m *AdaptiveDataModel) Symbols() int { return int(m.dataSymbols) }

// Reset restores the uniform distribution.
func (m *AdaptiveDataModel) Reset() {
	m.totalCount = 0
	m.updateCycle = m.dataSymbols
	for k := range m.symbolCount {
		m.symbolCount[k] = 1
	}
	m.update(false)
	m.updateCycle = (m.dataSymbols + 6) >> 1
	m.symbolsUntilUpdate = m.updateCycle
}

func (m *AdaptiveDataModel) observe(symbol uint32, fromEncoder bool) {
	m.symbolCount[symbol]++
	m.symbolsUntilUpdate--
	if m.symbolsUntilUpdate == 0 {
		m.update(fromEncoder)
	}
}

func (m *AdaptiveDataModel) update(fromEncoder bool) {
	m.totalCount += m.updateCycle
	if m.totalCount > dataModelMaxCount {
		m.totalCount = 0
		for n := range m.symbolCount {
			m.symbolCount[n] = (m.symbolCount[n] + 1) >> 1
			m.totalCount += m.symbolCount[n]
		}
	}

	var sum uint32
	scale := uint32(0x80000000) / m.totalCount
	if fromEncoder || m.tableSize == 0 {
		for k := uint32(0); k < m.dataSymbols; k++ {
			m.distribution[k] = (scale * sum) >> (31 - dataModelLengthShift)
			sum += m.symbolCount[k]
		}
	} else {
		var s uint32
		for k := uint32(0); k < m.dataSymbols; k++ {
			m.distribution[k] = (scale * sum) >> (31 - dataModelLengthShift)
			sum += m.symbolCount[k]
			w := m.distribution[k] >> m.tableShift
			for s < w {
				s++
				m.decoderTable[s] = k - 1
			}
		}
		m.decoderTable[0] = 0
		for s <= m.tableSize {
			s++
			m.decoderTable[s] = m.dataSymbols - 1
		}
	}

	m.updateCycle = (5 * m.updateCycle) >> 2
	maxCycle := (m.dataSymbols + 6) << 3
	if m.updateCycle > maxCycle {
		m.updateCycle = maxCycle
	}
	m.symbolsUntilUpdate = m.updateCycle
}
