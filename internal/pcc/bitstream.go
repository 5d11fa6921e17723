package pcc

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Bitstream is a read cursor over a compressed group of frames. All scalar
// fields are little-endian.
type Bitstream struct {
	buf []byte
	pos int
}

// NewBitstream constructs a cursor positioned at the start of data.
func NewBitstream(data []byte) *Bitstream {
	return &Bitstream{buf: data}
}

// Position returns the current byte offset.
func (bs *Bitstream) Position() int { return bs.pos }

// Capacity returns the total buffer length.
func (bs *Bitstream) Capacity() int { return len(bs.buf) }

// Remaining returns the number of unread bytes.
func (bs *Bitstream) Remaining() int {
	if bs.pos >= len(bs.buf) {
		return 0
	}
	return len(bs.buf) - bs.pos
}

// Buf returns the underlying slice (read-only view).
func (bs *Bitstream) Buf() []byte { return bs.buf }

// Tail returns the unread part of the buffer starting at the current position.
func (bs *Bitstream) Tail() []byte {
	if bs.pos >= len(bs.buf) {
		return nil
	}
	return bs.buf[bs.pos:]
}

// Advance moves the cursor forward by n bytes.
func (bs *Bitstream) Advance(n int) error {
	if n < 0 || n > bs.Remaining() {
		return errors.Wrapf(ErrTruncated, "advance %d bytes at offset %d, %d remaining", n, bs.pos, bs.Remaining())
	}
	bs.pos += n
	return nil
}

// Seek positions the cursor at an absolute offset.
func (bs *Bitstream) Seek(offset int) error {
	if offset < 0 || offset > len(bs.buf) {
		return errors.Wrapf(ErrTruncated, "seek to %d beyond %d bytes", offset, len(bs.buf))
	}
	bs.pos = offset
	return nil
}

// View returns an independent cursor over the same buffer at offset.
func (bs *Bitstream) View(offset int) (*Bitstream, error) {
	if offset < 0 || offset > len(bs.buf) {
		return nil, errors.Wrapf(ErrTruncated, "view at %d beyond %d bytes", offset, len(bs.buf))
	}
	return &Bitstream{buf: bs.buf, pos: offset}, nil
}

func (bs *Bitstream) need(n int, what string) error {
	if bs.Remaining() < n {
		return errors.Wrapf(ErrTruncated, "reading %s at offset %d", what, bs.pos)
	}
	return nil
}

// ReadUint8 reads one byte.
func (bs *Bitstream) ReadUint8() (uint8, error) {
	if err := bs.need(1, "uint8"); err != nil {
		return 0, err
	}
	v := bs.buf[bs.pos]
	bs.pos++
	return v, nil
}

// ReadUint16 reads a little-endian 16-bit value.
func (bs *Bitstream) ReadUint16() (uint16, error) {
	if err := bs.need(2, "uint16"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(bs.buf[bs.pos:])
	bs.pos += 2
	return v, nil
}

// ReadUint32 reads a little-endian 32-bit value.
func (bs *Bitstream) ReadUint32() (uint32, error) {
	if err := bs.need(4, "uint32"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(bs.buf[bs.pos:])
	bs.pos += 4
	return v, nil
}

// BitstreamWriter accumulates a stream in the same layout Bitstream reads.
type BitstreamWriter struct {
	buf []byte
}

// NewBitstreamWriter returns an empty writer.
func NewBitstreamWriter() *BitstreamWriter { return &BitstreamWriter{} }

// Len returns the number of bytes written so far.
func (w *BitstreamWriter) Len() int { return len(w.buf) }

// Bytes returns the written stream.
func (w *BitstreamWriter) Bytes() []byte { return w.buf }

// WriteUint8 appends one byte.
func (w *BitstreamWriter) WriteUint8(v uint8) { w.buf = append(w.buf, v) }

// WriteUint16 appends a little-endian 16-bit value.
func (w *BitstreamWriter) WriteUint16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// WriteUint32 appends a little-endian 32-bit value.
func (w *BitstreamWriter) WriteUint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// Write appends raw bytes.
func (w *BitstreamWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}
