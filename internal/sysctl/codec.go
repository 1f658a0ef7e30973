package sysctl

import (
	"fmt"
	"io"
)

// Decoder reads fixed-width unsigned integers from a byte slice.
type Decoder struct {
	data []byte
	off  int
	abi  ABI
}

// NewDecoder returns a decoder over data.
func NewDecoder(data []byte, abi ABI) *Decoder {
	return &Decoder{data: data, abi: abi}
}

// Next reads one element of kind k.
func (d *Decoder) Next(k Kind) (uint64, error) {
	width := d.abi.Width(k)
	if d.Remaining() < width {
		return 0, io.ErrUnexpectedEOF
	}
	b := d.data[d.off : d.off+width]
	d.off += width

	if width == 4 {
		return uint64(d.abi.Order.Uint32(b)), nil
	}
	return d.abi.Order.Uint64(b), nil
}

// Uint32 reads a C unsigned int.
func (d *Decoder) Uint32() (uint32, error) {
	v, err := d.Next(Uint)
	return uint32(v), err
}

// Long reads a C long.
func (d *Decoder) Long() (uint64, error) {
	return d.Next(Long)
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.off
}

// Encoder writes fixed-width unsigned integers.
type Encoder struct {
	buf []byte
	abi ABI
}

// NewEncoder returns an empty encoder.
func NewEncoder(abi ABI) *Encoder {
	return &Encoder{abi: abi}
}

// Put appends one element of kind k. Values that do not fit the width are rejected.
func (e *Encoder) Put(k Kind, v uint64) error {
	width := e.abi.Width(k)
	if width == 4 {
		if v > 0xFFFFFFFF {
			return fmt.Errorf("value %d overflows 4 bytes", v)
		}
		var b [4]byte
		e.abi.Order.PutUint32(b[:], uint32(v))
		e.buf = append(e.buf, b[:]...)
		return nil
	}
	var b [8]byte
	e.abi.Order.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
	return nil
}

// Bytes returns the encoded output.
func (e *Encoder) Bytes() []byte {
	return e.buf
}
