// Package bits reads and writes integers of arbitrary bit width packed into a
// byte slice, least significant bit first.
//
// Overview:
//
//	The first value written occupies the low bits of Bytes[0], the next value
//	continues at the following bit, spilling into Bytes[1] and so on. Unused
//	high bits of the last byte are zero.
//
//	Rollup packed amounts and fees are big-endian on the wire with the
//	exponent in the lowest bits, so reversing their bytes yields exactly this
//	layout: the exponent is read first, the mantissa second. See
//	inter.UnpackFloat.
package bits

import "errors"

// ErrNotEnoughBits is returned when a read runs past the end of the array.
var ErrNotEnoughBits = errors.New("not enough bits")

type (
	// Array holds the packed bytes.
	Array struct {
		Bytes []byte
	}

	// Writer appends values to an Array.
	Writer struct {
		*Array
		bitOffset int // next free bit in Bytes[len(Bytes)-1], 0 means a new byte is needed
	}

	// Reader consumes values from an Array.
	Reader struct {
		*Array
		byteOffset int
		bitOffset  int
	}
)

func NewWriter(arr *Array) *Writer {
	return &Writer{Array: arr}
}

func NewReader(arr *Array) *Reader {
	return &Reader{Array: arr}
}

// Write appends the low bits of v. Bits of v above that width are ignored.
func (w *Writer) Write(bits int, v uint64) {
	for bits > 0 {
		if w.bitOffset == 0 {
			w.Bytes = append(w.Bytes, 0)
		}

		n := 8 - w.bitOffset
		if bits < n {
			n = bits
		}
		chunk := byte(v) & (0xff >> (8 - n))
		w.Bytes[len(w.Bytes)-1] |= chunk << w.bitOffset

		w.bitOffset = (w.bitOffset + n) % 8
		v >>= n
		bits -= n
	}
}

// Read consumes the next bits (at most 64) and returns them as an integer.
func (r *Reader) Read(bits int) (uint64, error) {
	if bits < 0 || bits > 64 {
		return 0, errors.New("bit width out of range")
	}
	if bits > r.NonReadBits() {
		return 0, ErrNotEnoughBits
	}

	var (
		v     uint64
		shift int
	)
	for bits > 0 {
		n := 8 - r.bitOffset
		if bits < n {
			n = bits
		}
		chunk := (r.Bytes[r.byteOffset] >> r.bitOffset) & (0xff >> (8 - n))
		v |= uint64(chunk) << shift

		shift += n
		bits -= n
		r.bitOffset += n
		if r.bitOffset == 8 {
			r.bitOffset = 0
			r.byteOffset++
		}
	}
	return v, nil
}

// View returns the next bits without consuming them.
func (r *Reader) View(bits int) (uint64, error) {
	cp := *r
	return cp.Read(bits)
}

// NonReadBytes returns the number of bytes not yet fully consumed.
func (r *Reader) NonReadBytes() int {
	return len(r.Bytes) - r.byteOffset
}

// NonReadBits returns the number of unread bits, padding included.
func (r *Reader) NonReadBits() int {
	return r.NonReadBytes()*8 - r.bitOffset
}
