package fast

// buffer.go provides a lightweight, non-thread-safe cursor over byte slices.
//
// Purpose:
// - Rollup public data is a flat concatenation of fixed-width big-endian fields.
// - Reader walks such a buffer front to back and reports short input as an error
//   instead of panicking, because the bytes come straight from untrusted calldata.
// - Writer is the append-only counterpart used to build the same layouts.

import "errors"

// ErrShortBuffer is returned when a read asks for more bytes than remain.
var ErrShortBuffer = errors.New("fast: short buffer")

type Reader struct {
	// buf is the underlying data source.
	buf []byte
	// offset tracks the current reading position (cursor).
	offset int
}

type Writer struct {
	// buf is the accumulating byte slice.
	buf []byte
}

// NewReader creates a Reader to consume the provided byte slice.
func NewReader(bb []byte) *Reader {
	return &Reader{
		buf:    bb,
		offset: 0,
	}
}

// NewWriter creates a Writer that appends to the provided initial slice.
// Often called with `make([]byte, 0, capacity)` to pre-allocate memory.
func NewWriter(bb []byte) *Writer {
	return &Writer{
		buf: bb,
	}
}

// WriteByte appends a single byte to the buffer.
func (b *Writer) WriteByte(v byte) {
	b.buf = append(b.buf, v)
}

// Write appends a slice of bytes (bulk write) to the buffer.
func (b *Writer) Write(v []byte) {
	b.buf = append(b.buf, v...)
}

// Pad appends zero bytes until the buffer is n bytes long.
// It is a no-op when the buffer is already at least n bytes.
func (b *Writer) Pad(n int) {
	for len(b.buf) < n {
		b.buf = append(b.buf, 0)
	}
}

// Read consumes and returns the next 'n' bytes from the buffer.
//
// The returned slice *shares memory* with the original buffer.
// On short input the cursor is left untouched and ErrShortBuffer is returned.
func (b *Reader) Read(n int) ([]byte, error) {
	if n < 0 || n > b.Remaining() {
		return nil, ErrShortBuffer
	}
	res := b.buf[b.offset : b.offset+n]
	b.offset += n
	return res, nil
}

// ReadByte consumes and returns a single byte.
func (b *Reader) ReadByte() (byte, error) {
	if b.Empty() {
		return 0, ErrShortBuffer
	}
	res := b.buf[b.offset]
	b.offset++
	return res, nil
}

// Peek returns the next byte without consuming it.
func (b *Reader) Peek() (byte, error) {
	if b.Empty() {
		return 0, ErrShortBuffer
	}
	return b.buf[b.offset], nil
}

// Position returns the current cursor index of the Reader.
func (b *Reader) Position() int {
	return b.offset
}

// Remaining returns the number of unread bytes.
func (b *Reader) Remaining() int {
	return len(b.buf) - b.offset
}

// Bytes returns the entire underlying buffer of the Reader.
func (b *Reader) Bytes() []byte {
	return b.buf
}

// Bytes returns the accumulated content of the Writer.
func (b *Writer) Bytes() []byte {
	return b.buf
}

// Empty checks if the Reader has reached the end of the buffer.
func (b *Reader) Empty() bool {
	return len(b.buf) == b.offset
}
