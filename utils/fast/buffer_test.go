package fast

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestBuffer_Integration verifies the complete lifecycle of writing and reading.
// It ensures that data written via Writer is correctly retrieved via Reader.
func TestBuffer_Integration(t *testing.T) {
	const N = 100
	var (
		w *Writer
		r *Reader
		// Custom byte sequence to test bulk writing/reading
		extraData = []byte{0, 0, 0xFF, 9, 0}
	)

	// Phase 1: Verify Write Operations
	t.Run("Writer", func(t *testing.T) {
		require := require.New(t)

		w = NewWriter(make([]byte, 0, N/2))
		for i := byte(0); i < N; i++ {
			w.WriteByte(i)
		}
		require.Equal(N, len(w.Bytes()), "Writer should contain N bytes")

		w.Write(extraData)
		require.Equal(N+len(extraData), len(w.Bytes()), "Writer should contain N + extra bytes")
	})

	// Phase 2: Verify Read Operations using the data written in Phase 1
	t.Run("Reader", func(t *testing.T) {
		require := require.New(t)

		r = NewReader(w.Bytes())

		// 1. Check initial state
		require.Equal(N+len(extraData), r.Remaining())
		require.False(r.Empty(), "New reader should not be empty")
		require.Equal(0, r.Position(), "New reader should start at position 0")

		// 2. Verify sequential single-byte reads match written values
		for exp := byte(0); exp < N; exp++ {
			got, err := r.ReadByte()
			require.NoError(err)
			require.Equal(exp, got, "ReadByte mismatch at index %d", exp)
		}
		require.Equal(N, r.Position(), "Position should match number of bytes read")

		// 3. Verify bulk read matches the appended extraData
		got, err := r.Read(len(extraData))
		require.NoError(err)
		require.Equal(extraData, got, "Read() mismatch for bulk data")

		// 4. Verify final state
		require.True(r.Empty(), "Reader should be empty after reading all bytes")
		require.Equal(0, r.Remaining())
	})
}

// TestBuffer_Boundaries checks that running off the end of the buffer is an
// error and never moves the cursor.
func TestBuffer_Boundaries(t *testing.T) {
	t.Run("Empty Buffer", func(t *testing.T) {
		r := NewReader([]byte{})
		require.True(t, r.Empty())

		_, err := r.ReadByte()
		require.ErrorIs(t, err, ErrShortBuffer)
		_, err = r.Peek()
		require.ErrorIs(t, err, ErrShortBuffer)
	})

	t.Run("Short Read", func(t *testing.T) {
		r := NewReader([]byte{1, 2, 3})

		_, err := r.Read(4)
		require.ErrorIs(t, err, ErrShortBuffer)
		require.Equal(t, 0, r.Position(), "failed read must not advance the cursor")

		_, err = r.Read(-1)
		require.ErrorIs(t, err, ErrShortBuffer)

		b, err := r.Peek()
		require.NoError(t, err)
		require.Equal(t, byte(1), b)
		require.Equal(t, 0, r.Position())
	})

	t.Run("Partial Reads", func(t *testing.T) {
		r := NewReader([]byte{1, 2, 3, 4, 5})

		chunk1, err := r.Read(2)
		require.NoError(t, err)
		require.Equal(t, []byte{1, 2}, chunk1)

		b, err := r.ReadByte()
		require.NoError(t, err)
		require.Equal(t, byte(3), b)

		chunk2, err := r.Read(2)
		require.NoError(t, err)
		require.Equal(t, []byte{4, 5}, chunk2)
		require.True(t, r.Empty())
	})

	t.Run("Pad", func(t *testing.T) {
		w := NewWriter(nil)
		w.WriteByte(0xAA)
		w.Pad(4)
		require.Equal(t, []byte{0xAA, 0, 0, 0}, w.Bytes())

		// already long enough
		w.Pad(2)
		require.Len(t, w.Bytes(), 4)
	})
}

// Benchmark compares the fast cursor against bytes.Reader.
func Benchmark(b *testing.B) {
	src := make([]byte, 1000)
	_, _ = rand.Read(src)

	b.Run("Std", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			r := bytes.NewReader(src)
			for j := 0; j < len(src); j++ {
				_, _ = r.ReadByte()
			}
		}
	})
	b.Run("Fast", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			r := NewReader(src)
			for j := 0; j < len(src); j++ {
				_, _ = r.ReadByte()
			}
		}
	})
}
