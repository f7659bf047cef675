package bits

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testWord is a single value and the number of bits it occupies.
type testWord struct {
	bits int
	v    uint64
}

func bytesToFit(bits int) int {
	return (bits + 7) / 8
}

// genTestWords generates random words of 1..maxBits bits.
func genTestWords(r *rand.Rand, maxCount int, maxBits int) []testWord {
	words := make([]testWord, r.Intn(maxCount))
	for i := range words {
		words[i].bits = 1 + r.Intn(maxBits)
		words[i].v = r.Uint64()
		if words[i].bits < 64 {
			words[i].v &= 1<<uint(words[i].bits) - 1
		}
	}
	return words
}

// testBitArray writes all words, checks the array size, reads them back and
// checks the padding and the end of the stream.
func testBitArray(t *testing.T, words []testWord, name string) {
	arr := Array{make([]byte, 0, 100)}
	writer := NewWriter(&arr)
	reader := NewReader(&arr)

	total := 0
	for _, w := range words {
		writer.Write(w.bits, w.v)
		total += w.bits
	}
	assert.Equalf(t, bytesToFit(total), len(arr.Bytes), "%s: byte length mismatch", name)

	read := 0
	for _, w := range words {
		assert.Equalf(t, bytesToFit(total)*8-read, reader.NonReadBits(), "%s: NonReadBits before read", name)

		peek, err := reader.View(w.bits)
		require.NoErrorf(t, err, "%s", name)
		v, err := reader.Read(w.bits)
		require.NoErrorf(t, err, "%s", name)
		assert.Equalf(t, w.v, v, "%s: read value mismatch", name)
		assert.Equalf(t, peek, v, "%s: view disagrees with read", name)
		read += w.bits

		assert.Equalf(t, bytesToFit(reader.NonReadBits()), reader.NonReadBytes(), "%s: NonReadBytes after read", name)
	}

	// Reading past the end fails without moving the cursor.
	left := reader.NonReadBits()
	_, err := reader.Read(left + 1)
	assert.ErrorIsf(t, err, ErrNotEnoughBits, "%s", name)
	assert.Equalf(t, left, reader.NonReadBits(), "%s: failed read moved the cursor", name)

	// Padding bits are zero.
	zero, err := reader.Read(left)
	require.NoErrorf(t, err, "%s", name)
	assert.Equalf(t, uint64(0), zero, "%s: padding bits must be zero", name)
	assert.Equalf(t, 0, reader.NonReadBits(), "%s: should have 0 bits left", name)
	assert.Equalf(t, 0, reader.NonReadBytes(), "%s: should have 0 bytes left", name)
}

func TestBitArrayEmpty(t *testing.T) {
	testBitArray(t, []testWord{}, "empty")
}

func TestBitArraySmall(t *testing.T) {
	testBitArray(t, []testWord{{1, 0}}, "b0")
	testBitArray(t, []testWord{{1, 1}}, "b1")
	testBitArray(t, []testWord{{3, 0b101}, {5, 0b10011}}, "one byte")
	testBitArray(t, []testWord{{7, 0x7f}, {2, 0b10}}, "spill")
}

// TestBitArrayPackedLayouts covers the exponent/mantissa widths used by
// packed amounts and fees.
func TestBitArrayPackedLayouts(t *testing.T) {
	testBitArray(t, []testWord{{5, 18}, {35, 1<<35 - 1}}, "amount")
	testBitArray(t, []testWord{{5, 31}, {11, 2047}}, "fee")
	testBitArray(t, []testWord{{64, ^uint64(0)}, {1, 1}}, "wide")
}

// TestBitArrayLayout pins the LSB-first byte layout.
func TestBitArrayLayout(t *testing.T) {
	arr := Array{}
	w := NewWriter(&arr)
	w.Write(5, 0b00011)
	w.Write(11, 0b10000000001)
	require.Equal(t, []byte{0b00100011, 0b10000000}, arr.Bytes)

	// High bits beyond the declared width are dropped.
	arr = Array{}
	w = NewWriter(&arr)
	w.Write(4, 0xff)
	require.Equal(t, []byte{0x0f}, arr.Bytes)
}

func TestBitArrayRand(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	for i := 0; i < 50; i++ {
		for _, maxBits := range []int{1, 8, 17, 64} {
			testBitArray(t, genTestWords(r, 40, maxBits), fmt.Sprintf("rand %d/%d", i, maxBits))
		}
	}
}

func TestReaderBadWidth(t *testing.T) {
	r := NewReader(&Array{Bytes: make([]byte, 16)})
	_, err := r.Read(65)
	require.Error(t, err)
	_, err = r.Read(-1)
	require.Error(t, err)
}
