package inter

import (
	"fmt"
	"math/big"

	"github.com/rony4d/go-rollup-restore/utils/bits"
)

// Packed amounts and fees store value = mantissa * 10^exponent in a few
// bytes. The bit string is big-endian with the mantissa in the high bits and
// the exponent in the low bits.
const (
	AmountExponentBits uint = 5
	AmountMantissaBits uint = 35
	FeeExponentBits    uint = 5
	FeeMantissaBits    uint = 11
)

var bigTen = big.NewInt(10)

func packedBytes(expBits, mantissaBits uint) int {
	return int((expBits + mantissaBits + 7) / 8)
}

// reversed returns a copy of b in reverse byte order, turning the big-endian
// wire form into the LSB-first layout of package bits.
func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

// UnpackFloat decodes a packed value of the given bit layout.
func UnpackFloat(b []byte, expBits, mantissaBits uint) (*big.Int, error) {
	if len(b) != packedBytes(expBits, mantissaBits) {
		return new(big.Int), fmt.Errorf("%w: packed value needs %d bytes, got %d",
			ErrTruncatedPubdata, packedBytes(expBits, mantissaBits), len(b))
	}

	r := bits.NewReader(&bits.Array{Bytes: reversed(b)})
	exp, err := r.Read(int(expBits))
	if err != nil {
		return new(big.Int), fmt.Errorf("%w: %v", ErrTruncatedPubdata, err)
	}
	mantissa, err := r.Read(int(mantissaBits))
	if err != nil {
		return new(big.Int), fmt.Errorf("%w: %v", ErrTruncatedPubdata, err)
	}

	v := new(big.Int).SetUint64(mantissa)
	return v.Mul(v, new(big.Int).Exp(bigTen, new(big.Int).SetUint64(exp), nil)), nil
}

// PackFloat encodes v into the given bit layout. Values that cannot be
// represented exactly are rejected rather than rounded.
func PackFloat(v *big.Int, expBits, mantissaBits uint) ([]byte, error) {
	if v == nil {
		v = new(big.Int)
	}
	if mantissaBits > 64 || expBits > 64 {
		return nil, fmt.Errorf("%w: unsupported packed layout %d+%d bits", ErrInvalidOp, mantissaBits, expBits)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative packed value %s", ErrInvalidOp, v)
	}

	maxExp := uint64(1)<<expBits - 1
	mantissa := new(big.Int).Set(v)
	exp := uint64(0)
	rem := new(big.Int)
	for mantissa.BitLen() > int(mantissaBits) {
		if exp == maxExp {
			return nil, fmt.Errorf("%w: %s overflows packed format", ErrInvalidOp, v)
		}
		mantissa.QuoRem(mantissa, bigTen, rem)
		if rem.Sign() != 0 {
			return nil, fmt.Errorf("%w: %s is not representable as packed value", ErrInvalidOp, v)
		}
		exp++
	}

	w := bits.NewWriter(&bits.Array{Bytes: make([]byte, 0, packedBytes(expBits, mantissaBits))})
	w.Write(int(expBits), exp)
	w.Write(int(mantissaBits), mantissa.Uint64())
	return reversed(w.Bytes), nil
}

// PackAmount packs a transfer amount.
func PackAmount(v *big.Int) ([]byte, error) {
	return PackFloat(v, AmountExponentBits, AmountMantissaBits)
}

// PackFee packs a fee.
func PackFee(v *big.Int) ([]byte, error) {
	return PackFloat(v, FeeExponentBits, FeeMantissaBits)
}

// IsPackableAmount reports whether v survives packing as an amount.
func IsPackableAmount(v *big.Int) bool {
	_, err := PackAmount(v)
	return err == nil
}

// IsPackableFee reports whether v survives packing as a fee.
func IsPackableFee(v *big.Int) bool {
	_, err := PackFee(v)
	return err == nil
}
