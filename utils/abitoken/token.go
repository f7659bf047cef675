// Package abitoken turns the reflected Go values produced by go-ethereum's
// ABI decoder into a small tagged token tree.
//
// The go-ethereum decoder hands back anonymous structs, fixed-size arrays and
// uint8..uint64 or *big.Int values depending on the declared width. Callers
// that validate the *shape* of decoded arguments are easier to write against a
// closed set of variants:
//
//	Uint        any uintN, held as a 256-bit integer
//	FixedBytes  bytesN
//	Bytes       dynamic bytes
//	Tuple       ordered fields
//	Array       fixed or dynamic array of one element type
//
// Every other ABI type is rejected with ErrUnsupportedType.
package abitoken

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// Kind tags the variant held by a Token.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUint
	KindFixedBytes
	KindBytes
	KindTuple
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindFixedBytes:
		return "fixedbytes"
	case KindBytes:
		return "bytes"
	case KindTuple:
		return "tuple"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Token is one node of a decoded argument tree. Only the payload matching
// Kind is populated: Uint for KindUint, Bytes for the two byte kinds and
// Elems for tuples and arrays.
type Token struct {
	Kind  Kind
	Uint  *uint256.Int
	Bytes []byte
	Elems []Token
}

// NewUint returns a KindUint token.
func NewUint(v uint64) Token {
	return Token{Kind: KindUint, Uint: new(uint256.Int).SetUint64(v)}
}

// NewBigUint returns a KindUint token. Values wider than 256 bits are truncated
// to their low 256 bits.
func NewBigUint(v *big.Int) Token {
	u, _ := uint256.FromBig(v)
	return Token{Kind: KindUint, Uint: u}
}

// NewFixedBytes returns a KindFixedBytes token.
func NewFixedBytes(b []byte) Token {
	return Token{Kind: KindFixedBytes, Bytes: b}
}

// NewBytes returns a KindBytes token.
func NewBytes(b []byte) Token {
	return Token{Kind: KindBytes, Bytes: b}
}

// NewTuple returns a KindTuple token holding elems in order.
func NewTuple(elems ...Token) Token {
	return Token{Kind: KindTuple, Elems: elems}
}

// NewArray returns a KindArray token holding elems in order.
func NewArray(elems ...Token) Token {
	return Token{Kind: KindArray, Elems: elems}
}

// AsUint returns the integer payload if t is a uint.
func (t Token) AsUint() (*uint256.Int, bool) {
	if t.Kind != KindUint || t.Uint == nil {
		return nil, false
	}
	return t.Uint, true
}

// AsUint32 returns the integer payload if t is a uint that fits into 32 bits.
func (t Token) AsUint32() (uint32, bool) {
	u, ok := t.AsUint()
	if !ok || !u.IsUint64() || u.Uint64() > 0xffffffff {
		return 0, false
	}
	return uint32(u.Uint64()), true
}

// AsBytes returns the payload if t is dynamic bytes. Fixed bytes do not match.
func (t Token) AsBytes() ([]byte, bool) {
	if t.Kind != KindBytes {
		return nil, false
	}
	return t.Bytes, true
}

// AsFixedBytes returns the payload if t is a bytesN value.
func (t Token) AsFixedBytes() ([]byte, bool) {
	if t.Kind != KindFixedBytes {
		return nil, false
	}
	return t.Bytes, true
}

// AsTuple returns the fields if t is a tuple.
func (t Token) AsTuple() ([]Token, bool) {
	if t.Kind != KindTuple {
		return nil, false
	}
	return t.Elems, true
}

// AsArray returns the elements if t is an array.
func (t Token) AsArray() ([]Token, bool) {
	if t.Kind != KindArray {
		return nil, false
	}
	return t.Elems, true
}

// String renders the token in a compact, human readable form.
func (t Token) String() string {
	switch t.Kind {
	case KindUint:
		if t.Uint == nil {
			return "uint(<nil>)"
		}
		return t.Uint.ToBig().String()
	case KindFixedBytes, KindBytes:
		return hexutil.Encode(t.Bytes)
	case KindTuple, KindArray:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		if t.Kind == KindTuple {
			return "(" + strings.Join(parts, ",") + ")"
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return t.Kind.String()
	}
}
