package abitoken

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/holiman/uint256"
)

var (
	// ErrDecode wraps every failure of the underlying ABI decoder.
	ErrDecode = errors.New("abitoken: abi decoding failed")
	// ErrUnsupportedType is returned for ABI types outside the token variants.
	ErrUnsupportedType = errors.New("abitoken: unsupported abi type")
	// ErrValueMismatch means the decoder produced a Go value that does not
	// agree with the declared ABI type.
	ErrValueMismatch = errors.New("abitoken: decoded value does not match abi type")
)

// Decode unpacks data against args and converts the result into tokens, one
// per argument. The go-ethereum decoder is trusted to reject malformed head
// and tail regions; a panic inside it is reported as ErrDecode as well.
func Decode(args abi.Arguments, data []byte) (tokens []Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			tokens = nil
			err = fmt.Errorf("%w: %v", ErrDecode, r)
		}
	}()

	values, err := args.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(values) != len(args) {
		return nil, fmt.Errorf("%w: got %d values for %d arguments", ErrDecode, len(values), len(args))
	}

	tokens = make([]Token, len(args))
	for i, arg := range args {
		tok, err := FromValue(arg.Type, reflect.ValueOf(values[i]))
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, arg.Type.String(), err)
		}
		tokens[i] = tok
	}
	return tokens, nil
}

// FromValue converts a single decoded value of ABI type typ into a Token.
func FromValue(typ abi.Type, v reflect.Value) (Token, error) {
	for v.IsValid() && v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if !v.IsValid() {
		return Token{}, fmt.Errorf("%w: nil value for %s", ErrValueMismatch, typ.String())
	}

	switch typ.T {
	case abi.UintTy:
		u, err := toUint256(v)
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: KindUint, Uint: u}, nil

	case abi.FixedBytesTy:
		if v.Kind() != reflect.Array || v.Type().Elem().Kind() != reflect.Uint8 {
			return Token{}, fmt.Errorf("%w: %s from %s", ErrValueMismatch, typ.String(), v.Type())
		}
		b := make([]byte, v.Len())
		for i := range b {
			b[i] = byte(v.Index(i).Uint())
		}
		return NewFixedBytes(b), nil

	case abi.BytesTy:
		if v.Kind() != reflect.Slice || v.Type().Elem().Kind() != reflect.Uint8 {
			return Token{}, fmt.Errorf("%w: %s from %s", ErrValueMismatch, typ.String(), v.Type())
		}
		return NewBytes(v.Bytes()), nil

	case abi.TupleTy:
		if v.Kind() == reflect.Ptr {
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct || v.NumField() != len(typ.TupleElems) {
			return Token{}, fmt.Errorf("%w: %s from %s", ErrValueMismatch, typ.String(), v.Type())
		}
		elems := make([]Token, len(typ.TupleElems))
		for i, et := range typ.TupleElems {
			tok, err := FromValue(*et, v.Field(i))
			if err != nil {
				return Token{}, err
			}
			elems[i] = tok
		}
		return NewTuple(elems...), nil

	case abi.SliceTy, abi.ArrayTy:
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return Token{}, fmt.Errorf("%w: %s from %s", ErrValueMismatch, typ.String(), v.Type())
		}
		elems := make([]Token, v.Len())
		for i := range elems {
			tok, err := FromValue(*typ.Elem, v.Index(i))
			if err != nil {
				return Token{}, err
			}
			elems[i] = tok
		}
		return NewArray(elems...), nil
	}

	return Token{}, fmt.Errorf("%w: %s", ErrUnsupportedType, typ.String())
}

func toUint256(v reflect.Value) (*uint256.Int, error) {
	switch v.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		return new(uint256.Int).SetUint64(v.Uint()), nil
	case reflect.Ptr:
		b, ok := v.Interface().(*big.Int)
		if !ok || b == nil {
			break
		}
		if b.Sign() < 0 {
			return nil, fmt.Errorf("%w: negative uint %s", ErrValueMismatch, b)
		}
		u, overflow := uint256.FromBig(b)
		if overflow {
			return nil, fmt.Errorf("%w: uint overflows 256 bits", ErrValueMismatch)
		}
		return u, nil
	case reflect.Struct:
		if b, ok := v.Interface().(big.Int); ok {
			return toUint256(reflect.ValueOf(&b))
		}
	}
	return nil, fmt.Errorf("%w: uint from %s", ErrValueMismatch, v.Type())
}
