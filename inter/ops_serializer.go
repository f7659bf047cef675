package inter

// ops_serializer.go converts rollup operations to and from block public data.
//
// Layout: public data is a flat sequence of operations. Each operation starts
// with its OpCode byte, followed by big-endian fields, zero-padded up to
// Chunks()*ChunkBytes. The op code alone decides how many bytes to consume,
// so a block can be walked front to back without any length prefixes.

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-rollup-restore/utils/fast"
)

var (
	ErrUnknownOpCode    = errors.New("unknown rollup operation code")
	ErrTruncatedPubdata = errors.New("truncated rollup operation public data")
	ErrInvalidOp        = errors.New("invalid rollup operation")
)

const (
	accountBytes = 4
	tokenBytes   = 2
	amountBytes  = 16
	nonceBytes   = 4
)

// ParseRollupOps decodes every operation contained in a block's public data.
// Empty input yields an empty, non-nil slice.
func ParseRollupOps(data []byte) ([]RollupOp, error) {
	r := fast.NewReader(data)
	ops := make([]RollupOp, 0, len(data)/ChunkBytes)

	for !r.Empty() {
		offset := r.Position()
		code, _ := r.Peek()

		size, ok := OpCode(code).PublicDataLength()
		if !ok {
			return nil, fmt.Errorf("%w: 0x%02x at offset %d", ErrUnknownOpCode, code, offset)
		}
		raw, err := r.Read(size)
		if err != nil {
			return nil, fmt.Errorf("%w: %s at offset %d needs %d bytes, %d left",
				ErrTruncatedPubdata, OpCode(code), offset, size, r.Remaining())
		}

		op, err := ParseRollupOp(raw)
		if err != nil {
			return nil, fmt.Errorf("operation at offset %d: %w", offset, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// ParseRollupOp decodes exactly one operation. raw must start with the op
// code and hold at least the operation's full public data length.
func ParseRollupOp(raw []byte) (RollupOp, error) {
	if len(raw) == 0 {
		return nil, ErrTruncatedPubdata
	}
	code := OpCode(raw[0])
	size, ok := code.PublicDataLength()
	if !ok {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownOpCode, raw[0])
	}
	if len(raw) < size {
		return nil, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrTruncatedPubdata, code, size, len(raw))
	}

	fr := &fieldReader{r: fast.NewReader(raw[1:size])}
	var op RollupOp
	switch code {
	case NoopOpCode:
		op = NoopOp{}
	case DepositOpCode:
		op = DepositOp{
			AccountID: fr.account(),
			Token:     fr.token(),
			Amount:    fr.fullAmount(),
			Address:   fr.address(),
		}
	case TransferToNewOpCode:
		op = TransferToNewOp{
			From:      fr.account(),
			Token:     fr.token(),
			Amount:    fr.packed(AmountExponentBits, AmountMantissaBits),
			To:        fr.address(),
			ToAccount: fr.account(),
			Fee:       fr.packed(FeeExponentBits, FeeMantissaBits),
		}
	case WithdrawOpCode:
		op = WithdrawOp{
			AccountID: fr.account(),
			Token:     fr.token(),
			Amount:    fr.fullAmount(),
			Fee:       fr.packed(FeeExponentBits, FeeMantissaBits),
			To:        fr.address(),
		}
	case CloseOpCode:
		op = CloseOp{AccountID: fr.account()}
	case TransferOpCode:
		op = TransferOp{
			From:   fr.account(),
			Token:  fr.token(),
			To:     fr.account(),
			Amount: fr.packed(AmountExponentBits, AmountMantissaBits),
			Fee:    fr.packed(FeeExponentBits, FeeMantissaBits),
		}
	case FullExitOpCode:
		op = FullExitOp{
			AccountID: fr.account(),
			Address:   fr.address(),
			Token:     fr.token(),
			Amount:    fr.fullAmount(),
		}
	case ChangePubKeyOpCode:
		op = ChangePubKeyOp{
			AccountID:     fr.account(),
			NewPubKeyHash: fr.pubKeyHash(),
			Address:       fr.address(),
			Nonce:         fr.nonce(),
			FeeToken:      fr.token(),
			Fee:           fr.packed(FeeExponentBits, FeeMantissaBits),
		}
	case ForcedExitOpCode:
		op = ForcedExitOp{
			Initiator:     fr.account(),
			Target:        fr.account(),
			Token:         fr.token(),
			Amount:        fr.fullAmount(),
			Fee:           fr.packed(FeeExponentBits, FeeMantissaBits),
			TargetAddress: fr.address(),
		}
	}
	if fr.err != nil {
		return nil, fmt.Errorf("%s: %w", code, fr.err)
	}
	return op, nil
}

// fieldReader reads consecutive fields and remembers the first failure, so
// decoders can be written as a flat list of reads.
type fieldReader struct {
	r   *fast.Reader
	err error
}

func (f *fieldReader) read(n int) []byte {
	if f.err != nil {
		return make([]byte, n)
	}
	b, err := f.r.Read(n)
	if err != nil {
		f.err = fmt.Errorf("%w: %v", ErrTruncatedPubdata, err)
		return make([]byte, n)
	}
	return b
}

func (f *fieldReader) account() AccountID {
	return AccountID(bigendian.BytesToUint32(f.read(accountBytes)))
}

func (f *fieldReader) token() TokenID {
	return TokenID(bigendian.BytesToUint16(f.read(tokenBytes)))
}

func (f *fieldReader) nonce() Nonce {
	return Nonce(bigendian.BytesToUint32(f.read(nonceBytes)))
}

func (f *fieldReader) fullAmount() *big.Int {
	return new(big.Int).SetBytes(f.read(amountBytes))
}

func (f *fieldReader) address() common.Address {
	return common.BytesToAddress(f.read(common.AddressLength))
}

func (f *fieldReader) pubKeyHash() (h PubKeyHash) {
	copy(h[:], f.read(len(h)))
	return h
}

func (f *fieldReader) packed(expBits, mantissaBits uint) *big.Int {
	v, err := UnpackFloat(f.read(packedBytes(expBits, mantissaBits)), expBits, mantissaBits)
	if err != nil && f.err == nil {
		f.err = err
	}
	return v
}

// fieldWriter is the encoding counterpart of fieldReader.
type fieldWriter struct {
	w   *fast.Writer
	err error
}

func newFieldWriter(code OpCode) *fieldWriter {
	size, _ := code.PublicDataLength()
	fw := &fieldWriter{w: fast.NewWriter(make([]byte, 0, size))}
	fw.w.WriteByte(byte(code))
	return fw
}

func (f *fieldWriter) account(v AccountID) { f.w.Write(bigendian.Uint32ToBytes(uint32(v))) }
func (f *fieldWriter) token(v TokenID)     { f.w.Write(bigendian.Uint16ToBytes(uint16(v))) }
func (f *fieldWriter) nonce(v Nonce)       { f.w.Write(bigendian.Uint32ToBytes(uint32(v))) }
func (f *fieldWriter) address(v common.Address) {
	f.w.Write(v.Bytes())
}

func (f *fieldWriter) fullAmount(v *big.Int) {
	b := make([]byte, amountBytes)
	if v != nil {
		if v.Sign() < 0 || v.BitLen() > amountBytes*8 {
			f.fail(fmt.Errorf("%w: amount %s does not fit %d bytes", ErrInvalidOp, v, amountBytes))
		} else {
			v.FillBytes(b)
		}
	}
	f.w.Write(b)
}

func (f *fieldWriter) packed(v *big.Int, expBits, mantissaBits uint) {
	b, err := PackFloat(v, expBits, mantissaBits)
	if err != nil {
		f.fail(err)
		b = make([]byte, packedBytes(expBits, mantissaBits))
	}
	f.w.Write(b)
}

func (f *fieldWriter) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

func (f *fieldWriter) finish(chunks int) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.w.Pad(chunks * ChunkBytes)
	return f.w.Bytes(), nil
}

func (op NoopOp) PublicData() ([]byte, error) {
	return newFieldWriter(op.OpCode()).finish(op.Chunks())
}

func (op DepositOp) PublicData() ([]byte, error) {
	fw := newFieldWriter(op.OpCode())
	fw.account(op.AccountID)
	fw.token(op.Token)
	fw.fullAmount(op.Amount)
	fw.address(op.Address)
	return fw.finish(op.Chunks())
}

func (op TransferToNewOp) PublicData() ([]byte, error) {
	fw := newFieldWriter(op.OpCode())
	fw.account(op.From)
	fw.token(op.Token)
	fw.packed(op.Amount, AmountExponentBits, AmountMantissaBits)
	fw.address(op.To)
	fw.account(op.ToAccount)
	fw.packed(op.Fee, FeeExponentBits, FeeMantissaBits)
	return fw.finish(op.Chunks())
}

func (op WithdrawOp) PublicData() ([]byte, error) {
	fw := newFieldWriter(op.OpCode())
	fw.account(op.AccountID)
	fw.token(op.Token)
	fw.fullAmount(op.Amount)
	fw.packed(op.Fee, FeeExponentBits, FeeMantissaBits)
	fw.address(op.To)
	return fw.finish(op.Chunks())
}

func (op CloseOp) PublicData() ([]byte, error) {
	fw := newFieldWriter(op.OpCode())
	fw.account(op.AccountID)
	return fw.finish(op.Chunks())
}

func (op TransferOp) PublicData() ([]byte, error) {
	fw := newFieldWriter(op.OpCode())
	fw.account(op.From)
	fw.token(op.Token)
	fw.account(op.To)
	fw.packed(op.Amount, AmountExponentBits, AmountMantissaBits)
	fw.packed(op.Fee, FeeExponentBits, FeeMantissaBits)
	return fw.finish(op.Chunks())
}

func (op FullExitOp) PublicData() ([]byte, error) {
	fw := newFieldWriter(op.OpCode())
	fw.account(op.AccountID)
	fw.address(op.Address)
	fw.token(op.Token)
	fw.fullAmount(op.Amount)
	return fw.finish(op.Chunks())
}

func (op ChangePubKeyOp) PublicData() ([]byte, error) {
	fw := newFieldWriter(op.OpCode())
	fw.account(op.AccountID)
	fw.w.Write(op.NewPubKeyHash[:])
	fw.address(op.Address)
	fw.nonce(op.Nonce)
	fw.token(op.FeeToken)
	fw.packed(op.Fee, FeeExponentBits, FeeMantissaBits)
	return fw.finish(op.Chunks())
}

func (op ForcedExitOp) PublicData() ([]byte, error) {
	fw := newFieldWriter(op.OpCode())
	fw.account(op.Initiator)
	fw.account(op.Target)
	fw.token(op.Token)
	fw.fullAmount(op.Amount)
	fw.packed(op.Fee, FeeExponentBits, FeeMantissaBits)
	fw.address(op.TargetAddress)
	return fw.finish(op.Chunks())
}

// EncodeRollupOps concatenates the public data of ops into one block payload.
func EncodeRollupOps(ops []RollupOp) ([]byte, error) {
	w := fast.NewWriter(nil)
	for i, op := range ops {
		b, err := op.PublicData()
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		w.Write(b)
	}
	return w.Bytes(), nil
}
