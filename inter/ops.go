package inter

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ChunkBytes is the width of one public data chunk. Every operation occupies
// a whole number of chunks.
const ChunkBytes = 9

// OpCode is the first byte of an operation inside block public data.
type OpCode uint8

const (
	NoopOpCode          OpCode = 0x00
	DepositOpCode       OpCode = 0x01
	TransferToNewOpCode OpCode = 0x02
	WithdrawOpCode      OpCode = 0x03
	CloseOpCode         OpCode = 0x04
	TransferOpCode      OpCode = 0x05
	FullExitOpCode      OpCode = 0x06
	ChangePubKeyOpCode  OpCode = 0x07
	ForcedExitOpCode    OpCode = 0x08
)

var opChunks = map[OpCode]int{
	NoopOpCode:          1,
	DepositOpCode:       6,
	TransferToNewOpCode: 6,
	WithdrawOpCode:      6,
	CloseOpCode:         1,
	TransferOpCode:      2,
	FullExitOpCode:      6,
	ChangePubKeyOpCode:  6,
	ForcedExitOpCode:    6,
}

var opNames = map[OpCode]string{
	NoopOpCode:          "Noop",
	DepositOpCode:       "Deposit",
	TransferToNewOpCode: "TransferToNew",
	WithdrawOpCode:      "Withdraw",
	CloseOpCode:         "Close",
	TransferOpCode:      "Transfer",
	FullExitOpCode:      "FullExit",
	ChangePubKeyOpCode:  "ChangePubKey",
	ForcedExitOpCode:    "ForcedExit",
}

// Chunks returns the number of chunks an operation with this code occupies.
// The second result is false for unknown codes.
func (c OpCode) Chunks() (int, bool) {
	n, ok := opChunks[c]
	return n, ok
}

// PublicDataLength returns the size in bytes of an operation with this code.
func (c OpCode) PublicDataLength() (int, bool) {
	n, ok := c.Chunks()
	return n * ChunkBytes, ok
}

func (c OpCode) String() string {
	if name, ok := opNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(0x%02x)", uint8(c))
}

// RollupOp is a single rollup-level operation decoded from public data.
type RollupOp interface {
	// OpCode identifies the operation kind.
	OpCode() OpCode
	// Chunks is the number of public data chunks the operation occupies.
	Chunks() int
	// PublicData encodes the operation back into its zero-padded on-chain form.
	PublicData() ([]byte, error)
}

// PubKeyHash is the hash of a rollup signing key.
type PubKeyHash [20]byte

// MarshalText renders the hash with the conventional "sync:" prefix.
func (h PubKeyHash) MarshalText() ([]byte, error) {
	return []byte("sync:" + hexutil.Encode(h[:])[2:]), nil
}

type (
	// NoopOp fills unused chunks of a block.
	NoopOp struct{}

	// DepositOp credits a rollup account with funds locked on the base chain.
	DepositOp struct {
		AccountID AccountID      `json:"accountId"`
		Token     TokenID        `json:"token"`
		Amount    *big.Int       `json:"amount"`
		Address   common.Address `json:"address"`
	}

	// TransferToNewOp moves funds to an address that had no account yet.
	TransferToNewOp struct {
		From      AccountID      `json:"from"`
		Token     TokenID        `json:"token"`
		Amount    *big.Int       `json:"amount"`
		To        common.Address `json:"to"`
		ToAccount AccountID      `json:"toAccountId"`
		Fee       *big.Int       `json:"fee"`
	}

	// WithdrawOp moves funds from a rollup account back to the base chain.
	WithdrawOp struct {
		AccountID AccountID      `json:"accountId"`
		Token     TokenID        `json:"token"`
		Amount    *big.Int       `json:"amount"`
		Fee       *big.Int       `json:"fee"`
		To        common.Address `json:"to"`
	}

	// CloseOp closes an empty account.
	CloseOp struct {
		AccountID AccountID `json:"accountId"`
	}

	// TransferOp moves funds between two existing accounts.
	TransferOp struct {
		From   AccountID `json:"from"`
		Token  TokenID   `json:"token"`
		To     AccountID `json:"to"`
		Amount *big.Int  `json:"amount"`
		Fee    *big.Int  `json:"fee"`
	}

	// FullExitOp is a priority withdrawal of a whole token balance.
	FullExitOp struct {
		AccountID AccountID      `json:"accountId"`
		Address   common.Address `json:"address"`
		Token     TokenID        `json:"token"`
		Amount    *big.Int       `json:"amount"`
	}

	// ChangePubKeyOp sets the rollup signing key of an account.
	ChangePubKeyOp struct {
		AccountID     AccountID      `json:"accountId"`
		NewPubKeyHash PubKeyHash     `json:"newPkHash"`
		Address       common.Address `json:"address"`
		Nonce         Nonce          `json:"nonce"`
		FeeToken      TokenID        `json:"feeToken"`
		Fee           *big.Int       `json:"fee"`
	}

	// ForcedExitOp withdraws the balance of an account that has no signing key.
	ForcedExitOp struct {
		Initiator     AccountID      `json:"initiatorAccountId"`
		Target        AccountID      `json:"targetAccountId"`
		Token         TokenID        `json:"token"`
		Amount        *big.Int       `json:"amount"`
		Fee           *big.Int       `json:"fee"`
		TargetAddress common.Address `json:"targetAddress"`
	}
)

func (NoopOp) OpCode() OpCode          { return NoopOpCode }
func (DepositOp) OpCode() OpCode       { return DepositOpCode }
func (TransferToNewOp) OpCode() OpCode { return TransferToNewOpCode }
func (WithdrawOp) OpCode() OpCode      { return WithdrawOpCode }
func (CloseOp) OpCode() OpCode         { return CloseOpCode }
func (TransferOp) OpCode() OpCode      { return TransferOpCode }
func (FullExitOp) OpCode() OpCode      { return FullExitOpCode }
func (ChangePubKeyOp) OpCode() OpCode  { return ChangePubKeyOpCode }
func (ForcedExitOp) OpCode() OpCode    { return ForcedExitOpCode }

func (op NoopOp) Chunks() int          { return opChunks[op.OpCode()] }
func (op DepositOp) Chunks() int       { return opChunks[op.OpCode()] }
func (op TransferToNewOp) Chunks() int { return opChunks[op.OpCode()] }
func (op WithdrawOp) Chunks() int      { return opChunks[op.OpCode()] }
func (op CloseOp) Chunks() int         { return opChunks[op.OpCode()] }
func (op TransferOp) Chunks() int      { return opChunks[op.OpCode()] }
func (op FullExitOp) Chunks() int      { return opChunks[op.OpCode()] }
func (op ChangePubKeyOp) Chunks() int  { return opChunks[op.OpCode()] }
func (op ForcedExitOp) Chunks() int    { return opChunks[op.OpCode()] }
