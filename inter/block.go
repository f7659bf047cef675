// Package inter defines the rollup-level data structures restored from
// base-chain commit transactions. This file contains RollupOpsBlock, the
// record produced for every block found in a commitBlocks call.
//
// Key concepts:
//   - BlockNumber: height of a rollup block as tracked by the rollup contract
//   - AccountID: index of an account in the rollup state tree
//   - RollupOpsBlock: the operations of one committed block plus its fee account
//
// Usage:
//
//	blocks, err := commitv4.RollupOpsBlocksFromBytes(args)
//	for _, b := range blocks {
//	    fmt.Println(b.BlockNum, b.FeeAccount, len(b.Ops))
//	}
package inter

import (
	"encoding/json"
)

// BlockNumber is the height of a rollup block.
type BlockNumber uint32

// AccountID is the index of an account inside the rollup state tree.
type AccountID uint32

// TokenID identifies a token registered in the rollup contract. Token 0 is ETH.
type TokenID uint16

// Nonce is an account nonce as carried in public data.
type Nonce uint32

// RollupOpsBlock is one block restored from a commit transaction.
//
// The record is built once by the commit decoder and never mutated afterwards.
type RollupOpsBlock struct {
	// BlockNum is the rollup block number the record is attributed to.
	BlockNum BlockNumber

	// Ops holds the operations decoded from the block's public data, in
	// the order they appear on chain.
	Ops []RollupOp

	// FeeAccount is the account that collects the fees of this block.
	FeeAccount AccountID
}

// OpCounts returns how many operations of every kind the block contains.
func (b *RollupOpsBlock) OpCounts() map[OpCode]int {
	counts := make(map[OpCode]int)
	for _, op := range b.Ops {
		counts[op.OpCode()]++
	}
	return counts
}

// MarshalJSON renders the block with every operation tagged by its type name.
func (b RollupOpsBlock) MarshalJSON() ([]byte, error) {
	type taggedOp struct {
		Type string   `json:"type"`
		Op   RollupOp `json:"op"`
	}
	ops := make([]taggedOp, len(b.Ops))
	for i, op := range b.Ops {
		ops[i] = taggedOp{Type: op.OpCode().String(), Op: op}
	}
	return json.Marshal(struct {
		BlockNum   BlockNumber `json:"blockNumber"`
		FeeAccount AccountID   `json:"feeAccount"`
		Ops        []taggedOp  `json:"ops"`
	}{
		BlockNum:   b.BlockNum,
		FeeAccount: b.FeeAccount,
		Ops:        ops,
	})
}
