package commitv4

import (
	"fmt"
	"math/big"
)

// StoredBlockInfo mirrors the first commitBlocks argument. Field names match
// the ABI component names so the geth packer can map them.
type StoredBlockInfo struct {
	BlockNumber                  uint32
	PriorityOperations           uint64
	PendingOnchainOperationsHash [32]byte
	Timestamp                    *big.Int
	StateHash                    [32]byte
	Commitment                   [32]byte
}

// OnchainOperationData points at an operation inside a block's public data
// that needs processing on the base chain.
type OnchainOperationData struct {
	EthWitness       []byte
	PublicDataOffset uint32
}

// CommitBlockInfo mirrors one entry of the second commitBlocks argument.
type CommitBlockInfo struct {
	NewStateHash      [32]byte
	PublicData        []byte
	Timestamp         *big.Int
	OnchainOperations []OnchainOperationData
	BlockNumber       uint32
	FeeAccount        uint32
}

// EncodeCommitBlocks builds full commitBlocks calldata, selector included.
// Nil timestamps are encoded as zero.
func EncodeCommitBlocks(stored StoredBlockInfo, blocks []CommitBlockInfo) ([]byte, error) {
	if stored.Timestamp == nil {
		stored.Timestamp = new(big.Int)
	}
	newBlocks := make([]CommitBlockInfo, len(blocks))
	for i, block := range blocks {
		if block.Timestamp == nil {
			block.Timestamp = new(big.Int)
		}
		if block.OnchainOperations == nil {
			block.OnchainOperations = []OnchainOperationData{}
		}
		newBlocks[i] = block
	}

	args, err := Arguments().Pack(stored, newBlocks)
	if err != nil {
		return nil, fmt.Errorf("pack commitBlocks arguments: %w", err)
	}

	input := make([]byte, 0, MethodIDLength+len(args))
	input = append(input, CommitBlocksMethodID...)
	return append(input, args...), nil
}
