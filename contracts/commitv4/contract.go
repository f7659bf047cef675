// Package commitv4 restores rollup blocks from the calldata of version 4 of
// the rollup contract's commitBlocks call.
//
// Overview:
//
//	An operator commits a batch of rollup blocks by calling
//	commitBlocks(StoredBlockInfo, CommitBlockInfo[]) on the base chain. The
//	first argument describes the last block committed before this batch, the
//	second carries one entry per new block with its public data.
//
//	Decoding happens in two steps:
//	  1. DecodeCommitmentParameters turns the selector-stripped argument
//	     bytes into an abitoken tree using the fixed v4 schema below.
//	  2. ExtractRollupOpsBlocks checks the shape of that tree and builds one
//	     inter.RollupOpsBlock per CommitBlockInfo entry, handing each block's
//	     public data to an OpsParser.
//
// Block numbering:
//
//	Every restored block is attributed the block number stored in
//	StoredBlockInfo. The per-entry blockNumber field is decoded but not used.
//	Batches of more than one block therefore share one number.
//
// The package keeps no state besides the parsed ABI, which is read-only after
// init, and never logs.
package commitv4

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ContractABI is the JSON ABI fragment of the v4 commitBlocks function:
//
//	commitBlocks(
//	    (uint32 blockNumber, uint64 priorityOperations, bytes32 pendingOnchainOperationsHash,
//	     uint256 timestamp, bytes32 stateHash, bytes32 commitment) _lastCommittedBlockData,
//	    (bytes32 newStateHash, bytes publicData, uint256 timestamp,
//	     (bytes ethWitness, uint32 publicDataOffset)[] onchainOperations,
//	     uint32 blockNumber, uint32 feeAccount)[] _newBlocksData)
const ContractABI = "[{\"inputs\":[{\"components\":[{\"internalType\":\"uint32\",\"name\":\"blockNumber\",\"type\":\"uint32\"},{\"internalType\":\"uint64\",\"name\":\"priorityOperations\",\"type\":\"uint64\"},{\"internalType\":\"bytes32\",\"name\":\"pendingOnchainOperationsHash\",\"type\":\"bytes32\"},{\"internalType\":\"uint256\",\"name\":\"timestamp\",\"type\":\"uint256\"},{\"internalType\":\"bytes32\",\"name\":\"stateHash\",\"type\":\"bytes32\"},{\"internalType\":\"bytes32\",\"name\":\"commitment\",\"type\":\"bytes32\"}],\"internalType\":\"struct Storage.StoredBlockInfo\",\"name\":\"_lastCommittedBlockData\",\"type\":\"tuple\"},{\"components\":[{\"internalType\":\"bytes32\",\"name\":\"newStateHash\",\"type\":\"bytes32\"},{\"internalType\":\"bytes\",\"name\":\"publicData\",\"type\":\"bytes\"},{\"internalType\":\"uint256\",\"name\":\"timestamp\",\"type\":\"uint256\"},{\"components\":[{\"internalType\":\"bytes\",\"name\":\"ethWitness\",\"type\":\"bytes\"},{\"internalType\":\"uint32\",\"name\":\"publicDataOffset\",\"type\":\"uint32\"}],\"internalType\":\"struct ZkSync.OnchainOperationData[]\",\"name\":\"onchainOperations\",\"type\":\"tuple[]\"},{\"internalType\":\"uint32\",\"name\":\"blockNumber\",\"type\":\"uint32\"},{\"internalType\":\"uint32\",\"name\":\"feeAccount\",\"type\":\"uint32\"}],\"internalType\":\"struct ZkSync.CommitBlockInfo[]\",\"name\":\"_newBlocksData\",\"type\":\"tuple[]\"}],\"name\":\"commitBlocks\",\"outputs\":[],\"stateMutability\":\"nonpayable\",\"type\":\"function\"}]"

// CommitBlocksMethodName is the name of the decoded contract function.
const CommitBlocksMethodName = "commitBlocks"

// MethodIDLength is the length of the function selector prefixing calldata.
const MethodIDLength = 4

// Field positions inside the decoded tuples.
const (
	storedBlockNumberField = 0

	publicDataField        = 1
	commitBlockNumberField = 4
	feeAccountField        = 5

	commitOperationFieldCount = 6
)

var (
	// CommitBlocksMethodID is the 4 byte selector of commitBlocks (0x45269298).
	CommitBlocksMethodID []byte

	commitBlocksMethod abi.Method
)

func init() {
	parsed, err := abi.JSON(strings.NewReader(ContractABI))
	if err != nil {
		panic(err)
	}

	method, exist := parsed.Methods[CommitBlocksMethodName]
	if !exist {
		panic("unknown commitBlocks method")
	}
	commitBlocksMethod = method

	CommitBlocksMethodID = make([]byte, len(method.ID))
	copy(CommitBlocksMethodID, method.ID)
}

// Arguments returns the ABI argument list of commitBlocks.
func Arguments() abi.Arguments {
	return commitBlocksMethod.Inputs
}
