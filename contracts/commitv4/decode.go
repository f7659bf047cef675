package commitv4

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/rony4d/go-rollup-restore/utils/abitoken"
)

// DecodeCommitmentParameters decodes selector-stripped commitBlocks arguments
// into two tokens: the stored block tuple and the array of commit operations.
// Any mismatch with the schema yields ErrSchemaMismatch and no tokens.
func DecodeCommitmentParameters(data []byte) ([]abitoken.Token, error) {
	tokens, err := abitoken.Decode(Arguments(), data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return tokens, nil
}

// SplitCallData checks that input starts with the commitBlocks selector and
// returns the argument bytes that follow it.
func SplitCallData(input []byte) ([]byte, error) {
	if len(input) < MethodIDLength {
		return nil, fmt.Errorf("%w: calldata of %d bytes has no method selector", ErrSchemaMismatch, len(input))
	}
	if !bytes.Equal(input[:MethodIDLength], CommitBlocksMethodID) {
		return nil, fmt.Errorf("%w: selector %s, want %s", ErrUnknownMethod,
			hexutil.Encode(input[:MethodIDLength]), hexutil.Encode(CommitBlocksMethodID))
	}
	return input[MethodIDLength:], nil
}

// IsCommitBlocksCall reports whether input carries the commitBlocks selector.
func IsCommitBlocksCall(input []byte) bool {
	return len(input) >= MethodIDLength && bytes.Equal(input[:MethodIDLength], CommitBlocksMethodID)
}
