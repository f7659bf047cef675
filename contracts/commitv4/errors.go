package commitv4

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaMismatch means the bytes cannot be decoded with the v4 schema.
	ErrSchemaMismatch = errors.New("can't get decoded parameters from commitment transaction")
	// ErrMalformedCommitment means the decoded values are not (tuple, array).
	ErrMalformedCommitment = errors.New("can't parse commitment parameters")
	// ErrMalformedBlockHeader means the stored block number is missing or not a uint32.
	ErrMalformedBlockHeader = errors.New("can't parse block parameters")
	// ErrMalformedOperation means a commit operation lacks a required field.
	ErrMalformedOperation = errors.New("can't parse operation parameters")
	// ErrOperationPayload means a block's public data could not be parsed.
	ErrOperationPayload = errors.New("can't parse operation public data")
	// ErrUnknownMethod means the calldata selector is not commitBlocks.
	ErrUnknownMethod = errors.New("calldata is not a commitBlocks call")
)

// OperationPayloadError reports the commit operation whose public data failed
// to parse. errors.Is matches ErrOperationPayload, and Unwrap exposes the
// parser's own error.
type OperationPayloadError struct {
	Index int
	Err   error
}

func (e *OperationPayloadError) Error() string {
	return fmt.Sprintf("%v (commit operation %d): %v", ErrOperationPayload, e.Index, e.Err)
}

func (e *OperationPayloadError) Unwrap() error {
	return e.Err
}

func (e *OperationPayloadError) Is(target error) bool {
	return target == ErrOperationPayload
}
