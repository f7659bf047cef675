package commitv4

import (
	"fmt"

	"github.com/rony4d/go-rollup-restore/inter"
	"github.com/rony4d/go-rollup-restore/utils/abitoken"
)

// OpsParser decodes the public data of one block into rollup operations.
type OpsParser interface {
	ParseOps(publicData []byte) ([]inter.RollupOp, error)
}

// OpsParserFunc adapts a plain function to OpsParser.
type OpsParserFunc func(publicData []byte) ([]inter.RollupOp, error)

// ParseOps calls f(publicData).
func (f OpsParserFunc) ParseOps(publicData []byte) ([]inter.RollupOp, error) {
	return f(publicData)
}

// DefaultOpsParser parses public data with inter.ParseRollupOps.
var DefaultOpsParser OpsParser = OpsParserFunc(inter.ParseRollupOps)

// ExtractRollupOpsBlocks walks a decoded commitBlocks argument tree and
// returns one block per commit operation, in array order.
//
// Shape violations of the tree as a whole, of the stored block, or of any
// tuple entry's fields fail the entire call. Array entries that are not
// tuples at all are skipped. A nil parser means DefaultOpsParser.
func ExtractRollupOpsBlocks(tokens []abitoken.Token, parser OpsParser) ([]inter.RollupOpsBlock, error) {
	if parser == nil {
		parser = DefaultOpsParser
	}

	if len(tokens) != 2 {
		return nil, fmt.Errorf("%w: expected 2 decoded values, got %d", ErrMalformedCommitment, len(tokens))
	}
	storedBlock, isTuple := tokens[0].AsTuple()
	operations, isArray := tokens[1].AsArray()
	if !isTuple || !isArray {
		return nil, fmt.Errorf("%w: expected (tuple, array), got (%s, %s)",
			ErrMalformedCommitment, tokens[0].Kind, tokens[1].Kind)
	}

	blockNum, err := storedBlockNumber(storedBlock)
	if err != nil {
		return nil, err
	}

	blocks := make([]inter.RollupOpsBlock, 0, len(operations))
	for i, operation := range operations {
		fields, ok := operation.AsTuple()
		if !ok {
			continue
		}

		feeAccount, publicData, err := commitOperationFields(i, fields)
		if err != nil {
			return nil, err
		}

		ops, err := parser.ParseOps(publicData)
		if err != nil {
			return nil, &OperationPayloadError{Index: i, Err: err}
		}

		blocks = append(blocks, inter.RollupOpsBlock{
			BlockNum:   blockNum,
			Ops:        ops,
			FeeAccount: feeAccount,
		})
	}
	return blocks, nil
}

func storedBlockNumber(storedBlock []abitoken.Token) (inter.BlockNumber, error) {
	if len(storedBlock) <= storedBlockNumberField {
		return 0, fmt.Errorf("%w: stored block tuple is empty", ErrMalformedBlockHeader)
	}
	field := storedBlock[storedBlockNumberField]
	if field.Kind != abitoken.KindUint {
		return 0, fmt.Errorf("%w: block number is %s, want uint", ErrMalformedBlockHeader, field.Kind)
	}
	n, ok := field.AsUint32()
	if !ok {
		return 0, fmt.Errorf("%w: block number %s overflows uint32", ErrMalformedBlockHeader, field)
	}
	return inter.BlockNumber(n), nil
}

func commitOperationFields(index int, fields []abitoken.Token) (inter.AccountID, []byte, error) {
	if len(fields) < commitOperationFieldCount {
		return 0, nil, fmt.Errorf("%w: commit operation %d has %d fields, want %d",
			ErrMalformedOperation, index, len(fields), commitOperationFieldCount)
	}

	publicData, ok := fields[publicDataField].AsBytes()
	if !ok {
		return 0, nil, fmt.Errorf("%w: commit operation %d public data is %s, want bytes",
			ErrMalformedOperation, index, fields[publicDataField].Kind)
	}
	if _, ok := fields[commitBlockNumberField].AsUint(); !ok {
		return 0, nil, fmt.Errorf("%w: commit operation %d block number is %s, want uint",
			ErrMalformedOperation, index, fields[commitBlockNumberField].Kind)
	}
	feeAccount, ok := fields[feeAccountField].AsUint32()
	if !ok {
		return 0, nil, fmt.Errorf("%w: commit operation %d fee account %s is not a uint32",
			ErrMalformedOperation, index, fields[feeAccountField])
	}
	return inter.AccountID(feeAccount), publicData, nil
}

// Decoder restores blocks from commitBlocks arguments using a fixed OpsParser.
// It is safe for concurrent use.
type Decoder struct {
	parser OpsParser
}

// NewDecoder returns a Decoder using parser, or DefaultOpsParser if nil.
func NewDecoder(parser OpsParser) *Decoder {
	if parser == nil {
		parser = DefaultOpsParser
	}
	return &Decoder{parser: parser}
}

// Decode restores blocks from selector-stripped argument bytes.
func (d *Decoder) Decode(args []byte) ([]inter.RollupOpsBlock, error) {
	tokens, err := DecodeCommitmentParameters(args)
	if err != nil {
		return nil, err
	}
	return ExtractRollupOpsBlocks(tokens, d.parser)
}

// DecodeCallData restores blocks from full transaction input, selector included.
func (d *Decoder) DecodeCallData(input []byte) ([]inter.RollupOpsBlock, error) {
	args, err := SplitCallData(input)
	if err != nil {
		return nil, err
	}
	return d.Decode(args)
}

var defaultDecoder = NewDecoder(nil)

// RollupOpsBlocksFromBytes restores blocks from selector-stripped argument
// bytes using DefaultOpsParser.
func RollupOpsBlocksFromBytes(data []byte) ([]inter.RollupOpsBlock, error) {
	return defaultDecoder.Decode(data)
}

// RollupOpsBlocksFromCallData restores blocks from full transaction input.
func RollupOpsBlocksFromCallData(input []byte) ([]inter.RollupOpsBlock, error) {
	return defaultDecoder.DecodeCallData(input)
}
