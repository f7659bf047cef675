package inter

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

// referencePubdata is the public data of block 25 committed on chain: one
// deposit followed by four noop chunks.
var referencePubdata = common.FromHex("010000000e0000000000000000006c6b935b8bbd4000001e65c448e0486449a0b446bc9a340b933237f6e0" +
	strings.Repeat("00", 47))

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

// TestParseRollupOps_Reference decodes real public data and checks every
// field of the deposit it carries.
func TestParseRollupOps_Reference(t *testing.T) {
	require := require.New(t)
	require.Len(referencePubdata, 90)

	ops, err := ParseRollupOps(referencePubdata)
	require.NoError(err)
	require.Len(ops, 5)

	deposit, ok := ops[0].(DepositOp)
	require.True(ok, "first op should be a deposit, got %T", ops[0])
	require.Equal(AccountID(14), deposit.AccountID)
	require.Equal(TokenID(0), deposit.Token)
	require.Equal(0, deposit.Amount.Cmp(ether(2000)))
	require.Equal(common.HexToAddress("0x1e65c448e0486449a0b446bc9a340b933237f6e0"), deposit.Address)

	for i := 1; i < 5; i++ {
		require.Equal(NoopOpCode, ops[i].OpCode(), "op %d", i)
	}

	// Re-encoding must reproduce the on-chain bytes exactly.
	encoded, err := EncodeRollupOps(ops)
	require.NoError(err)
	require.Equal(referencePubdata, encoded)
}

// TestParseRollupOps_AllKinds builds one block containing every operation
// kind and checks it survives encoding and decoding unchanged.
func TestParseRollupOps_AllKinds(t *testing.T) {
	require := require.New(t)

	alice := common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob := common.HexToAddress("0x0000000000000000000000000000000000000b0b")

	ops := []RollupOp{
		DepositOp{AccountID: 1, Token: 0, Amount: ether(5), Address: alice},
		TransferToNewOp{From: 1, Token: 0, Amount: ether(1), To: bob, ToAccount: 2, Fee: big.NewInt(1000)},
		TransferOp{From: 2, Token: 0, To: 1, Amount: big.NewInt(12345), Fee: big.NewInt(0)},
		WithdrawOp{AccountID: 1, Token: 3, Amount: big.NewInt(777), Fee: big.NewInt(20), To: alice},
		CloseOp{AccountID: 9},
		FullExitOp{AccountID: 2, Address: bob, Token: 0, Amount: ether(3)},
		ChangePubKeyOp{AccountID: 1, NewPubKeyHash: PubKeyHash{1, 2, 3}, Address: alice, Nonce: 4, FeeToken: 0, Fee: big.NewInt(150)},
		ForcedExitOp{Initiator: 1, Target: 2, Token: 0, Amount: big.NewInt(99), Fee: big.NewInt(10), TargetAddress: bob},
		NoopOp{},
	}

	data, err := EncodeRollupOps(ops)
	require.NoError(err)

	wantLen := 0
	for _, op := range ops {
		wantLen += op.Chunks() * ChunkBytes
	}
	require.Len(data, wantLen)

	got, err := ParseRollupOps(data)
	require.NoError(err)
	require.Len(got, len(ops))
	for i := range ops {
		require.IsType(ops[i], got[i], "op %d", i)
	}
	// big.Int internals differ between constructors, compare rendered values.
	want, err := json.Marshal(ops)
	require.NoError(err)
	have, err := json.Marshal(got)
	require.NoError(err)
	require.JSONEq(string(want), string(have))
}

func TestParseRollupOps_Errors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		ops, err := ParseRollupOps(nil)
		require.NoError(t, err)
		require.NotNil(t, ops)
		require.Empty(t, ops)
	})

	t.Run("unknown op code", func(t *testing.T) {
		data := make([]byte, ChunkBytes)
		data[0] = 0x7f
		_, err := ParseRollupOps(data)
		require.ErrorIs(t, err, ErrUnknownOpCode)
	})

	t.Run("truncated operation", func(t *testing.T) {
		// a deposit needs six chunks
		_, err := ParseRollupOps(referencePubdata[:3*ChunkBytes])
		require.ErrorIs(t, err, ErrTruncatedPubdata)
	})

	t.Run("trailing partial chunk", func(t *testing.T) {
		data := append(append([]byte{}, referencePubdata...), 0x05)
		_, err := ParseRollupOps(data)
		require.ErrorIs(t, err, ErrTruncatedPubdata)
	})

	t.Run("encode rejects oversized amount", func(t *testing.T) {
		huge := new(big.Int).Lsh(big.NewInt(1), 130)
		_, err := DepositOp{Amount: huge}.PublicData()
		require.ErrorIs(t, err, ErrInvalidOp)
	})
}

func TestPackFloat(t *testing.T) {
	tests := []struct {
		name  string
		value *big.Int
		ok    bool
	}{
		{"zero", big.NewInt(0), true},
		{"small", big.NewInt(2047), true},
		{"round ether", ether(1), true},
		{"mantissa only", big.NewInt(1 << 34), true},
		{"not representable", new(big.Int).Add(ether(1), big.NewInt(1)), false},
		{"negative", big.NewInt(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packed, err := PackAmount(tt.value)
			if !tt.ok {
				require.ErrorIs(t, err, ErrInvalidOp)
				require.False(t, IsPackableAmount(tt.value))
				return
			}
			require.NoError(t, err)
			require.Len(t, packed, 5)

			back, err := UnpackFloat(packed, AmountExponentBits, AmountMantissaBits)
			require.NoError(t, err)
			require.Equal(t, 0, back.Cmp(tt.value))
		})
	}

	// Fees have an 11 bit mantissa, so 2049 would lose its last digit.
	require.True(t, IsPackableFee(big.NewInt(2040)))
	require.False(t, IsPackableFee(big.NewInt(2049)))
}

func TestRollupOpsBlock_JSON(t *testing.T) {
	require := require.New(t)

	ops, err := ParseRollupOps(referencePubdata)
	require.NoError(err)
	block := RollupOpsBlock{BlockNum: 24, FeeAccount: 0, Ops: ops}

	counts := block.OpCounts()
	require.Equal(1, counts[DepositOpCode])
	require.Equal(4, counts[NoopOpCode])

	raw, err := json.Marshal(block)
	require.NoError(err)

	var decoded struct {
		BlockNumber uint32 `json:"blockNumber"`
		FeeAccount  uint32 `json:"feeAccount"`
		Ops         []struct {
			Type string          `json:"type"`
			Op   json.RawMessage `json:"op"`
		} `json:"ops"`
	}
	require.NoError(json.Unmarshal(raw, &decoded))
	require.Equal(uint32(24), decoded.BlockNumber)
	require.Len(decoded.Ops, 5)
	require.Equal("Deposit", decoded.Ops[0].Type)
	require.Contains(string(decoded.Ops[0].Op), `"amount":2000000000000000000000`)
	require.Equal("Noop", decoded.Ops[4].Type)
}
