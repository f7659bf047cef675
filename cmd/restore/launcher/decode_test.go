package launcher

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-rollup-restore/contracts/commitv4"
)

const referenceFile = "testdata/commit_blocks.hex"

// runApp runs the full application and returns what it printed to stdout.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = ioutil.Discard

	err := app.Run(append([]string{"rollup-restore"}, args...))
	return stdout.String(), err
}

type decodedBlock struct {
	BlockNumber uint32 `json:"blockNumber"`
	FeeAccount  uint32 `json:"feeAccount"`
	Ops         []struct {
		Type string `json:"type"`
	} `json:"ops"`
}

func readReference(t *testing.T) string {
	t.Helper()
	raw, err := ioutil.ReadFile(referenceFile)
	require.NoError(t, err)
	return strings.TrimSpace(string(raw))
}

func TestDecodeCommand_reference(t *testing.T) {
	reference := readReference(t)

	tests := []struct {
		name string
		args []string
	}{
		{"inline with prefix", []string{"--input", "0x" + reference}},
		{"inline without prefix", []string{"--input", reference}},
		{"from file", []string{"--input.file", referenceFile}},
		{"stripped", []string{"--input", reference[2*commitv4.MethodIDLength:], "--stripped"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			out, err := runApp(t, append([]string{"decode"}, test.args...)...)
			require.NoError(err)

			var blocks []decodedBlock
			require.NoError(json.Unmarshal([]byte(out), &blocks))
			require.Len(blocks, 1)
			require.Equal(uint32(24), blocks[0].BlockNumber)
			require.Equal(uint32(0), blocks[0].FeeAccount)
			require.Len(blocks[0].Ops, 5)
			require.Equal("Deposit", blocks[0].Ops[0].Type)
		})
	}
}

func TestDecodeCommand_outputFile(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "blocks.json")
	out, err := runApp(t, "decode", "--input.file", referenceFile, "--output", path)
	require.NoError(err)
	require.Empty(out)

	written, err := ioutil.ReadFile(path)
	require.NoError(err)
	var blocks []decodedBlock
	require.NoError(json.Unmarshal(written, &blocks))
	require.Len(blocks, 1)
}

func TestDecodeCommand_errors(t *testing.T) {
	reference := readReference(t)

	tests := []struct {
		name string
		args []string
		err  error
	}{
		{name: "no input", args: nil},
		{name: "both inputs", args: []string{"--input", reference, "--input.file", referenceFile}},
		{name: "bad hex", args: []string{"--input", "0xzz"}},
		{name: "foreign selector", args: []string{"--input", "0xa9059cbb" + reference[8:]}, err: commitv4.ErrUnknownMethod},
		{name: "stripped flag on full calldata", args: []string{"--input", reference, "--stripped"}, err: commitv4.ErrSchemaMismatch},
		{name: "truncated", args: []string{"--input", reference[:400]}, err: commitv4.ErrSchemaMismatch},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out, err := runApp(t, append([]string{"decode"}, test.args...)...)
			require.Error(t, err)
			require.Empty(t, out)
			if test.err != nil {
				require.ErrorIs(t, err, test.err)
			}
		})
	}
}
