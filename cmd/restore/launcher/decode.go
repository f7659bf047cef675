package launcher

import (
	"io/ioutil"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-rollup-restore/contracts/commitv4"
	"github.com/rony4d/go-rollup-restore/inter"
)

func decodeCommand(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	svc, err := newServices(cfg, ctx.App.ErrWriter)
	if err != nil {
		return err
	}
	defer svc.Close()

	input, err := readCallData(cfg.Decode)
	if err != nil {
		return err
	}

	blocks, err := decodeCallData(input, cfg.Decode.Stripped)
	if err != nil {
		svc.metrics.fail(err)
		svc.log.WithError(err).Error("Failed to restore blocks")
		return err
	}
	svc.metrics.observe(blocks)
	svc.log.WithField("blocks", len(blocks)).Info("Restored blocks from calldata")

	return writeJSON(cfg.Output, ctx.App.Writer, blocks)
}

func decodeCallData(input []byte, stripped bool) ([]inter.RollupOpsBlock, error) {
	if stripped {
		return commitv4.RollupOpsBlocksFromBytes(input)
	}
	return commitv4.RollupOpsBlocksFromCallData(input)
}

// readCallData takes hex calldata from exactly one of --input and --input.file.
func readCallData(cfg DecodeConfig) ([]byte, error) {
	raw := cfg.Input
	switch {
	case cfg.Input != "" && cfg.InputFile != "":
		return nil, errors.New("--input and --input.file are mutually exclusive")
	case cfg.InputFile != "":
		content, err := ioutil.ReadFile(cfg.InputFile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read input file")
		}
		raw = string(content)
	case cfg.Input == "":
		return nil, errors.New("no calldata given, use --input or --input.file")
	}
	return parseHex(raw)
}

// parseHex accepts hex with or without 0x and ignores surrounding whitespace.
func parseHex(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "0x") && !strings.HasPrefix(raw, "0X") {
		raw = "0x" + raw
	}
	data, err := hexutil.Decode(raw)
	if err != nil {
		return nil, errors.Wrap(err, "invalid hex calldata")
	}
	return data, nil
}
