package launcher

import (
	"bufio"
	"context"
	stderrors "errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-rollup-restore/contracts/commitv4"
	"github.com/rony4d/go-rollup-restore/inter"
)

var (
	errFetchTransaction   = stderrors.New("can't fetch transaction")
	errPendingTransaction = stderrors.New("transaction is still pending")
	errWrongRecipient     = stderrors.New("transaction was not sent to the rollup contract")
)

// TransactionFetcher is the part of ethclient.Client the fetch command uses.
type TransactionFetcher interface {
	TransactionByHash(ctx context.Context, hash common.Hash) (tx *types.Transaction, isPending bool, err error)
}

// RestoredCommit is the fetch output for one transaction.
type RestoredCommit struct {
	TxHash common.Hash            `json:"txHash"`
	Blocks []inter.RollupOpsBlock `json:"blocks"`
}

// commitFetcher restores blocks from commitBlocks transactions looked up by hash.
type commitFetcher struct {
	client   TransactionFetcher
	contract common.Address // zero accepts any recipient
	decoder  *commitv4.Decoder
	timeout  time.Duration
	workers  int
	progress io.Writer // nil disables the progress bar

	log     *logrus.Logger
	metrics *restoreMetrics
}

// restoreOne fetches a single transaction and restores its blocks.
func (f *commitFetcher) restoreOne(ctx context.Context, hash common.Hash) ([]inter.RollupOpsBlock, error) {
	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	tx, pending, err := f.client.TransactionByHash(callCtx, hash)
	if err != nil {
		return nil, errors.Wrapf(errFetchTransaction, "%s: %v", hash.Hex(), err)
	}
	if pending {
		return nil, errors.Wrap(errPendingTransaction, hash.Hex())
	}
	if f.contract != (common.Address{}) {
		if to := tx.To(); to == nil || *to != f.contract {
			return nil, errors.Wrap(errWrongRecipient, hash.Hex())
		}
	}

	blocks, err := f.decoder.DecodeCallData(tx.Data())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to restore transaction %s", hash.Hex())
	}
	return blocks, nil
}

// restoreAll restores every transaction with at most f.workers in flight and
// returns the results in input order. The first failure cancels the rest.
func (f *commitFetcher) restoreAll(ctx context.Context, hashes []common.Hash) ([]RestoredCommit, error) {
	var bar *progressbar.ProgressBar
	if f.progress != nil && len(hashes) > 1 {
		bar = progressbar.NewOptions64(
			int64(len(hashes)),
			progressbar.OptionSetWriter(f.progress),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetDescription("Restoring commits..."),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
		if err := bar.RenderBlank(); err != nil {
			return nil, errors.Wrap(err, "failed to render progress bar")
		}
	}

	results := make([]RestoredCommit, len(hashes))
	eg, ctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, f.workers)

	for i, hash := range hashes {
		if ctx.Err() != nil {
			break
		}

		i, hash := i, hash
		sem <- struct{}{}

		eg.Go(func() error {
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return ctx.Err()
			}

			blocks, err := f.restoreOne(ctx, hash)
			if err != nil {
				if ctx.Err() != nil {
					// cancelled by an earlier failure, which was already reported
					return err
				}
				f.metrics.fail(err)
				f.log.WithError(err).WithField("tx", hash.Hex()).Error("Failed to restore commit")
				return err
			}
			f.metrics.observe(blocks)
			f.log.WithFields(logrus.Fields{
				"tx":     hash.Hex(),
				"blocks": len(blocks),
			}).Debug("Restored commit")

			results[i] = RestoredCommit{TxHash: hash, Blocks: blocks}

			if bar != nil {
				if err := bar.Add(1); err != nil {
					f.log.WithError(err).Warn("Failed to update progress bar")
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if bar != nil {
		if err := bar.Finish(); err != nil {
			return nil, errors.Wrap(err, "failed to finish progress bar")
		}
	}
	return results, nil
}

func fetchCommand(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	svc, err := newServices(cfg, ctx.App.ErrWriter)
	if err != nil {
		return err
	}
	defer svc.Close()

	network, err := ResolveNetwork(cfg.Network)
	if err != nil {
		return err
	}
	hashes, err := collectTxHashes(cfg.Fetch)
	if err != nil {
		return err
	}
	if network.ContractAddress == (common.Address{}) {
		svc.log.Warn("No rollup contract configured, transaction recipients are not checked")
	}

	background := context.Background()
	dialCtx, cancel := context.WithTimeout(background, cfg.Network.RPCTimeout)
	defer cancel()

	client, err := ethclient.DialContext(dialCtx, network.RPCURL)
	if err != nil {
		return errors.Wrapf(err, "failed to dial %s", network.RPCURL)
	}
	defer client.Close()

	if chainID, err := client.ChainID(dialCtx); err != nil {
		svc.log.WithError(err).Warn("Failed to query chain ID")
	} else if network.ChainID != 0 && chainID.Uint64() != network.ChainID {
		svc.log.WithFields(logrus.Fields{
			"network": network.Name,
			"want":    network.ChainID,
			"have":    chainID,
		}).Warn("Endpoint serves a different chain than the network preset")
	}

	svc.log.WithFields(logrus.Fields{
		"network":      network.Name,
		"contract":     network.ContractAddress.Hex(),
		"transactions": len(hashes),
	}).Info("Restoring commits")

	fetcher := &commitFetcher{
		client:   client,
		contract: network.ContractAddress,
		decoder:  commitv4.NewDecoder(nil),
		timeout:  cfg.Network.RPCTimeout,
		workers:  cfg.Fetch.Workers,
		progress: ctx.App.ErrWriter,
		log:      svc.log,
		metrics:  svc.metrics,
	}
	results, err := fetcher.restoreAll(background, hashes)
	if err != nil {
		return err
	}
	return writeJSON(cfg.Output, ctx.App.Writer, results)
}

// collectTxHashes merges --tx and --tx.file, keeping order and dropping
// duplicates.
func collectTxHashes(cfg FetchConfig) ([]common.Hash, error) {
	raw := append([]string{}, cfg.TxHashes...)

	if cfg.TxFile != "" {
		f, err := os.Open(cfg.TxFile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open transaction file")
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			raw = append(raw, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, errors.Wrap(err, "failed to read transaction file")
		}
	}

	if len(raw) == 0 {
		return nil, errors.New("no transactions given, use --tx or --tx.file")
	}

	var (
		hashes []common.Hash
		seen   = make(map[common.Hash]bool, len(raw))
	)
	for _, s := range raw {
		hash, err := parseTxHash(s)
		if err != nil {
			return nil, err
		}
		if seen[hash] {
			continue
		}
		seen[hash] = true
		hashes = append(hashes, hash)
	}
	return hashes, nil
}

func parseTxHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, errors.Errorf("invalid transaction hash %q", s)
	}
	return common.BytesToHash(b), nil
}
