package flags

import (
	"time"

	"gopkg.in/urfave/cli.v1"
)

// NetworkFlags select the base chain and the rollup contract to read from.

func NetworkFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "network",
			Usage: "Network preset (mainnet|rinkeby|localhost)",
			Value: "mainnet",
		},
		cli.StringFlag{
			Name:  "rpc.url",
			Usage: "Base chain JSON-RPC endpoint (overrides the preset)",
		},
		cli.DurationFlag{
			Name:  "rpc.timeout",
			Usage: "Timeout of a single JSON-RPC request",
			Value: 30 * time.Second,
		},
		cli.StringFlag{
			Name:  "contract",
			Usage: "Rollup contract address (overrides the preset)",
		},
	}
}

// FetchFlags isolates the knobs of the fetch command.
func FetchFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "tx",
			Usage: "Comma-separated commitBlocks transaction hashes",
		},
		cli.StringFlag{
			Name:  "tx.file",
			Usage: "File with one transaction hash per line",
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "Number of transactions fetched concurrently",
			Value: 4,
		},
	}
}
