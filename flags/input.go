package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// DecodeFlags describe where the decode command reads calldata from.

func DecodeFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "input",
			Usage: "Hex encoded commitBlocks calldata",
		},
		cli.StringFlag{
			Name:  "input.file",
			Usage: "File holding hex encoded commitBlocks calldata",
		},
		cli.BoolFlag{
			Name:  "stripped",
			Usage: "Calldata has no 4 byte method selector",
		},
	}
}
