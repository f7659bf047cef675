// Copyright 2020 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

package flags

import (
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

// NewApp creates the rollup-restore application skeleton. Commands, each
// carrying its own flags, are attached by the launcher.
func NewApp() *cli.App {

	app := cli.NewApp()
	app.Name = "rollup-restore"
	app.Usage = "Restore rollup blocks from commitBlocks calldata"
	app.Version = "0.1.0"
	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr
	return app

}

// All returns every flag known to the application, deduplicated by name.
func All() []cli.Flag {
	var (
		all  []cli.Flag
		seen = map[string]bool{}
	)
	for _, group := range [][]cli.Flag{CommonFlags(), NetworkFlags(), FetchFlags(), DecodeFlags()} {
		for _, f := range group {
			if seen[f.GetName()] {
				continue
			}
			seen[f.GetName()] = true
			all = append(all, f)
		}
	}
	return all
}
