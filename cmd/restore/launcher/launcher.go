// Package launcher wires the rollup-restore command line: flags, config,
// logging, metrics and the decode and fetch commands.
//
// Overview:
//
//	decode  restores blocks from calldata given inline or in a file.
//	fetch   pulls commitBlocks transactions from a base chain node by hash,
//	        checks they were sent to the rollup contract and restores them.
//
// Both commands print the restored blocks as JSON to stdout or --output.
package launcher

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-rollup-restore/flags"
)

// Launch runs the application with the given process arguments.
func Launch(args []string) error {
	return newApp().Run(args)
}

func newApp() *cli.App {
	app := flags.NewApp()

	decodeFlags := append(flags.CommonFlags(), flags.DecodeFlags()...)

	fetchFlags := append(flags.CommonFlags(), flags.NetworkFlags()...)
	fetchFlags = append(fetchFlags, flags.FetchFlags()...)

	app.Commands = []cli.Command{
		{
			Name:      "decode",
			Usage:     "Restore rollup blocks from commitBlocks calldata",
			ArgsUsage: " ",
			Flags:     decodeFlags,
			Action:    decodeCommand,
		},
		{
			Name:      "fetch",
			Usage:     "Fetch commitBlocks transactions from a node and restore their blocks",
			ArgsUsage: " ",
			Flags:     fetchFlags,
			Action:    fetchCommand,
		},
	}
	return app
}

// services holds what every command sets up from Config before doing work.
type services struct {
	log     *logrus.Logger
	metrics *restoreMetrics

	registry *prometheus.Registry
	stop     func()
}

func newServices(cfg Config, logOut io.Writer) (*services, error) {
	log, err := newLogger(cfg.Logging, logOut)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	s := &services{
		log:      log,
		metrics:  newRestoreMetrics(reg),
		registry: reg,
		stop:     func() {},
	}

	if cfg.Metrics.Enabled {
		server := startMetricsServer(cfg.Metrics, reg, log)
		s.stop = func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		}
	}
	return s, nil
}

func (s *services) Close() {
	s.stop()
}

// writeJSON renders v to path, or to fallback when path is empty.
func writeJSON(path string, fallback io.Writer, v interface{}) error {
	out := fallback
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "failed to create output file")
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "failed to write output")
}
