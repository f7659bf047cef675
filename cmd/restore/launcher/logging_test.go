package launcher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-rollup-restore/contracts/commitv4"
	"github.com/rony4d/go-rollup-restore/inter"
)

func TestNewLogger_levels(t *testing.T) {
	for verbosity, want := range verbosityLevels {
		t.Run(want.String(), func(t *testing.T) {
			log, err := newLogger(LoggingConfig{Verbosity: verbosity, Format: "text"}, &bytes.Buffer{})
			require.NoError(t, err)
			require.Equal(t, want, log.GetLevel())
		})
	}

	_, err := newLogger(LoggingConfig{Verbosity: 6, Format: "text"}, &bytes.Buffer{})
	require.Error(t, err)
	_, err = newLogger(LoggingConfig{Verbosity: -1, Format: "text"}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestNewLogger_json(t *testing.T) {
	require := require.New(t)

	var out bytes.Buffer
	log, err := newLogger(LoggingConfig{Verbosity: 3, Format: "json"}, &out)
	require.NoError(err)

	log.WithField("blocks", 2).Info("Restored blocks from calldata")
	log.Debug("hidden at info level")

	var entry map[string]interface{}
	require.NoError(json.Unmarshal(out.Bytes(), &entry))
	require.Equal("info", entry["level"])
	require.Equal("Restored blocks from calldata", entry["msg"])
	require.Equal(float64(2), entry["blocks"])

	_, err = newLogger(LoggingConfig{Verbosity: 3, Format: "logfmt"}, &out)
	require.Error(err)
}

func TestNewLogger_sentry(t *testing.T) {
	require := require.New(t)

	log, err := newLogger(LoggingConfig{Verbosity: 3, Format: "text", SentryDSN: "https://public@sentry.example.com/1"}, &bytes.Buffer{})
	require.NoError(err)
	require.Len(log.Hooks[logrus.ErrorLevel], 1)
	require.Empty(log.Hooks[logrus.InfoLevel])

	_, err = newLogger(LoggingConfig{Verbosity: 3, Format: "text", SentryDSN: "://not a dsn"}, &bytes.Buffer{})
	require.Error(err)
}

func TestFailureReason(t *testing.T) {
	tests := map[string]error{
		"schema_mismatch":        commitv4.ErrSchemaMismatch,
		"malformed_commitment":   commitv4.ErrMalformedCommitment,
		"malformed_block_header": commitv4.ErrMalformedBlockHeader,
		"malformed_operation":    commitv4.ErrMalformedOperation,
		"operation_payload":      &commitv4.OperationPayloadError{Index: 0, Err: inter.ErrUnknownOpCode},
		"unknown_method":         commitv4.ErrUnknownMethod,
		"other":                  fmt.Errorf("boom"),
	}

	for want, err := range tests {
		require.Equal(t, want, failureReason(fmt.Errorf("wrapped: %w", err)))
	}
}

func TestRestoreMetrics_observe(t *testing.T) {
	require := require.New(t)

	ops, err := inter.ParseRollupOps(make([]byte, 3*inter.ChunkBytes))
	require.NoError(err)

	m := newRestoreMetrics(prometheus.NewRegistry())
	m.observe([]inter.RollupOpsBlock{
		{BlockNum: 1, Ops: ops},
		{BlockNum: 1, Ops: ops[:1]},
	})

	require.Equal(float64(1), testutil.ToFloat64(m.commits))
	require.Equal(float64(2), testutil.ToFloat64(m.blocks))
	require.Equal(float64(4), testutil.ToFloat64(m.ops.WithLabelValues(inter.NoopOpCode.String())))
}
