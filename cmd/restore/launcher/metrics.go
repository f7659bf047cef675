package launcher

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-rollup-restore/contracts/commitv4"
	"github.com/rony4d/go-rollup-restore/inter"
)

// restoreMetrics counts what the restore commands did.
type restoreMetrics struct {
	commits  prometheus.Counter
	blocks   prometheus.Counter
	ops      *prometheus.CounterVec
	failures *prometheus.CounterVec
}

func newRestoreMetrics(reg prometheus.Registerer) *restoreMetrics {
	factory := promauto.With(reg)
	return &restoreMetrics{
		commits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "rollup_restore",
			Name:      "commit_calls_total",
			Help:      "commitBlocks calls decoded successfully.",
		}),
		blocks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "rollup_restore",
			Name:      "blocks_total",
			Help:      "Rollup blocks restored.",
		}),
		ops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rollup_restore",
			Name:      "operations_total",
			Help:      "Rollup operations restored, by type.",
		}, []string{"type"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rollup_restore",
			Name:      "failures_total",
			Help:      "commitBlocks calls that could not be restored, by reason.",
		}, []string{"reason"}),
	}
}

func (m *restoreMetrics) observe(blocks []inter.RollupOpsBlock) {
	m.commits.Inc()
	m.blocks.Add(float64(len(blocks)))
	for _, block := range blocks {
		for code, n := range block.OpCounts() {
			m.ops.WithLabelValues(code.String()).Add(float64(n))
		}
	}
}

func (m *restoreMetrics) fail(err error) {
	m.failures.WithLabelValues(failureReason(err)).Inc()
}

// failureReason maps an error to a low cardinality label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, commitv4.ErrSchemaMismatch):
		return "schema_mismatch"
	case errors.Is(err, commitv4.ErrMalformedCommitment):
		return "malformed_commitment"
	case errors.Is(err, commitv4.ErrMalformedBlockHeader):
		return "malformed_block_header"
	case errors.Is(err, commitv4.ErrMalformedOperation):
		return "malformed_operation"
	case errors.Is(err, commitv4.ErrOperationPayload):
		return "operation_payload"
	case errors.Is(err, commitv4.ErrUnknownMethod):
		return "unknown_method"
	case errors.Is(err, errWrongRecipient):
		return "wrong_recipient"
	case errors.Is(err, errPendingTransaction):
		return "pending"
	case errors.Is(err, errFetchTransaction):
		return "rpc"
	default:
		return "other"
	}
}

// startMetricsServer serves reg on cfg.Addr:cfg.Port until the returned
// server is closed.
func startMetricsServer(cfg MetricsConfig, reg *prometheus.Registry, log *logrus.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Addr, cfg.Port),
		Handler: mux,
	}
	go func() {
		log.WithField("addr", server.Addr).Info("Serving metrics")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Metrics server failed")
		}
	}()
	return server
}
