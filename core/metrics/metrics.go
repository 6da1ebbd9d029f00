package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "boarcoin"

// Submission results used as the "result" label.
const (
	ResultAccepted     = "accepted"
	ResultInsufficient = "insufficient_balance"
	ResultInvalid      = "invalid"
)

type Metrics struct {
	registry     *prometheus.Registry
	blocks       prometheus.Counter
	chainLength  prometheus.Gauge
	miningTime   prometheus.Histogram
	transactions *prometheus.CounterVec
	pending      prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		blocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_total",
			Help:      "Blocks appended to the chain since start.",
		}),
		chainLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chain_length",
			Help:      "Number of blocks in the chain.",
		}),
		miningTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mining_seconds",
			Help:      "Time spent searching for a proof of work.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Submitted transactions by result.",
		}, []string{"result"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_transactions",
			Help:      "Transactions waiting for the next block.",
		}),
	}

	m.registry.MustRegister(
		m.blocks,
		m.chainLength,
		m.miningTime,
		m.transactions,
		m.pending,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveBlock records an appended block. chainLen is the ledger length at
// observation time; events may arrive out of order, so it is not the block index.
func (m *Metrics) ObserveBlock(chainLen int, miningTime time.Duration) {
	m.blocks.Inc()
	m.chainLength.Set(float64(chainLen))
	if miningTime > 0 {
		m.miningTime.Observe(miningTime.Seconds())
	}
}

func (m *Metrics) ObserveSubmission(result string) {
	m.transactions.WithLabelValues(result).Inc()
}

func (m *Metrics) SetPending(n int) {
	m.pending.Set(float64(n))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
