package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the verifier endpoint.
type Metrics struct {
	TransactionsInitialized *prometheus.CounterVec
	RequestObjectsRetrieved prometheus.Counter
	WalletResponses         *prometheus.CounterVec
	PresentationsTimedOut   prometheus.Counter
	SigningDuration         prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		TransactionsInitialized: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "attesta_transactions_initialized_total",
			Help: "Presentation transactions initialized, by requested type",
		}, []string{"type"}),
		RequestObjectsRetrieved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attesta_request_objects_retrieved_total",
			Help: "Request objects signed and delivered to wallets",
		}),
		WalletResponses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "attesta_wallet_responses_total",
			Help: "Wallet responses received, by outcome",
		}, []string{"outcome"}),
		PresentationsTimedOut: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attesta_presentations_timed_out_total",
			Help: "Sessions expired by the timeout sweeper",
		}),
		SigningDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "attesta_request_object_signing_duration_ms",
			Help:    "Latency of request object signing in milliseconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100},
		}),
	}
}

func (m *Metrics) IncTransactionsInitialized(requestType string) {
	m.TransactionsInitialized.WithLabelValues(requestType).Inc()
}

func (m *Metrics) IncRequestObjectsRetrieved() {
	m.RequestObjectsRetrieved.Inc()
}

func (m *Metrics) IncWalletResponses(outcome string) {
	m.WalletResponses.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncPresentationsTimedOut() {
	m.PresentationsTimedOut.Inc()
}

func (m *Metrics) ObserveSigningDuration(d time.Duration) {
	m.SigningDuration.Observe(float64(d.Microseconds()) / 1000.0)
}
