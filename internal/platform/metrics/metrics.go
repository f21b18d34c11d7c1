package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the claims service.
type Metrics struct {
	ProofsIssued      *prometheus.CounterVec
	IssuanceFailures  *prometheus.CounterVec
	Verifications     *prometheus.CounterVec
	CheckFailures     *prometheus.CounterVec
	PayloadParseFails prometheus.Counter
	ProveLatency      prometheus.Histogram
	VerifyLatency     prometheus.Histogram
	EndpointLatency   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		ProofsIssued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zkqrc_proofs_issued_total",
			Help: "Total number of claim proofs issued, labeled by claim type",
		}, []string{"claim_type"}),
		IssuanceFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zkqrc_issuance_failures_total",
			Help: "Total number of failed issuance requests, labeled by error code",
		}, []string{"code"}),
		Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zkqrc_verifications_total",
			Help: "Total number of verification decisions, labeled by outcome",
		}, []string{"outcome"}),
		// Rejections split by which check failed, so operators can tell a
		// proof-system fault from an identity-binding fault.
		CheckFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zkqrc_check_failures_total",
			Help: "Total number of failed sub-checks during verification, labeled by check",
		}, []string{"check"}),
		PayloadParseFails: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zkqrc_payload_parse_failures_total",
			Help: "Total number of wire payloads rejected by the codec",
		}),
		ProveLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "zkqrc_prove_latency_seconds",
			Help:    "Latency of zero-knowledge proof generation in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		VerifyLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "zkqrc_verify_latency_seconds",
			Help:    "Latency of zero-knowledge proof verification in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zkqrc_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}
