package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors of the summary endpoint
type Metrics struct {
	// Latency of the whole request, including the provider call
	RequestDuration *prometheus.HistogramVec

	// Traffic by route and status code
	TotalRequests *prometheus.CounterVec

	// Errors by kind: invalid_request, auth_error, upstream_error, upstream_timeout, internal_error
	ErrorTotal *prometheus.CounterVec

	// Tokens reported by the provider
	TokensUsed *prometheus.CounterVec
}

// NewMetrics registers collectors on reg.
// A nil reg gets a private registry that is never exposed.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		RequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "summary_request_duration_seconds",
			Help:    "Histogram of request latencies.",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30, 60},
		}, []string{"route", "status"}),

		TotalRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "summary_requests_total",
			Help: "Total number of processed requests.",
		}, []string{"route", "status"}),

		ErrorTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "summary_errors_total",
			Help: "Total number of errors by kind.",
		}, []string{"kind"}),

		TokensUsed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "summary_tokens_used_total",
			Help: "Total number of tokens reported by the LLM provider.",
		}, []string{"provider"}),
	}
}
