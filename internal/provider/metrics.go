package provider

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coinscope_upstream_requests_total",
		Help: "Total number of CoinGecko requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coinscope_upstream_request_duration_seconds",
		Help:    "CoinGecko request latency by endpoint",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)
