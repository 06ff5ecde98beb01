package directory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	RefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coinscope_directory_refresh_total",
		Help: "Coin list refresh attempts by outcome",
	}, []string{"outcome"})

	CoinsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coinscope_directory_coins",
		Help: "Number of coins in the active directory snapshot",
	})

	LastSwapTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coinscope_directory_last_swap_timestamp_seconds",
		Help: "Unix time the active directory snapshot was installed",
	})
)
