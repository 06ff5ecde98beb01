package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkersBusy = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coinscope_workers_busy",
		Help: "Worker slots currently running an upstream task",
	})

	WorkWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "coinscope_work_wait_seconds",
		Help:    "Time spent waiting for a worker slot",
		Buckets: prometheus.DefBuckets,
	})

	WorkTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coinscope_work_total",
		Help: "Tasks run on the worker pool",
	}, []string{"task", "outcome"})

	L2ReadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coinscope_l2_reads_total",
		Help: "Redis cache reads by kind and outcome",
	}, []string{"kind", "outcome"})
)
