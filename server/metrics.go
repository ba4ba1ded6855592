package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "markov_runs_total",
		Help: "Interpreter runs by outcome",
	}, []string{"outcome"})

	runSteps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "markov_run_steps",
		Help:    "Rewrite steps per successful run",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 to ~16k
	})

	estimationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "markov_estimations_total",
		Help: "Growth estimations by kind and resulting class",
	}, []string{"kind", "label"})

	estimationsShared = promauto.NewCounter(prometheus.CounterOpts{
		Name: "markov_estimations_shared_total",
		Help: "Estimation requests answered by an identical in-flight estimation",
	})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "markov_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
	}, []string{"method", "route"})
)
