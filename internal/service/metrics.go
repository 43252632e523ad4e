package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hivewatch_poll_cycles_total",
		Help: "Upstream poll cycles by outcome.",
	}, []string{"status"})

	classifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hivewatch_classifications_total",
		Help: "Metric classifications by metric and severity.",
	}, []string{"metric", "severity"})
)
