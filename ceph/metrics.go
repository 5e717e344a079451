package ceph

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cephmod/cephmod/api/types"
)

var (
	commandDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cephmod",
		Name:      "command_duration_seconds",
		Help:      "Duration of external calls made by module steps.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"module", "action"})

	invocationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cephmod",
		Name:      "invocations_total",
		Help:      "Module invocations by outcome.",
	}, []string{"module", "outcome"})
)

func init() {
	prometheus.MustRegister(commandDuration, invocationsTotal)
}

func observeCommand(module string, action string, out types.CommandOutput) {
	if out.Start.IsZero() {
		return
	}
	commandDuration.WithLabelValues(module, action).Observe(out.Duration().Seconds())
}
