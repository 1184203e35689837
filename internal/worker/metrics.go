package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FulfillmentOutcomes counts terminal task states.
	FulfillmentOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flashsale_fulfillment_outcomes_total",
		Help: "Number of fulfillment tasks by terminal state",
	}, []string{"outcome"})

	// QueueDepth tracks the in-process fulfillment queue length.
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "flashsale_fulfillment_queue_depth",
		Help: "Number of tasks waiting in the fulfillment queue",
	})
)
