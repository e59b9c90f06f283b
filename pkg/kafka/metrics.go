package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Producer metrics, labelled by topic. Async writes report failures through
// the writer's completion callback, so publishErrors covers both modes.
var (
	messagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "widget",
			Subsystem: "kafka",
			Name:      "messages_published_total",
			Help:      "Messages handed to the Kafka writer",
		},
		[]string{"topic"},
	)

	publishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "widget",
			Subsystem: "kafka",
			Name:      "publish_errors_total",
			Help:      "Messages the Kafka writer failed to deliver",
		},
		[]string{"topic"},
	)

	publishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "widget",
			Subsystem: "kafka",
			Name:      "publish_duration_seconds",
			Help:      "Time spent in WriteMessages",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"topic"},
	)
)
