package action

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ActionsTotal  *prometheus.CounterVec   // Количество обработанных дескрипторов
	BatchesTotal  *prometheus.CounterVec   // Количество обработанных списков Send
	BatchSize     prometheus.Histogram     // Размер списка Send
	ActionLatency *prometheus.HistogramVec // Латентность выполнения действий
}

func NewMetrics() *Metrics {
	return &Metrics{
		ActionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s3bridge_actions_total",
				Help: "Total number of Send descriptors processed",
			},
			[]string{"service", "action", "result"}, // s3/other, listObjects/..., success/failure/passthrough
		),
		BatchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s3bridge_action_batches_total",
				Help: "Total number of Send lists processed",
			},
			[]string{"result"},
		),
		BatchSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "s3bridge_action_batch_size",
				Help:    "Number of descriptors in a Send list",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		ActionLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "s3bridge_action_latency_seconds",
				Help:    "Latency of storage actions in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action"},
		),
	}
}

var metrics = NewMetrics()
