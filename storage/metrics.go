package storage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	OperationsTotal  *prometheus.CounterVec   // Количество операций с контейнером
	OperationLatency *prometheus.HistogramVec // Латентность операций с контейнером
}

func NewMetrics() *Metrics {
	return &Metrics{
		OperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s3bridge_storage_operations_total",
				Help: "Total number of operations issued against the blob container",
			},
			[]string{"operation", "result"}, // list/presign_put/presign_get/delete, success/failure
		),
		OperationLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "s3bridge_storage_operation_latency_seconds",
				Help:    "Latency of blob container operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// Метрики регистрируются один раз на процесс
var metrics = NewMetrics()

func observe(operation string, seconds float64, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.OperationsTotal.WithLabelValues(operation, result).Inc()
	metrics.OperationLatency.WithLabelValues(operation).Observe(seconds)
}
