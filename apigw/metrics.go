package apigw

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Общие метрики запросов
	RequestsTotal  *prometheus.CounterVec   // Общее количество обработанных запросов
	RequestLatency *prometheus.HistogramVec // Латентность запросов
	RequestBytes   prometheus.Histogram     // Размер тела входящих запросов
}

func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s3bridge_apigw_requests_total",
				Help: "Total number of processed requests",
			},
			[]string{"method", "code"},
		),
		RequestLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "s3bridge_apigw_request_latency_seconds",
				Help:    "Latency of requests in seconds",
				Buckets: prometheus.DefBuckets, // Стандартные бакеты времени
			},
			[]string{"method"},
		),
		RequestBytes: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "s3bridge_apigw_request_body_bytes",
				Help:    "Size of inbound request bodies in bytes",
				Buckets: prometheus.ExponentialBuckets(64, 4, 10),
			},
		),
	}
}

// Метрики регистрируются в default registry один раз на процесс
var defaultMetrics = NewMetrics()
