package proxy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	BackendRequestsTotal *prometheus.CounterVec   // Количество запросов к бэкенду
	BackendLatency       *prometheus.HistogramVec // Латентность запросов к бэкенду
}

func NewMetrics() *Metrics {
	return &Metrics{
		BackendRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s3bridge_backend_requests_total",
				Help: "Total number of requests forwarded to the backend",
			},
			[]string{"method", "result"}, // json/raw/error
		),
		BackendLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "s3bridge_backend_latency_seconds",
				Help:    "Latency of backend requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
}

var metrics = NewMetrics()
