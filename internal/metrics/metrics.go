package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	OrderAssignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_assignments_total",
			Help: "Order assignment attempts by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	WalletDebitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_debits_total",
			Help: "Total successful wallet debits",
		},
	)
)
