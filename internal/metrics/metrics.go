package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ewaste",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ewaste",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	InventoryOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ewaste",
		Name:      "inventory_operations_total",
		Help:      "Inventory writes by operation and outcome.",
	}, []string{"operation", "outcome"})

	Products = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ewaste",
		Name:      "products",
		Help:      "Rows in the products table, sampled by the stats worker.",
	})

	SSEClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ewaste",
		Name:      "sse_clients",
		Help:      "Open live-update streams.",
	})
)

// ObserveOperation counts one inventory write.
func ObserveOperation(operation, outcome string) {
	InventoryOperations.WithLabelValues(operation, outcome).Inc()
}
