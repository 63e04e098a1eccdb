// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation results.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "groupusers_http_requests_total",
			Help: "Total number of HTTP requests by route and status code.",
		},
		[]string{"method", "route", "code"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "groupusers_http_request_duration_seconds",
			Help:    "Latency of HTTP request handling in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	groupOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "groupusers_group_operations_total",
			Help: "Total number of group operations by operation and result.",
		},
		[]string{"operation", "result"},
	)

	// Registry holds every collector above. It is separate from the default
	// registry so tests can gather it without global Go runtime metrics.
	Registry = prometheus.NewRegistry()
)

func init() {
	Registry.MustRegister(Collectors()...)
}

// Collectors returns all metric collectors defined by this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		httpRequestsTotal,
		httpRequestDuration,
		groupOperationsTotal,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one completed HTTP request.
func ObserveHTTPRequest(method, route string, code int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveGroupOperation records the outcome of a group operation.
func ObserveGroupOperation(operation, result string) {
	groupOperationsTotal.WithLabelValues(operation, result).Inc()
}
