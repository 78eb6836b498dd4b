// Package metrics holds the Prometheus collectors shared by both binaries.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	RPCRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpc_requests_total",
			Help: "Total number of RPC requests by pattern and outcome",
		},
		[]string{"service", "pattern", "status"},
	)

	RPCRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rpc_request_duration_seconds",
			Help:    "RPC round trip or handling time in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "pattern"},
	)

	TripsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trips_total",
			Help: "Total number of trip lifecycle transitions",
		},
		[]string{"event"},
	)

	InvoicesIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "invoices_issued_total",
			Help: "Total number of invoices issued",
		},
	)

	InvoiceAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "invoice_total_amount",
			Help:    "Distribution of invoice totals",
			Buckets: []float64{5, 10, 20, 50, 100, 200, 500},
		},
	)
)

// Trip lifecycle events.
const (
	TripCreated   = "created"
	TripCompleted = "completed"
)

// RecordHTTPMetrics records HTTP request metrics.
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HTTPRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(service, method, path, status).Observe(duration.Seconds())
}

// RecordRPC records the outcome of one RPC request. status is an HTTP-style
// status code, 0 meaning transport failure.
func RecordRPC(service, pattern string, statusCode int, duration time.Duration) {
	status := "transport_error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	RPCRequestsTotal.WithLabelValues(service, pattern, status).Inc()
	RPCRequestDuration.WithLabelValues(service, pattern).Observe(duration.Seconds())
}

// RecordTrip counts a trip lifecycle event.
func RecordTrip(event string) {
	TripsTotal.WithLabelValues(event).Inc()
}

// RecordInvoice counts an issued invoice and observes its total.
func RecordInvoice(total float64) {
	InvoicesIssuedTotal.Inc()
	InvoiceAmount.Observe(total)
}
