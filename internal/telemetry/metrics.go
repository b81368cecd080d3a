package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	BookingsTotal *prometheus.CounterVec
	BatchDuration *prometheus.HistogramVec
	RequestsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		BookingsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retoure_bookings_total",
				Help: "Total number of return label bookings by store and outcome",
			},
			[]string{"store", "outcome"},
		),
		BatchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "retoure_batch_duration_seconds",
				Help:    "Label batch processing duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retoure_http_requests_total",
				Help: "Total HTTP requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),
	}
}

// RecordBooking records the outcome of one label booking.
func (m *Metrics) RecordBooking(store, outcome string) {
	m.BookingsTotal.WithLabelValues(store, outcome).Inc()
}

// RecordBatch records the duration of one batch request.
func (m *Metrics) RecordBatch(endpoint string, seconds float64) {
	m.BatchDuration.WithLabelValues(endpoint).Observe(seconds)
}

// RecordRequest records one handled HTTP request.
func (m *Metrics) RecordRequest(endpoint, status string) {
	m.RequestsTotal.WithLabelValues(endpoint, status).Inc()
}
