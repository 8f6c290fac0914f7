package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "puser-service/pkg/errors"
)

// Result label values for list calls.
const (
	ResultOK           = "ok"
	ResultStorageError = "storage_error"
	ResultMappingError = "mapping_error"
	ResultError        = "error"
)

var defaultBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Metrics holds the Prometheus collectors of the service.
// Each instance owns its registry so tests can create as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	ListUsersTotal      *prometheus.CounterVec
	ListUsersDuration   prometheus.Histogram
	ListUsersRows       prometheus.Histogram
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates and registers all collectors. serviceName becomes the
// service const label.
func New(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ListUsersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "puser_list_users_total",
				Help:        "Total number of user listing calls by result",
				ConstLabels: labels,
			},
			[]string{"result"},
		),
		ListUsersDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:        "puser_list_users_duration_seconds",
				Help:        "Latency of user listing calls including the storage round trip",
				ConstLabels: labels,
				Buckets:     defaultBuckets,
			},
		),
		ListUsersRows: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:        "puser_list_users_rows",
				Help:        "Number of users returned by successful listing calls",
				ConstLabels: labels,
				Buckets:     prometheus.ExponentialBuckets(1, 4, 10),
			},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests",
				ConstLabels: labels,
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "Histogram of HTTP request latency",
				ConstLabels: labels,
				Buckets:     defaultBuckets,
			},
			[]string{"method", "path"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ListUsersTotal,
		m.ListUsersDuration,
		m.ListUsersRows,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}

// ObserveList records the outcome of one listing call.
func (m *Metrics) ObserveList(result string, rows int, elapsed time.Duration) {
	m.ListUsersTotal.WithLabelValues(result).Inc()
	m.ListUsersDuration.Observe(elapsed.Seconds())
	if result == ResultOK {
		m.ListUsersRows.Observe(float64(rows))
	}
}

// ObserveHTTP records one served HTTP request.
func (m *Metrics) ObserveHTTP(method, path, status string, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ResultFor classifies err into a result label.
func ResultFor(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case apperrors.IsStorageError(err):
		return ResultStorageError
	case apperrors.IsMappingError(err):
		return ResultMappingError
	default:
		return ResultError
	}
}
