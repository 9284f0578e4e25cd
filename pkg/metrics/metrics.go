package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the service metrics and the registry they are exposed from.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPActiveRequests  prometheus.Gauge

	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec

	StorageOperationsTotal   *prometheus.CounterVec
	StorageOperationDuration *prometheus.HistogramVec
}

func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c := &Collector{
		registry: registry,

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by route, method, and status",
			},
			[]string{"route", "method", "status"},
		),

		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"route"},
		),

		HTTPActiveRequests: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_active_requests",
				Help:      "Number of in-flight HTTP requests",
			},
		),

		UpstreamRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Total number of weather provider requests by outcome",
			},
			[]string{"provider", "outcome"},
		),

		UpstreamRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Weather provider request duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"provider"},
		),

		StorageOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "storage_operations_total",
				Help:      "Total number of object store operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),

		StorageOperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "storage_operation_duration_seconds",
				Help:      "Object store operation duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
		c.HTTPActiveRequests,
		c.UpstreamRequestsTotal,
		c.UpstreamRequestDuration,
		c.StorageOperationsTotal,
		c.StorageOperationDuration,
	)

	return c
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) RecordHTTPRequest(route, method, status string, duration time.Duration) {
	c.HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	c.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (c *Collector) RecordUpstreamRequest(provider string, err error, duration time.Duration) {
	c.UpstreamRequestsTotal.WithLabelValues(provider, outcome(err)).Inc()
	c.UpstreamRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (c *Collector) RecordStorageOperation(operation string, err error, duration time.Duration) {
	c.StorageOperationsTotal.WithLabelValues(operation, outcome(err)).Inc()
	c.StorageOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
