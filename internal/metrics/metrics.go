// Package metrics holds the Prometheus collectors of the dictionary service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by the resolution and source metrics.
const (
	OutcomeFound       = "found"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
	OutcomeSkipped     = "skipped"
)

// Metrics contains the collectors for the resolution pipeline, the external
// source client and the HTTP layer. All methods are safe on a nil receiver
// so components can run without metrics.
type Metrics struct {
	stageTotal          *prometheus.CounterVec
	sourceFetchTotal    *prometheus.CounterVec
	sourceFetchDuration *prometheus.HistogramVec
	sourceFailures      prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on registry.
func New(registry prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		stageTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resolution_stage_total",
				Help: "Outcomes of resolution pipeline stages",
			},
			[]string{"stage", "outcome"},
		),
		sourceFetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "source_fetch_total",
				Help: "Requests to the external dictionary source and the search endpoint",
			},
			[]string{"operation", "result"},
		),
		sourceFetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "source_fetch_duration_seconds",
				Help:    "Latency of requests to the external dictionary source",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 8),
			},
			[]string{"operation"},
		),
		sourceFailures: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "source_consecutive_failures",
			Help: "Consecutive transport-level failures against the external source",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.stageTotal.Describe(ch)
	m.sourceFetchTotal.Describe(ch)
	m.sourceFetchDuration.Describe(ch)
	m.sourceFailures.Describe(ch)
	m.httpRequestsTotal.Describe(ch)
	m.httpRequestDuration.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.stageTotal.Collect(ch)
	m.sourceFetchTotal.Collect(ch)
	m.sourceFetchDuration.Collect(ch)
	m.sourceFailures.Collect(ch)
	m.httpRequestsTotal.Collect(ch)
	m.httpRequestDuration.Collect(ch)
}

// RecordStage counts one pipeline stage outcome.
func (m *Metrics) RecordStage(stage, outcome string) {
	if m == nil {
		return
	}
	m.stageTotal.WithLabelValues(stage, outcome).Inc()
}

// RecordFetch counts one outbound request and its latency.
func (m *Metrics) RecordFetch(operation, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.sourceFetchTotal.WithLabelValues(operation, result).Inc()
	m.sourceFetchDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// SetConsecutiveFailures publishes the current failure streak.
func (m *Metrics) SetConsecutiveFailures(n int) {
	if m == nil {
		return
	}
	m.sourceFailures.Set(float64(n))
}

// RecordHTTPRequest counts one served request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
