package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Veraticus/momo-ledger/internal/metrics"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "momo"

// Collector implements metrics.Collector for Prometheus.
type Collector struct {
	registry *prometheus.Registry

	messages    *prometheus.CounterVec
	castErrors  *prometheus.CounterVec
	sinkWrites  *prometheus.CounterVec
	runs        *prometheus.CounterVec
	requests    *prometheus.CounterVec
	sinkLatency prometheus.Histogram
	runLatency  prometheus.Histogram
	reqLatency  *prometheus.HistogramVec
}

// NewCollector creates a collector registered on a fresh registry.
func NewCollector(namespace string) (*Collector, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_total",
				Help:      "Messages processed per category and outcome",
			},
			[]string{"category", "outcome"},
		),
		castErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cast_errors_total",
				Help:      "Captured values that failed to convert, per field",
			},
			[]string{"field"},
		),
		sinkWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_writes_total",
				Help:      "Record inserts by status",
			},
			[]string{"status"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingest_runs_total",
				Help:      "Ingest runs by final status",
			},
			[]string{"status"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Reporting API requests by route and status code",
			},
			[]string{"route", "code"},
		),
		sinkLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_write_duration_seconds",
				Help:      "Record insert latency",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 15), // 0.1ms to ~3s
			},
		),
		runLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ingest_run_duration_seconds",
				Help:      "Wall time of an ingest run",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 15),
			},
		),
		reqLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Reporting API latency per route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	if err := c.register(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Collector) register() error {
	collectors := []prometheus.Collector{
		c.messages,
		c.castErrors,
		c.sinkWrites,
		c.runs,
		c.requests,
		c.sinkLatency,
		c.runLatency,
		c.reqLatency,
	}
	for _, collector := range collectors {
		if err := c.registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// Registry exposes the registry for HTTP handlers and textfile output.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes the current values in the node_exporter textfile format.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

// RecordMessage records the outcome of one message.
func (c *Collector) RecordMessage(category string, outcome metrics.Outcome) {
	c.messages.WithLabelValues(category, outcome.String()).Inc()
}

// RecordCastError records a failed conversion.
func (c *Collector) RecordCastError(target string) {
	c.castErrors.WithLabelValues(target).Inc()
}

// RecordSinkWrite records a store insert.
func (c *Collector) RecordSinkWrite(success bool, duration time.Duration) {
	status := "ok"
	if !success {
		status = "error"
	}
	c.sinkWrites.WithLabelValues(status).Inc()
	c.sinkLatency.Observe(duration.Seconds())
}

// RecordRun records a finished run.
func (c *Collector) RecordRun(status string, duration time.Duration) {
	c.runs.WithLabelValues(status).Inc()
	c.runLatency.Observe(duration.Seconds())
}

// RecordRequest records one API request.
func (c *Collector) RecordRequest(route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	c.reqLatency.WithLabelValues(route).Observe(duration.Seconds())
}

var _ metrics.Collector = (*Collector)(nil)
