package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "brokeradmin"

// Collector keeps management API metrics on a private Prometheus registry so
// a single CLI run can be flushed to a node-exporter textfile.
type Collector struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	transportErrors *prometheus.CounterVec
	shovelsCreated  *prometheus.CounterVec
	shovelsDeleted  *prometheus.CounterVec
	lastRun         prometheus.Gauge
}

// NewCollector creates a collector with all metrics registered.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Management API requests by method, route and status code",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Management API request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		transportErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_transport_errors_total",
			Help:      "Management API requests that got no HTTP response",
		}, []string{"method", "route"}),
		shovelsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shovels_created_total",
			Help:      "Shovel create calls by outcome",
		}, []string{"result"}),
		shovelsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shovels_deleted_total",
			Help:      "Shovel delete calls by outcome",
		}, []string{"result"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last flush",
		}),
	}

	c.registry.MustRegister(
		c.requests,
		c.requestDuration,
		c.transportErrors,
		c.shovelsCreated,
		c.shovelsDeleted,
		c.lastRun,
	)
	return c
}

// Registry exposes the underlying registry, e.g. for promhttp.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Collector) RecordRequest(method, route string, statusCode int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) RecordTransportError(method, route string) {
	if c == nil {
		return
	}
	c.transportErrors.WithLabelValues(method, route).Inc()
}

func (c *Collector) RecordShovelCreated(ok bool) {
	if c == nil {
		return
	}
	c.shovelsCreated.WithLabelValues(result(ok)).Inc()
}

func (c *Collector) RecordShovelDeleted(ok bool) {
	if c == nil {
		return
	}
	c.shovelsDeleted.WithLabelValues(result(ok)).Inc()
}

func (c *Collector) IsEnabled() bool {
	return c != nil
}

// WriteTextfile stamps the run time and writes every metric to path in the
// text exposition format. The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil || path == "" {
		return nil
	}
	c.lastRun.Set(float64(time.Now().Unix()))
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
