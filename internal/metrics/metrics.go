// Package metrics provides Prometheus metrics for the rosterd service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rosterd"

// Metrics holds all Prometheus collectors for the service. Each instance
// carries its own registry so tests can construct metrics independently
// without duplicate registration errors.
type Metrics struct {
	registry *prometheus.Registry

	// Sync Metrics - What really matters for a roster mirror
	syncRuns       prometheus.Counter
	syncFailures   prometheus.Counter
	syncDuration   prometheus.Histogram
	lastSyncUnix   prometheus.Gauge
	rowsFetched    prometheus.Counter
	rowsSkipped    prometheus.Counter
	membersAdded   prometheus.Counter
	membersUpdated prometheus.Counter

	// Operational Health Metrics
	rosterSize prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New creates a Metrics instance backed by a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	m := &Metrics{registry: reg}

	// Sync Metrics - Focus on what drives roster freshness
	m.syncRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "runs_total",
		Help:      "Total number of sync runs attempted",
	})

	m.syncFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "failures_total",
		Help:      "Total number of sync runs that failed before producing a roster",
	})

	m.syncDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "duration_seconds",
		Help:      "Histogram of full sync cycle duration in seconds",
		Buckets:   prometheus.DefBuckets,
	})

	m.lastSyncUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last successful sync (staleness indicator)",
	})

	m.rowsFetched = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "rows_fetched_total",
		Help:      "Total number of sheet rows fetched across all syncs",
	})

	m.rowsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "rows_skipped_total",
		Help:      "Total number of sheet rows skipped for missing required fields",
	})

	m.membersAdded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "members_added_total",
		Help:      "Total number of members added to the backend",
	})

	m.membersUpdated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "members_updated_total",
		Help:      "Total number of members updated in the backend",
	})

	// Operational Health Metrics - System state indicators
	m.rosterSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "roster_members",
		Help:      "Current number of members in the roster cache",
	})

	// HTTP Performance Metrics - API experience indicators
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route, method, and status",
		},
		[]string{"route", "method", "status"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds by route and method",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	return m
}

// Handler returns an http.Handler serving the metrics in Prometheus
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for additional collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordSyncStart increments the sync run counter.
func (m *Metrics) RecordSyncStart() {
	m.syncRuns.Inc()
}

// RecordSyncFailure increments the failure counter.
func (m *Metrics) RecordSyncFailure() {
	m.syncFailures.Inc()
}

// RecordSyncSuccess observes the cycle duration and stamps the last
// successful sync time.
func (m *Metrics) RecordSyncSuccess(duration time.Duration) {
	m.syncDuration.Observe(duration.Seconds())
	m.lastSyncUnix.SetToCurrentTime()
}

// RecordRows adds the fetched and skipped row counts from one sync.
func (m *Metrics) RecordRows(fetched, skipped int) {
	m.rowsFetched.Add(float64(fetched))
	m.rowsSkipped.Add(float64(skipped))
}

// RecordWrites adds the member add and update counts from one sync.
func (m *Metrics) RecordWrites(added, updated int) {
	m.membersAdded.Add(float64(added))
	m.membersUpdated.Add(float64(updated))
}

// SetRosterSize records the current roster cache size.
func (m *Metrics) SetRosterSize(n int) {
	m.rosterSize.Set(float64(n))
}

// RecordHTTPRequest counts one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(route, method, status string) {
	m.httpRequests.WithLabelValues(route, method, status).Inc()
}

// RecordHTTPRequestDuration observes one request's duration in seconds.
func (m *Metrics) RecordHTTPRequestDuration(route, method string, duration time.Duration) {
	m.httpRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}
