// Package metrics exposes Prometheus metrics for the dashboard backend on a
// private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dashboard"

// Registry is the custom prometheus registry for the service
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// =============================================================================
// Upstream
// =============================================================================

// UpstreamRequestsTotal counts calls to the upstream API by endpoint and outcome.
var UpstreamRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "upstream",
	Name:      "requests_total",
	Help:      "Upstream API calls by endpoint and outcome",
}, []string{"endpoint", "outcome"})

// UpstreamRequestDuration observes upstream call latency.
var UpstreamRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "upstream",
	Name:      "request_duration_seconds",
	Help:      "Upstream API call latency",
	Buckets:   prometheus.DefBuckets,
}, []string{"endpoint"})

// CollectorPagesTotal counts call log pages fetched by the bulk collector.
var CollectorPagesTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "collector",
	Name:      "pages_total",
	Help:      "Call log pages fetched",
})

// CollectorRecordsTotal counts call log records collected.
var CollectorRecordsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "collector",
	Name:      "records_total",
	Help:      "Call log records collected",
})

// CollectorAbortsTotal counts collections stopped early by a page failure.
var CollectorAbortsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "collector",
	Name:      "aborts_total",
	Help:      "Collections aborted by a failed page fetch",
})

// LeadLookupsTotal counts lead detail lookups by outcome (found, missing, error).
var LeadLookupsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "enrich",
	Name:      "lead_lookups_total",
	Help:      "Lead detail lookups by outcome",
}, []string{"outcome"})

// =============================================================================
// Daily sync
// =============================================================================

// SyncRunsTotal counts daily sync runs by outcome.
var SyncRunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "sync",
	Name:      "runs_total",
	Help:      "Daily sync runs by outcome",
}, []string{"outcome"})

// SyncAgentsSkippedTotal counts agents whose upsert failed during sync.
var SyncAgentsSkippedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "sync",
	Name:      "agents_skipped_total",
	Help:      "Agents skipped because the agent upsert failed",
})

// SyncRowsInsertedTotal counts performance rows written.
var SyncRowsInsertedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "sync",
	Name:      "rows_inserted_total",
	Help:      "Performance log rows inserted",
})

// SyncChunkFailuresTotal counts performance log chunks that failed to insert.
var SyncChunkFailuresTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "sync",
	Name:      "chunk_failures_total",
	Help:      "Performance log chunks that failed to insert",
})

// SyncLastSuccess is the unix time of the last successful sync run.
var SyncLastSuccess = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "sync",
	Name:      "last_success_timestamp_seconds",
	Help:      "Unix time of the last successful sync run",
})

// =============================================================================
// HTTP & WebSocket
// =============================================================================

// HTTPRequestsTotal counts served requests by route and status.
var HTTPRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "HTTP requests by route and status",
}, []string{"route", "status"})

// HTTPRequestDuration observes request latency by route.
var HTTPRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by route",
	Buckets:   prometheus.DefBuckets,
}, []string{"route"})

// WebSocketConnections is the number of open dashboard sockets.
var WebSocketConnections = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "websocket",
	Name:      "active_connections",
	Help:      "Open websocket connections",
})

// WebSocketMessagesTotal counts messages sent to dashboards.
var WebSocketMessagesTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "websocket",
	Name:      "messages_total",
	Help:      "Messages sent to websocket clients",
})

// RecordUpstreamCall records one upstream call
func RecordUpstreamCall(endpoint string, err error, duration time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(route string, statusCode int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// Handler returns an HTTP handler for the /metrics endpoint
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
