// Package metrics provides Prometheus metrics for the webdesk server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Terminal metrics
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webdesk_commands_total",
			Help: "Terminal commands executed, by command and outcome",
		},
		[]string{"command", "outcome"},
	)

	completionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webdesk_completions_total",
			Help: "Tab completions requested, by result",
		},
		[]string{"result"},
	)

	// Window manager metrics
	wmActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webdesk_wm_actions_total",
			Help: "Window manager actions dispatched, by action",
		},
		[]string{"action"},
	)

	windowsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "webdesk_windows_open",
			Help: "Windows currently open across all desktops",
		},
	)

	desktopsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "webdesk_desktops_active",
			Help: "Desktops currently held by the hub",
		},
	)

	// Filesystem metrics
	manifestLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webdesk_manifest_loads_total",
			Help: "Manifest loads, by source and status",
		},
		[]string{"source", "status"},
	)

	manifestLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webdesk_manifest_load_duration_seconds",
			Help:    "Time to fetch and parse the filesystem manifest",
			Buckets: prometheus.DefBuckets,
		},
	)

	manifestNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "webdesk_manifest_nodes",
			Help: "Number of nodes in the current filesystem tree",
		},
	)

	// Key-value store metrics
	kvOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webdesk_kv_operations_total",
			Help: "Key-value snapshot operations, by operation and status",
		},
		[]string{"operation", "status"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordCommand records one executed terminal command.
func RecordCommand(command, outcome string) {
	commandsTotal.WithLabelValues(command, outcome).Inc()
}

// RecordCompletion records a tab completion; result is none, unique or ambiguous.
func RecordCompletion(result string) {
	completionsTotal.WithLabelValues(result).Inc()
}

// RecordWMAction records a dispatched window manager action.
func RecordWMAction(action string) {
	wmActionsTotal.WithLabelValues(action).Inc()
}

// AddWindows adjusts the open window gauge by delta.
func AddWindows(delta int) {
	windowsOpen.Add(float64(delta))
}

// SetActiveDesktops sets the active desktop gauge.
func SetActiveDesktops(n int) {
	desktopsActive.Set(float64(n))
}

// RecordManifestLoad records a manifest load attempt.
func RecordManifestLoad(source string, duration time.Duration, success bool) {
	manifestLoadsTotal.WithLabelValues(source, status(success)).Inc()
	manifestLoadDuration.Observe(duration.Seconds())
}

// SetManifestNodes sets the node count gauge.
func SetManifestNodes(n int) {
	manifestNodes.Set(float64(n))
}

// RecordKVOperation records a key-value store operation.
func RecordKVOperation(operation string, success bool) {
	kvOpsTotal.WithLabelValues(operation, status(success)).Inc()
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
