package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DALOperations counts data access layer calls by operation and outcome.
	DALOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_dal_operations_total",
			Help: "Total number of data access layer operations",
		},
		[]string{"operation", "status"},
	)

	// DALDuration observes data access layer call latency, including simulated latency.
	DALDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_dal_operation_duration_seconds",
			Help:    "Data access layer operation duration",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)

	// Designers is the number of designers held by the data access layer.
	Designers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_designers",
		Help: "Number of designers",
	})

	// Objects is the number of scene objects held by the data access layer.
	Objects = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_objects",
		Help: "Number of scene objects",
	})

	// HTTPRequests counts HTTP requests.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPDuration observes HTTP request latency.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "path"},
	)

	// DragCommits counts drag commits by outcome.
	DragCommits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_drag_commits_total",
			Help: "Total number of drag position commits",
		},
		[]string{"status"},
	)

	// ResponseCache counts cached GET lookups by result (hit, miss).
	ResponseCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_response_cache_total",
			Help: "Cached GET responses served or missed",
		},
		[]string{"result"},
	)

	// LiveConnections is the number of open websocket connections.
	LiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_live_connections",
		Help: "Number of active websocket connections",
	})
)
