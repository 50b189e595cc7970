// metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and route
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventhub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	// RateLimiterRejections counts requests rejected by the rate limiter
	RateLimiterRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_rate_limiter_rejections_total",
			Help: "Total number of requests rejected by rate limiter",
		},
		[]string{"limiter"},
	)

	Registrations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventhub_workshop_registrations_total",
			Help: "Workshop registrations created",
		},
	)

	GroupJoins = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventhub_group_joins_total",
			Help: "Group memberships created",
		},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_task_submissions_total",
			Help: "Task submission attempts by outcome",
		},
		[]string{"outcome"},
	)

	// LiveViews tracks mounted websocket detail views
	LiveViews = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eventhub_live_views",
			Help: "Number of live detail views currently mounted",
		},
	)

	ChangeNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_change_notifications_total",
			Help: "Change notifications published by table",
		},
		[]string{"table"},
	)

	PendingGates = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eventhub_pending_gates",
			Help: "Browser clients with a held protected action",
		},
	)
)
