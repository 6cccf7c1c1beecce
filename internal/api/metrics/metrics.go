// Package metrics defines and registers all custom Prometheus metrics for
// the pharmacy client. It is the single source of truth for metric names,
// labels, and help strings.
//
// Registration happens via promauto at package load; callers only record.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "farmacia"

// RequestsTotal counts outgoing API requests.
// Labels:
//   - method: HTTP method
//   - status: numeric response status, or "transport_error" when the call
//     never produced a response. Paths are deliberately not a label; the
//     API uses numeric path parameters and the cardinality would be unbounded.
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of outgoing API requests, by method and status.",
	},
	[]string{"method", "status"},
)

// RequestDuration measures outgoing request latency end-to-end.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of outgoing API requests from dispatch to response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// TrackingPollsTotal counts polling iterations of the order tracking task.
// Label:
//   - result: "update", "error", or "delivered" (terminal poll)
var TrackingPollsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracking_polls_total",
		Help:      "Total number of order tracking polls, by result.",
	},
	[]string{"result"},
)

// SessionResolutionsTotal counts profile resolutions by outcome.
// Label:
//   - result: "resolved", "stale" (discarded by sequence check), or "failed"
var SessionResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_resolutions_total",
		Help:      "Total number of profile resolutions, by outcome.",
	},
	[]string{"result"},
)
