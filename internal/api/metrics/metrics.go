// Package metrics defines the custom Prometheus metrics of the forum API. It
// is the single source of truth for metric names, labels and help strings.
//
// All metrics are registered with the default Prometheus registry at package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "forum"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionsIssuedTotal counts successful logins.
var SessionsIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_issued_total",
		Help:      "Total number of access tokens issued by login.",
	},
)

// SessionValidationsTotal counts bearer token checks.
// Label:
//   - result: "ok", "unauthenticated", "expired", "unavailable"
var SessionValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_validations_total",
		Help:      "Total number of bearer token validations, by result.",
	},
	[]string{"result"},
)

// LogoutsTotal counts logout requests that reached the session cache.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of sessions invalidated by logout.",
	},
)

// ── Content metrics ───────────────────────────────────────────────────────────

// BoardsCreatedTotal counts created boards.
// Label:
//   - visibility: "public" or "private"
var BoardsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "boards_created_total",
		Help:      "Total number of boards created, by visibility.",
	},
	[]string{"visibility"},
)

// PostsCreatedTotal counts created posts.
var PostsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created.",
	},
)

// ListingDuration measures listing requests end to end.
// Label:
//   - resource: "boards" or "posts"
var ListingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "listing_duration_seconds",
		Help:      "Duration of paginated listing requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"resource"},
)

// ── Reconciler metrics ────────────────────────────────────────────────────────

// PostCountDriftTotal accumulates the absolute post_count drift corrected by
// the reconciler.
var PostCountDriftTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "post_count_drift_total",
		Help:      "Total absolute post_count drift corrected by reconciliation.",
	},
)

// ReconcileErrorsTotal counts boards whose reconciliation failed.
var ReconcileErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconcile_errors_total",
		Help:      "Total number of failed board reconciliations.",
	},
)

// ReconcileQueueDepth tracks pending board ids in each dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ReconcileQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "reconcile_queue_depth",
		Help:      "Current number of board ids pending in each reconcile worker channel.",
	},
	[]string{"worker_id"},
)
