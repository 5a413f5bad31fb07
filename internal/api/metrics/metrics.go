// Package metrics defines and registers all custom Prometheus metrics for
// the review API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry via promauto
// at package load; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "reviewapi"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignupsTotal counts signup outcomes.
// Label:
//   - result: "ok" (created or idempotent replay) or "rejected"
//     (validation failure)
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup requests, by outcome.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts successful confirmation-code exchanges.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued.",
	},
)

// ── Content metrics ───────────────────────────────────────────────────────────

// ReviewsCreatedTotal counts newly created reviews.
var ReviewsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_created_total",
		Help:      "Total number of reviews created.",
	},
)

// CommentsCreatedTotal counts newly created comments.
var CommentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_created_total",
		Help:      "Total number of comments created.",
	},
)

// PermissionDenialsTotal counts requests rejected by the permission
// evaluator.
// Label:
//   - method: the HTTP method of the denied request
var PermissionDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_denials_total",
		Help:      "Total number of requests denied by access control.",
	},
	[]string{"method"},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// MailDeliveriesTotal counts asynchronous mail deliveries.
// Label:
//   - result: "ok" or "error"
var MailDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_deliveries_total",
		Help:      "Total number of asynchronous mail deliveries, by result.",
	},
	[]string{"result"},
)

// MailQueueDepth tracks the current number of messages waiting in each mail
// worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of messages pending in each mail worker channel.",
	},
	[]string{"worker_id"},
)
