// Package metrics defines and registers all custom Prometheus metrics for
// the marketplace API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Listing metrics ───────────────────────────────────────────────────────────

// ListingsCreatedTotal counts listings submitted for moderation.
// Label:
//   - kind: "gallery" or "offer"
var ListingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_created_total",
		Help:      "Total number of listings submitted for moderation, by kind.",
	},
	[]string{"kind"},
)

// ListingsApprovedTotal counts admin approvals of listings.
var ListingsApprovedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_approved_total",
		Help:      "Total number of listings approved by an admin, by kind.",
	},
	[]string{"kind"},
)

// ModerationResetsTotal counts approved listings dropped back to pending by
// an owner edit.
var ModerationResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_resets_total",
		Help:      "Total number of approved listings reset to pending by an owner edit.",
	},
	[]string{"kind"},
)

// IDAllocationRetriesTotal counts public-id collisions that forced the
// allocator to increment and retry.
var IDAllocationRetriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "id_allocation_retries_total",
		Help:      "Total number of public id collisions retried during listing creation.",
	},
	[]string{"kind"},
)

// CatalogueCacheTotal counts approved-catalogue cache lookups.
// Label:
//   - result: "hit" or "miss"
var CatalogueCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalogue_cache_total",
		Help:      "Total number of approved-catalogue cache lookups, by result.",
	},
	[]string{"result"},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "not_found", "bad_password", "pending", "rejected"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// UsersModeratedTotal counts admin decisions on user accounts.
// Label:
//   - decision: "approved" or "rejected"
var UsersModeratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_moderated_total",
		Help:      "Total number of admin approval decisions on user accounts.",
	},
	[]string{"decision"},
)

// AuditQueueDepth tracks the number of moderation events waiting in each
// dispatcher worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of moderation events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
