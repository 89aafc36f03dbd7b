// Package metrics defines and registers the custom Prometheus metrics of the
// users API. It is the single source of truth for metric names, labels and
// help strings. Metrics are registered with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric of the service. The HTTP request metrics
// are produced by echoprometheus under the same prefix.
const Namespace = "users_api"

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditWritesTotal counts request log write attempts.
// Label:
//   - result: "recorded", "invalid" (row failed validation) or "failed" (storage error)
var AuditWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "audit_writes_total",
		Help:      "Total number of request log writes, by result.",
	},
	[]string{"result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts authentication operations.
// Labels:
//   - operation: "signup", "login", "refresh" or "bearer"
//   - result:    "success", "rejected" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication operations, by outcome.",
	},
	[]string{"operation", "result"},
)
