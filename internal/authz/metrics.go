// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package authz

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for authorization decisions, caching, and auditing.
var (
	// AuthzDecisionsTotal counts authorization decisions by outcome.
	AuthzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"role", "resource_pattern", "action", "decision"},
	)

	// AuthzDecisionDuration tracks enforcement latency.
	AuthzDecisionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "authz_decision_duration_seconds",
			Help:    "Authorization decision latency in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"role"},
	)

	// AuthzDeniedTotal counts denied authorization requests.
	AuthzDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_denied_total",
			Help: "Total number of denied authorization requests",
		},
		[]string{"role", "resource_pattern", "action"},
	)

	// AuthzCacheHitsTotal counts enforcement cache hits.
	AuthzCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_cache_hits_total",
			Help: "Total number of authorization cache hits",
		},
	)

	// AuthzCacheMissesTotal counts enforcement cache misses.
	AuthzCacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_cache_misses_total",
			Help: "Total number of authorization cache misses",
		},
	)

	// AuthzCacheSize tracks the number of cached decisions.
	AuthzCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "authz_cache_entries",
			Help: "Current number of cached authorization decisions",
		},
	)

	// AuthzCacheEvictionsTotal counts expired cache entries removed.
	AuthzCacheEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_cache_evictions_total",
			Help: "Total number of authorization cache evictions",
		},
	)

	// AuthzCacheInvalidationsTotal counts explicitly invalidated entries.
	AuthzCacheInvalidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_cache_invalidations_total",
			Help: "Total number of authorization cache invalidations",
		},
	)

	// AuthzPolicyRulesTotal tracks the number of loaded policy rules.
	AuthzPolicyRulesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "authz_policy_rules_total",
			Help: "Current number of loaded policy rules",
		},
	)

	// AuthzGroupingRulesTotal tracks the number of role inheritance rules.
	AuthzGroupingRulesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "authz_grouping_rules_total",
			Help: "Current number of loaded role inheritance rules",
		},
	)

	// AuthzErrorsTotal counts authorization errors by type.
	AuthzErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_errors_total",
			Help: "Total number of authorization errors",
		},
		[]string{"error_type"},
	)

	// AuthzAuditEventsTotal counts audit events written.
	AuthzAuditEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_audit_events_total",
			Help: "Total number of authorization audit events written",
		},
		[]string{"decision"},
	)

	// AuthzAuditDroppedTotal counts audit events dropped due to backpressure.
	AuthzAuditDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_audit_dropped_total",
			Help: "Total number of authorization audit events dropped",
		},
	)
)

// RecordAuthzDecision records an authorization decision with its latency.
func RecordAuthzDecision(role, resource, action string, allowed bool, duration time.Duration) {
	pattern := normalizeResourcePattern(resource)

	decision := "denied"
	if allowed {
		decision = "allowed"
	}

	AuthzDecisionsTotal.WithLabelValues(role, pattern, action, decision).Inc()
	AuthzDecisionDuration.WithLabelValues(role).Observe(duration.Seconds())

	if !allowed {
		AuthzDeniedTotal.WithLabelValues(role, pattern, action).Inc()
	}
}

// RecordAuthzCacheHit records an enforcement cache hit.
func RecordAuthzCacheHit() {
	AuthzCacheHitsTotal.Inc()
}

// RecordAuthzCacheMiss records an enforcement cache miss.
func RecordAuthzCacheMiss() {
	AuthzCacheMissesTotal.Inc()
}

// RecordAuthzCacheEviction records an expired cache entry removal.
func RecordAuthzCacheEviction() {
	AuthzCacheEvictionsTotal.Inc()
}

// RecordAuthzCacheInvalidations records explicitly invalidated entries.
func RecordAuthzCacheInvalidations(n int) {
	AuthzCacheInvalidationsTotal.Add(float64(n))
}

// UpdateAuthzCacheSize updates the cache size gauge.
func UpdateAuthzCacheSize(n int) {
	AuthzCacheSize.Set(float64(n))
}

// UpdatePolicyStats updates the policy rule gauges.
func UpdatePolicyStats(policyRules, groupingRules int) {
	AuthzPolicyRulesTotal.Set(float64(policyRules))
	AuthzGroupingRulesTotal.Set(float64(groupingRules))
}

// RecordAuthzError records an authorization error by type.
func RecordAuthzError(errorType string) {
	AuthzErrorsTotal.WithLabelValues(errorType).Inc()
}

// RecordAuditEvent records an audit event write.
func RecordAuditEvent(allowed bool) {
	decision := DecisionDenied
	if allowed {
		decision = DecisionAllowed
	}
	AuthzAuditEventsTotal.WithLabelValues(decision).Inc()
}

// RecordAuditDropped records a dropped audit event.
func RecordAuditDropped() {
	AuthzAuditDroppedTotal.Inc()
}

// normalizeResourcePattern replaces identifier path segments with '*'
// to bound metric label cardinality.
func normalizeResourcePattern(resource string) string {
	segments := strings.Split(resource, "/")
	for i, seg := range segments {
		if isNumericSegment(seg) || isUUIDSegment(seg) {
			segments[i] = "*"
		}
	}
	return strings.Join(segments, "/")
}

// isNumericSegment reports whether a path segment is all digits.
func isNumericSegment(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isUUIDSegment reports whether a path segment looks like a UUID.
func isUUIDSegment(s string) bool {
	if len(s) != 36 {
		return false
	}
	for i, r := range s {
		switch i {
		case 8, 13, 18, 23:
			if r != '-' {
				return false
			}
		default:
			isHex := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
			if !isHex {
				return false
			}
		}
	}
	return true
}
