// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package authz

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// getCounterValue extracts the value from a Prometheus counter
func getCounterValue(counter prometheus.Counter) float64 {
	var m io_prometheus_client.Metric
	if err := counter.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// getGaugeValue extracts the value from a Prometheus gauge
func getGaugeValue(gauge prometheus.Gauge) float64 {
	var m io_prometheus_client.Metric
	if err := gauge.Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}

func TestRecordAuthzDecision(t *testing.T) {
	t.Run("records allowed decision", func(t *testing.T) {
		RecordAuthzDecision("admin", "/api/v1/admin/cache/purge", "write", true, 100*time.Microsecond)
	})

	t.Run("records denied decision", func(t *testing.T) {
		counter, err := AuthzDeniedTotal.GetMetricWithLabelValues("viewer", "/api/v1/admin/analyses", "delete")
		if err != nil {
			t.Fatalf("failed to get counter: %v", err)
		}
		before := getCounterValue(counter)

		RecordAuthzDecision("viewer", "/api/v1/admin/analyses", "delete", false, 200*time.Microsecond)

		after := getCounterValue(counter)
		if after != before+1 {
			t.Errorf("expected denied counter to increase by 1, got %f -> %f", before, after)
		}
	})
}

func TestNormalizeResourcePattern(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/api/v1/analyses", "/api/v1/analyses"},
		{"/api/v1/analyses/123", "/api/v1/analyses/*"},
		{"/api/v1/analyses/550e8400-e29b-41d4-a716-446655440000", "/api/v1/analyses/*"},
		{"/api/v1/layers/amazon/ndvi", "/api/v1/layers/amazon/ndvi"},
		{"/health", "/health"},
		{"", ""},
		{"/api/v1/analyses/42/details", "/api/v1/analyses/*/details"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := normalizeResourcePattern(tt.input)
			if result != tt.expected {
				t.Errorf("normalizeResourcePattern(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsUUIDSegment(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"550e8400-e29b-41d4-a716-446655440000", true},
		{"550E8400-E29B-41D4-A716-446655440000", true},
		{"550e8400e29b41d4a716446655440000", false}, // no dashes
		{"550e8400-e29b-41d4-a716-44665544000", false},
		{"not-a-uuid-in-any-way-whatsoever-xx", false},
		{"", false},
		{"ndvi", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := isUUIDSegment(tt.input); got != tt.want {
				t.Errorf("isUUIDSegment(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRecordAuthzCacheHit(t *testing.T) {
	before := getCounterValue(AuthzCacheHitsTotal)
	RecordAuthzCacheHit()
	after := getCounterValue(AuthzCacheHitsTotal)

	if after != before+1 {
		t.Errorf("expected cache hits to increase by 1, got %f -> %f", before, after)
	}
}

func TestRecordAuthzCacheMiss(t *testing.T) {
	before := getCounterValue(AuthzCacheMissesTotal)
	RecordAuthzCacheMiss()
	after := getCounterValue(AuthzCacheMissesTotal)

	if after != before+1 {
		t.Errorf("expected cache misses to increase by 1, got %f -> %f", before, after)
	}
}

func TestRecordAuthzCacheEviction(t *testing.T) {
	before := getCounterValue(AuthzCacheEvictionsTotal)
	RecordAuthzCacheEviction()
	after := getCounterValue(AuthzCacheEvictionsTotal)

	if after != before+1 {
		t.Errorf("expected cache evictions to increase by 1, got %f -> %f", before, after)
	}
}

func TestRecordAuthzCacheInvalidations(t *testing.T) {
	before := getCounterValue(AuthzCacheInvalidationsTotal)
	RecordAuthzCacheInvalidations(7)
	after := getCounterValue(AuthzCacheInvalidationsTotal)

	if after != before+7 {
		t.Errorf("expected invalidations to increase by 7, got %f -> %f", before, after)
	}
}

func TestUpdateAuthzCacheSize(t *testing.T) {
	UpdateAuthzCacheSize(100)
	value := getGaugeValue(AuthzCacheSize)

	if value != 100 {
		t.Errorf("expected cache size=100, got %f", value)
	}

	UpdateAuthzCacheSize(50)
	value = getGaugeValue(AuthzCacheSize)

	if value != 50 {
		t.Errorf("expected cache size=50, got %f", value)
	}
}

func TestUpdatePolicyStats(t *testing.T) {
	UpdatePolicyStats(13, 2)

	policyValue := getGaugeValue(AuthzPolicyRulesTotal)
	groupingValue := getGaugeValue(AuthzGroupingRulesTotal)

	if policyValue != 13 {
		t.Errorf("expected policy rules=13, got %f", policyValue)
	}
	if groupingValue != 2 {
		t.Errorf("expected grouping rules=2, got %f", groupingValue)
	}
}

func TestRecordAuthzError(t *testing.T) {
	errorTypes := []string{"enforcer_error", "cache_error"}

	for _, errorType := range errorTypes {
		t.Run(errorType, func(t *testing.T) {
			RecordAuthzError(errorType)
		})
	}
}

func TestRecordAuditEvent(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		RecordAuditEvent(true)
	})

	t.Run("denied", func(t *testing.T) {
		RecordAuditEvent(false)
	})
}

func TestRecordAuditDropped(t *testing.T) {
	before := getCounterValue(AuthzAuditDroppedTotal)
	RecordAuditDropped()
	after := getCounterValue(AuthzAuditDroppedTotal)

	if after != before+1 {
		t.Errorf("expected audit dropped to increase by 1, got %f -> %f", before, after)
	}
}

func TestMetricsAreRegistered(t *testing.T) {
	// Verify all expected metrics are registered and accessible
	metrics := []string{
		"authz_decisions_total",
		"authz_decision_duration_seconds",
		"authz_denied_total",
		"authz_cache_hits_total",
		"authz_cache_misses_total",
		"authz_cache_entries",
		"authz_cache_evictions_total",
		"authz_cache_invalidations_total",
		"authz_policy_rules_total",
		"authz_grouping_rules_total",
		"authz_errors_total",
		"authz_audit_events_total",
		"authz_audit_dropped_total",
	}

	// Just verify the package compiled with all metrics
	// The promauto registration happens at package init time
	if len(metrics) != 13 {
		t.Errorf("expected 13 metric types, got %d", len(metrics))
	}
}

func BenchmarkRecordAuthzDecision(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordAuthzDecision("admin", "/api/v1/analyses/123", "read", true, 100*time.Microsecond)
	}
}

func BenchmarkNormalizeResourcePattern(b *testing.B) {
	for i := 0; i < b.N; i++ {
		normalizeResourcePattern("/api/v1/analyses/550e8400-e29b-41d4-a716-446655440000")
	}
}

func BenchmarkRecordAuthzCacheHit(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordAuthzCacheHit()
	}
}
