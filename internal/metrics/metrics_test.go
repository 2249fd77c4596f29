// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package metrics

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordDBQuery tests history store query metric recording
func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		duration  time.Duration
		err       error
	}{
		{
			name:      "successful SELECT query",
			operation: "SELECT",
			table:     "analysis_runs",
			duration:  10 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "successful INSERT query",
			operation: "INSERT",
			table:     "analysis_months",
			duration:  5 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "failed query with short error",
			operation: "DELETE",
			table:     "analysis_runs",
			duration:  100 * time.Millisecond,
			err:       errors.New("connection refused"),
		},
		{
			name:      "failed query with long error - should truncate to 50 chars",
			operation: "SELECT",
			table:     "analysis_runs",
			duration:  50 * time.Millisecond,
			err:       errors.New("this is a very long error message that exceeds fifty characters and should be truncated properly"),
		},
		{
			name:      "fast query under 1ms",
			operation: "SELECT",
			table:     "analysis_runs",
			duration:  500 * time.Microsecond,
			err:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Record the query - should not panic
			RecordDBQuery(tt.operation, tt.table, tt.duration, tt.err)
		})
	}
}

// TestRecordDBQuery_ErrorTruncation verifies error messages are truncated at 50 chars
func TestRecordDBQuery_ErrorTruncation(t *testing.T) {
	err50 := errors.New(strings.Repeat("a", 50))
	RecordDBQuery("SELECT", "test", time.Millisecond, err50)

	err51 := errors.New(strings.Repeat("b", 51))
	RecordDBQuery("SELECT", "test", time.Millisecond, err51)

	err100 := errors.New(strings.Repeat("c", 100))
	RecordDBQuery("SELECT", "test", time.Millisecond, err100)

	errShort := errors.New("err")
	RecordDBQuery("SELECT", "test", time.Millisecond, errShort)
}

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{
			name:       "successful layers request",
			method:     "GET",
			endpoint:   "/api/v1/layers/amazon/ndvi",
			statusCode: "200",
			duration:   25 * time.Second,
		},
		{
			name:       "successful statistics request",
			method:     "POST",
			endpoint:   "/api/v1/statistics/lst",
			statusCode: "200",
			duration:   150 * time.Millisecond,
		},
		{
			name:       "validation failure",
			method:     "POST",
			endpoint:   "/api/v1/point/ndvi",
			statusCode: "400",
			duration:   2 * time.Millisecond,
		},
		{
			name:       "unauthorized request",
			method:     "DELETE",
			endpoint:   "/api/v1/admin/analyses",
			statusCode: "401",
			duration:   5 * time.Millisecond,
		},
		{
			name:       "rate limited request",
			method:     "GET",
			endpoint:   "/api/v1/analyses",
			statusCode: "429",
			duration:   1 * time.Millisecond,
		},
		{
			name:       "upstream failure",
			method:     "GET",
			endpoint:   "/api/v1/layers/amazon/lst",
			statusCode: "502",
			duration:   500 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Record the request - should not panic
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)
		})
	}
}

// TestTrackActiveRequest tests active request tracking
func TestTrackActiveRequest(t *testing.T) {
	tests := []struct {
		name string
		inc  bool
	}{
		{
			name: "increment active request",
			inc:  true,
		},
		{
			name: "decrement active request",
			inc:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			TrackActiveRequest(tt.inc)
		})
	}
}

// TestTrackActiveRequest_RequestLifecycle simulates a realistic request lifecycle
func TestTrackActiveRequest_RequestLifecycle(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	for i := 0; i < 10; i++ {
		TrackActiveRequest(true)
	}
	for i := 0; i < 10; i++ {
		TrackActiveRequest(false)
	}

	after := testutil.ToFloat64(APIActiveRequests)
	if before != after {
		t.Errorf("active requests gauge = %v after balanced inc/dec, want %v", after, before)
	}
}

// TestRecordProviderRequest tests imagery provider metric recording
func TestRecordProviderRequest(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		duration  time.Duration
		err       error
	}{
		{
			name:      "successful composite",
			operation: "composite",
			duration:  8 * time.Second,
			err:       nil,
		},
		{
			name:      "successful mosaic",
			operation: "mosaic",
			duration:  12 * time.Second,
			err:       nil,
		},
		{
			name:      "failed statistics",
			operation: "statistics",
			duration:  30 * time.Second,
			err:       errors.New("deadline exceeded"),
		},
		{
			name:      "successful sample",
			operation: "sample",
			duration:  2 * time.Second,
			err:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordProviderRequest(tt.operation, tt.duration, tt.err)
		})
	}
}

// TestRecordProviderRequest_ResultLabels verifies success and failure land in distinct series
func TestRecordProviderRequest_ResultLabels(t *testing.T) {
	successBefore := testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("composite", "success"))
	failureBefore := testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("composite", "failure"))

	RecordProviderRequest("composite", time.Second, nil)
	RecordProviderRequest("composite", time.Second, errors.New("boom"))
	RecordProviderRequest("composite", time.Second, errors.New("boom again"))

	successAfter := testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("composite", "success"))
	failureAfter := testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("composite", "failure"))

	if successAfter-successBefore != 1 {
		t.Errorf("success counter delta = %v, want 1", successAfter-successBefore)
	}
	if failureAfter-failureBefore != 2 {
		t.Errorf("failure counter delta = %v, want 2", failureAfter-failureBefore)
	}
}

// TestTileAndFallbackMetrics tests fan-out outcome recording
func TestTileAndFallbackMetrics(t *testing.T) {
	successBefore := testutil.ToFloat64(AnalysisTilesTotal.WithLabelValues("success"))
	blankBefore := testutil.ToFloat64(AnalysisTilesTotal.WithLabelValues("blank"))

	for i := 0; i < 47; i++ {
		RecordTileResult("success")
	}
	RecordTileResult("blank")
	RecordFallback()
	RecordSequentialDegrade()

	if delta := testutil.ToFloat64(AnalysisTilesTotal.WithLabelValues("success")) - successBefore; delta != 47 {
		t.Errorf("success tile delta = %v, want 47", delta)
	}
	if delta := testutil.ToFloat64(AnalysisTilesTotal.WithLabelValues("blank")) - blankBefore; delta != 1 {
		t.Errorf("blank tile delta = %v, want 1", delta)
	}
}

// TestRecordAnalysisRun tests analysis run metric recording
func TestRecordAnalysisRun(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		status   string
		duration time.Duration
	}{
		{
			name:     "completed amazon layers",
			kind:     "amazon_layers",
			status:   "completed",
			duration: 90 * time.Second,
		},
		{
			name:     "completed aoi statistics",
			kind:     "aoi_statistics",
			status:   "completed",
			duration: 25 * time.Second,
		},
		{
			name:     "failed point sample",
			kind:     "point_sample",
			status:   "failed",
			duration: 30 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordAnalysisRun(tt.kind, tt.status, tt.duration)
		})
	}
}

// TestCacheMetrics tests cache hit/miss recording per namespace
func TestCacheMetrics(t *testing.T) {
	namespaces := []string{"layers", "stats", "point"}

	for _, ns := range namespaces {
		t.Run("namespace_"+ns, func(t *testing.T) {
			RecordCacheHit(ns)
			RecordCacheMiss(ns)
		})
	}

	CacheSize.WithLabelValues("layers").Set(100)
	CacheEvictions.WithLabelValues("stats").Inc()
}

// TestNATSMetrics tests NATS pipeline metric recording
func TestNATSMetrics(t *testing.T) {
	for i := 0; i < 10; i++ {
		RecordNATSPublish()
	}
	for i := 0; i < 8; i++ {
		RecordNATSConsume()
	}
	RecordNATSParseFailed()
	RecordNATSProcessingDuration(5 * time.Millisecond)
}

// TestCircuitBreakerMetricLabels verifies breaker metrics accept expected labels
func TestCircuitBreakerMetricLabels(t *testing.T) {
	CircuitBreakerState.WithLabelValues("imagery-provider").Set(0)
	CircuitBreakerRequests.WithLabelValues("imagery-provider", "success").Inc()
	CircuitBreakerRequests.WithLabelValues("imagery-provider", "failure").Inc()
	CircuitBreakerRequests.WithLabelValues("imagery-provider", "rejected").Inc()
	CircuitBreakerConsecutiveFailures.WithLabelValues("imagery-provider").Set(3)
	CircuitBreakerTransitions.WithLabelValues("imagery-provider", "closed", "open").Inc()
}

// TestStatusCodeLabel tests status code formatting
func TestStatusCodeLabel(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{200, "200"},
		{404, "404"},
		{429, "429"},
		{502, "502"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := StatusCodeLabel(tt.code); got != tt.expected {
				t.Errorf("StatusCodeLabel(%d) = %q, want %q", tt.code, got, tt.expected)
			}
		})
	}
}

// TestHistoryQueueMetrics tests history queue gauge and drop counter
func TestHistoryQueueMetrics(t *testing.T) {
	HistoryQueueDepth.Set(0)
	HistoryQueueDepth.Set(512)
	HistoryQueueDepth.Set(1024)
	HistoryWritesDropped.Inc()

	if got := testutil.ToFloat64(HistoryQueueDepth); got != 1024 {
		t.Errorf("HistoryQueueDepth = %v, want 1024", got)
	}
}

// TestUpdateUptime tests the uptime gauge
func TestUpdateUptime(t *testing.T) {
	start := time.Now().Add(-time.Minute)
	UpdateUptime(start)

	if got := testutil.ToFloat64(AppUptime); got < 59 || got > 120 {
		t.Errorf("AppUptime = %v, want roughly 60 seconds", got)
	}
}

// TestConcurrentMetricRecording tests thread safety of metric recording
func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	numGoroutines := 100
	operationsPerGoroutine := 50

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordDBQuery("SELECT", "analysis_runs", time.Duration(j)*time.Millisecond, nil)
			}
		}()
	}

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordAPIRequest("GET", "/api/v1/analyses", "200", time.Duration(j)*time.Millisecond)
			}
		}()
	}

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				TrackActiveRequest(true)
				TrackActiveRequest(false)
			}
		}()
	}

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordTileResult("success")
			}
		}()
	}

	wg.Wait()
}

// TestMetricGathering tests that metrics can be gathered using testutil
func TestMetricGathering(t *testing.T) {
	RecordDBQuery("TEST", "test_table", time.Millisecond, nil)
	RecordAPIRequest("GET", "/test", "200", time.Millisecond)

	// Verify we can lint the metrics (checks for consistency issues)
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("Lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}

func BenchmarkRecordAPIRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordAPIRequest("GET", "/api/v1/analyses", "200", time.Millisecond)
	}
}

func BenchmarkTrackActiveRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		TrackActiveRequest(true)
		TrackActiveRequest(false)
	}
}

func BenchmarkRecordTileResult(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordTileResult("success")
	}
}
