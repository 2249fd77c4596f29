// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements application instrumentation using the Prometheus client
library, exposing metrics for monitoring performance, errors, and system health.

# Overview

The package provides metrics for:
  - API endpoint latency and throughput
  - Imagery provider request latency, retries and throttle waits
  - Circuit breaker state transitions
  - Grid fan-out outcomes (tiles, blanks, fallbacks, sequential degrades)
  - Analysis run counts and end-to-end duration
  - History store (DuckDB) query performance and write queue depth
  - Cache hit/miss rates
  - WebSocket connection counts
  - NATS event pipeline throughput

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8000/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
    Buckets: .01 .. 60 (layer builds can take minutes)
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Provider Metrics:
  - provider_requests_total: Imagery provider calls (counter)
    Labels: operation (composite, mosaic, statistics, sample), result
  - provider_request_duration_seconds: Provider call latency (histogram)
    Labels: operation
  - provider_retries_total: Retries after HTTP 429 (counter)
  - provider_throttle_wait_seconds: Client-side QPS limiter waits (histogram)

Analysis Metrics:
  - analysis_tiles_total: Per-tile composite outcomes (counter)
    Labels: result (success, blank)
  - analysis_fallbacks_total: Months degraded to whole-region composites (counter)
  - analysis_sequential_degrades_total: Analyses that abandoned their pool (counter)
  - analysis_runs_total: Analysis runs (counter)
    Labels: kind, status
  - analysis_duration_seconds: End-to-end analysis duration (histogram)
    Labels: kind

History Store Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)
    Labels: operation, table, error_type
  - history_queue_depth: Asynchronous write queue depth (gauge)
  - history_writes_dropped_total: Writes dropped on full queue (counter)

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests through the breaker (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_consecutive_failures: Consecutive failures (gauge)
    Labels: name
  - circuit_breaker_state_transitions_total: State transitions (counter)
    Labels: name, from_state, to_state

Cache Metrics:
  - cache_hits_total / cache_misses_total: Cache efficiency (counters)
    Labels: cache_type (layers, stats, point)
  - cache_entries: Current entry count (gauge)
  - cache_evictions_total: TTL expiries (counter)

WebSocket Metrics:
  - websocket_connections: Active connections (gauge)
  - websocket_messages_sent_total / websocket_messages_received_total (counters)
  - websocket_errors_total (counter)
    Labels: error_type

# Usage Example

Recording provider metrics around a remote call:

	start := time.Now()
	handle, err := client.Composite(ctx, req)
	metrics.RecordProviderRequest("composite", time.Since(start), err)

Recording API metrics with middleware:

	func PrometheusMetrics(next http.HandlerFunc) http.HandlerFunc {
	    return func(w http.ResponseWriter, r *http.Request) {
	        start := time.Now()
	        rw := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
	        next(rw, r)
	        metrics.RecordAPIRequest(r.Method, r.URL.Path,
	            metrics.StatusCodeLabel(rw.statusCode), time.Since(start))
	    }
	}

# Example PromQL Queries

	# API request rate
	rate(api_requests_total[5m])

	# Provider p95 latency
	histogram_quantile(0.95, rate(provider_request_duration_seconds_bucket[5m]))

	# Blank tile ratio
	sum(rate(analysis_tiles_total{result="blank"}[1h])) / sum(rate(analysis_tiles_total[1h]))

	# Cache hit rate
	sum(rate(cache_hits_total[5m])) / (sum(rate(cache_hits_total[5m])) + sum(rate(cache_misses_total[5m])))

# Thread Safety

All metric recording functions are thread-safe and designed for concurrent use
from multiple goroutines. The Prometheus client library handles synchronization
internally.

# Cardinality Management

To prevent high cardinality issues:

  - Endpoint labels use chi route patterns, not raw paths
  - Provider operations are limited to four fixed values
  - Error types are truncated to 50 characters
  - Per-user and per-tile labels are avoided
*/
package metrics
