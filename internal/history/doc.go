// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

// Package history persists analysis runs to DuckDB.
//
// # Overview
//
// Every analysis run (Amazon layers, AOI statistics, point samples) is
// recorded with its terminal status, degradation counters, and per-month
// breakdown. The store backs the /api/v1/analyses endpoints and the
// retention pruner.
//
// Writes go through the asynchronous Recorder so a slow disk never stalls an
// API response: the recorder buffers run details in a bounded queue and
// drops (with a metric) rather than blocks when the queue is full. Reads go
// straight to the store.
//
// # Schema
//
// Two tables:
//
//   - analysis_runs: one row per run, keyed by the run's UUID.
//   - analysis_months: one row per month of a run, keyed by run_id.
//
// Retention is enforced by DeleteOlderThan, driven by the supervisor's
// pruner service at HISTORY_PRUNE_INTERVAL with a HISTORY_RETENTION_DAYS
// cutoff.
package history
