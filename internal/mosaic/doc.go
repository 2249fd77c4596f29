// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

// Package mosaic orchestrates multi-month analysis runs against the imagery
// provider and assembles the response payloads the API serves.
//
// # Overview
//
// Three run kinds exist, one per endpoint family:
//
//   - BuildMonthlyLayers: twelve monthly tile layers over the Amazon basin.
//     Each month fans one composite request per grid tile out through a
//     bounded worker pool, then merges the resulting image handles into a
//     single rendered mosaic.
//   - MonthlyStatistics: twelve monthly mean/min/max summaries over a
//     caller-supplied AOI, with the months themselves fanned out through a
//     pool.
//   - SamplePoint: the per-image value series at one coordinate for one
//     month.
//
// # Degradation Ladder
//
// Runs degrade rather than fail. A tile composite that errors is replaced by
// a masked blank so the mosaic keeps its slot count; a month whose tiles all
// fail is retried as a single whole-region composite (grid_coverage
// "fallback"); a month whose fallback also fails is dropped from the response
// and counted in the Report; only a run with zero surviving months returns an
// error. A panicking worker pool is retried sequentially before anything is
// given up on.
//
// # Progress Events
//
// Run lifecycle events (analysis_started, month_completed,
// analysis_completed, analysis_failed) are pushed through the Notifier so
// WebSocket clients can track long runs in flight. Notifier implementations
// must not block; the hub buffers and drops slow consumers.
package mosaic
