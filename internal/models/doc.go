// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

/*
Package models defines data structures for the Viridis application.

This package contains the API envelope, the analysis payloads returned by
every endpoint, the analysis history records persisted to DuckDB, and the
progress events carried over WebSocket and NATS. It serves as the single
source of truth for data structure definitions.

Model Categories:

1. API Envelope:
  - APIResponse: Standard response wrapper (status, data, metadata, error)
  - APIError: Error code and message
  - Metadata: Response metadata (timestamp, query time, cached, request ID)

2. Analysis Payloads:
  - AmazonLayersData / MonthlyLayer: monthly map-tile layers with vis
    params, legend, grid coverage and processing info
  - AOIStatisticsData / MonthlyStatistics: monthly mean/min/max over a
    custom AOI
  - NDVIPointData / LSTPointData: single-month point samples with the
    per-image value series

3. History Records:
  - AnalysisRun / AnalysisMonth / AnalysisRunDetail: one row per analysis
    run plus per-month detail, recorded asynchronously

4. Progress Events:
  - AnalysisEvent with the Event* type constants, broadcast to dashboards
    during a run

No-Data Semantics:

Statistics and sample fields are *float64 WITHOUT omitempty: a month with
no usable observations serializes as explicit JSON nulls alongside
data_available=false. A zero value always means an observed zero, never a
gap. Code constructing these payloads must preserve nil rather than
substituting zeros.
*/
package models
