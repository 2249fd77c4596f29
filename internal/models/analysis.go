// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package models

import "time"

// Analysis run kinds recorded in the history store.
const (
	AnalysisKindAmazonLayers  = "amazon_layers"
	AnalysisKindAOIStatistics = "aoi_statistics"
	AnalysisKindPointSample   = "point_sample"
)

// Analysis run terminal states.
const (
	AnalysisStatusCompleted = "completed"
	AnalysisStatusFailed    = "failed"
)

// AnalysisRun is one recorded analysis execution. A run that degraded to
// whole-region fallbacks still completes; FallbackMonths says how often.
type AnalysisRun struct {
	ID             string    `json:"id"`
	Kind           string    `json:"kind"`
	DataType       string    `json:"data_type"`
	Region         string    `json:"region"`
	TimePeriod     string    `json:"time_period"`
	Status         string    `json:"status"`
	MonthsTotal    int       `json:"months_total"`
	FallbackMonths int       `json:"fallback_months"`
	FailedMonths   int       `json:"failed_months"`
	DurationMS     int64     `json:"duration_ms"`
	Cached         bool      `json:"cached"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// AnalysisMonth is the per-month detail of a run.
type AnalysisMonth struct {
	RunID          string `json:"run_id"`
	Month          string `json:"month"`
	TilesProcessed int    `json:"tiles_processed"`
	GridCoverage   string `json:"grid_coverage,omitempty"`
	DataAvailable  bool   `json:"data_available"`
	DurationMS     int64  `json:"duration_ms"`
}

// AnalysisRunDetail combines a run with its per-month breakdown for the
// single-run history endpoint.
type AnalysisRunDetail struct {
	Run    AnalysisRun     `json:"run"`
	Months []AnalysisMonth `json:"months"`
}

// AnalysesData is the payload of the analyses listing endpoint.
type AnalysesData struct {
	Analyses   []AnalysisRun `json:"analyses"`
	TotalCount int64         `json:"total_count"`
	Limit      int           `json:"limit"`
	Offset     int           `json:"offset"`
}
