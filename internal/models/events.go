// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package models

import "time"

// Progress event types broadcast over the live feed and the event pipeline.
const (
	EventAnalysisStarted   = "analysis_started"
	EventMonthCompleted    = "month_completed"
	EventAnalysisCompleted = "analysis_completed"
	EventAnalysisFailed    = "analysis_failed"
)

// AnalysisEvent is one progress notification for a running analysis. Month
// fields are set on month_completed events only; Status and Error on the
// terminal events.
type AnalysisEvent struct {
	Type           string    `json:"type"`
	AnalysisID     string    `json:"analysis_id"`
	Kind           string    `json:"kind"`
	DataType       string    `json:"data_type"`
	Month          string    `json:"month,omitempty"`
	MonthName      string    `json:"month_name,omitempty"`
	GridCoverage   string    `json:"grid_coverage,omitempty"`
	TilesProcessed int       `json:"tiles_processed"`
	DataAvailable  bool      `json:"data_available"`
	MonthsDone     int       `json:"months_done"`
	MonthsTotal    int       `json:"months_total"`
	Status         string    `json:"status,omitempty"`
	Error          string    `json:"error,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}
