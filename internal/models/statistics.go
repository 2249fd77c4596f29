// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package models

import "github.com/tomtom215/viridis/internal/geo"

// CustomRegionName labels user-supplied AOIs in statistics payloads.
const CustomRegionName = "Custom AOI"

// Statistics carries nullable summary values for one month over an AOI.
//
// Nil means the provider had no unmasked pixels for the month and is encoded
// as JSON null; zero is a real measurement and must never stand in for
// missing data. The fields deliberately omit omitempty so nulls stay visible
// to clients.
type Statistics struct {
	Mean *float64 `json:"mean"`
	Min  *float64 `json:"min"`
	Max  *float64 `json:"max"`
}

// MonthlyStatistics is one month's summary over a custom AOI.
type MonthlyStatistics struct {
	Month         string     `json:"month"`
	MonthName     string     `json:"month_name"`
	DataType      string     `json:"data_type"`
	Unit          string     `json:"unit,omitempty"`
	Statistics    Statistics `json:"statistics"`
	DataAvailable bool       `json:"data_available"`
}

// AOIStatisticsData is the payload of the custom-AOI statistics endpoints:
// twelve monthly summaries in ascending month order.
type AOIStatisticsData struct {
	Region            string              `json:"region"`
	DataType          string              `json:"data_type"`
	TimePeriod        string              `json:"time_period"`
	TotalMonths       int                 `json:"total_months"`
	MonthlyStatistics []MonthlyStatistics `json:"monthly_statistics"`
	AOIBounds         *geo.Polygon        `json:"aoi_bounds"`
}
