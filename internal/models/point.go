// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package models

// PointLocation echoes the sampled coordinate.
type PointLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NDVIPointData is the payload of the NDVI point-sample endpoint: the median
// of all per-image values at the location for one month, plus the full value
// series and how many images contributed.
//
// MedianNDVI is null (never zero) when no cloud-free image covered the point
// that month; DataAvailable flags the same condition for clients that do not
// distinguish null from absent.
type NDVIPointData struct {
	Location      PointLocation `json:"location"`
	Month         string        `json:"month"`
	MonthName     string        `json:"month_name"`
	DataType      string        `json:"data_type"`
	MedianNDVI    *float64      `json:"median_ndvi"`
	AllNDVIValues []float64     `json:"all_ndvi_values"`
	ImageCount    int           `json:"image_count"`
	DataAvailable bool          `json:"data_available"`
}

// LSTPointData is the payload of the LST point-sample endpoint. Values are
// degrees Celsius. The thermal product is already composited upstream, so no
// contributing image count is reported.
type LSTPointData struct {
	Location      PointLocation `json:"location"`
	Month         string        `json:"month"`
	MonthName     string        `json:"month_name"`
	DataType      string        `json:"data_type"`
	Unit          string        `json:"unit"`
	MedianLST     *float64      `json:"median_lst"`
	AllLSTValues  []float64     `json:"all_lst_values"`
	DataAvailable bool          `json:"data_available"`
}
