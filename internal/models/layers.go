// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package models

import "github.com/tomtom215/viridis/internal/geo"

// Data type labels used across layer and statistics payloads.
const (
	DataTypeNDVI = "NDVI"
	DataTypeLST  = "LST"
)

// Grid coverage states reported per monthly layer.
const (
	// CoverageComplete: every grid tile contributed to the mosaic.
	CoverageComplete = "complete"
	// CoveragePartial: some tiles failed and were masked out as blanks.
	CoveragePartial = "partial"
	// CoverageFallback: all tiles failed; the layer is a single whole-region
	// composite instead of a grid mosaic.
	CoverageFallback = "fallback"
)

// VisParams echoes the rendering parameters the provider applied to a layer.
type VisParams struct {
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	Palette []string `json:"palette"`
}

// Legend describes how layer colors map to physical values.
type Legend struct {
	Title  string   `json:"title"`
	Colors []string `json:"colors"`
	Labels []string `json:"labels"`
	Unit   string   `json:"unit,omitempty"`
}

// MonthlyLayer is one month's rendered tile layer over the fixed region.
//
// TileURL is an XYZ template ({z}/{x}/{y}) minted by the imagery provider;
// it expires provider-side, which bounds how long layer responses may be
// cached.
type MonthlyLayer struct {
	Month          string    `json:"month"`
	MonthName      string    `json:"month_name"`
	TileURL        string    `json:"tile_url"`
	VisParams      VisParams `json:"vis_params"`
	DataType       string    `json:"data_type"`
	Unit           string    `json:"unit,omitempty"`
	TilesProcessed int       `json:"tiles_processed"`
	GridCoverage   string    `json:"grid_coverage"`
}

// ProcessingInfo describes how the fixed region was partitioned for the
// per-tile fan-out.
type ProcessingInfo struct {
	GridTiles       int     `json:"grid_tiles"`
	TileSizeDegrees float64 `json:"tile_size_degrees"`
	CoverageMethod  string  `json:"coverage_method"`
}

// AmazonLayersData is the payload of the fixed-region layer endpoints:
// twelve monthly tile layers plus the legend and grid description a map
// client needs to render them.
type AmazonLayersData struct {
	Region         string         `json:"region"`
	DataType       string         `json:"data_type"`
	TimePeriod     string         `json:"time_period"`
	TotalLayers    int            `json:"total_layers"`
	MonthlyLayers  []MonthlyLayer `json:"monthly_layers"`
	Legend         Legend         `json:"legend"`
	AOIBounds      *geo.Polygon   `json:"aoi_bounds"`
	ProcessingInfo ProcessingInfo `json:"processing_info"`
}
