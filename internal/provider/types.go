// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package provider

import (
	"github.com/tomtom215/viridis/internal/geo"
	"github.com/tomtom215/viridis/internal/models"
	"github.com/tomtom215/viridis/internal/temporal"
)

// DefaultMaxPixels bounds gateway-side reductions.
const DefaultMaxPixels = int64(1_000_000_000)

// StatsReducers is the combined reducer requested for AOI statistics.
func StatsReducers() []string {
	return []string{"mean", "min", "max"}
}

// BlankImageID is the reserved handle the gateway resolves to a fully masked
// placeholder image. Substituted for failed tiles so the mosaic keeps its
// slot count without ever rendering the failure as data.
const BlankImageID = "blank:masked"

// BlankHandle returns the masked placeholder handle.
func BlankHandle() *ImageHandle {
	return &ImageHandle{ImageID: BlankImageID}
}

// DateRange is a half-open [Start, End) window in ISO dates.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RangeFor converts a calendar month to its wire date range.
func RangeFor(m temporal.Month) DateRange {
	start, end := m.Bounds()
	return DateRange{
		Start: start.Format("2006-01-02"),
		End:   end.Format("2006-01-02"),
	}
}

// DatasetParams carries the dataset half of every gateway request. Built
// from a DatasetProfile, never by hand.
type DatasetParams struct {
	Collection   string   `json:"collection"`
	Bands        []string `json:"bands,omitempty"`
	Index        string   `json:"index,omitempty"`
	MaskClasses  []int    `json:"mask_classes,omitempty"`
	CloudCeiling *int     `json:"cloud_ceiling,omitempty"`
	ScaleFactor  *float64 `json:"scale_factor,omitempty"`
	Offset       *float64 `json:"offset,omitempty"`
	Scale        int      `json:"scale"`
}

// CompositeRequest asks the gateway for a median composite of one dataset
// over one geometry and one month window.
type CompositeRequest struct {
	DatasetParams
	DateRange DateRange    `json:"date_range"`
	Geometry  *geo.Polygon `json:"geometry"`
}

// ImageHandle is the gateway's opaque reference to a computed composite.
type ImageHandle struct {
	ImageID string `json:"image_id"`
}

// IsBlank reports whether the handle is the masked placeholder.
func (h *ImageHandle) IsBlank() bool {
	return h != nil && h.ImageID == BlankImageID
}

// MosaicRequest merges per-tile handles into one image and renders it with
// the given visualization parameters. Blank handles are masked out.
type MosaicRequest struct {
	ImageIDs []string         `json:"image_ids"`
	Vis      models.VisParams `json:"vis"`
}

// TileLayer is an XYZ tile URL template plus the echo of the vis params it
// was rendered with.
type TileLayer struct {
	TileURL string           `json:"tile_url"`
	Vis     models.VisParams `json:"vis"`
}

// StatsRequest asks for a combined reduction over an AOI for one month.
type StatsRequest struct {
	DatasetParams
	DateRange DateRange    `json:"date_range"`
	Geometry  *geo.Polygon `json:"geometry"`
	Reducers  []string     `json:"reducers"`
	MaxPixels int64        `json:"max_pixels"`
}

// RegionStats is a reduction result. Nil fields mean the reducer saw no
// unmasked pixels; callers must preserve the distinction from zero.
type RegionStats struct {
	Mean *float64 `json:"mean"`
	Min  *float64 `json:"min"`
	Max  *float64 `json:"max"`
}

// SampleRequest asks for the per-image series at a point for one month.
// Conversion fields are intentionally absent; samples come back raw.
type SampleRequest struct {
	DatasetParams
	DateRange DateRange `json:"date_range"`
	Point     geo.Point `json:"point"`
}

// PointSample is the per-image series at a point. Median is nil when no
// image contributed an unmasked value.
type PointSample struct {
	Median     *float64  `json:"median"`
	Values     []float64 `json:"values"`
	ImageCount int       `json:"image_count"`
}
