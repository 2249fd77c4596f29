// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/viridis/internal/cache"
	"github.com/tomtom215/viridis/internal/geo"
	"github.com/tomtom215/viridis/internal/models"
	"github.com/tomtom215/viridis/internal/mosaic"
	"github.com/tomtom215/viridis/internal/provider"
	"github.com/tomtom215/viridis/internal/temporal"
)

// NDVIStatistics handles AOI NDVI statistics requests
//
// @Summary Get monthly NDVI statistics for an AOI
// @Description Computes mean/min/max NDVI per month over the trailing 12 months for a caller-supplied GeoJSON polygon. Months without cloud-free imagery report null statistics with data_available=false
// @Tags Statistics
// @Accept json
// @Produce json
// @Param request body StatisticsRequest true "GeoJSON Feature or Polygon geometry"
// @Success 200 {object} models.APIResponse{data=models.AOIStatisticsData} "Statistics computed successfully"
// @Failure 400 {object} models.APIResponse "Missing or invalid geometry"
// @Failure 502 {object} models.APIResponse "Imagery provider failed for every month"
// @Router /statistics/ndvi [post]
func (h *Handler) NDVIStatistics(w http.ResponseWriter, r *http.Request) {
	h.aoiStatistics(w, r, provider.NDVI())
}

// LSTStatistics handles AOI land surface temperature statistics requests
//
// @Summary Get monthly LST statistics for an AOI
// @Description Computes mean/min/max land surface temperature in Celsius per month over the trailing 12 months for a caller-supplied GeoJSON polygon
// @Tags Statistics
// @Accept json
// @Produce json
// @Param request body StatisticsRequest true "GeoJSON Feature or Polygon geometry"
// @Success 200 {object} models.APIResponse{data=models.AOIStatisticsData} "Statistics computed successfully"
// @Failure 400 {object} models.APIResponse "Missing or invalid geometry"
// @Failure 502 {object} models.APIResponse "Imagery provider failed for every month"
// @Router /statistics/lst [post]
func (h *Handler) LSTStatistics(w http.ResponseWriter, r *http.Request) {
	h.aoiStatistics(w, r, provider.LST())
}

// aoiStatistics runs the shared statistics flow for one dataset profile.
// Validation happens entirely before the first provider call so malformed
// geometry never costs an upstream request.
func (h *Handler) aoiStatistics(w http.ResponseWriter, r *http.Request, profile provider.DatasetProfile) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req StatisticsRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	aoi, apiErr := req.ParseAOI()
	if apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	months := temporal.TrailingMonths(time.Now().UTC(), h.config.Analysis.WindowMonths)
	period := temporal.Period(months)

	NewAnalysisExecutor(h).Execute(w, r, AnalysisSpec{
		CacheKey: cache.GenerateKey(cache.PrefixStats, struct {
			DataType string       `json:"data_type"`
			Period   string       `json:"period"`
			AOI      *geo.Polygon `json:"aoi"`
		}{profile.DataType, period, aoi}),
		CacheTTL:    h.config.Cache.StatsTTL,
		Kind:        models.AnalysisKindAOIStatistics,
		DataType:    profile.DataType,
		Region:      models.CustomRegionName,
		TimePeriod:  period,
		MonthsTotal: len(months),
		Query: func(ctx context.Context, analysisID string) (interface{}, *mosaic.Report, error) {
			return h.builder.MonthlyStatistics(ctx, analysisID, profile, aoi, months)
		},
	})
}
