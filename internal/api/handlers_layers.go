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

// AmazonNDVILayers handles Amazon basin NDVI layer requests
//
// @Summary Get monthly Amazon NDVI layers
// @Description Returns tile layer URLs for the trailing 12 months of Sentinel-2 NDVI over the Amazon basin, built from a 48-tile grid mosaic with cloud masking and whole-region fallback
// @Tags Layers
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.AmazonLayersData} "Monthly layers generated successfully"
// @Failure 502 {object} models.APIResponse "Imagery provider failed for every month"
// @Router /layers/amazon/ndvi [get]
func (h *Handler) AmazonNDVILayers(w http.ResponseWriter, r *http.Request) {
	h.amazonLayers(w, r, provider.NDVI())
}

// AmazonLSTLayers handles Amazon basin land surface temperature layer requests
//
// @Summary Get monthly Amazon LST layers
// @Description Returns tile layer URLs for the trailing 12 months of MODIS daytime land surface temperature over the Amazon basin, converted to Celsius
// @Tags Layers
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.AmazonLayersData} "Monthly layers generated successfully"
// @Failure 502 {object} models.APIResponse "Imagery provider failed for every month"
// @Router /layers/amazon/lst [get]
func (h *Handler) AmazonLSTLayers(w http.ResponseWriter, r *http.Request) {
	h.amazonLayers(w, r, provider.LST())
}

// amazonLayers runs the shared layer flow for one dataset profile. The
// analysis window is anchored at the month one year back so the newest
// month has a full acquisition period behind it.
func (h *Handler) amazonLayers(w http.ResponseWriter, r *http.Request, profile provider.DatasetProfile) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	months := temporal.TrailingMonths(time.Now().UTC(), h.config.Analysis.WindowMonths)
	period := temporal.Period(months)

	NewAnalysisExecutor(h).Execute(w, r, AnalysisSpec{
		CacheKey: cache.GenerateKey(cache.PrefixLayers, struct {
			DataType string `json:"data_type"`
			Period   string `json:"period"`
		}{profile.DataType, period}),
		CacheTTL:    h.config.Cache.LayerTTL,
		Kind:        models.AnalysisKindAmazonLayers,
		DataType:    profile.DataType,
		Region:      geo.AmazonRegionName,
		TimePeriod:  period,
		MonthsTotal: len(months),
		Query: func(ctx context.Context, analysisID string) (interface{}, *mosaic.Report, error) {
			return h.builder.BuildMonthlyLayers(ctx, analysisID, profile, months)
		},
	})
}
