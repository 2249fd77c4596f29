// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/viridis/internal/cache"
	"github.com/tomtom215/viridis/internal/geo"
	"github.com/tomtom215/viridis/internal/models"
	"github.com/tomtom215/viridis/internal/mosaic"
	"github.com/tomtom215/viridis/internal/provider"
	"github.com/tomtom215/viridis/internal/temporal"
)

// NDVIPoint handles point NDVI sample requests
//
// @Summary Sample NDVI at a point
// @Description Returns the median NDVI and the full per-image value series at a coordinate for one month. The location is given as latitude/longitude fields or a GeoJSON Point
// @Tags Point
// @Accept json
// @Produce json
// @Param request body PointRequest true "Location and month"
// @Success 200 {object} models.APIResponse{data=models.NDVIPointData} "Point sampled successfully"
// @Failure 400 {object} models.APIResponse "Missing or invalid location or month"
// @Failure 502 {object} models.APIResponse "Imagery provider request failed"
// @Router /point/ndvi [post]
func (h *Handler) NDVIPoint(w http.ResponseWriter, r *http.Request) {
	h.pointSample(w, r, provider.NDVI())
}

// LSTPoint handles point land surface temperature sample requests
//
// @Summary Sample LST at a point
// @Description Returns the median land surface temperature in Celsius and the full per-image value series at a coordinate for one month
// @Tags Point
// @Accept json
// @Produce json
// @Param request body PointRequest true "Location and month"
// @Success 200 {object} models.APIResponse{data=models.LSTPointData} "Point sampled successfully"
// @Failure 400 {object} models.APIResponse "Missing or invalid location or month"
// @Failure 502 {object} models.APIResponse "Imagery provider request failed"
// @Router /point/lst [post]
func (h *Handler) LSTPoint(w http.ResponseWriter, r *http.Request) {
	h.pointSample(w, r, provider.LST())
}

// pointSample runs the shared point flow for one dataset profile. The flow
// mirrors the analysis executor but inline: a sample result carries no
// per-month report, only the value series for a single month.
func (h *Handler) pointSample(w http.ResponseWriter, r *http.Request, profile provider.DatasetProfile) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	if h.builder == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "Analysis engine not available", nil)
		return
	}

	var req PointRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	point, apiErr := req.ParseLocation()
	if apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	month, apiErr := req.ParseMonth()
	if apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	start := time.Now()
	cacheKey := cache.GenerateKey(cache.PrefixPoint, struct {
		DataType string  `json:"data_type"`
		Month    string  `json:"month"`
		Lat      float64 `json:"lat"`
		Lon      float64 `json:"lon"`
	}{profile.DataType, month.String(), point.Lat, point.Lon})

	// Check cache first (only if cache is available)
	if h.cache != nil {
		if payload, found := h.cache.Get(cacheKey); found {
			h.recordPointRun(uuid.New().String(), profile.DataType, point, month, 0, true, nil)
			respondJSON(w, http.StatusOK, &models.APIResponse{
				Status:   "success",
				Data:     json.RawMessage(payload),
				Metadata: metadataFor(r, 0, true),
			})
			return
		}
	}

	analysisID := uuid.New().String()
	result, err := h.builder.SamplePoint(r.Context(), analysisID, profile, point, month)
	if err != nil {
		h.recordPointRun(analysisID, profile.DataType, point, month, time.Since(start), false, err)
		respondAnalysisError(w, err)
		return
	}

	payload, err := json.Marshal(pointPayload(profile, point, month, result))
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to encode sample result", err)
		return
	}

	if h.cache != nil {
		h.cache.SetWithTTL(cacheKey, payload, h.config.Cache.StatsTTL)
	}

	h.recordPointRun(analysisID, profile.DataType, point, month, time.Since(start), false, nil)

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     json.RawMessage(payload),
		Metadata: metadataFor(r, time.Since(start), false),
	})
}

// pointPayload shapes a sample result into the dataset-specific response body.
func pointPayload(profile provider.DatasetProfile, point geo.Point, month temporal.Month, result *mosaic.PointResult) interface{} {
	location := models.PointLocation{Latitude: point.Lat, Longitude: point.Lon}

	if profile.DataType == models.DataTypeLST {
		return models.LSTPointData{
			Location:      location,
			Month:         month.String(),
			MonthName:     month.Name(),
			DataType:      profile.DataType,
			Unit:          profile.Unit,
			MedianLST:     result.Median,
			AllLSTValues:  result.Values,
			DataAvailable: result.DataAvailable,
		}
	}

	return models.NDVIPointData{
		Location:      location,
		Month:         month.String(),
		MonthName:     month.Name(),
		DataType:      profile.DataType,
		MedianNDVI:    result.Median,
		AllNDVIValues: result.Values,
		ImageCount:    result.ImageCount,
		DataAvailable: result.DataAvailable,
	}
}

// recordPointRun queues a point sample for history recording. Point runs
// have no per-month breakdown; the sampled month is the whole time period.
func (h *Handler) recordPointRun(analysisID, dataType string, point geo.Point, month temporal.Month, duration time.Duration, cached bool, runErr error) {
	if h.recorder == nil {
		return
	}

	run := models.AnalysisRun{
		ID:          analysisID,
		Kind:        models.AnalysisKindPointSample,
		DataType:    dataType,
		Region:      fmt.Sprintf("Point (%.4f, %.4f)", point.Lat, point.Lon),
		TimePeriod:  month.String(),
		Status:      models.AnalysisStatusCompleted,
		MonthsTotal: 1,
		DurationMS:  duration.Milliseconds(),
		Cached:      cached,
		CreatedAt:   time.Now(),
	}
	if runErr != nil {
		run.Status = models.AnalysisStatusFailed
		run.Error = runErr.Error()
	}

	h.recorder.Record(&models.AnalysisRunDetail{Run: run})
}
