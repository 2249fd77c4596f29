// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/viridis/internal/history"
	"github.com/tomtom215/viridis/internal/models"
)

// ListAnalyses handles analysis history listing requests
//
// @Summary List recorded analysis runs
// @Description Returns recent analysis runs, newest first. Supports filtering by kind, data type, status, and creation time window
// @Tags Analyses
// @Accept json
// @Produce json
// @Param limit query int false "Results per page (1-1000)" default(100)
// @Param offset query int false "Pagination offset" default(0)
// @Param kind query string false "Comma-separated kinds (amazon_layers, aoi_statistics, point_sample)"
// @Param data_type query string false "Comma-separated data types (NDVI, LST)"
// @Param status query string false "Comma-separated statuses (completed, failed)"
// @Param since query string false "Only runs created at or after this RFC3339 time"
// @Param until query string false "Only runs created before this RFC3339 time"
// @Param order query string false "Sort direction by creation time (asc, desc)" default(desc)
// @Success 200 {object} models.APIResponse{data=models.AnalysesData} "Analysis runs retrieved successfully"
// @Failure 400 {object} models.APIResponse "Invalid filter parameters"
// @Router /analyses [get]
func (h *Handler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	if h.history == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "History store not available", nil)
		return
	}

	query := r.URL.Query()
	req := AnalysesRequest{
		Limit:     getIntParam(r, "limit", 100),
		Offset:    getIntParam(r, "offset", 0),
		Kinds:     parseCommaSeparated(query.Get("kind")),
		DataTypes: parseCommaSeparated(query.Get("data_type")),
		Statuses:  parseCommaSeparated(query.Get("status")),
		Since:     query.Get("since"),
		Until:     query.Get("until"),
		Order:     query.Get("order"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	start := time.Now()
	filter := history.RunFilter{
		Kinds:     req.Kinds,
		DataTypes: req.DataTypes,
		Statuses:  req.Statuses,
		Since:     parseTimeParam(req.Since),
		Until:     parseTimeParam(req.Until),
		OrderDesc: req.Order != "asc",
		Limit:     req.Limit,
		Offset:    req.Offset,
	}

	runs, err := h.history.ListRuns(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list analysis runs", err)
		return
	}

	total, err := h.history.CountRuns(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count analysis runs", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.AnalysesData{
			Analyses:   runs,
			TotalCount: total,
			Limit:      req.Limit,
			Offset:     req.Offset,
		},
		Metadata: metadataFor(r, time.Since(start), false),
	})
}

// GetAnalysis handles single analysis run requests
//
// @Summary Get one analysis run
// @Description Returns a recorded analysis run with its per-month breakdown
// @Tags Analyses
// @Accept json
// @Produce json
// @Param id path string true "Analysis run ID"
// @Success 200 {object} models.APIResponse{data=models.AnalysisRunDetail} "Analysis run retrieved successfully"
// @Failure 404 {object} models.APIResponse "Analysis run not found"
// @Router /analyses/{id} [get]
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	if h.history == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "History store not available", nil)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Analysis run ID is required", nil)
		return
	}

	start := time.Now()
	detail, err := h.history.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, history.ErrRunNotFound) {
			respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Analysis run not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load analysis run", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     detail,
		Metadata: metadataFor(r, time.Since(start), false),
	})
}

// parseTimeParam parses an RFC3339 query value, nil when absent. Validation
// has already rejected malformed values by the time this runs.
func parseTimeParam(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &t
}
