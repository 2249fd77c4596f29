// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/viridis/internal/cache"
	"github.com/tomtom215/viridis/internal/logging"
	"github.com/tomtom215/viridis/internal/models"
)

// CachePurgeRequest is the optional request body for the cache purge
// endpoint. Without a prefix the whole cache is cleared.
type CachePurgeRequest struct {
	Prefix string `json:"prefix" validate:"omitempty,oneof=layers stats point"`
}

// AnalysesWipeRequest represents the validated query parameters for the
// history wipe endpoint. OlderThanDays zero wipes everything.
type AnalysesWipeRequest struct {
	OlderThanDays int `validate:"min=0,max=3650"`
}

// CachePurge handles admin cache purge requests
//
// @Summary Purge response caches
// @Description Clears cached analysis responses, either entirely or for one key prefix (layers, stats, point). Requires a valid token with admin write access regardless of AUTH_MODE
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body CachePurgeRequest false "Optional prefix to purge"
// @Success 200 {object} models.APIResponse "Cache purged successfully"
// @Failure 401 {object} models.APIResponse "Missing or invalid token"
// @Failure 403 {object} models.APIResponse "Insufficient role"
// @Router /admin/cache/purge [post]
func (h *Handler) CachePurge(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	if h.cache == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "Cache not available", nil)
		return
	}

	// The body is optional; an absent body purges everything
	var req CachePurgeRequest
	if r.ContentLength != 0 {
		if !decodeJSONBody(w, r, &req) {
			return
		}
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	var data map[string]interface{}
	if req.Prefix == "" {
		h.ClearCache()
		data = map[string]interface{}{"cleared": true}
	} else {
		prefix := cacheKeyPrefix(req.Prefix)
		purged := h.cache.DeletePrefix(prefix)
		logging.Ctx(r.Context()).Info().Str("prefix", req.Prefix).Int("purged_keys", purged).Msg("Cache prefix purged")
		data = map[string]interface{}{"prefix": req.Prefix, "purged_keys": purged}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// AnalysesWipe handles admin history wipe requests
//
// @Summary Wipe analysis history
// @Description Deletes recorded analysis runs, either all of them or only runs older than the given number of days. Requires a valid token with admin delete access regardless of AUTH_MODE
// @Tags Admin
// @Accept json
// @Produce json
// @Param older_than_days query int false "Only delete runs older than this many days (0 = all)"
// @Success 200 {object} models.APIResponse "History wiped successfully"
// @Failure 401 {object} models.APIResponse "Missing or invalid token"
// @Failure 403 {object} models.APIResponse "Insufficient role"
// @Router /admin/analyses [delete]
func (h *Handler) AnalysesWipe(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodDelete) {
		return
	}

	if h.history == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "History store not available", nil)
		return
	}

	req := AnalysesWipeRequest{
		OlderThanDays: getIntParam(r, "older_than_days", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	var (
		deleted int64
		err     error
	)
	if req.OlderThanDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -req.OlderThanDays)
		deleted, err = h.history.DeleteOlderThan(r.Context(), cutoff)
	} else {
		deleted, err = h.history.DeleteAll(r.Context())
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to wipe analysis history", err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("deleted_runs", deleted).Int("older_than_days", req.OlderThanDays).Msg("Analysis history wiped")

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"deleted_runs": deleted,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// cacheKeyPrefix maps the request-facing prefix names to cache key prefixes.
func cacheKeyPrefix(name string) string {
	switch name {
	case "layers":
		return cache.PrefixLayers
	case "stats":
		return cache.PrefixStats
	case "point":
		return cache.PrefixPoint
	default:
		return name
	}
}
