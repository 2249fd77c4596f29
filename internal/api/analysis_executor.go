// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/viridis/internal/logging"
	"github.com/tomtom215/viridis/internal/models"
	"github.com/tomtom215/viridis/internal/mosaic"
)

// AnalysisExecutor encapsulates the common pattern for analysis handlers.
// It implements a cache-first execution flow:
//
//  1. Check the response cache for an identical earlier request
//  2. Run the mosaic builder on cache miss
//  3. Cache the marshaled result (tile URLs expire upstream, so layer
//     responses use the shorter TTL)
//  4. Record the run in the history store, cache hits included
//  5. Respond with JSON including metadata (query time, cached status)
//
// The executor is shared by the layer and statistics handlers; the point
// handlers follow the same flow inline because their result carries no
// per-month report.
//
// Example usage:
//
//	executor := NewAnalysisExecutor(h)
//	executor.Execute(w, r, AnalysisSpec{
//	    CacheKey:    cache.GenerateKey(cache.PrefixLayers, keyParams),
//	    CacheTTL:    h.config.Cache.LayerTTL,
//	    Kind:        models.AnalysisKindAmazonLayers,
//	    DataType:    models.DataTypeNDVI,
//	    Region:      geo.AmazonRegionName,
//	    TimePeriod:  period,
//	    MonthsTotal: len(months),
//	    Query: func(ctx context.Context, analysisID string) (interface{}, *mosaic.Report, error) {
//	        return h.builder.BuildMonthlyLayers(ctx, analysisID, profile, months)
//	    },
//	})
type AnalysisExecutor struct {
	handler *Handler
}

// NewAnalysisExecutor creates a new analysis executor instance.
func NewAnalysisExecutor(h *Handler) *AnalysisExecutor {
	return &AnalysisExecutor{handler: h}
}

// AnalysisQueryFunc runs the actual provider fan-out for one analysis. It
// receives the request context and the generated analysis ID, and returns a
// JSON-serializable payload plus the per-month report for history recording.
type AnalysisQueryFunc func(ctx context.Context, analysisID string) (interface{}, *mosaic.Report, error)

// AnalysisSpec describes one analysis execution: its cache placement, the
// identity recorded in the history store, and the query to run on miss.
type AnalysisSpec struct {
	CacheKey    string
	CacheTTL    time.Duration
	Kind        string
	DataType    string
	Region      string
	TimePeriod  string
	MonthsTotal int
	Query       AnalysisQueryFunc
}

// Execute runs the cache-first analysis flow and writes the response.
//
// Cache hits return immediately with 0ms query time and are still recorded
// in the history store with Cached set, so the analyses listing reflects
// every request served. Cache misses run the query, cache the marshaled
// payload, and record the full per-month report.
func (e *AnalysisExecutor) Execute(w http.ResponseWriter, r *http.Request, spec AnalysisSpec) {
	// Check if the analysis engine is available (protects against nil pointer in Query)
	if e.handler.builder == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "Analysis engine not available", nil)
		return
	}

	start := time.Now()

	// Check cache first (only if cache is available)
	if e.handler.cache != nil {
		if payload, found := e.handler.cache.Get(spec.CacheKey); found {
			e.recordRun(spec, uuid.New().String(), nil, 0, true, nil)
			respondJSON(w, http.StatusOK, &models.APIResponse{
				Status:   "success",
				Data:     json.RawMessage(payload),
				Metadata: metadataFor(r, 0, true),
			})
			return
		}
	}

	// Execute the provider fan-out
	analysisID := uuid.New().String()
	data, report, err := spec.Query(r.Context(), analysisID)
	if err != nil {
		e.recordRun(spec, analysisID, report, time.Since(start), false, err)
		respondAnalysisError(w, err)
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		logging.Error().Err(err).Str("analysis_id", analysisID).Msg("Failed to marshal analysis result")
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to encode analysis result", err)
		return
	}

	// Cache the result (only if cache is available)
	if e.handler.cache != nil {
		e.handler.cache.SetWithTTL(spec.CacheKey, payload, spec.CacheTTL)
	}

	e.recordRun(spec, analysisID, report, time.Since(start), false, nil)

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     json.RawMessage(payload),
		Metadata: metadataFor(r, time.Since(start), false),
	})
}

// recordRun queues the run for asynchronous history recording. A nil
// recorder (tests) drops the record silently.
func (e *AnalysisExecutor) recordRun(spec AnalysisSpec, analysisID string, report *mosaic.Report, duration time.Duration, cached bool, runErr error) {
	if e.handler.recorder == nil {
		return
	}

	run := models.AnalysisRun{
		ID:          analysisID,
		Kind:        spec.Kind,
		DataType:    spec.DataType,
		Region:      spec.Region,
		TimePeriod:  spec.TimePeriod,
		Status:      models.AnalysisStatusCompleted,
		MonthsTotal: spec.MonthsTotal,
		DurationMS:  duration.Milliseconds(),
		Cached:      cached,
		CreatedAt:   time.Now(),
	}
	if runErr != nil {
		run.Status = models.AnalysisStatusFailed
		run.Error = runErr.Error()
	}

	detail := &models.AnalysisRunDetail{Run: run}
	if report != nil {
		detail.Run.FallbackMonths = report.FallbackMonths
		detail.Run.FailedMonths = report.FailedMonths
		for _, m := range report.Months {
			detail.Months = append(detail.Months, models.AnalysisMonth{
				RunID:          analysisID,
				Month:          m.Month,
				TilesProcessed: m.TilesProcessed,
				GridCoverage:   m.GridCoverage,
				DataAvailable:  m.DataAvailable,
				DurationMS:     m.DurationMS,
			})
		}
	}

	e.handler.recorder.Record(detail)
}

// respondAnalysisError maps builder failures to API errors. Every failure
// past validation is a provider-side problem, so the gateway statuses apply:
// an exhausted analysis window is a 502, a caller disconnect stays 499-like
// (the response is moot), and anything else is a 502 with a generic message.
func respondAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mosaic.ErrAllMonthsFailed):
		respondError(w, http.StatusBadGateway, models.ErrCodeProvider, "No satellite data available for the requested period", err)
	case errors.Is(err, context.Canceled):
		// Client went away; log only.
		logging.Debug().Msg("Analysis canceled by client disconnect")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusBadGateway, models.ErrCodeProvider, "Imagery provider timed out", err)
	default:
		respondError(w, http.StatusBadGateway, models.ErrCodeProvider, "Imagery provider request failed", err)
	}
}
