// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package mosaic

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/viridis/internal/geo"
	"github.com/tomtom215/viridis/internal/logging"
	"github.com/tomtom215/viridis/internal/metrics"
	"github.com/tomtom215/viridis/internal/models"
	"github.com/tomtom215/viridis/internal/provider"
	"github.com/tomtom215/viridis/internal/temporal"
)

// PointResult is the converted per-image series at a point. Median is nil
// when no image contributed an unmasked value; the API layer shapes this
// into the dataset-specific payload.
type PointResult struct {
	Median        *float64
	Values        []float64
	ImageCount    int
	DataAvailable bool
}

// SamplePoint fetches the per-image value series at one coordinate for one
// month. Samples arrive as raw digital numbers and are converted and rounded
// here so the series agrees with the reported median.
func (b *Builder) SamplePoint(ctx context.Context, analysisID string, profile provider.DatasetProfile, point geo.Point, month temporal.Month) (*PointResult, error) {
	start := time.Now()
	b.notify(models.AnalysisEvent{
		Type:        models.EventAnalysisStarted,
		AnalysisID:  analysisID,
		Kind:        models.AnalysisKindPointSample,
		DataType:    profile.DataType,
		Month:       month.String(),
		MonthName:   month.Label(),
		MonthsTotal: 1,
	})

	taskCtx, cancel := context.WithTimeout(ctx, b.cfg.TaskTimeout)
	defer cancel()
	sample, err := b.provider.PointSample(taskCtx, provider.SampleRequest{
		DatasetParams: profile.RawSampleParams(profile.CloudCeiling(b.cfg.PointCloudCeiling)),
		DateRange:     provider.RangeFor(month),
		Point:         point,
	})
	if err != nil {
		metrics.RecordAnalysisRun(models.AnalysisKindPointSample, models.AnalysisStatusFailed, time.Since(start))
		b.notify(models.AnalysisEvent{
			Type:        models.EventAnalysisFailed,
			AnalysisID:  analysisID,
			Kind:        models.AnalysisKindPointSample,
			DataType:    profile.DataType,
			Month:       month.String(),
			MonthName:   month.Label(),
			Status:      models.AnalysisStatusFailed,
			Error:       err.Error(),
			MonthsTotal: 1,
		})
		logging.Error().
			Err(err).
			Float64("latitude", point.Lat).
			Float64("longitude", point.Lon).
			Str("month", month.String()).
			Str("data_type", profile.DataType).
			Msg("Point sample failed")
		return nil, fmt.Errorf("point sample: %w", err)
	}

	values := make([]float64, 0, len(sample.Values))
	for _, v := range sample.Values {
		values = append(values, profile.Round(profile.FromRaw(v)))
	}
	var median *float64
	if sample.Median != nil {
		m := profile.Round(profile.FromRaw(*sample.Median))
		median = &m
	}

	result := &PointResult{
		Median:        median,
		Values:        values,
		ImageCount:    sample.ImageCount,
		DataAvailable: median != nil,
	}

	metrics.RecordAnalysisRun(models.AnalysisKindPointSample, models.AnalysisStatusCompleted, time.Since(start))
	b.notify(models.AnalysisEvent{
		Type:          models.EventAnalysisCompleted,
		AnalysisID:    analysisID,
		Kind:          models.AnalysisKindPointSample,
		DataType:      profile.DataType,
		Month:         month.String(),
		MonthName:     month.Label(),
		DataAvailable: result.DataAvailable,
		Status:        models.AnalysisStatusCompleted,
		MonthsDone:    1,
		MonthsTotal:   1,
	})
	logging.Debug().
		Str("analysis_id", analysisID).
		Str("data_type", profile.DataType).
		Str("month", month.String()).
		Int("image_count", result.ImageCount).
		Bool("data_available", result.DataAvailable).
		Msg("Point sample completed")
	return result, nil
}
