// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package mosaic

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/viridis/internal/geo"
	"github.com/tomtom215/viridis/internal/logging"
	"github.com/tomtom215/viridis/internal/metrics"
	"github.com/tomtom215/viridis/internal/models"
	"github.com/tomtom215/viridis/internal/provider"
	"github.com/tomtom215/viridis/internal/temporal"
)

// coverageMethod labels the partitioning strategy in processing_info.
const coverageMethod = "grid-based_tiling"

// BuildMonthlyLayers produces one rendered tile layer per month over the
// Amazon basin. Months run in ascending order; within each month the grid
// tiles fan out over a bounded worker pool. Failed tiles become masked
// blanks, a month with no surviving tiles falls back to a whole-region
// composite, and a month whose fallback also fails is dropped. The run only
// errors when every month is dropped or the context is cancelled.
func (b *Builder) BuildMonthlyLayers(ctx context.Context, analysisID string, profile provider.DatasetProfile, months []temporal.Month) (*models.AmazonLayersData, *Report, error) {
	start := time.Now()
	grid, err := geo.BuildGrid(geo.AmazonBasin, b.cfg.TileSizeDegrees)
	if err != nil {
		return nil, nil, fmt.Errorf("build analysis grid: %w", err)
	}

	b.notify(models.AnalysisEvent{
		Type:        models.EventAnalysisStarted,
		AnalysisID:  analysisID,
		Kind:        models.AnalysisKindAmazonLayers,
		DataType:    profile.DataType,
		MonthsTotal: len(months),
	})
	logging.Info().
		Str("analysis_id", analysisID).
		Str("data_type", profile.DataType).
		Int("months", len(months)).
		Int("grid_tiles", len(grid)).
		Msg("Starting Amazon layers analysis")

	report := &Report{Months: make([]MonthOutcome, 0, len(months))}
	layers := make([]models.MonthlyLayer, 0, len(months))
	for i, month := range months {
		layer, outcome, sequential := b.buildMonth(ctx, profile, month, grid)
		report.Months = append(report.Months, outcome)
		if sequential {
			report.Sequential = true
		}
		if layer == nil {
			report.FailedMonths++
		} else {
			if layer.GridCoverage == models.CoverageFallback {
				report.FallbackMonths++
			}
			layers = append(layers, *layer)
		}

		b.notify(models.AnalysisEvent{
			Type:           models.EventMonthCompleted,
			AnalysisID:     analysisID,
			Kind:           models.AnalysisKindAmazonLayers,
			DataType:       profile.DataType,
			Month:          month.String(),
			MonthName:      month.Label(),
			GridCoverage:   outcome.GridCoverage,
			TilesProcessed: outcome.TilesProcessed,
			DataAvailable:  outcome.DataAvailable,
			MonthsDone:     i + 1,
			MonthsTotal:    len(months),
		})

		if layer == nil && ctx.Err() != nil {
			// Cancelled, not degraded. Stop burning provider quota.
			return b.failLayers(analysisID, profile, report, start, len(months), ctx.Err())
		}
	}

	if len(layers) == 0 {
		return b.failLayers(analysisID, profile, report, start, len(months), ErrAllMonthsFailed)
	}

	data := &models.AmazonLayersData{
		Region:        geo.AmazonRegionName,
		DataType:      profile.DisplayName,
		TimePeriod:    temporal.Period(months),
		TotalLayers:   len(layers),
		MonthlyLayers: layers,
		Legend:        profile.Legend,
		AOIBounds:     geo.AmazonBasin.Polygon(),
		ProcessingInfo: models.ProcessingInfo{
			GridTiles:       len(grid),
			TileSizeDegrees: b.cfg.TileSizeDegrees,
			CoverageMethod:  coverageMethod,
		},
	}

	metrics.RecordAnalysisRun(models.AnalysisKindAmazonLayers, models.AnalysisStatusCompleted, time.Since(start))
	b.notify(models.AnalysisEvent{
		Type:        models.EventAnalysisCompleted,
		AnalysisID:  analysisID,
		Kind:        models.AnalysisKindAmazonLayers,
		DataType:    profile.DataType,
		Status:      models.AnalysisStatusCompleted,
		MonthsDone:  len(months),
		MonthsTotal: len(months),
	})
	logging.Info().
		Str("analysis_id", analysisID).
		Str("data_type", profile.DataType).
		Int("layers", len(layers)).
		Int("fallback_months", report.FallbackMonths).
		Int("failed_months", report.FailedMonths).
		Dur("duration", time.Since(start)).
		Msg("Amazon layers analysis completed")
	return data, report, nil
}

func (b *Builder) failLayers(analysisID string, profile provider.DatasetProfile, report *Report, start time.Time, monthsTotal int, err error) (*models.AmazonLayersData, *Report, error) {
	metrics.RecordAnalysisRun(models.AnalysisKindAmazonLayers, models.AnalysisStatusFailed, time.Since(start))
	b.notify(models.AnalysisEvent{
		Type:        models.EventAnalysisFailed,
		AnalysisID:  analysisID,
		Kind:        models.AnalysisKindAmazonLayers,
		DataType:    profile.DataType,
		Status:      models.AnalysisStatusFailed,
		Error:       err.Error(),
		MonthsDone:  len(report.Months),
		MonthsTotal: monthsTotal,
	})
	logging.Error().
		Err(err).
		Str("analysis_id", analysisID).
		Str("data_type", profile.DataType).
		Dur("duration", time.Since(start)).
		Msg("Amazon layers analysis failed")
	return nil, report, err
}

// buildMonth assembles one month's layer: tile composites, fallback if the
// whole grid failed, then the mosaic render. A nil layer means the month
// produced nothing and is dropped from the response.
func (b *Builder) buildMonth(ctx context.Context, profile provider.DatasetProfile, month temporal.Month, grid []geo.Tile) (*models.MonthlyLayer, MonthOutcome, bool) {
	start := time.Now()
	window := provider.RangeFor(month)
	params := profile.Params(profile.CloudCeiling(b.cfg.AmazonCloudCeiling))

	ids, sequential := b.compositeTiles(ctx, params, window, grid)
	survivors := 0
	for _, id := range ids {
		if id != provider.BlankImageID {
			survivors++
		}
	}

	coverage := models.CoverageComplete
	tilesProcessed := survivors
	switch {
	case survivors == 0:
		// Every tile failed. Retry the whole region as a single composite
		// rather than render an empty mosaic.
		handle, err := b.composite(ctx, params, window, geo.AmazonBasin.Polygon())
		if err != nil {
			logging.Error().
				Err(err).
				Str("month", month.String()).
				Msg("Whole-region fallback composite failed, dropping month")
			return nil, MonthOutcome{Month: month.String(), DurationMS: time.Since(start).Milliseconds()}, sequential
		}
		metrics.RecordFallback()
		logging.Warn().
			Str("month", month.String()).
			Int("grid_tiles", len(grid)).
			Msg("All grid tiles failed, serving whole-region fallback composite")
		ids = []string{handle.ImageID}
		coverage = models.CoverageFallback
		tilesProcessed = 0
	case survivors < len(grid):
		coverage = models.CoveragePartial
	}

	taskCtx, cancel := context.WithTimeout(ctx, b.cfg.TaskTimeout)
	defer cancel()
	tiles, err := b.provider.MosaicTiles(taskCtx, provider.MosaicRequest{ImageIDs: ids, Vis: profile.Vis})
	if err != nil {
		logging.Error().
			Err(err).
			Str("month", month.String()).
			Str("grid_coverage", coverage).
			Msg("Mosaic render failed, dropping month")
		return nil, MonthOutcome{Month: month.String(), DurationMS: time.Since(start).Milliseconds()}, sequential
	}

	layer := &models.MonthlyLayer{
		Month:          month.String(),
		MonthName:      month.Label(),
		TileURL:        tiles.TileURL,
		VisParams:      profile.Vis,
		DataType:       profile.DataType,
		Unit:           profile.Unit,
		TilesProcessed: tilesProcessed,
		GridCoverage:   coverage,
	}
	outcome := MonthOutcome{
		Month:          month.String(),
		TilesProcessed: tilesProcessed,
		GridCoverage:   coverage,
		DataAvailable:  true,
		DurationMS:     time.Since(start).Milliseconds(),
	}
	return layer, outcome, sequential
}

// compositeTiles produces one image handle per grid tile, in tile order.
// Failed tiles get the masked blank. If the pool itself panics the whole
// month is reprocessed sequentially before anything is given up on.
func (b *Builder) compositeTiles(ctx context.Context, params provider.DatasetParams, window provider.DateRange, grid []geo.Tile) ([]string, bool) {
	ids := make([]string, len(grid))
	if b.runTilePool(ctx, params, window, grid, ids) {
		return ids, false
	}

	metrics.RecordSequentialDegrade()
	logging.Error().
		Str("window_start", window.Start).
		Msg("Tile pool panicked, reprocessing month sequentially")
	for i := range grid {
		ids[i] = b.compositeTile(ctx, params, window, grid[i])
	}
	return ids, true
}

// runTilePool fans the tiles out over a bounded worker pool, writing each
// handle into its tile's slot. Returns false when any worker panicked.
func (b *Builder) runTilePool(ctx context.Context, params provider.DatasetParams, window provider.DateRange, grid []geo.Tile, ids []string) bool {
	var panicked atomic.Bool
	sem := make(chan struct{}, b.cfg.AmazonPoolSize)
	var wg sync.WaitGroup
	for i := range grid {
		wg.Add(1)
		sem <- struct{}{} // Acquire semaphore
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }() // Release semaphore
			defer func() {
				if r := recover(); r != nil {
					panicked.Store(true)
					logging.Error().
						Interface("panic", r).
						Int("tile", grid[idx].Index).
						Msg("Tile worker panicked")
				}
			}()
			ids[idx] = b.compositeTile(ctx, params, window, grid[idx])
		}(i)
	}
	wg.Wait()
	return !panicked.Load()
}

// compositeTile requests one tile's composite, substituting the masked blank
// on failure so the mosaic keeps its slot count.
func (b *Builder) compositeTile(ctx context.Context, params provider.DatasetParams, window provider.DateRange, tile geo.Tile) string {
	handle, err := b.composite(ctx, params, window, tile.Box.Polygon())
	if err != nil {
		metrics.RecordTileResult("blank")
		logging.Warn().
			Err(err).
			Int("tile", tile.Index).
			Str("window_start", window.Start).
			Msg("Tile composite failed, substituting blank")
		return provider.BlankImageID
	}
	metrics.RecordTileResult("success")
	return handle.ImageID
}

// composite issues one composite request under the per-task timeout.
func (b *Builder) composite(ctx context.Context, params provider.DatasetParams, window provider.DateRange, geom *geo.Polygon) (*provider.ImageHandle, error) {
	taskCtx, cancel := context.WithTimeout(ctx, b.cfg.TaskTimeout)
	defer cancel()
	return b.provider.Composite(taskCtx, provider.CompositeRequest{
		DatasetParams: params,
		DateRange:     window,
		Geometry:      geom,
	})
}
