// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package mosaic

import (
	"context"
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

// statsRun carries the shared state of one AOI statistics run. Workers write
// only to their own index, so the slices need no locking.
type statsRun struct {
	analysisID string
	profile    provider.DatasetProfile
	params     provider.DatasetParams
	aoi        *geo.Polygon
	months     []temporal.Month
	entries    []models.MonthlyStatistics
	outcomes   []MonthOutcome
	failed     []bool
	done       atomic.Int64
}

// MonthlyStatistics produces one mean/min/max summary per month over a
// caller-supplied AOI, fanning the months out over a bounded worker pool.
// A month whose reduction errors becomes a null entry with data_available
// false; the run only errors when every month failed that way.
func (b *Builder) MonthlyStatistics(ctx context.Context, analysisID string, profile provider.DatasetProfile, aoi *geo.Polygon, months []temporal.Month) (*models.AOIStatisticsData, *Report, error) {
	start := time.Now()
	run := &statsRun{
		analysisID: analysisID,
		profile:    profile,
		params:     profile.Params(profile.CloudCeiling(b.cfg.AOICloudCeiling)),
		aoi:        aoi,
		months:     months,
		entries:    make([]models.MonthlyStatistics, len(months)),
		outcomes:   make([]MonthOutcome, len(months)),
		failed:     make([]bool, len(months)),
	}

	b.notify(models.AnalysisEvent{
		Type:        models.EventAnalysisStarted,
		AnalysisID:  analysisID,
		Kind:        models.AnalysisKindAOIStatistics,
		DataType:    profile.DataType,
		MonthsTotal: len(months),
	})
	logging.Info().
		Str("analysis_id", analysisID).
		Str("data_type", profile.DataType).
		Int("months", len(months)).
		Msg("Starting AOI statistics analysis")

	sequential := false
	if !b.runStatsPool(ctx, run) {
		metrics.RecordSequentialDegrade()
		sequential = true
		logging.Error().
			Str("analysis_id", analysisID).
			Msg("Statistics pool panicked, reprocessing months sequentially")
		run.done.Store(0)
		for i := range months {
			b.processStatsMonth(ctx, run, i)
		}
	}

	report := &Report{Months: run.outcomes, Sequential: sequential}
	for _, f := range run.failed {
		if f {
			report.FailedMonths++
		}
	}

	if report.FailedMonths == len(months) {
		metrics.RecordAnalysisRun(models.AnalysisKindAOIStatistics, models.AnalysisStatusFailed, time.Since(start))
		b.notify(models.AnalysisEvent{
			Type:        models.EventAnalysisFailed,
			AnalysisID:  analysisID,
			Kind:        models.AnalysisKindAOIStatistics,
			DataType:    profile.DataType,
			Status:      models.AnalysisStatusFailed,
			Error:       ErrAllMonthsFailed.Error(),
			MonthsDone:  len(months),
			MonthsTotal: len(months),
		})
		logging.Error().
			Str("analysis_id", analysisID).
			Str("data_type", profile.DataType).
			Dur("duration", time.Since(start)).
			Msg("AOI statistics analysis failed for every month")
		return nil, report, ErrAllMonthsFailed
	}

	data := &models.AOIStatisticsData{
		Region:            models.CustomRegionName,
		DataType:          profile.DisplayName,
		TimePeriod:        temporal.Period(months),
		TotalMonths:       len(run.entries),
		MonthlyStatistics: run.entries,
		AOIBounds:         aoi,
	}

	metrics.RecordAnalysisRun(models.AnalysisKindAOIStatistics, models.AnalysisStatusCompleted, time.Since(start))
	b.notify(models.AnalysisEvent{
		Type:        models.EventAnalysisCompleted,
		AnalysisID:  analysisID,
		Kind:        models.AnalysisKindAOIStatistics,
		DataType:    profile.DataType,
		Status:      models.AnalysisStatusCompleted,
		MonthsDone:  len(months),
		MonthsTotal: len(months),
	})
	logging.Info().
		Str("analysis_id", analysisID).
		Str("data_type", profile.DataType).
		Int("months", len(months)).
		Int("failed_months", report.FailedMonths).
		Dur("duration", time.Since(start)).
		Msg("AOI statistics analysis completed")
	return data, report, nil
}

// runStatsPool fans the months out over a bounded worker pool. Returns false
// when any worker panicked.
func (b *Builder) runStatsPool(ctx context.Context, run *statsRun) bool {
	var panicked atomic.Bool
	sem := make(chan struct{}, b.cfg.AOIPoolSize)
	var wg sync.WaitGroup
	for i := range run.months {
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
						Str("month", run.months[idx].String()).
						Msg("Statistics worker panicked")
				}
			}()
			b.processStatsMonth(ctx, run, idx)
		}(i)
	}
	wg.Wait()
	return !panicked.Load()
}

// processStatsMonth fills one month's slots and emits its progress event.
func (b *Builder) processStatsMonth(ctx context.Context, run *statsRun, idx int) {
	month := run.months[idx]
	run.entries[idx], run.outcomes[idx], run.failed[idx] = b.statsMonth(ctx, run, month)
	b.notify(models.AnalysisEvent{
		Type:          models.EventMonthCompleted,
		AnalysisID:    run.analysisID,
		Kind:          models.AnalysisKindAOIStatistics,
		DataType:      run.profile.DataType,
		Month:         month.String(),
		MonthName:     month.Label(),
		DataAvailable: run.entries[idx].DataAvailable,
		MonthsDone:    int(run.done.Add(1)),
		MonthsTotal:   len(run.months),
	})
}

// statsMonth reduces one month over the AOI. Errors yield a null entry, not
// a run failure; the third return reports whether the call errored.
func (b *Builder) statsMonth(ctx context.Context, run *statsRun, month temporal.Month) (models.MonthlyStatistics, MonthOutcome, bool) {
	start := time.Now()
	entry := models.MonthlyStatistics{
		Month:     month.String(),
		MonthName: month.Label(),
		DataType:  run.profile.DataType,
		Unit:      run.profile.Unit,
	}
	outcome := MonthOutcome{Month: month.String()}

	taskCtx, cancel := context.WithTimeout(ctx, b.cfg.TaskTimeout)
	defer cancel()
	stats, err := b.provider.RegionStatistics(taskCtx, provider.StatsRequest{
		DatasetParams: run.params,
		DateRange:     provider.RangeFor(month),
		Geometry:      run.aoi,
		Reducers:      provider.StatsReducers(),
		MaxPixels:     provider.DefaultMaxPixels,
	})
	if err != nil {
		logging.Warn().
			Err(err).
			Str("month", month.String()).
			Msg("AOI statistics failed for month, serving null entry")
		outcome.DurationMS = time.Since(start).Milliseconds()
		return entry, outcome, true
	}

	entry.Statistics = models.Statistics{
		Mean: run.profile.RoundPtr(stats.Mean),
		Min:  run.profile.RoundPtr(stats.Min),
		Max:  run.profile.RoundPtr(stats.Max),
	}
	// Null mean means the reducer saw no unmasked pixels for the month.
	entry.DataAvailable = stats.Mean != nil
	outcome.DataAvailable = entry.DataAvailable
	outcome.DurationMS = time.Since(start).Milliseconds()
	return entry, outcome, false
}
