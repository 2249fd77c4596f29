// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package services

import (
	"context"
	"time"

	"github.com/tomtom215/viridis/internal/logging"
)

// pruneTimeout bounds a single retention pass. DuckDB deletes over the
// runs and months tables finish in milliseconds at normal volumes; a
// pass that takes longer than this is stuck, not slow.
const pruneTimeout = time.Minute

// RunPruner matches *history.Store's retention method without importing
// the history package.
type RunPruner interface {
	DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error)
}

// HistoryPrunerService enforces the analysis history retention window.
//
// On a fixed interval it deletes runs (and their per-month detail rows)
// created more than retentionDays ago. A failed pass is logged and
// retried on the next tick rather than crashing the service; retention
// is not urgent enough to burn restart budget on a transient store
// error.
//
// A retention of zero or less disables pruning: the service stays up
// but does nothing, so enabling retention later is a config change,
// not a topology change.
//
// Example usage:
//
//	svc := services.NewHistoryPrunerService(store, cfg.History.RetentionDays, cfg.History.PruneInterval)
//	tree.AddDataService(svc)
type HistoryPrunerService struct {
	pruner        RunPruner
	retentionDays int
	interval      time.Duration
	name          string
}

// NewHistoryPrunerService creates a new history pruner.
// A non-positive interval defaults to one hour.
func NewHistoryPrunerService(pruner RunPruner, retentionDays int, interval time.Duration) *HistoryPrunerService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HistoryPrunerService{
		pruner:        pruner,
		retentionDays: retentionDays,
		interval:      interval,
		name:          "history-pruner",
	}
}

// Serve implements suture.Service.
// Prunes once at startup (an instance that was down for weeks should
// not wait another interval to catch up), then on every tick.
func (s *HistoryPrunerService) Serve(ctx context.Context) error {
	if s.retentionDays <= 0 {
		logging.Info().Msg("History retention disabled, pruner idle")
		<-ctx.Done()
		return ctx.Err()
	}

	s.prune(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.prune(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// prune runs a single retention pass.
func (s *HistoryPrunerService) prune(ctx context.Context) {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays)

	pruneCtx, cancel := context.WithTimeout(ctx, pruneTimeout)
	defer cancel()

	deleted, err := s.pruner.DeleteOlderThan(pruneCtx, cutoff)
	if err != nil {
		// Shutdown cancels the pass mid-flight; that is not a store error.
		if ctx.Err() != nil {
			return
		}
		logging.Warn().
			Err(err).
			Time("cutoff", cutoff).
			Msg("History retention prune failed")
		return
	}

	if deleted > 0 {
		logging.Info().
			Int64("runs_deleted", deleted).
			Int("retention_days", s.retentionDays).
			Time("cutoff", cutoff).
			Msg("Pruned expired analysis runs")
	}
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *HistoryPrunerService) String() string {
	return s.name
}
