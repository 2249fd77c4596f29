// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package services

import (
	"context"
	"time"

	"github.com/tomtom215/viridis/internal/cache"
	"github.com/tomtom215/viridis/internal/logging"
	"github.com/tomtom215/viridis/internal/metrics"
)

// ObservableCache is the subset of cache.Store the janitor reads.
type ObservableCache interface {
	CountPrefix(prefix string) int
	GetStats() cache.Stats
	HitRate() float64
}

// cacheNamespaces maps key prefixes to the cache_type metric label.
var cacheNamespaces = []struct {
	prefix string
	label  string
}{
	{cache.PrefixLayers, "layers"},
	{cache.PrefixStats, "stats"},
	{cache.PrefixPoint, "point"},
}

// CacheJanitorService exports cache statistics on a fixed interval.
//
// Entry expiry itself happens inside the store: reads drop expired
// entries lazily and each backend runs its own sweep (map cleanup for
// memory, value log GC for badger). The janitor owns the observable
// side: per-namespace entry gauges, the eviction counter, and a
// periodic hit-rate log line.
//
// Example usage:
//
//	svc := services.NewCacheJanitorService(cacheStore, time.Minute)
//	tree.AddDataService(svc)
type CacheJanitorService struct {
	store         ObservableCache
	interval      time.Duration
	name          string
	lastEvictions int64
}

// NewCacheJanitorService creates a new cache janitor.
// A non-positive interval defaults to one minute.
func NewCacheJanitorService(store ObservableCache, interval time.Duration) *CacheJanitorService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheJanitorService{
		store:    store,
		interval: interval,
		name:     "cache-janitor",
	}
}

// Serve implements suture.Service.
// Reports once immediately so gauges are populated right after boot,
// then on every tick until the context is canceled.
func (s *CacheJanitorService) Serve(ctx context.Context) error {
	s.report()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.report()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// report snapshots store statistics into Prometheus and the log.
func (s *CacheJanitorService) report() {
	total := 0
	for _, ns := range cacheNamespaces {
		count := s.store.CountPrefix(ns.prefix)
		metrics.UpdateCacheSize(ns.label, count)
		total += count
	}

	stats := s.store.GetStats()

	// Stats.Evictions is cumulative; feed the counter the delta since
	// the last report. Evictions are not attributable to a namespace.
	if delta := stats.Evictions - s.lastEvictions; delta > 0 {
		metrics.RecordCacheEvictions("all", delta)
	}
	s.lastEvictions = stats.Evictions

	logging.Debug().
		Int("entries", total).
		Int64("evictions", stats.Evictions).
		Float64("hit_rate", s.store.HitRate()).
		Msg("Cache statistics")
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *CacheJanitorService) String() string {
	return s.name
}
