// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package cache

import (
	"strings"
	"sync"
	"time"
)

// entry represents a cached item with expiration.
type entry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore provides a thread-safe in-memory cache with TTL support.
// A background goroutine sweeps expired entries every cleanup interval;
// Close stops it.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration

	statsMu sync.Mutex
	stats   Stats

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates a new in-memory cache store.
//
// Parameters:
//   - ttl: default expiration applied by Set
//   - cleanupInterval: how often the background sweep removes expired entries
func NewMemoryStore(ttl, cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]entry),
		ttl:     ttl,
		stats:   Stats{LastCleanup: time.Now()},
		stop:    make(chan struct{}),
	}

	go s.cleanupLoop(cleanupInterval)

	return s
}

// Get retrieves a value from the cache by key with expiration checking.
// An expired entry is removed and counted as a miss.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	e, exists := s.entries[key]
	s.mu.RUnlock()

	if !exists {
		s.recordMiss()
		return nil, false
	}

	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		s.recordMiss()
		s.recordEvictions(1)
		return nil, false
	}

	s.recordHit()
	return e.data, true
}

// Set stores a value with the default TTL.
func (s *MemoryStore) Set(key string, value []byte) {
	s.SetWithTTL(key, value, s.ttl)
}

// SetWithTTL stores a value with a custom TTL.
func (s *MemoryStore) SetWithTTL(key string, value []byte, ttl time.Duration) {
	s.mu.Lock()
	s.entries[key] = entry{
		data:      value,
		expiresAt: time.Now().Add(ttl),
	}
	total := int64(len(s.entries))
	s.mu.Unlock()

	s.statsMu.Lock()
	s.stats.TotalKeys = total
	s.statsMu.Unlock()
}

// Delete removes a specific cache entry by key.
// Safe to call with non-existent keys.
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()

	s.recordEvictions(1)
}

// DeletePrefix removes all entries whose key starts with prefix.
func (s *MemoryStore) DeletePrefix(prefix string) int {
	s.mu.Lock()
	removed := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			removed++
		}
	}
	total := int64(len(s.entries))
	s.mu.Unlock()

	s.statsMu.Lock()
	s.stats.Evictions += int64(removed)
	s.stats.TotalKeys = total
	s.statsMu.Unlock()

	return removed
}

// CountPrefix returns the number of unexpired entries under prefix.
func (s *MemoryStore) CountPrefix(prefix string) int {
	now := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for key, e := range s.entries {
		if strings.HasPrefix(key, prefix) && now.Before(e.expiresAt) {
			count++
		}
	}
	return count
}

// Clear removes all entries from the cache in a single atomic operation.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	evictions := int64(len(s.entries))
	s.entries = make(map[string]entry)
	s.mu.Unlock()

	s.statsMu.Lock()
	s.stats.Evictions += evictions
	s.stats.TotalKeys = 0
	s.statsMu.Unlock()
}

// GetStats returns a snapshot of current cache performance statistics.
func (s *MemoryStore) GetStats() Stats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats
}

// HitRate returns the cache hit rate as a percentage.
func (s *MemoryStore) HitRate() float64 {
	stats := s.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// Close stops the background cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// cleanupLoop periodically removes expired entries until Close is called.
func (s *MemoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stop:
			return
		}
	}
}

// cleanup removes all expired entries.
func (s *MemoryStore) cleanup() {
	now := time.Now()
	s.mu.Lock()
	evictions := int64(0)
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
			evictions++
		}
	}
	total := int64(len(s.entries))
	s.mu.Unlock()

	s.statsMu.Lock()
	s.stats.Evictions += evictions
	s.stats.TotalKeys = total
	s.stats.LastCleanup = now
	s.statsMu.Unlock()
}

// recordHit increments the hit counter.
func (s *MemoryStore) recordHit() {
	s.statsMu.Lock()
	s.stats.Hits++
	s.statsMu.Unlock()
}

// recordMiss increments the miss counter.
func (s *MemoryStore) recordMiss() {
	s.statsMu.Lock()
	s.stats.Misses++
	s.statsMu.Unlock()
}

// recordEvictions adds to the eviction counter.
func (s *MemoryStore) recordEvictions(n int64) {
	s.statsMu.Lock()
	s.stats.Evictions += n
	s.statsMu.Unlock()
}
