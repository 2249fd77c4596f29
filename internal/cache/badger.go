// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore provides a persistent cache backed by BadgerDB.
// Expiration uses Badger's native per-entry TTL, and a background goroutine
// runs value log garbage collection at the cleanup interval.
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration

	statsMu sync.Mutex
	stats   Stats

	stop     chan struct{}
	stopOnce sync.Once
}

// NewBadgerStore opens (or creates) a BadgerDB at path and returns a
// persistent cache store.
func NewBadgerStore(path string, ttl, cleanupInterval time.Duration) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for cache: %w", err)
	}

	s := &BadgerStore{
		db:    db,
		ttl:   ttl,
		stats: Stats{LastCleanup: time.Now()},
		stop:  make(chan struct{}),
	}

	go s.gcLoop(cleanupInterval)

	return s, nil
}

// Get retrieves a value from the cache.
// Badger handles expiration natively, so an expired entry reads as not found.
func (s *BadgerStore) Get(key string) ([]byte, bool) {
	var value []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})

	if err != nil {
		s.recordMiss()
		return nil, false
	}

	s.recordHit()
	return value, true
}

// Set stores a value with the default TTL.
func (s *BadgerStore) Set(key string, value []byte) {
	s.SetWithTTL(key, value, s.ttl)
}

// SetWithTTL stores a value with a custom TTL.
// Write failures are swallowed: a cache that cannot persist degrades to a
// miss on the next read rather than failing the request.
func (s *BadgerStore) SetWithTTL(key string, value []byte, ttl time.Duration) {
	//nolint:errcheck // Cache writes are best-effort
	s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value).WithTTL(ttl)
		return txn.SetEntry(e)
	})
}

// Delete removes a specific cache entry by key.
func (s *BadgerStore) Delete(key string) {
	//nolint:errcheck // Cache deletes are best-effort
	s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})

	s.recordEvictions(1)
}

// DeletePrefix removes all entries whose key starts with prefix.
func (s *BadgerStore) DeletePrefix(prefix string) int {
	var keys [][]byte

	//nolint:errcheck // Scan failure means nothing to delete
	s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})

	removed := 0
	for _, key := range keys {
		err := s.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(key)
		})
		if err != nil {
			continue
		}
		removed++
	}

	s.recordEvictions(int64(removed))
	return removed
}

// CountPrefix returns the number of live entries under prefix using a
// key-only scan. Badger excludes expired entries from iteration.
func (s *BadgerStore) CountPrefix(prefix string) int {
	count := 0

	//nolint:errcheck // Count is informational
	s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			count++
		}
		return nil
	})

	return count
}

// Clear removes all entries from the cache.
func (s *BadgerStore) Clear() {
	evictions := s.countKeys()

	//nolint:errcheck // DropAll failure leaves stale entries that expire via TTL
	s.db.DropAll()

	s.recordEvictions(evictions)
}

// GetStats returns a snapshot of current cache performance statistics.
// TotalKeys is computed on demand with a key-only scan.
func (s *BadgerStore) GetStats() Stats {
	total := s.countKeys()

	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	stats := s.stats
	stats.TotalKeys = total
	return stats
}

// HitRate returns the cache hit rate as a percentage.
func (s *BadgerStore) HitRate() float64 {
	stats := s.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// Close stops the GC goroutine and closes the database.
func (s *BadgerStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return s.db.Close()
}

// countKeys returns the current number of live entries.
func (s *BadgerStore) countKeys() int64 {
	var count int64

	//nolint:errcheck // Count is informational
	s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})

	return count
}

// gcLoop runs Badger value log garbage collection until Close is called.
func (s *BadgerStore) gcLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// RunValueLogGC returns ErrNoRewrite when there is nothing to
			// collect; loop until that happens to reclaim aggressively.
			for {
				if err := s.db.RunValueLogGC(0.5); err != nil {
					break
				}
			}
			s.statsMu.Lock()
			s.stats.LastCleanup = time.Now()
			s.statsMu.Unlock()
		case <-s.stop:
			return
		}
	}
}

// recordHit increments the hit counter.
func (s *BadgerStore) recordHit() {
	s.statsMu.Lock()
	s.stats.Hits++
	s.statsMu.Unlock()
}

// recordMiss increments the miss counter.
func (s *BadgerStore) recordMiss() {
	s.statsMu.Lock()
	s.stats.Misses++
	s.statsMu.Unlock()
}

// recordEvictions adds to the eviction counter.
func (s *BadgerStore) recordEvictions(n int64) {
	s.statsMu.Lock()
	s.stats.Evictions += n
	s.statsMu.Unlock()
}
