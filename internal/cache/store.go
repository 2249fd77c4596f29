// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package cache

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Store defines the interface for cache backends.
// Both MemoryStore and BadgerStore implement this interface, allowing the
// backend to be switched with CACHE_BACKEND without touching callers.
type Store interface {
	// Get retrieves a value from the cache.
	// Returns the value and true if found and not expired.
	Get(key string) ([]byte, bool)

	// Set stores a value in the cache with the default TTL.
	Set(key string, value []byte)

	// SetWithTTL stores a value with a custom TTL.
	SetWithTTL(key string, value []byte, ttl time.Duration)

	// Delete removes a value from the cache.
	Delete(key string)

	// DeletePrefix removes all entries whose key starts with prefix and
	// returns the number of entries removed.
	DeletePrefix(prefix string) int

	// CountPrefix returns the number of live entries whose key starts
	// with prefix. Used by the cache janitor to report per-namespace
	// entry counts.
	CountPrefix(prefix string) int

	// Clear removes all entries from the cache.
	Clear()

	// GetStats returns cache statistics.
	GetStats() Stats

	// HitRate returns the cache hit rate as a percentage.
	HitRate() float64

	// Close releases backend resources and stops background maintenance.
	Close() error
}

// Stats tracks cache performance metrics.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// Key namespaces. Every cached payload belongs to one analysis family so the
// admin purge endpoint can invalidate selectively.
const (
	PrefixLayers = "layers:"
	PrefixStats  = "stats:"
	PrefixPoint  = "point:"
)

// Config holds configuration for creating a cache store.
type Config struct {
	// Backend specifies the cache implementation ("memory" or "badger").
	Backend string

	// Path is the BadgerDB directory (required for the badger backend).
	Path string

	// DefaultTTL is the time-to-live applied by Set.
	DefaultTTL time.Duration

	// CleanupInterval is how often expired entries are swept
	// (memory cleanup / badger value log GC).
	CleanupInterval time.Duration
}

// NewStore creates a cache store based on the configuration.
func NewStore(cfg Config) (Store, error) {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 10 * time.Minute
	}

	switch cfg.Backend {
	case "badger":
		return NewBadgerStore(cfg.Path, cfg.DefaultTTL, cfg.CleanupInterval)
	case "", "memory":
		return NewMemoryStore(cfg.DefaultTTL, cfg.CleanupInterval), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.Backend)
	}
}

// GenerateKey creates a cache key from an operation namespace and parameters.
// Parameters are serialized to JSON and hashed so geometrically identical
// requests land on the same key regardless of field ordering in the source.
func GenerateKey(prefix string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		// Fallback to simple string key
		return fmt.Sprintf("%s%v", prefix, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s%x", prefix, hash[:16])
}

// Verify interface implementations at compile time
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*BadgerStore)(nil)
)
