// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package config

import (
	"time"
)

// Config is the root configuration for the Viridis server.
// All sections can be set via YAML config file or environment variables,
// with environment variables taking precedence.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Provider ProviderConfig `koanf:"provider"`
	Analysis AnalysisConfig `koanf:"analysis"`
	Cache    CacheConfig    `koanf:"cache"`
	History  HistoryConfig  `koanf:"history"`
	NATS     NATSConfig     `koanf:"nats"`     // Optional: analysis event pipeline with Watermill/NATS JetStream (-tags nats)
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // Environment mode: "development", "staging", "production" (default: "development")
}

// ProviderConfig holds the connection settings for the satellite imagery
// provider. The provider exposes the Sentinel-2 and MODIS archives that all
// NDVI and LST computations run against.
//
// Environment Variables:
//   - PROVIDER_URL: Base URL of the imagery provider API (required)
//   - PROVIDER_API_KEY: API key for the provider (required)
//   - PROVIDER_API_KEY_ENCRYPTED: Set to true when PROVIDER_API_KEY holds a
//     ciphertext produced by the credential encryptor (requires JWT_SECRET)
//   - PROVIDER_TIMEOUT: Per-request timeout (default: 30s)
//   - PROVIDER_RETRY_ATTEMPTS: Retries for transient failures (default: 5)
//   - PROVIDER_RETRY_DELAY: Base delay for exponential backoff (default: 1s)
//   - PROVIDER_RATE_LIMIT: Sustained requests per second (default: 10)
//   - PROVIDER_RATE_BURST: Burst allowance above the sustained rate (default: 20)
type ProviderConfig struct {
	BaseURL         string        `koanf:"base_url"`
	APIKey          string        `koanf:"api_key"`
	APIKeyEncrypted bool          `koanf:"api_key_encrypted"`
	Timeout         time.Duration `koanf:"timeout"`
	RetryAttempts   int           `koanf:"retry_attempts"`
	RetryBaseDelay  time.Duration `koanf:"retry_base_delay"`
	RateLimit       float64       `koanf:"rate_limit"` // Requests per second
	RateBurst       int           `koanf:"rate_burst"`
	Breaker         BreakerConfig `koanf:"breaker"`
}

// BreakerConfig tunes the circuit breaker that guards provider calls.
// The breaker opens when the failure ratio over Interval reaches
// FailureThreshold with at least MinRequests observed.
type BreakerConfig struct {
	MaxRequests      uint32        `koanf:"max_requests"` // Probes allowed in half-open state
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"` // Open state duration before half-open
	FailureThreshold float64       `koanf:"failure_threshold"`
	MinRequests      uint32        `koanf:"min_requests"`
}

// AnalysisConfig holds the tuning knobs for NDVI/LST analysis runs.
//
// The defaults reproduce the canonical Amazon basin setup: a 5 degree
// processing grid fanned out over 3 workers, custom AOI months over 4
// workers, and the per-workload cloud-cover ceilings.
//
// Environment Variables:
//   - ANALYSIS_TILE_SIZE: Grid tile edge in degrees (default: 5.0)
//   - ANALYSIS_AMAZON_POOL: Concurrent tile workers for Amazon layers (default: 3)
//   - ANALYSIS_AOI_POOL: Concurrent month workers for AOI statistics (default: 4)
//   - ANALYSIS_AMAZON_CLOUD_CEILING: Max cloud cover percent for Amazon scenes (default: 30)
//   - ANALYSIS_AOI_CLOUD_CEILING: Max cloud cover percent for custom AOI scenes (default: 100)
//   - ANALYSIS_POINT_CLOUD_CEILING: Max cloud cover percent for point samples (default: 50)
//   - ANALYSIS_WINDOW_MONTHS: Trailing window length in months (default: 12)
//   - ANALYSIS_TASK_TIMEOUT: Timeout per tile or month task in a worker pool (default: 2m)
type AnalysisConfig struct {
	TileSizeDegrees    float64       `koanf:"tile_size_degrees"`
	AmazonPoolSize     int           `koanf:"amazon_pool_size"`
	AOIPoolSize        int           `koanf:"aoi_pool_size"`
	AmazonCloudCeiling int           `koanf:"amazon_cloud_ceiling"`
	AOICloudCeiling    int           `koanf:"aoi_cloud_ceiling"`
	PointCloudCeiling  int           `koanf:"point_cloud_ceiling"`
	WindowMonths       int           `koanf:"window_months"`
	TaskTimeout        time.Duration `koanf:"task_timeout"`
}

// CacheConfig holds result cache settings.
// Backend "memory" keeps entries in-process; "badger" persists them to disk
// so tile URLs and statistics survive restarts.
type CacheConfig struct {
	Backend         string        `koanf:"backend"` // "memory" or "badger"
	Path            string        `koanf:"path"`    // BadgerDB directory (required when backend=badger)
	LayerTTL        time.Duration `koanf:"layer_ttl"`
	StatsTTL        time.Duration `koanf:"stats_ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// HistoryConfig holds the DuckDB analysis history settings.
//
// Environment Variables:
//   - DUCKDB_PATH: Database file path (default: /data/viridis.duckdb)
//   - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 2GB)
//   - DUCKDB_THREADS: DuckDB thread count, 0 = NumCPU (default: 0)
//   - HISTORY_RETENTION_DAYS: Days to keep analysis runs (default: 90)
//   - HISTORY_QUEUE_SIZE: Async write queue depth (default: 1024)
//   - HISTORY_PRUNE_INTERVAL: How often retention pruning runs (default: 1h)
type HistoryConfig struct {
	Path          string        `koanf:"path"`
	MaxMemory     string        `koanf:"max_memory"`
	Threads       int           `koanf:"threads"`
	RetentionDays int           `koanf:"retention_days"`
	QueueSize     int           `koanf:"queue_size"`
	PruneInterval time.Duration `koanf:"prune_interval"`
}

// NATSConfig holds the optional analysis event pipeline settings.
// When enabled (and the binary is built with -tags nats), analysis lifecycle
// events are published to NATS JetStream for durable fan-out.
type NATSConfig struct {
	// Enabled controls whether event publishing is active.
	Enabled bool `koanf:"enabled"`

	// URL is the NATS server connection URL.
	URL string `koanf:"url"`

	// EmbeddedServer runs an in-process NATS server.
	// If false, expects an external NATS server at URL.
	EmbeddedServer bool `koanf:"embedded_server"`

	// StoreDir is the JetStream storage directory.
	StoreDir string `koanf:"store_dir"`

	// MaxMemory is the maximum memory for JetStream in bytes.
	MaxMemory int64 `koanf:"max_memory"`

	// MaxStore is the maximum disk storage for JetStream in bytes.
	MaxStore int64 `koanf:"max_store"`

	// StreamRetentionDays is how long to keep analysis events.
	StreamRetentionDays int `koanf:"stream_retention_days"`

	// DurableName identifies the history recorder consumer.
	DurableName string `koanf:"durable_name"`

	// QueueGroup is the subscriber queue group for load balancing.
	QueueGroup string `koanf:"queue_group"`

	// FlushInterval is the maximum time between consumer flushes.
	FlushInterval time.Duration `koanf:"flush_interval"`
}

// SecurityConfig holds authentication and authorization settings.
//
// The public analysis API is read-only and unauthenticated by default
// (AUTH_MODE=none). Admin endpoints always require a valid token, so
// production deployments must configure AUTH_MODE=jwt with a strong
// JWT_SECRET and admin credentials.
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"` // "none" or "jwt"
	JWTSecret         string        `koanf:"jwt_secret"`
	TokenTTL          time.Duration `koanf:"token_ttl"`
	AdminUsername     string        `koanf:"admin_username"`
	AdminPassword     string        `koanf:"admin_password"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
	Casbin            CasbinConfig  `koanf:"casbin"` // Casbin RBAC authorization
}

// CasbinConfig holds Casbin RBAC authorization settings.
// With no paths configured the embedded model and policy are used,
// which define the admin, operator and viewer roles.
type CasbinConfig struct {
	ModelPath    string        `koanf:"model_path"`  // Override embedded RBAC model
	PolicyPath   string        `koanf:"policy_path"` // Override embedded policy
	DefaultRole  string        `koanf:"default_role"`
	CacheEnabled bool          `koanf:"cache_enabled"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// JSON is recommended for production (structured, machine-parseable).
	// Console is human-readable for development.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Adds slight performance overhead.
	// Default: false
	Caller bool `koanf:"caller"`
}

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development", // Default to development; set ENVIRONMENT=production for production checks
		},
		Provider: ProviderConfig{
			BaseURL:         "",
			APIKey:          "",
			APIKeyEncrypted: false,
			Timeout:         30 * time.Second,
			RetryAttempts:   5,
			RetryBaseDelay:  time.Second,
			RateLimit:       10,
			RateBurst:       20,
			Breaker: BreakerConfig{
				MaxRequests:      3,
				Interval:         time.Minute,
				Timeout:          2 * time.Minute,
				FailureThreshold: 0.6,
				MinRequests:      10,
			},
		},
		Analysis: AnalysisConfig{
			TileSizeDegrees:    5.0,
			AmazonPoolSize:     3,
			AOIPoolSize:        4,
			AmazonCloudCeiling: 30,
			AOICloudCeiling:    100,
			PointCloudCeiling:  50,
			WindowMonths:       12,
			TaskTimeout:        2 * time.Minute,
		},
		Cache: CacheConfig{
			Backend:         "memory",
			Path:            "/data/cache",
			LayerTTL:        time.Hour, // Provider tile URLs expire, so layer entries stay short-lived
			StatsTTL:        6 * time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
		History: HistoryConfig{
			Path:          "/data/viridis.duckdb",
			MaxMemory:     "2GB",
			Threads:       0, // 0 = use runtime.NumCPU()
			RetentionDays: 90,
			QueueSize:     1024,
			PruneInterval: time.Hour,
		},
		NATS: NATSConfig{
			Enabled:             false, // Opt-in, requires -tags nats build
			URL:                 "nats://127.0.0.1:4222",
			EmbeddedServer:      true,
			StoreDir:            "/data/nats/jetstream",
			MaxMemory:           1 << 30,  // 1GB
			MaxStore:            10 << 30, // 10GB
			StreamRetentionDays: 7,
			DurableName:         "analysis-recorder",
			QueueGroup:          "recorders",
			FlushInterval:       5 * time.Second,
		},
		Security: SecurityConfig{
			AuthMode:          "none", // Public read-only API by default; admin routes need jwt
			JWTSecret:         "",
			TokenTTL:          24 * time.Hour,
			AdminUsername:     "",
			AdminPassword:     "",
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			TrustedProxies:    []string{},
			Casbin: CasbinConfig{
				ModelPath:    "",
				PolicyPath:   "",
				DefaultRole:  "viewer",
				CacheEnabled: true,
				CacheTTL:     5 * time.Minute,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
