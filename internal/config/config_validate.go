// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateProvider(); err != nil {
		return err
	}

	if err := c.validateAnalysis(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateHistory(); err != nil {
		return err
	}

	if err := c.validateNATS(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates HTTP server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	return nil
}

// Provider limit constants
const (
	providerMinTimeout    = time.Second
	providerMaxTimeout    = 10 * time.Minute
	providerMaxRetries    = 10
	providerMaxRateLimit  = 1000 // requests per second
	providerMaxRateBurst  = 5000
	breakerMinMinRequests = 1
)

// validateProvider validates the imagery provider configuration.
// The provider is the core dependency: every NDVI/LST operation calls it,
// so the URL and API key are required.
func (c *Config) validateProvider() error {
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("PROVIDER_URL is required")
	}
	if err := validateHTTPURL(c.Provider.BaseURL, "PROVIDER_URL"); err != nil {
		return fmt.Errorf("PROVIDER_URL is invalid: %w", err)
	}

	if c.Provider.APIKey == "" {
		return fmt.Errorf("PROVIDER_API_KEY is required")
	}
	if c.Provider.APIKeyEncrypted && c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when PROVIDER_API_KEY_ENCRYPTED=true (the decryption key is derived from it)")
	}

	if c.Provider.Timeout < providerMinTimeout || c.Provider.Timeout > providerMaxTimeout {
		return fmt.Errorf("PROVIDER_TIMEOUT must be between %v and %v", providerMinTimeout, providerMaxTimeout)
	}
	if c.Provider.RetryAttempts < 0 || c.Provider.RetryAttempts > providerMaxRetries {
		return fmt.Errorf("PROVIDER_RETRY_ATTEMPTS must be between 0 and %d", providerMaxRetries)
	}
	if c.Provider.RetryBaseDelay <= 0 {
		return fmt.Errorf("PROVIDER_RETRY_DELAY must be positive")
	}
	if c.Provider.RateLimit <= 0 || c.Provider.RateLimit > providerMaxRateLimit {
		return fmt.Errorf("PROVIDER_RATE_LIMIT must be between 0 (exclusive) and %d requests per second", providerMaxRateLimit)
	}
	if c.Provider.RateBurst < 1 || c.Provider.RateBurst > providerMaxRateBurst {
		return fmt.Errorf("PROVIDER_RATE_BURST must be between 1 and %d", providerMaxRateBurst)
	}

	return c.validateBreaker()
}

// validateBreaker validates circuit breaker bounds
func (c *Config) validateBreaker() error {
	b := c.Provider.Breaker
	if b.MaxRequests < 1 {
		return fmt.Errorf("PROVIDER_BREAKER_MAX_REQUESTS must be at least 1")
	}
	if b.Interval <= 0 || b.Timeout <= 0 {
		return fmt.Errorf("PROVIDER_BREAKER_INTERVAL and PROVIDER_BREAKER_TIMEOUT must be positive")
	}
	if b.FailureThreshold <= 0 || b.FailureThreshold > 1 {
		return fmt.Errorf("PROVIDER_BREAKER_FAILURE_THRESHOLD must be between 0 (exclusive) and 1")
	}
	if b.MinRequests < breakerMinMinRequests {
		return fmt.Errorf("PROVIDER_BREAKER_MIN_REQUESTS must be at least %d", breakerMinMinRequests)
	}
	return nil
}

// Analysis limit constants
const (
	analysisMinTileSize  = 0.1
	analysisMaxTileSize  = 10.0
	analysisMaxPoolSize  = 32
	analysisMaxWindow    = 60 // months
	cloudCeilingMax      = 100
	analysisMinPoolSize  = 1
	analysisMinWindowLen = 1
)

// validateAnalysis validates analysis tuning bounds
func (c *Config) validateAnalysis() error {
	a := c.Analysis
	if a.TileSizeDegrees < analysisMinTileSize || a.TileSizeDegrees > analysisMaxTileSize {
		return fmt.Errorf("ANALYSIS_TILE_SIZE must be between %.1f and %.1f degrees", analysisMinTileSize, analysisMaxTileSize)
	}
	if a.AmazonPoolSize < analysisMinPoolSize || a.AmazonPoolSize > analysisMaxPoolSize {
		return fmt.Errorf("ANALYSIS_AMAZON_POOL must be between %d and %d", analysisMinPoolSize, analysisMaxPoolSize)
	}
	if a.AOIPoolSize < analysisMinPoolSize || a.AOIPoolSize > analysisMaxPoolSize {
		return fmt.Errorf("ANALYSIS_AOI_POOL must be between %d and %d", analysisMinPoolSize, analysisMaxPoolSize)
	}
	for name, ceiling := range map[string]int{
		"ANALYSIS_AMAZON_CLOUD_CEILING": a.AmazonCloudCeiling,
		"ANALYSIS_AOI_CLOUD_CEILING":    a.AOICloudCeiling,
		"ANALYSIS_POINT_CLOUD_CEILING":  a.PointCloudCeiling,
	} {
		if ceiling < 0 || ceiling > cloudCeilingMax {
			return fmt.Errorf("%s must be between 0 and %d", name, cloudCeilingMax)
		}
	}
	if a.WindowMonths < analysisMinWindowLen || a.WindowMonths > analysisMaxWindow {
		return fmt.Errorf("ANALYSIS_WINDOW_MONTHS must be between %d and %d", analysisMinWindowLen, analysisMaxWindow)
	}
	if a.TaskTimeout <= 0 {
		return fmt.Errorf("ANALYSIS_TASK_TIMEOUT must be positive")
	}
	return nil
}

// validCacheBackends defines the allowed cache backends
var validCacheBackends = map[string]bool{
	"memory": true,
	"badger": true,
}

// validateCache validates cache configuration
func (c *Config) validateCache() error {
	if !validCacheBackends[c.Cache.Backend] {
		return fmt.Errorf("CACHE_BACKEND must be one of: memory, badger")
	}
	if c.Cache.Backend == "badger" && c.Cache.Path == "" {
		return fmt.Errorf("CACHE_PATH is required when CACHE_BACKEND=badger")
	}
	if c.Cache.LayerTTL <= 0 || c.Cache.StatsTTL <= 0 {
		return fmt.Errorf("CACHE_LAYER_TTL and CACHE_STATS_TTL must be positive")
	}
	if c.Cache.CleanupInterval <= 0 {
		return fmt.Errorf("CACHE_CLEANUP_INTERVAL must be positive")
	}
	return nil
}

// History limit constants
const (
	historyMinRetention = 1
	historyMaxRetention = 3650
	historyMinQueue     = 1
	historyMaxQueue     = 65536
)

// validateHistory validates analysis history configuration
func (c *Config) validateHistory() error {
	if c.History.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.History.RetentionDays < historyMinRetention || c.History.RetentionDays > historyMaxRetention {
		return fmt.Errorf("HISTORY_RETENTION_DAYS must be between %d and %d", historyMinRetention, historyMaxRetention)
	}
	if c.History.QueueSize < historyMinQueue || c.History.QueueSize > historyMaxQueue {
		return fmt.Errorf("HISTORY_QUEUE_SIZE must be between %d and %d", historyMinQueue, historyMaxQueue)
	}
	if c.History.PruneInterval <= 0 {
		return fmt.Errorf("HISTORY_PRUNE_INTERVAL must be positive")
	}
	return nil
}

// NATS limit constants
const (
	natsMinMemory    = 64 * 1024 * 1024  // 64MB
	natsMinStore     = 100 * 1024 * 1024 // 100MB
	natsMaxRetention = 365
	natsMinRetention = 1
	natsMinFlush     = time.Second
	natsMaxFlush     = time.Hour
)

// validateNATS validates NATS configuration (only if enabled)
func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}

	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}

	if c.NATS.MaxMemory < natsMinMemory {
		return fmt.Errorf("NATS_MAX_MEMORY must be at least %d bytes (64MB)", natsMinMemory)
	}
	if c.NATS.MaxStore < natsMinStore {
		return fmt.Errorf("NATS_MAX_STORE must be at least %d bytes (100MB)", natsMinStore)
	}
	if c.NATS.StreamRetentionDays < natsMinRetention || c.NATS.StreamRetentionDays > natsMaxRetention {
		return fmt.Errorf("NATS_RETENTION_DAYS must be between %d and %d", natsMinRetention, natsMaxRetention)
	}
	if c.NATS.FlushInterval < natsMinFlush || c.NATS.FlushInterval > natsMaxFlush {
		return fmt.Errorf("NATS_FLUSH_INTERVAL must be between %v and %v", natsMinFlush, natsMaxFlush)
	}
	return nil
}

// validAuthModes defines the allowed authentication modes
var validAuthModes = map[string]bool{
	"none": true,
	"jwt":  true,
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if err := c.validateAuthMode(); err != nil {
		return err
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	if err := c.validateRateLimits(); err != nil {
		return err
	}

	if c.Security.AuthMode == "jwt" {
		return c.validateJWTAuth()
	}
	return nil
}

// validateAuthMode checks if auth mode is valid
func (c *Config) validateAuthMode() error {
	if !validAuthModes[c.Security.AuthMode] {
		return fmt.Errorf("AUTH_MODE must be one of: none, jwt")
	}

	// Refuse to start with AUTH_MODE=none in production environment.
	// This prevents accidental deployment of an unprotected admin API.
	if c.Security.AuthMode == "none" && c.IsProduction() {
		return fmt.Errorf("AUTH_MODE=none is not allowed when ENVIRONMENT=production. " +
			"Either set AUTH_MODE=jwt with a JWT_SECRET and admin credentials " +
			"or use ENVIRONMENT=development for testing purposes")
	}

	return nil
}

// validateCORS validates CORS configuration for security best practices.
// In production mode with authentication enabled, wildcard CORS is rejected
// as it creates a security vulnerability where any origin can access
// protected resources using stolen credentials.
func (c *Config) validateCORS() error {
	if c.Security.AuthMode != "none" && c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production with authentication enabled. " +
			"Either set specific origins: CORS_ORIGINS=https://yourdomain.com,https://app.yourdomain.com " +
			"or use ENVIRONMENT=development for testing purposes")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has security concerns
// that should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.Security.AuthMode != "none" && c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
// Ensures rate limit values are within sensible ranges to prevent
// misconfiguration that could lead to DoS or ineffective protection.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validateJWTAuth validates JWT authentication configuration
func (c *Config) validateJWTAuth() error {
	if err := c.validateJWTSecret(); err != nil {
		return err
	}
	return c.validateAdminCredentials()
}

// validateJWTSecret validates the JWT secret configuration
func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_MODE is jwt")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for security")
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	return nil
}

// validateAdminCredentials validates admin username and password
func (c *Config) validateAdminCredentials() error {
	if c.Security.AdminUsername == "" {
		return fmt.Errorf("ADMIN_USERNAME is required when AUTH_MODE is jwt")
	}
	if c.Security.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required when AUTH_MODE is jwt")
	}
	if containsPlaceholder(c.Security.AdminPassword) {
		return fmt.Errorf("ADMIN_PASSWORD contains a placeholder value - set a secure password")
	}
	if err := DefaultPasswordPolicy().Validate(c.Security.AdminPassword, c.Security.AdminUsername); err != nil {
		return fmt.Errorf("ADMIN_PASSWORD: %w", err)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
// Production mode is determined by the ENVIRONMENT environment variable.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns defines common placeholder patterns that indicate
// the user forgot to set a real value. This prevents accidental deployment
// with insecure default credentials.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"YOUR_PASSWORD",
	"PLACEHOLDER",
	"EXAMPLE",
}

// containsPlaceholder checks if a value contains common placeholder patterns
// that indicate the user forgot to set a real value.
func containsPlaceholder(value string) bool {
	upperValue := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upperValue, pattern) {
			return true
		}
	}
	return false
}
