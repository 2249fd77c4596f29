// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/viridis/config.yaml",
	"/etc/viridis/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// The loaded configuration is validated, and an encrypted provider API key
// is decrypted in place when PROVIDER_API_KEY_ENCRYPTED=true.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// PROVIDER_URL -> provider.base_url
	// ANALYSIS_AMAZON_POOL -> analysis.amazon_pool_size
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	// Decrypt the provider API key if it is stored encrypted
	if err := cfg.decryptProviderKey(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// decryptProviderKey replaces an encrypted provider API key with its
// plaintext. The encryption key is derived from the JWT secret, so
// PROVIDER_API_KEY_ENCRYPTED requires JWT_SECRET to be set (enforced
// during validation).
func (c *Config) decryptProviderKey() error {
	if !c.Provider.APIKeyEncrypted {
		return nil
	}

	encryptor, err := NewCredentialEncryptor(c.Security.JWTSecret)
	if err != nil {
		return fmt.Errorf("failed to create credential encryptor: %w", err)
	}

	plaintext, err := encryptor.Decrypt(c.Provider.APIKey)
	if err != nil {
		return fmt.Errorf("failed to decrypt PROVIDER_API_KEY: %w", err)
	}

	c.Provider.APIKey = plaintext
	c.Provider.APIKeyEncrypted = false
	return nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// If it's already a slice (from YAML file), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		// If it's a string, split by comma
		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - PROVIDER_URL -> provider.base_url
//   - ANALYSIS_TILE_SIZE -> analysis.tile_size_degrees
//   - DUCKDB_PATH -> history.path
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_port":    "server.port",
		"http_host":    "server.host",
		"http_timeout": "server.timeout",
		"environment":  "server.environment",

		// Imagery provider mappings
		"provider_url":               "provider.base_url",
		"provider_api_key":           "provider.api_key",
		"provider_api_key_encrypted": "provider.api_key_encrypted",
		"provider_timeout":           "provider.timeout",
		"provider_retry_attempts":    "provider.retry_attempts",
		"provider_retry_delay":       "provider.retry_base_delay",
		"provider_rate_limit":        "provider.rate_limit",
		"provider_rate_burst":        "provider.rate_burst",
		// Circuit breaker settings
		"provider_breaker_max_requests":      "provider.breaker.max_requests",
		"provider_breaker_interval":          "provider.breaker.interval",
		"provider_breaker_timeout":           "provider.breaker.timeout",
		"provider_breaker_failure_threshold": "provider.breaker.failure_threshold",
		"provider_breaker_min_requests":      "provider.breaker.min_requests",

		// Analysis mappings
		"analysis_tile_size":            "analysis.tile_size_degrees",
		"analysis_amazon_pool":          "analysis.amazon_pool_size",
		"analysis_aoi_pool":             "analysis.aoi_pool_size",
		"analysis_amazon_cloud_ceiling": "analysis.amazon_cloud_ceiling",
		"analysis_aoi_cloud_ceiling":    "analysis.aoi_cloud_ceiling",
		"analysis_point_cloud_ceiling":  "analysis.point_cloud_ceiling",
		"analysis_window_months":        "analysis.window_months",

		// Cache mappings
		"cache_backend":          "cache.backend",
		"cache_path":             "cache.path",
		"cache_layer_ttl":        "cache.layer_ttl",
		"cache_stats_ttl":        "cache.stats_ttl",
		"cache_cleanup_interval": "cache.cleanup_interval",

		// History mappings
		"duckdb_path":            "history.path",
		"duckdb_max_memory":      "history.max_memory",
		"duckdb_threads":         "history.threads",
		"history_retention_days": "history.retention_days",
		"history_queue_size":     "history.queue_size",
		"history_prune_interval": "history.prune_interval",

		// NATS mappings
		"nats_enabled":        "nats.enabled",
		"nats_url":            "nats.url",
		"nats_embedded":       "nats.embedded_server",
		"nats_store_dir":      "nats.store_dir",
		"nats_max_memory":     "nats.max_memory",
		"nats_max_store":      "nats.max_store",
		"nats_retention_days": "nats.stream_retention_days",
		"nats_durable_name":   "nats.durable_name",
		"nats_queue_group":    "nats.queue_group",
		"nats_flush_interval": "nats.flush_interval",

		// Security mappings
		"auth_mode":           "security.auth_mode",
		"jwt_secret":          "security.jwt_secret",
		"token_ttl":           "security.token_ttl",
		"admin_username":      "security.admin_username",
		"admin_password":      "security.admin_password",
		"rate_limit_requests": "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",
		"cors_origins":        "security.cors_origins",
		"trusted_proxies":     "security.trusted_proxies",

		// Casbin mappings
		"casbin_model_path":    "security.casbin.model_path",
		"casbin_policy_path":   "security.casbin.policy_path",
		"casbin_default_role":  "security.casbin.default_role",
		"casbin_cache_enabled": "security.casbin.cache_enabled",
		"casbin_cache_ttl":     "security.casbin.cache_ttl",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// Note: The caller is responsible for mutex protection when accessing
// configuration during reloads.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
