// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

// Package config provides layered configuration management for Viridis.
//
// Configuration is loaded with Koanf v2 from three sources, in order of
// increasing precedence:
//
//  1. Built-in defaults (see defaultConfig)
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables (PROVIDER_URL, HTTP_PORT, LOG_LEVEL, ...)
//
// The loaded Config is validated before use: the imagery provider URL and
// API key must be present, analysis pool sizes and cloud-cover ceilings must
// be within bounds, and production deployments are refused with AUTH_MODE=none
// or wildcard CORS.
//
// The package also provides AES-256-GCM credential encryption (keyed from the
// JWT secret via HKDF-SHA256) so the provider API key can be stored encrypted
// at rest, and a password policy for the admin account.
package config
