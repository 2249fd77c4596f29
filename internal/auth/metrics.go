// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Authentication metrics for the admin surface. Exposed through the shared
// /metrics endpoint alongside the analysis metrics.

var (
	// LoginAttempts counts login attempts by outcome.
	// Labels:
	//   - outcome: "success", "failure", "locked"
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viridis_auth_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"outcome"},
	)

	// TokenValidations counts JWT validation results on authenticated routes.
	// Labels:
	//   - outcome: "valid", "invalid", "missing"
	TokenValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viridis_auth_token_validations_total",
			Help: "Total number of JWT token validations",
		},
		[]string{"outcome"},
	)

	// Lockouts counts accounts or IPs locked after repeated failures.
	Lockouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viridis_auth_lockouts_total",
			Help: "Total number of login lockouts applied",
		},
	)

	// RateLimited counts requests rejected by the per-IP auth rate limiter.
	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viridis_auth_rate_limited_total",
			Help: "Total number of requests rejected by the auth rate limiter",
		},
	)
)

// RecordLoginAttempt records a login attempt and its outcome.
func RecordLoginAttempt(outcome string) {
	LoginAttempts.WithLabelValues(outcome).Inc()
}

// RecordTokenValidation records a JWT validation result.
func RecordTokenValidation(outcome string) {
	TokenValidations.WithLabelValues(outcome).Inc()
}

// RecordLockout records a lockout being applied.
func RecordLockout() {
	Lockouts.Inc()
}

// RecordRateLimited records a rate-limited auth request.
func RecordRateLimited() {
	RateLimited.Inc()
}
