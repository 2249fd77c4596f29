// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package events

import (
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/viridis/internal/logging"
)

// NewBreaker creates the publish circuit breaker. Unlike the imagery
// gateway breaker, which trips on failure ratio, publishes trip on
// consecutive failures: a broker outage fails every publish, and tripping
// fast keeps the notifier queue from backing up behind a dead connection.
func NewBreaker(cfg BreakerConfig) *gobreaker.CircuitBreaker[interface{}] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Event publish breaker state change")
		},
	}

	return gobreaker.NewCircuitBreaker[interface{}](settings)
}

// BreakerState returns the breaker state as a string for monitoring.
func BreakerState(cb *gobreaker.CircuitBreaker[interface{}]) string {
	return cb.State().String()
}
