// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package provider

import (
	"context"
	"errors"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/viridis/internal/config"
	"github.com/tomtom215/viridis/internal/logging"
	"github.com/tomtom215/viridis/internal/metrics"
)

// breakerName labels the gateway breaker in logs and metrics.
const breakerName = "imagery-provider"

// BreakerClient wraps Client with the circuit breaker pattern, preventing
// cascading failures when the gateway is unavailable or slow.
//
// DETERMINISM NOTE: The circuit breaker uses real time (via sony/gobreaker)
// for its interval and timeout calculations. This is intentional for
// production resilience:
// - The timing determines when to recover from failures, not data integrity
// - Tests should use appropriate waits or stub the underlying client, not the breaker
// - For unit tests, consider testing the wrapped client directly
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewBreakerClient wraps a gateway client in a circuit breaker configured
// from cfg: trips when the failure ratio reaches FailureThreshold over at
// least MinRequests requests inside the measurement Interval, then rejects
// calls for Timeout before probing with MaxRequests half-open requests.
func NewBreakerClient(client *Client, cfg config.BreakerConfig) *BreakerClient {
	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 10
	}
	failureThreshold := cfg.FailureThreshold
	if failureThreshold <= 0 {
		failureThreshold = 0.6
	}

	// Initialize circuit breaker state metrics
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		// ReadyToTrip determines when to open the circuit
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false // Need enough requests for statistical significance
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= failureThreshold

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		// OnStateChange is called whenever the circuit breaker changes state
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			// Update metrics
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			// Reset consecutive failures when transitioning to closed
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerClient{
		client: client,
		cb:     cb,
		name:   breakerName,
	}
}

// execute wraps a gateway call with circuit breaker protection.
// Returns the result or an error if the circuit is open or the request fails.
func (bc *BreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := bc.cb.Execute(func() (interface{}, error) {
		return fn()
	})

	// Update metrics based on result
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			// Circuit is open or too many concurrent requests in half-open state
			metrics.CircuitBreakerRequests.WithLabelValues(bc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			// Request failed
			metrics.CircuitBreakerRequests.WithLabelValues(bc.name, "failure").Inc()

			// Increment consecutive failures
			counts := bc.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(bc.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	// Request succeeded
	metrics.CircuitBreakerRequests.WithLabelValues(bc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(bc.name).Set(0)

	return result, nil
}

// castResult safely type-casts the circuit breaker result with error checking.
// Returns typed result or error if type assertion fails.
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// State returns the current circuit breaker state.
func (bc *BreakerClient) State() gobreaker.State {
	return bc.cb.State()
}

// StateString returns the current state as a readiness-report label.
func (bc *BreakerClient) StateString() string {
	return stateToString(bc.cb.State())
}

// Ping verifies gateway connectivity with circuit breaker protection.
func (bc *BreakerClient) Ping(ctx context.Context) error {
	_, err := bc.execute(func() (interface{}, error) {
		return nil, bc.client.Ping(ctx)
	})
	return err
}

// Composite requests a median composite with circuit breaker protection.
func (bc *BreakerClient) Composite(ctx context.Context, req CompositeRequest) (*ImageHandle, error) {
	return castResult[ImageHandle](bc.execute(func() (interface{}, error) {
		return bc.client.Composite(ctx, req)
	}))
}

// MosaicTiles merges per-tile handles with circuit breaker protection.
func (bc *BreakerClient) MosaicTiles(ctx context.Context, req MosaicRequest) (*TileLayer, error) {
	return castResult[TileLayer](bc.execute(func() (interface{}, error) {
		return bc.client.MosaicTiles(ctx, req)
	}))
}

// RegionStatistics reduces an AOI with circuit breaker protection.
func (bc *BreakerClient) RegionStatistics(ctx context.Context, req StatsRequest) (*RegionStats, error) {
	return castResult[RegionStats](bc.execute(func() (interface{}, error) {
		return bc.client.RegionStatistics(ctx, req)
	}))
}

// PointSample samples a point with circuit breaker protection.
func (bc *BreakerClient) PointSample(ctx context.Context, req SampleRequest) (*PointSample, error) {
	return castResult[PointSample](bc.execute(func() (interface{}, error) {
		return bc.client.PointSample(ctx, req)
	}))
}
