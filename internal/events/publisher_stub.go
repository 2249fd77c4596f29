// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

//go:build !nats

package events

import (
	"context"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/viridis/internal/models"
)

// Publisher is a stub when NATS dependencies are not compiled in.
// Build with -tags nats to enable the Watermill publisher.
type Publisher struct {
	breaker *gobreaker.CircuitBreaker[interface{}]
}

// NewPublisher returns an error when NATS dependencies are not compiled in.
func NewPublisher(cfg PublisherConfig, logger interface{}) (*Publisher, error) {
	return nil, fmt.Errorf("NATS publisher not available: build with -tags nats")
}

// SetBreaker configures the circuit breaker for publish operations.
func (p *Publisher) SetBreaker(cb *gobreaker.CircuitBreaker[interface{}]) {
	p.breaker = cb
}

// PublishEvent is a stub that returns an error.
func (p *Publisher) PublishEvent(ctx context.Context, event models.AnalysisEvent) error {
	return fmt.Errorf("NATS publisher not available: build with -tags nats")
}

// Close is a no-op stub.
func (p *Publisher) Close() error {
	return nil
}
