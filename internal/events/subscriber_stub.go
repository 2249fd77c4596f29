// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

//go:build !nats

package events

import (
	"context"
	"fmt"
)

// Subscriber is a stub when NATS dependencies are not compiled in.
// Build with -tags nats to enable the Watermill subscriber.
type Subscriber struct{}

// NewSubscriber returns an error when NATS dependencies are not compiled in.
func NewSubscriber(cfg *SubscriberConfig, logger interface{}) (*Subscriber, error) {
	return nil, fmt.Errorf("NATS subscriber not available: build with -tags nats")
}

// Close is a no-op stub.
func (s *Subscriber) Close() error {
	return nil
}

// RawSource is a stub when NATS dependencies are not compiled in.
type RawSource struct{}

// NewRawSource returns a stub byte-stream adapter.
func NewRawSource(sub *Subscriber) *RawSource {
	return &RawSource{}
}

// Subscribe is a stub that returns an error.
func (r *RawSource) Subscribe(ctx context.Context, subject string) (<-chan []byte, error) {
	return nil, fmt.Errorf("NATS subscriber not available: build with -tags nats")
}

// Close is a no-op stub.
func (r *RawSource) Close() error {
	return nil
}
