// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

//go:build !nats

package events

import (
	"context"
	"fmt"

	"github.com/tomtom215/viridis/internal/config"
)

// Pipeline is a stub when NATS dependencies are not compiled in.
// Build with -tags nats to enable the analysis event pipeline.
type Pipeline struct{}

// NewPipeline returns an error when NATS dependencies are not compiled in.
func NewPipeline(ctx context.Context, cfg *config.NATSConfig) (*Pipeline, error) {
	return nil, fmt.Errorf("event pipeline not available: build with -tags nats")
}

// Notifier returns nil for the stub implementation.
func (p *Pipeline) Notifier() *Notifier {
	return nil
}

// Source returns nil for the stub implementation.
func (p *Pipeline) Source() *RawSource {
	return nil
}

// ClientURL returns an empty string for the stub implementation.
func (p *Pipeline) ClientURL() string {
	return ""
}

// Healthy always returns false for the stub.
func (p *Pipeline) Healthy(ctx context.Context) bool {
	return false
}

// Close is a no-op stub.
func (p *Pipeline) Close(ctx context.Context) error {
	return nil
}
