// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package services

import (
	"context"
	"time"

	"github.com/tomtom215/viridis/internal/logging"
)

// healthCheckInterval is how often the wrapper probes pipeline health.
const healthCheckInterval = 30 * time.Second

// EventPipeline matches *events.Pipeline's lifecycle surface without
// importing the events package, so this wrapper compiles identically
// with and without the nats build tag.
type EventPipeline interface {
	Healthy(ctx context.Context) bool
	Close(ctx context.Context) error
}

// EventPipelineService holds the analysis event pipeline under
// supervision.
//
// The pipeline is fully started by its constructor during boot (the
// mosaic builder needs its notifier before the tree runs), so unlike
// the other wrappers there is nothing to start here. The service
// watches stream health, blocks until shutdown, and closes the
// pipeline with a bounded timeout.
//
// A failed health probe is logged, not returned: restarting this
// service could not rebuild the pipeline, and the publisher's own
// reconnect loop and circuit breaker already cover broker outages.
//
// Example usage:
//
//	pipeline, err := events.NewPipeline(ctx, &cfg.NATS)
//	...
//	svc := services.NewEventPipelineService(pipeline, 10*time.Second)
//	tree.AddMessagingService(svc)
type EventPipelineService struct {
	pipeline        EventPipeline
	shutdownTimeout time.Duration
	name            string
}

// NewEventPipelineService creates a new event pipeline service wrapper.
func NewEventPipelineService(pipeline EventPipeline, shutdownTimeout time.Duration) *EventPipelineService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &EventPipelineService{
		pipeline:        pipeline,
		shutdownTimeout: shutdownTimeout,
		name:            "event-pipeline",
	}
}

// Serve implements suture.Service.
func (s *EventPipelineService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(healthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !s.pipeline.Healthy(ctx) {
				logging.Warn().Msg("Event pipeline stream unhealthy")
			}

		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			defer cancel()

			if err := s.pipeline.Close(shutdownCtx); err != nil {
				logging.Error().Err(err).Msg("Event pipeline shutdown failed")
			}
			return ctx.Err()
		}
	}
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *EventPipelineService) String() string {
	return s.name
}
