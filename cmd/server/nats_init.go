// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

//go:build nats

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/viridis/internal/config"
	"github.com/tomtom215/viridis/internal/events"
	"github.com/tomtom215/viridis/internal/logging"
	"github.com/tomtom215/viridis/internal/mosaic"
	"github.com/tomtom215/viridis/internal/supervisor"
	"github.com/tomtom215/viridis/internal/supervisor/services"
	ws "github.com/tomtom215/viridis/internal/websocket"
)

// InitNATS boots the analysis event pipeline when NATS_ENABLED=true.
//
// The pipeline assembles its own components (embedded server, stream,
// publisher, subscriber) in internal/events; this function only ties the
// assembled pipeline into the rest of the process:
//
//   - the pipeline's Notifier is returned for the mosaic builder, so
//     analysis progress is published to viridis.analysis.> subjects
//   - a NATS-to-WebSocket bridge subscribes to the same subjects and
//     re-broadcasts every event through the hub
//   - the pipeline is placed under the messaging supervisor for health
//     probing and bounded shutdown
//
// Returns (nil, nil) when the pipeline is disabled; the caller then wires
// the hub as the builder's notifier directly.
func InitNATS(ctx context.Context, cfg *config.Config, wsHub *ws.Hub, tree *supervisor.SupervisorTree) (mosaic.Notifier, error) {
	if !cfg.NATS.Enabled {
		logging.Info().Msg("NATS event pipeline disabled (NATS_ENABLED=false)")
		return nil, nil
	}

	logging.Info().Msg("Initializing NATS event pipeline...")

	pipeline, err := events.NewPipeline(ctx, &cfg.NATS)
	if err != nil {
		return nil, fmt.Errorf("failed to build event pipeline: %w", err)
	}

	// Bridge JetStream analysis events back into the WebSocket hub
	bridge := ws.NewNATSSubscriber(wsHub, pipeline.Source())
	if err := bridge.Start(ctx); err != nil {
		if closeErr := pipeline.Close(ctx); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing pipeline after bridge failure")
		}
		return nil, fmt.Errorf("failed to start NATS-to-WebSocket bridge: %w", err)
	}

	tree.AddMessagingService(services.NewEventPipelineService(pipeline, 10*time.Second))

	logging.Info().
		Str("url", pipeline.ClientURL()).
		Bool("embedded", cfg.NATS.EmbeddedServer).
		Msg("NATS event pipeline initialized")

	return pipeline.Notifier(), nil
}
