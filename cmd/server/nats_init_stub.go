// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

//go:build !nats

package main

import (
	"context"

	"github.com/tomtom215/viridis/internal/config"
	"github.com/tomtom215/viridis/internal/logging"
	"github.com/tomtom215/viridis/internal/mosaic"
	"github.com/tomtom215/viridis/internal/supervisor"
	ws "github.com/tomtom215/viridis/internal/websocket"
)

// InitNATS is a no-op stub for non-NATS builds.
// Returns a nil notifier so the caller wires the WebSocket hub directly.
func InitNATS(_ context.Context, cfg *config.Config, _ *ws.Hub, _ *supervisor.SupervisorTree) (mosaic.Notifier, error) {
	if cfg.NATS.Enabled {
		logging.Warn().Msg("NATS_ENABLED=true but NATS support not compiled (build with -tags nats)")
	}
	return nil, nil
}
