// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

/*
Package supervisor provides process supervision for Viridis using suture v4.

This package implements a hierarchical supervisor tree that manages the
lifecycle of all long-running goroutines in the application. It provides
Erlang/OTP-style supervision with automatic restart, failure isolation,
and graceful shutdown.

# Overview

The supervisor tree organizes services into three layers for failure
isolation:

	RootSupervisor ("viridis")
	├── DataSupervisor ("data-layer")
	│   ├── CacheJanitorService
	│   └── HistoryPrunerService
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocketHubService
	│   └── EventPipelineService (if NATS_ENABLED, build tag: nats)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

This hierarchy ensures that:
  - A crash in the event pipeline doesn't drop WebSocket connections
  - A stuck retention prune doesn't impact API availability
  - Each layer can restart independently

# Key Features

Automatic Restart:
  - Crashed services are automatically restarted
  - Exponential backoff prevents restart storms
  - Configurable failure thresholds and decay rates

Graceful Shutdown:
  - Context cancellation triggers orderly shutdown
  - Configurable shutdown timeout per service
  - UnstoppedServiceReport for debugging hangs

Structured Logging:
  - Supervisor events flow through sutureslog into slog
  - The slog handler in internal/logging bridges to the zerolog backend,
    so restarts and failures land in the same JSON stream as everything else

# Usage Example

Basic setup in main.go:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(services.NewCacheJanitorService(cacheStore, time.Minute))
	tree.AddDataService(services.NewHistoryPrunerService(store, 90, time.Hour))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	// Blocks until the context is canceled.
	if err := tree.Serve(ctx); err != nil {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}

# Failure Handling

The supervisor uses a failure counter with exponential decay:

 1. Each service failure increments the counter
 2. The counter decays exponentially over time (FailureDecay seconds)
 3. When the counter exceeds FailureThreshold, the supervisor enters backoff
 4. During backoff, restarts are delayed by FailureBackoff

# Service Interface

All services must implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return behavior:
  - Return nil: service stopped cleanly, will be restarted
  - Return error: service crashed, will be restarted with failure accounting
  - Return suture.ErrDoNotRestart: service is done, leave it stopped
  - Context canceled: shutdown requested, return promptly

# What Is Not Supervised

The history store itself is not supervised: DuckDB is an embedded library,
not a long-running process, and its connection lifecycle belongs to the
history package. Only the retention prune loop over it is a service here.

Provider calls are likewise not supervised. Outages are the circuit
breaker's job; there is no goroutine to restart.

# Debugging Shutdown Issues

If services don't stop within the timeout:

	report, err := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    log.Printf("Service didn't stop: %v", svc)
	}

Common causes are goroutines ignoring context cancellation and blocked
network I/O without deadlines.

# See Also

  - internal/supervisor/services: service wrappers
  - github.com/thejerf/suture/v4: underlying library
*/
package supervisor
