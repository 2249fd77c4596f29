// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

/*
Package services provides suture.Service wrappers for the long-running
components of Viridis.

Each wrapper adapts one component's native lifecycle to suture's
Serve(ctx) pattern so the supervisor tree can own restart and shutdown:

  - HTTPServerService: http.Server's blocking ListenAndServe plus
    Shutdown-with-timeout on context cancellation.
  - WebSocketHubService: delegates to the hub's RunWithContext, which
    already is a Serve loop.
  - CacheJanitorService: a ticker loop that exports cache statistics to
    Prometheus and the log.
  - HistoryPrunerService: a ticker loop that deletes analysis runs older
    than the retention window from the history store.
  - EventPipelineService: holds the already-running NATS pipeline and
    closes it with a timeout when the tree shuts down.

# Lifecycle Patterns

Components come in three shapes, and the wrappers translate all of them
to Serve(ctx) error:

	Blocking call + explicit stop   (http.Server)
	  goroutine for the call, select on error channel and ctx.Done,
	  Shutdown with a fresh timeout context on cancellation.

	Serve-native                    (websocket.Hub)
	  direct delegation.

	Periodic work                   (janitor, pruner)
	  time.Ticker loop, one unit of work per tick, return ctx.Err()
	  on cancellation.

# Interfaces

Wrappers accept small locally-defined interfaces rather than concrete
types wherever the method signatures allow it. That keeps this package
mockable in tests and free of dependencies on the packages it wraps.

# Return Values

On graceful shutdown every wrapper returns ctx.Err(). A non-nil,
non-context error means the component crashed and suture should restart
it with failure accounting.
*/
package services
