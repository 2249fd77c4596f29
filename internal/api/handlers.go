// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/viridis/internal/cache"
	"github.com/tomtom215/viridis/internal/config"
	"github.com/tomtom215/viridis/internal/history"
	"github.com/tomtom215/viridis/internal/logging"
	"github.com/tomtom215/viridis/internal/middleware"
	"github.com/tomtom215/viridis/internal/mosaic"
	ws "github.com/tomtom215/viridis/internal/websocket"
)

// ProviderStatus is the imagery provider surface consulted by the health
// endpoints. *provider.BreakerClient satisfies it.
type ProviderStatus interface {
	Ping(ctx context.Context) error
	StateString() string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, WebSocket endpoint (this file)
//   - handlers_helpers.go: Shared helper functions
//   - handlers_layers.go: Amazon basin layer endpoints (2 methods)
//   - handlers_statistics.go: AOI statistics endpoints (2 methods)
//   - handlers_point.go: Point sample endpoints (2 methods)
//   - handlers_analyses.go: Analysis history endpoints (2 methods)
//   - handlers_health.go: Health and readiness endpoints (2 methods)
//   - handlers_admin.go: Admin endpoints (2 methods)
//   - analysis_executor.go: Cache-first execution shared by analysis endpoints
type Handler struct {
	provider  ProviderStatus
	builder   *mosaic.Builder
	history   *history.Store
	recorder  *history.Recorder
	cache     cache.Store
	wsHub     *ws.Hub
	config    *config.Config
	startTime time.Time
	perfMon   *middleware.PerformanceMonitor
}

// NewHandler creates a new API handler with all required dependencies.
//
// Dependencies:
//   - prov: imagery provider client (breaker-wrapped) for health checks
//   - builder: mosaic builder executing the per-month analysis fan-out
//   - store: DuckDB history store for run queries (may be nil in tests)
//   - recorder: asynchronous run recorder (may be nil in tests)
//   - cacheStore: response cache, backend chosen by configuration
//   - wsHub: WebSocket hub for progress broadcasts (may be nil)
//   - cfg: application configuration
//
// The handler initializes with a performance monitor tracking the last 1000
// requests and a start time for uptime reporting.
//
// Example:
//
//	handler := api.NewHandler(prov, builder, store, recorder, cacheStore, wsHub, cfg)
//	router, err := api.NewRouter(handler, authMW, login, enforcer, audit, &cfg.Security)
func NewHandler(prov ProviderStatus, builder *mosaic.Builder, store *history.Store, recorder *history.Recorder, cacheStore cache.Store, wsHub *ws.Hub, cfg *config.Config) *Handler {
	return &Handler{
		provider:  prov,
		builder:   builder,
		history:   store,
		recorder:  recorder,
		cache:     cacheStore,
		wsHub:     wsHub,
		config:    cfg,
		startTime: time.Now(),
		perfMon:   middleware.NewPerformanceMonitor(1000), // Keep last 1000 requests
	}
}

// ClearCache invalidates all cached analysis responses.
//
// Called by the admin cache purge endpoint when no prefix is given. Tile
// URLs signed by the provider keep expiring on their own; clearing the
// cache just forces the next request to rebuild.
//
// Thread Safety: Safe for concurrent access.
func (h *Handler) ClearCache() {
	if h.cache != nil {
		h.cache.Clear()
		logging.Info().Msg("Analysis cache cleared")
	}
}

// GetCacheStats returns cache statistics for the health endpoint.
func (h *Handler) GetCacheStats() cache.Stats {
	if h.cache == nil {
		return cache.Stats{}
	}
	return h.cache.GetStats()
}

// GetPerformanceStats returns per-endpoint latency statistics.
func (h *Handler) GetPerformanceStats() []middleware.EndpointStats {
	if h.perfMon == nil {
		return nil
	}
	return h.perfMon.GetStats()
}

// getUpgrader creates a WebSocket upgrader with proper origin checking and timeouts.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// If no origin header, REJECT - legitimate browser WebSockets ALWAYS include Origin
	// Only non-browser clients (curl, scripts, mobile apps) omit Origin header
	// Allowing empty Origin bypasses CORS entirely - security vulnerability
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	// If config is nil, allow by default (fail open for tests/development)
	if h.config == nil {
		return true
	}

	// Check against allowed origins from config
	for _, allowedOrigin := range h.config.Security.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	// Origin not in allowed list - sanitize origin to prevent log injection
	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// WebSocket handles WebSocket connections
//
// @Summary Establish WebSocket connection
// @Description Establishes a WebSocket connection for real-time analysis progress events (analysis_started, month_completed, analysis_completed, analysis_failed)
// @Tags Realtime
// @Accept json
// @Produce json
// @Success 101 {string} string "Switching Protocols"
// @Failure 400 {string} string "Bad Request"
// @Failure 503 {string} string "WebSocket hub not available"
// @Router /ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	// Check if WebSocket hub is available
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	h.wsHub.Register <- client
	client.Start()
}
