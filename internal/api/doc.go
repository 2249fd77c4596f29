// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

// Package api implements the HTTP API for satellite vegetation and land
// surface temperature analytics.
//
// The package provides RESTful endpoints organized into these categories:
//
//   - Layers: monthly NDVI/LST tile layers for the Amazon basin
//     (GET /api/v1/layers/amazon/ndvi, GET /api/v1/layers/amazon/lst)
//   - Statistics: monthly regional statistics for a caller-supplied AOI
//     (POST /api/v1/statistics/ndvi, POST /api/v1/statistics/lst)
//   - Point: single-location time series samples
//     (POST /api/v1/point/ndvi, POST /api/v1/point/lst)
//   - Analyses: persisted run history
//     (GET /api/v1/analyses, GET /api/v1/analyses/{id})
//   - Auth: login, logout, and user info when AUTH_MODE=jwt
//     (POST /api/v1/auth/login, POST /api/v1/auth/logout, GET /api/v1/auth/userinfo)
//   - Admin: cache purge and history wipe, always token-gated
//     (POST /api/v1/admin/cache/purge, DELETE /api/v1/admin/analyses)
//   - Real-time: WebSocket progress events (GET /api/v1/ws)
//   - Operational: health, readiness, Prometheus metrics, Swagger UI
//     (GET /health, GET /ready, GET /metrics, GET /swagger/*)
//
// # Usage
//
//	handler := api.NewHandler(provider, builder, store, cache, recorder, hub, perfMon, cfg)
//	router, err := api.NewRouter(handler, authMW, loginHandlers, enforcer, audit, &cfg.Security)
//	if err != nil {
//	    return err
//	}
//	srv := &http.Server{Addr: addr, Handler: router.SetupChi()}
//
// # Response envelope
//
// Every JSON endpoint responds with the same envelope: a status string
// ("success" or "error"), the payload under data, request metadata
// (timestamp, query time, cache flag, request ID), and a structured error
// object on failure. Cacheable GET responses carry an ETag derived from
// the response body via FNV-1a.
//
// # Execution model
//
// Layer and statistics requests fan out per month through the mosaic
// builder, which bounds provider concurrency with worker pools and falls
// back to relaxed cloud masking when a month yields no imagery. Results
// are cached (tile URLs expire upstream, so layer responses use the
// shorter TTL) and every run is recorded asynchronously in the DuckDB
// history store.
//
// # Thread safety
//
// All handlers are safe for concurrent use. Shared state lives in the
// cache store, the history store, and the WebSocket hub, each of which
// synchronizes internally.
//
// # Security
//
// Authentication is JWT-based and controlled by AUTH_MODE. Authorization
// is enforced per-route by the casbin RBAC middleware; admin endpoints
// require a valid token regardless of AUTH_MODE. All endpoints apply
// security headers and per-group IP rate limits.
package api
