// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package models

// HealthStatus is the liveness check response body.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	ProviderState     string  `json:"provider_state"`
	WebSocketClients  int     `json:"websocket_clients"`
	Uptime            float64 `json:"uptime_seconds"`
}

// ReadyStatus is the readiness probe response body. Unlike the liveness
// check it fails closed: the service reports ready only when every
// dependency needed to serve analysis requests is available.
type ReadyStatus struct {
	Status            string `json:"status"`
	DatabaseConnected bool   `json:"database_connected"`
	CacheReady        bool   `json:"cache_ready"`
	ProviderState     string `json:"provider_state"`
	ReadyToServe      bool   `json:"ready_to_serve"`
}
