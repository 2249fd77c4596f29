// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/viridis/internal/models"
)

// Health handles liveness check requests
//
// @Summary Get system health status
// @Description Returns health status including history database connectivity, imagery provider circuit state, WebSocket client count, and uptime. Reports degraded instead of failing so load balancers keep the process alive
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Health status retrieved successfully"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	// Check database connectivity (nil means not connected)
	dbConnected := h.history != nil && h.history.Ping(r.Context()) == nil

	// Circuit state is a cheap read; liveness never calls the provider
	providerState := "unknown"
	if h.provider != nil {
		providerState = h.provider.StateString()
	}

	wsClients := 0
	if h.wsHub != nil {
		wsClients = h.wsHub.GetClientCount()
	}

	status := "healthy"
	if !dbConnected || providerState == "open" {
		status = "degraded"
	}

	health := models.HealthStatus{
		Status:            status,
		Version:           "1.0.0",
		DatabaseConnected: dbConnected,
		ProviderState:     providerState,
		WebSocketClients:  wsClients,
		Uptime:            time.Since(h.startTime).Seconds(),
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// Ready handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only if the service is ready to handle traffic
//
// @Summary Kubernetes readiness probe
// @Description Returns 200 OK only when the history database, response cache, and imagery provider are all reachable. Returns 503 otherwise so traffic is routed elsewhere
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.ReadyStatus} "Service is ready"
// @Failure 503 {object} models.APIResponse{data=models.ReadyStatus} "Service is not ready"
// @Router /ready [get]
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	// Check database connectivity (nil means not connected)
	dbConnected := h.history != nil && h.history.Ping(r.Context()) == nil

	// Cache stores are ready once constructed
	cacheReady := h.cache != nil

	// Readiness pings the provider through the circuit breaker; an open
	// circuit fails fast instead of hanging the probe
	providerState := "unknown"
	providerOK := false
	if h.provider != nil {
		providerOK = h.provider.Ping(r.Context()) == nil
		providerState = h.provider.StateString()
	}

	ready := dbConnected && cacheReady && providerOK

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: models.ReadyStatus{
			Status:            status,
			DatabaseConnected: dbConnected,
			CacheReady:        cacheReady,
			ProviderState:     providerState,
			ReadyToServe:      ready,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
