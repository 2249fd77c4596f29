// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/viridis/internal/auth"
	"github.com/tomtom215/viridis/internal/authz"
	"github.com/tomtom215/viridis/internal/config"
	"github.com/tomtom215/viridis/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
// This allows the auth and metrics middleware to work with Chi's r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router wires handlers, authentication, authorization, and per-route
// rate limiting into the HTTP surface.
type Router struct {
	handler       *Handler
	middleware    *auth.Middleware
	login         *auth.LoginHandlers
	chiMiddleware *ChiMiddleware
	enforcer      *authz.Enforcer
	authzAPI      *authz.Middleware
	authzAdmin    *authz.Middleware
}

// NewRouter creates the router from the already-configured components.
//
// Two authorization middlewares are built from the same enforcer: the
// API one honors the configured auth mode (so "none" deployments serve
// data endpoints without tokens), while the admin one always requires
// authenticated claims regardless of mode.
func NewRouter(handler *Handler, mw *auth.Middleware, login *auth.LoginHandlers, enforcer *authz.Enforcer, audit *authz.AuditLogger, securityCfg *config.SecurityConfig) *Router {
	reqsPerWindow, rateLimitDisabled := mw.GetRateLimitConfig()
	chiMw := NewChiMiddlewareFromAuth(
		mw.GetCORSOrigins(),
		reqsPerWindow,
		mw.GetRateLimitWindow(),
		rateLimitDisabled,
	)

	authMode := "none"
	if securityCfg != nil {
		authMode = securityCfg.AuthMode
	}

	return &Router{
		handler:       handler,
		middleware:    mw,
		login:         login,
		chiMiddleware: chiMw,
		enforcer:      enforcer,
		authzAPI:      authz.NewMiddleware(enforcer, authMode, audit),
		authzAdmin:    authz.NewMiddleware(enforcer, "jwt", audit),
	}
}

// GetEnforcer returns the Casbin enforcer for direct policy operations.
func (router *Router) GetEnforcer() *authz.Enforcer {
	return router.enforcer
}

// Close releases router-owned resources, including the policy enforcer.
func (router *Router) Close() {
	if router.enforcer != nil {
		router.enforcer.Close()
	}
}

// SetupChi configures all HTTP routes using the Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(RequestIDWithLogging())      // Add X-Request-ID header with logging context
	r.Use(DebugRequestLogging())       // Diagnostic logging (enabled via VIRIDIS_HTTP_DEBUG=true)
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// ========================
	// Health Endpoints
	// ========================
	// Top-level probes for orchestrators; permissive rate limiting
	// (1000/min) allows frequent polling while preventing abuse.
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/health", router.handler.Health)
		r.Get("/ready", router.handler.Ready)
	})

	// ========================
	// Authentication Endpoints
	// ========================
	// Strict rate limiting for auth endpoints (brute force prevention)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAuth())
		r.Use(APISecurityHeaders())

		// Login has strictest rate limiting (5 attempts per 5 minutes)
		r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", router.login.Login)

		r.Post("/logout", router.login.Logout)
		r.Get("/userinfo", router.login.UserInfo)
	})

	// ========================
	// Composite Layers
	// ========================
	// Each request fans out to the imagery provider, so the analysis
	// tier (10/min) gates all layer, statistics, and point endpoints.
	r.Route("/api/v1/layers", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAnalysis())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(router.middleware.Authenticate))
		r.Use(router.authzAPI.Handler)

		r.Get("/amazon/ndvi", router.handler.AmazonNDVILayers)
		r.Get("/amazon/lst", router.handler.AmazonLSTLayers)
	})

	// ========================
	// AOI Statistics
	// ========================
	r.Route("/api/v1/statistics", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAnalysis())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(router.middleware.Authenticate))
		r.Use(router.authzAPI.Handler)

		r.Post("/ndvi", router.handler.NDVIStatistics)
		r.Post("/lst", router.handler.LSTStatistics)
	})

	// ========================
	// Point Sampling
	// ========================
	r.Route("/api/v1/point", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAnalysis())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(router.middleware.Authenticate))
		r.Use(router.authzAPI.Handler)

		r.Post("/ndvi", router.handler.NDVIPoint)
		r.Post("/lst", router.handler.LSTPoint)
	})

	// ========================
	// Analysis History
	// ========================
	// Read-only queries against local DuckDB; permissive tier (300/min)
	r.Route("/api/v1/analyses", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHistory())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(router.middleware.Authenticate))
		r.Use(router.authzAPI.Handler)

		r.Get("/", router.handler.ListAnalyses)
		r.Get("/{id}", router.handler.GetAnalysis)
	})

	// ========================
	// WebSocket
	// ========================
	r.Route("/api/v1/ws", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitWebSocket())
		r.Use(chiMiddleware(router.middleware.Authenticate))
		r.Use(router.authzAPI.Handler)

		r.Get("/", router.handler.WebSocket)
	})

	// ========================
	// Admin Endpoints
	// ========================
	// Admin routes always require a valid token, even when the API
	// itself runs in "none" auth mode.
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAdmin())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(router.middleware.AuthenticateStrict))
		r.Use(router.authzAdmin.Handler)

		r.Post("/cache/purge", router.handler.CachePurge)
		r.Delete("/analyses", router.handler.AnalysesWipe)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
