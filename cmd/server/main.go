// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/viridis/docs" // Import generated swagger docs
	"github.com/tomtom215/viridis/internal/api"
	"github.com/tomtom215/viridis/internal/auth"
	"github.com/tomtom215/viridis/internal/authz"
	"github.com/tomtom215/viridis/internal/cache"
	"github.com/tomtom215/viridis/internal/config"
	"github.com/tomtom215/viridis/internal/history"
	"github.com/tomtom215/viridis/internal/logging"
	"github.com/tomtom215/viridis/internal/mosaic"
	"github.com/tomtom215/viridis/internal/provider"
	"github.com/tomtom215/viridis/internal/supervisor"
	"github.com/tomtom215/viridis/internal/supervisor/services"
	ws "github.com/tomtom215/viridis/internal/websocket"
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Viridis with supervisor tree")
	logging.Info().
		Str("provider_url", cfg.Provider.BaseURL).
		Str("provider_key", config.MaskCredential(cfg.Provider.APIKey)).
		Str("history_path", cfg.History.Path).
		Str("cache_backend", cfg.Cache.Backend).
		Str("auth_mode", cfg.Security.AuthMode).
		Msg("Configuration loaded")

	// Result cache. The memory backend is process-local; badger persists
	// statistics and point results across restarts. Layer entries stay
	// short-lived either way because provider tile URLs expire.
	cacheStore, err := cache.NewStore(cache.Config{
		Backend:         cfg.Cache.Backend,
		Path:            cfg.Cache.Path,
		DefaultTTL:      cfg.Cache.StatsTTL,
		CleanupInterval: cfg.Cache.CleanupInterval,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize cache store")
	}
	defer func() {
		if err := cacheStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache store")
		}
	}()

	// Analysis history store (DuckDB)
	store, err := history.Open(&cfg.History)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open analysis history store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing history store")
		}
	}()
	if err := store.CreateTables(context.Background()); err != nil {
		logging.Fatal().Err(err).Msg("Failed to create history tables")
	}
	logging.Info().Str("path", cfg.History.Path).Msg("Analysis history store initialized")

	// Async recorder so the request path never blocks on DuckDB writes
	recorder := history.NewRecorder(store, cfg.History.QueueSize)
	defer func() {
		if err := recorder.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing history recorder")
		}
	}()

	// Imagery provider client behind a circuit breaker. The breaker
	// prevents cascading failures when the provider is unavailable;
	// individual tile failures degrade to blanks inside the builder.
	providerClient := provider.NewBreakerClient(provider.New(&cfg.Provider), cfg.Provider.Breaker)
	if err := providerClient.Ping(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Failed to reach imagery provider (will retry per request)")
	} else {
		logging.Info().Msg("Connected to imagery provider")
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	// Create supervisor tree
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// WebSocket hub for live analysis progress (created before the
	// builder so it can serve as the progress notifier)
	wsHub := ws.NewHub()

	// Optional NATS event pipeline (requires build with -tags nats).
	// When active, analysis events flow through JetStream and re-enter
	// the hub via the NATS bridge, so every replica's dashboard sees
	// progress from every replica.
	natsNotifier, err := InitNATS(ctx, cfg, wsHub, tree)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize NATS event pipeline")
	}

	// The builder notifies the pipeline when it exists (events come back
	// to the hub over NATS); otherwise the hub is notified directly.
	var notifier mosaic.Notifier = wsHub
	if natsNotifier != nil {
		notifier = natsNotifier
	}

	builder := mosaic.NewBuilder(providerClient, cfg.Analysis, notifier)

	var jwtManager *auth.JWTManager
	switch cfg.Security.AuthMode {
	case "jwt":
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		logging.Info().Msg("JWT authentication enabled")
	case "none":
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  The analysis API is publicly accessible and the admin")
		logging.Warn().Msg("  endpoints are unreachable (they always require a token).")
		logging.Warn().Msg("  Use AUTH_MODE=jwt with JWT_SECRET and admin credentials")
		logging.Warn().Msg("  for any deployment that needs the admin surface.")
		logging.Warn().Msg("============================================================")
	}

	authMiddleware := auth.NewMiddleware(
		jwtManager,
		cfg.Security.AuthMode,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
		cfg.Security.CORSOrigins,
		cfg.Security.TrustedProxies,
	)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (RATE_LIMIT_DISABLED=true)")
	}

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  CORS is configured with wildcard origin (CORS_ORIGINS=*)")
		logging.Warn().Msg("  while authentication is enabled. Any website can make")
		logging.Warn().Msg("  cross-origin requests to this API.")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  RECOMMENDED: Set specific origins in production:")
		logging.Warn().Msg("    CORS_ORIGINS=https://yourdomain.com")
		logging.Warn().Msg("============================================================")
	}

	// Login lockout tracking (per username and per source IP)
	lockout := auth.NewLockoutManager(auth.NewMemoryLockoutStore(), auth.DefaultLockoutConfig())
	lockout.StartCleanupRoutine(ctx)
	login := auth.NewLoginHandlers(jwtManager, lockout, authMiddleware, &cfg.Security)

	// Casbin RBAC for the admin surface
	enforcer, err := authz.NewEnforcer(authz.EnforcerConfigFrom(&cfg.Security.Casbin))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authorization enforcer")
	}
	auditLogger := authz.NewAuditLogger(authz.DefaultAuditLoggerConfig())
	defer auditLogger.Close()

	handler := api.NewHandler(providerClient, builder, store, recorder, cacheStore, wsHub, cfg)
	router := api.NewRouter(handler, authMiddleware, login, enforcer, auditLogger, &cfg.Security)
	defer router.Close()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Data layer services
	tree.AddDataService(services.NewCacheJanitorService(cacheStore, cfg.Cache.CleanupInterval))
	tree.AddDataService(services.NewHistoryPrunerService(store, cfg.History.RetentionDays, cfg.History.PruneInterval))

	// Messaging layer services (the event pipeline is added by InitNATS)
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
