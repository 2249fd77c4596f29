// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

/*
Package main is the entry point for the Viridis server application.

Viridis serves NDVI (vegetation index) and LST (land surface temperature)
products computed from satellite imagery archives by a remote earth
observation provider. It returns monthly map-tile layers over the Amazon
basin and numeric statistics over user-supplied areas and points, each
across a trailing 12-month window.

# Application Architecture

The server implements a layered architecture with Suture v4 process
supervision:

	RootSupervisor ("viridis")
	├── DataSupervisor ("data-layer")
	│   ├── Cache janitor (per-namespace stats, eviction reporting)
	│   └── History pruner (analysis run retention)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket Hub (live analysis progress)
	│   └── Event pipeline (optional, -tags nats)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (REST API with Swagger documentation)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Result cache: in-memory or BadgerDB backend (CACHE_BACKEND)
 3. History store: DuckDB analysis run records with async recorder
 4. Provider client: imagery gateway behind a circuit breaker
 5. WebSocket hub: live progress for connected dashboards
 6. NATS (optional): JetStream event pipeline with Watermill
 7. Authentication: JWT for the admin surface, Casbin RBAC
 8. HTTP server: Chi router added to the supervisor tree last

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest
priority wins):

  - Environment variables (VIRIDIS_ prefixed or the documented aliases)
  - Config file (config.yaml)
  - Built-in defaults

The imagery provider connection is the only required configuration:

	export PROVIDER_URL=https://earth-gateway.example.com
	export PROVIDER_API_KEY=your-api-key
	./viridis-server

For the admin surface (cache purge, history wipe), JWT authentication:

	export AUTH_MODE=jwt
	export JWT_SECRET=$(openssl rand -base64 32)
	export ADMIN_USERNAME=admin
	export ADMIN_PASSWORD=secure-password

# Build Tags

Optional build tags enable additional functionality:

	go build ./cmd/server              # Default build, no event pipeline
	go build -tags nats ./cmd/server   # Enable NATS JetStream events

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

  - Stops accepting new connections
  - Waits for in-flight requests to complete (10s timeout)
  - Drains the history recorder queue
  - Closes the event pipeline and cache backends

# Port 8000

The default port 8000 matches the original deployment of the analysis
API; override with PORT.
*/
package main
