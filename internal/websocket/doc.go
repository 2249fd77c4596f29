// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

/*
Package websocket provides real-time broadcasting of analysis progress.

Long-running Amazon mosaics and AOI statistics take many seconds; this
package streams their lifecycle events (analysis_started, month_completed,
analysis_completed, analysis_failed) to connected dashboards over
gorilla/websocket using a hub-client architecture.

Key Components:

  - Hub: Central broker managing client connections and broadcasts. It
    implements mosaic.Notifier, so analysis builders feed it directly.
  - Client: One WebSocket connection with read/write goroutines.
  - Message: Typed envelope {type, data}; data is a models.AnalysisEvent
    for lifecycle messages.

Each client has two goroutines:
  - readPump: reads from the socket, answers application-level pings
  - writePump: writes hub messages, sends protocol pings

Connection Lifecycle:

 1. Client connects via HTTP upgrade on /api/v1/ws
 2. Hub registers client
 3. Hub broadcasts analysis events to all clients (slow clients dropped)
 4. Client disconnects (network error or explicit close)
 5. Hub unregisters client and cleans up

Timeouts:
  - writeWait: 10 seconds per message
  - pongWait: 60 seconds (dead connection detection)
  - pingPeriod: 54 seconds (must be < pongWait)
  - maxMessageSize: 512 KB

When the service is compiled with -tags nats, the hub is additionally fed
by a JetStream subscriber (see nats_subscriber.go) so events survive the
publishing process and fan out across replicas.
*/
package websocket
