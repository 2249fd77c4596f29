// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

// Package events provides the optional analysis event pipeline built on
// Watermill and NATS JetStream.
//
// Analysis progress events (analysis_started, month_completed,
// analysis_completed, analysis_failed) are emitted by the mosaic builder on
// the hot path. In a single-instance deployment they feed the WebSocket hub
// directly and this package stays out of the picture. When the pipeline is
// enabled, the same events are additionally published to JetStream so that
// every replica's dashboards see progress from analyses running anywhere:
//
//	┌──────────────┐      ┌─────────────────────┐      ┌──────────────┐
//	│ mosaic.Build │ ───▶ │   NATS JetStream    │ ───▶ │ websocket.Hub│
//	│  (Notifier)  │      │  viridis.analysis.* │      │ (all replicas)│
//	└──────────────┘      └─────────────────────┘      └──────────────┘
//
// # Subjects
//
// Events map onto a flat subject hierarchy under viridis.analysis:
//
//	viridis.analysis.started    analysis_started
//	viridis.analysis.month      month_completed
//	viridis.analysis.completed  analysis_completed
//	viridis.analysis.failed     analysis_failed
//
// Subscribers bind the wildcard viridis.analysis.> to receive the full
// lifecycle of every run.
//
// # Delivery semantics
//
// Publishes carry a deterministic Nats-Msg-Id derived from the analysis ID,
// event type, and month, so JetStream's duplicate window absorbs redeliveries
// of the same logical event. The publisher is wrapped in a circuit breaker;
// when NATS is unavailable the Notifier drops events rather than stalling
// analyses, since the history store remains the durable record of runs.
//
// # Build tags
//
// The NATS dependencies are compiled in only with -tags nats. The default
// build ships stub implementations whose constructors return an error, and
// the server falls back to direct hub notification.
package events
