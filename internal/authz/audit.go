// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package authz

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/viridis/internal/logging"
)

// Decision label values used in metrics and log output.
const (
	DecisionAllowed = "allowed"
	DecisionDenied  = "denied"
)

// AuditEvent captures a single authorization decision.
type AuditEvent struct {
	ID            string        `json:"id"`
	Timestamp     time.Time     `json:"timestamp"`
	RequestID     string        `json:"request_id,omitempty"`
	ActorUsername string        `json:"actor_username"`
	ActorRole     string        `json:"actor_role"`
	Resource      string        `json:"resource"`
	Action        string        `json:"action"`
	Decision      bool          `json:"decision"`
	Reason        string        `json:"reason,omitempty"`
	Duration      time.Duration `json:"duration_ns"`
	IPAddress     string        `json:"ip_address,omitempty"`
	Method        string        `json:"method,omitempty"`
}

// decisionLabel returns the metric/log label for the decision.
func (e *AuditEvent) decisionLabel() string {
	if e.Decision {
		return DecisionAllowed
	}
	return DecisionDenied
}

// AuditLoggerConfig controls audit event logging.
type AuditLoggerConfig struct {
	// Enabled turns audit logging on or off.
	Enabled bool

	// LogAllowed logs allowed decisions (subject to SampleRate).
	LogAllowed bool

	// LogDenied logs denied decisions. Denials are never sampled.
	LogDenied bool

	// SampleRate is the fraction of allowed decisions to log (0.0-1.0).
	SampleRate float64

	// BufferSize is the event channel capacity.
	BufferSize int
}

// DefaultAuditLoggerConfig returns default audit configuration.
func DefaultAuditLoggerConfig() *AuditLoggerConfig {
	return &AuditLoggerConfig{
		Enabled:    true,
		LogAllowed: true,
		LogDenied:  true,
		SampleRate: 1.0,
		BufferSize: 1000,
	}
}

// AuditLogger writes authorization audit events asynchronously.
// Events are buffered on a channel and written by a background
// goroutine so enforcement never blocks on log I/O.
type AuditLogger struct {
	config    *AuditLoggerConfig
	events    chan *AuditEvent
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewAuditLogger creates an audit logger and starts its writer goroutine.
func NewAuditLogger(config *AuditLoggerConfig) *AuditLogger {
	if config == nil {
		config = DefaultAuditLoggerConfig()
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 1000
	}
	if config.SampleRate > 1.0 {
		config.SampleRate = 1.0
	}
	if config.SampleRate < 0 {
		config.SampleRate = 0
	}

	a := &AuditLogger{
		config: config,
		events: make(chan *AuditEvent, config.BufferSize),
	}

	if config.Enabled {
		a.wg.Add(1)
		go a.processEvents()
	}

	return a
}

// LogDecision queues an audit event. Never blocks: if the buffer is
// full the event is dropped and counted. Safe on a nil logger.
func (a *AuditLogger) LogDecision(event *AuditEvent) {
	if a == nil || !a.config.Enabled || event == nil {
		return
	}

	if event.Decision {
		if !a.config.LogAllowed {
			return
		}
		if a.config.SampleRate < 1.0 && rand.Float64() >= a.config.SampleRate {
			return
		}
	} else if !a.config.LogDenied {
		return
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	select {
	case a.events <- event:
	default:
		RecordAuditDropped()
		logging.Warn().
			Str("resource", event.Resource).
			Str("decision", event.decisionLabel()).
			Msg("Audit buffer full, dropping event")
	}
}

// processEvents drains the event channel until closed.
func (a *AuditLogger) processEvents() {
	defer a.wg.Done()
	for event := range a.events {
		a.writeEvent(event)
	}
}

// writeEvent emits a single audit event through the structured logger.
func (a *AuditLogger) writeEvent(event *AuditEvent) {
	logEvent := logging.Info()
	if !event.Decision {
		logEvent = logging.Warn()
	}

	logEvent = logEvent.
		Str("audit_id", event.ID).
		Str("actor", event.ActorUsername).
		Str("role", event.ActorRole).
		Str("resource", event.Resource).
		Str("action", event.Action).
		Str("decision", event.decisionLabel()).
		Dur("duration", event.Duration)

	if event.RequestID != "" {
		logEvent = logEvent.Str("request_id", event.RequestID)
	}
	if event.Reason != "" {
		logEvent = logEvent.Str("reason", event.Reason)
	}
	if event.IPAddress != "" {
		logEvent = logEvent.Str("ip", event.IPAddress)
	}
	if event.Method != "" {
		logEvent = logEvent.Str("method", event.Method)
	}

	logEvent.Msg("Authorization decision")
	RecordAuditEvent(event.Decision)
}

// Close drains remaining events and stops the writer goroutine.
// Safe on a nil logger and idempotent.
func (a *AuditLogger) Close() {
	if a == nil {
		return
	}
	a.closeOnce.Do(func() {
		close(a.events)
	})
	a.wg.Wait()
}

// AuditStats reports audit logger configuration and buffer occupancy.
type AuditStats struct {
	Enabled      bool    `json:"enabled"`
	LogAllowed   bool    `json:"log_allowed"`
	LogDenied    bool    `json:"log_denied"`
	SampleRate   float64 `json:"sample_rate"`
	BufferSize   int     `json:"buffer_size"`
	QueuedEvents int     `json:"queued_events"`
}

// Stats returns the logger's configuration and current queue depth.
// Safe on a nil logger.
func (a *AuditLogger) Stats() AuditStats {
	if a == nil {
		return AuditStats{}
	}
	return AuditStats{
		Enabled:      a.config.Enabled,
		LogAllowed:   a.config.LogAllowed,
		LogDenied:    a.config.LogDenied,
		SampleRate:   a.config.SampleRate,
		BufferSize:   a.config.BufferSize,
		QueuedEvents: len(a.events),
	}
}
