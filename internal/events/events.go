// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package events

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/viridis/internal/models"
)

// NATS subjects for analysis lifecycle events. The hierarchy stays flat so
// a single wildcard covers the whole run lifecycle.
const (
	// SubjectPrefix roots all analysis event subjects.
	SubjectPrefix = "viridis.analysis"
	// SubjectStarted carries analysis_started events.
	SubjectStarted = "viridis.analysis.started"
	// SubjectMonth carries month_completed events.
	SubjectMonth = "viridis.analysis.month"
	// SubjectCompleted carries analysis_completed events.
	SubjectCompleted = "viridis.analysis.completed"
	// SubjectFailed carries analysis_failed events.
	SubjectFailed = "viridis.analysis.failed"
	// SubjectWildcard matches every analysis event subject.
	SubjectWildcard = "viridis.analysis.>"
)

// SubjectFor returns the NATS subject for an event based on its type.
// Unknown types publish under their raw type token so new event kinds are
// still captured by the stream wildcard.
func SubjectFor(event models.AnalysisEvent) string {
	switch event.Type {
	case models.EventAnalysisStarted:
		return SubjectStarted
	case models.EventMonthCompleted:
		return SubjectMonth
	case models.EventAnalysisCompleted:
		return SubjectCompleted
	case models.EventAnalysisFailed:
		return SubjectFailed
	default:
		return SubjectPrefix + "." + event.Type
	}
}

// MessageID derives the JetStream deduplication ID for an event.
//
// The ID is deterministic for a logical event: started/completed/failed
// occur once per run and dedupe on {analysis_id, type}; month_completed
// occurs once per month and adds the month. Redeliveries inside the
// stream's duplicate window are absorbed server-side.
func MessageID(event models.AnalysisEvent) string {
	id := event.AnalysisID + ":" + event.Type
	if event.Month != "" {
		id += ":" + event.Month
	}
	return id
}

// ValidationError reports a missing or malformed event field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// validateEvent checks the fields every published event must carry.
func validateEvent(event models.AnalysisEvent) error {
	if event.Type == "" {
		return &ValidationError{Field: "type", Message: "required"}
	}
	if event.AnalysisID == "" {
		return &ValidationError{Field: "analysis_id", Message: "required"}
	}
	if event.Timestamp.IsZero() {
		return &ValidationError{Field: "timestamp", Message: "required"}
	}
	return nil
}

// Serializer handles event encoding and decoding for NATS messages.
type Serializer struct{}

// NewSerializer creates a new serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Marshal validates and converts an event to JSON bytes.
func (s *Serializer) Marshal(event models.AnalysisEvent) ([]byte, error) {
	if err := validateEvent(event); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// Unmarshal converts JSON bytes to an event.
func (s *Serializer) Unmarshal(data []byte) (models.AnalysisEvent, error) {
	var event models.AnalysisEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return models.AnalysisEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}

// SerializeEvent is a convenience function that marshals an event to JSON.
func SerializeEvent(event models.AnalysisEvent) ([]byte, error) {
	return NewSerializer().Marshal(event)
}

// DeserializeEvent is a convenience function that unmarshals JSON to an event.
func DeserializeEvent(data []byte) (models.AnalysisEvent, error) {
	return NewSerializer().Unmarshal(data)
}
