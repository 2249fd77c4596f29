// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package events

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/viridis/internal/logging"
	"github.com/tomtom215/viridis/internal/models"
)

// publishTimeout bounds a single event publish.
const publishTimeout = 5 * time.Second

// EventPublisher sends one analysis event to the pipeline. *Publisher
// implements it; tests substitute fakes.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event models.AnalysisEvent) error
}

// Notifier publishes analysis events asynchronously so the mosaic builder
// never blocks on the broker. Events are dropped, not queued unboundedly,
// when the buffer is full; the history store remains the durable record of
// runs, so a dropped progress event costs a dashboard update, not data.
type Notifier struct {
	pub       EventPublisher
	eventChan chan models.AnalysisEvent
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	dropped   atomic.Int64
	published atomic.Int64
}

// NewNotifier creates a notifier with the given queue capacity and starts
// its publish goroutine.
func NewNotifier(pub EventPublisher, queueSize int) *Notifier {
	if queueSize <= 0 {
		queueSize = 256
	}
	n := &Notifier{
		pub:       pub,
		eventChan: make(chan models.AnalysisEvent, queueSize),
		stopChan:  make(chan struct{}),
	}
	n.wg.Add(1)
	go n.asyncPublisher()
	return n
}

// Notify enqueues an event without blocking. If the buffer is full the
// event is dropped and counted.
func (n *Notifier) Notify(event models.AnalysisEvent) {
	select {
	case n.eventChan <- event:
	default:
		n.dropped.Add(1)
		logging.Warn().
			Str("analysis_id", event.AnalysisID).
			Str("type", event.Type).
			Msg("Event pipeline buffer full, dropping event")
	}
}

// asyncPublisher processes queued events until stopped, then drains the
// buffer.
func (n *Notifier) asyncPublisher() {
	defer n.wg.Done()

	for {
		select {
		case <-n.stopChan:
			for {
				select {
				case event := <-n.eventChan:
					n.publish(event)
				default:
					return
				}
			}
		case event := <-n.eventChan:
			n.publish(event)
		}
	}
}

// publish sends a single event with a timeout. Failures are logged and
// counted against the breaker inside the publisher; the notifier keeps
// draining either way.
func (n *Notifier) publish(event models.AnalysisEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := n.pub.PublishEvent(ctx, event); err != nil {
		logging.Error().
			Err(err).
			Str("analysis_id", event.AnalysisID).
			Str("type", event.Type).
			Msg("Failed to publish analysis event")
		return
	}
	n.published.Add(1)
}

// Published returns the number of successfully published events.
func (n *Notifier) Published() int64 {
	return n.published.Load()
}

// Dropped returns the number of events dropped because the buffer was full.
func (n *Notifier) Dropped() int64 {
	return n.dropped.Load()
}

// Close stops the publish goroutine after draining queued events.
// Safe to call more than once; the supervisor wrapper and boot error
// paths may both reach it.
func (n *Notifier) Close() error {
	n.stopOnce.Do(func() {
		close(n.stopChan)
		n.wg.Wait()
	})
	return nil
}
