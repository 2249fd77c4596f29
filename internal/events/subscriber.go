// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

//go:build nats

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/viridis/internal/metrics"
	"github.com/tomtom215/viridis/internal/models"
)

// Subscriber wraps a Watermill NATS subscriber bound to the analysis event
// stream. Consumers in the same queue group share delivery; separate groups
// each see every event.
type Subscriber struct {
	subscriber message.Subscriber
	config     SubscriberConfig
	logger     watermill.LoggerAdapter
}

// NewSubscriber creates a durable JetStream subscriber. The subscriber
// binds to the pre-created stream because the wildcard subject cannot
// auto-provision a stream of its own.
func NewSubscriber(cfg *SubscriberConfig, logger watermill.LoggerAdapter) (*Subscriber, error) {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("Subscriber disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("Subscriber reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}

	subOpts := []natsgo.SubOpt{
		natsgo.MaxDeliver(cfg.MaxDeliver),
		natsgo.MaxAckPending(cfg.MaxAckPending),
		natsgo.AckWait(cfg.AckWaitTimeout),
		// Live feed: new events only. Replay belongs to the history
		// store, not the stream.
		natsgo.DeliverNew(),
	}

	autoProvision := true
	if cfg.StreamName != "" {
		subOpts = append(subOpts, natsgo.BindStream(cfg.StreamName))
		autoProvision = false
	}

	wmConfig := wmNats.SubscriberConfig{
		URL:              cfg.URL,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: cfg.SubscribersCount,
		AckWaitTimeout:   cfg.AckWaitTimeout,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:         false,
			AutoProvision:    autoProvision,
			AckAsync:         false,
			SubscribeOptions: subOpts,
			DurablePrefix:    cfg.DurableName,
		},
	}

	sub, err := wmNats.NewSubscriber(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill subscriber: %w", err)
	}

	return &Subscriber{
		subscriber: sub,
		config:     *cfg,
		logger:     logger,
	}, nil
}

// Subscribe returns a channel of messages for the given subject. The
// channel closes when the context is canceled or the subscriber is closed.
func (s *Subscriber) Subscribe(ctx context.Context, subject string) (<-chan *message.Message, error) {
	return s.subscriber.Subscribe(ctx, subject)
}

// Close gracefully shuts down the subscriber.
func (s *Subscriber) Close() error {
	return s.subscriber.Close()
}

// RawSource adapts the subscriber to a plain byte-stream consumer, the
// shape the WebSocket bridge expects. Messages are acked after their
// payload is handed off; the live feed prefers losing an event over
// redelivering stale progress.
type RawSource struct {
	subscriber *Subscriber
}

// NewRawSource creates a byte-stream adapter over the subscriber.
func NewRawSource(sub *Subscriber) *RawSource {
	return &RawSource{subscriber: sub}
}

// Subscribe subscribes to a subject and returns a channel of raw payloads.
func (r *RawSource) Subscribe(ctx context.Context, subject string) (<-chan []byte, error) {
	messages, err := r.subscriber.Subscribe(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", subject, err)
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		for msg := range messages {
			payload := make([]byte, len(msg.Payload))
			copy(payload, msg.Payload)
			msg.Ack()
			metrics.RecordNATSConsume()

			select {
			case out <- payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// Close releases the underlying subscriber.
func (r *RawSource) Close() error {
	return r.subscriber.Close()
}

// EventHandler consumes deserialized analysis events from one subject.
type EventHandler struct {
	subscriber *Subscriber
	subject    string
	serializer *Serializer
	handler    func(ctx context.Context, event models.AnalysisEvent) error
	logger     watermill.LoggerAdapter
}

// NewEventHandler creates a typed consumer for the given subject.
func (s *Subscriber) NewEventHandler(subject string) *EventHandler {
	return &EventHandler{
		subscriber: s,
		subject:    subject,
		serializer: NewSerializer(),
		logger:     s.logger,
	}
}

// Handle sets the event processing function. Processing errors nack the
// message for redelivery.
func (h *EventHandler) Handle(fn func(ctx context.Context, event models.AnalysisEvent) error) *EventHandler {
	h.handler = fn
	return h
}

// Run processes events until context cancellation.
func (h *EventHandler) Run(ctx context.Context) error {
	messages, err := h.subscriber.Subscribe(ctx, h.subject)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", h.subject, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			h.processMessage(ctx, msg)
		}
	}
}

func (h *EventHandler) processMessage(ctx context.Context, msg *message.Message) {
	event, err := h.serializer.Unmarshal(msg.Payload)
	if err != nil {
		metrics.RecordNATSParseFailed()
		h.logger.Error("Event unmarshal failed", err, watermill.LogFields{
			"message_uuid": msg.UUID,
			"subject":      h.subject,
		})
		// Malformed payloads never parse; acking avoids a redelivery loop.
		msg.Ack()
		return
	}

	if h.handler == nil {
		msg.Ack()
		return
	}

	if err := h.handler(ctx, event); err != nil {
		h.logger.Error("Event processing failed", err, watermill.LogFields{
			"message_uuid": msg.UUID,
			"analysis_id":  event.AnalysisID,
		})
		msg.Nack()
		return
	}

	msg.Ack()
	metrics.RecordNATSConsume()
}
