// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

//go:build nats

package events

import (
	"context"
	"fmt"

	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/viridis/internal/config"
	"github.com/tomtom215/viridis/internal/logging"
)

// breakerName labels the publish breaker in logs.
const breakerName = "events-publisher"

// Pipeline owns the full analysis event stack: the optional embedded
// JetStream server, the stream, the breaker-wrapped publisher, and the
// durable subscriber. It hands the mosaic builder a Notifier and the
// WebSocket bridge a RawSource.
type Pipeline struct {
	cfg        config.NATSConfig
	server     *EmbeddedServer // nil when connecting to an external broker
	nc         *natsgo.Conn
	streams    *StreamManager
	publisher  *Publisher
	subscriber *Subscriber
	notifier   *Notifier
	clientURL  string
}

// NewPipeline starts the event pipeline: boots the embedded server when
// configured, ensures the analysis stream exists, and connects the
// publisher and subscriber. The caller owns shutdown via Close.
func NewPipeline(ctx context.Context, cfg *config.NATSConfig) (*Pipeline, error) {
	p := &Pipeline{cfg: *cfg, clientURL: cfg.URL}

	if cfg.EmbeddedServer {
		sc := ServerConfigFrom(cfg)
		server, err := NewEmbeddedServer(&sc)
		if err != nil {
			return nil, fmt.Errorf("start embedded server: %w", err)
		}
		p.server = server
		p.clientURL = server.ClientURL()
	}

	if err := p.connect(ctx); err != nil {
		p.shutdownServer()
		return nil, err
	}

	logging.Info().
		Str("url", p.clientURL).
		Bool("embedded", p.server != nil).
		Str("stream", StreamName).
		Msg("Analysis event pipeline started")

	return p, nil
}

// connect establishes the management connection, the stream, and the
// Watermill endpoints.
func (p *Pipeline) connect(ctx context.Context) error {
	nc, err := natsgo.Connect(p.clientURL,
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
	)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	p.nc = nc

	streamCfg := StreamConfigFrom(&p.cfg)
	streams, err := NewStreamManager(nc, &streamCfg)
	if err != nil {
		p.closePartial()
		return err
	}
	p.streams = streams

	if _, err := streams.EnsureStream(ctx); err != nil {
		p.closePartial()
		return fmt.Errorf("ensure stream: %w", err)
	}

	logger := NewWatermillLogger()

	publisher, err := NewPublisher(DefaultPublisherConfig(p.clientURL), logger)
	if err != nil {
		p.closePartial()
		return err
	}
	publisher.SetBreaker(NewBreaker(DefaultBreakerConfig(breakerName)))
	p.publisher = publisher

	subCfg := SubscriberConfigFrom(&p.cfg, p.clientURL)
	subscriber, err := NewSubscriber(&subCfg, logger)
	if err != nil {
		p.closePartial()
		return err
	}
	p.subscriber = subscriber

	p.notifier = NewNotifier(publisher, 0)
	return nil
}

// Notifier returns the async event notifier for the mosaic builder.
func (p *Pipeline) Notifier() *Notifier {
	return p.notifier
}

// Source returns the raw byte-stream source for the WebSocket bridge.
func (p *Pipeline) Source() *RawSource {
	return NewRawSource(p.subscriber)
}

// ClientURL returns the broker URL the pipeline is connected to.
func (p *Pipeline) ClientURL() string {
	return p.clientURL
}

// Healthy reports whether the analysis stream is reachable.
func (p *Pipeline) Healthy(ctx context.Context) bool {
	return p.streams != nil && p.streams.IsHealthy(ctx)
}

// Close drains the notifier, closes the Watermill endpoints, and shuts
// down the embedded server when one is running.
func (p *Pipeline) Close(ctx context.Context) error {
	var firstErr error

	if p.notifier != nil {
		if err := p.notifier.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if p.publisher != nil {
		if err := p.publisher.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if p.subscriber != nil {
		if err := p.subscriber.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if p.nc != nil {
		p.nc.Close()
	}
	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	logging.Info().Msg("Analysis event pipeline stopped")
	return firstErr
}

// closePartial tears down whatever connect managed to build.
func (p *Pipeline) closePartial() {
	if p.publisher != nil {
		_ = p.publisher.Close()
	}
	if p.nc != nil {
		p.nc.Close()
	}
}

// shutdownServer stops the embedded server during failed construction.
func (p *Pipeline) shutdownServer() {
	if p.server != nil {
		_ = p.server.Shutdown(context.Background())
	}
}
