// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package mosaic

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/viridis/internal/config"
	"github.com/tomtom215/viridis/internal/models"
	"github.com/tomtom215/viridis/internal/provider"
)

// ErrAllMonthsFailed is returned when no month in the window produced a
// usable result, fallbacks included.
var ErrAllMonthsFailed = errors.New("no month in the analysis window produced data")

// Provider is the slice of the imagery gateway the builder needs. Satisfied
// by *provider.Client and *provider.BreakerClient.
type Provider interface {
	Composite(ctx context.Context, req provider.CompositeRequest) (*provider.ImageHandle, error)
	MosaicTiles(ctx context.Context, req provider.MosaicRequest) (*provider.TileLayer, error)
	RegionStatistics(ctx context.Context, req provider.StatsRequest) (*provider.RegionStats, error)
	PointSample(ctx context.Context, req provider.SampleRequest) (*provider.PointSample, error)
}

// Notifier receives run lifecycle events. Implementations must not block;
// events are emitted from the analysis hot path.
type Notifier interface {
	Notify(event models.AnalysisEvent)
}

// NopNotifier discards all events.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(models.AnalysisEvent) {}

// Builder runs analyses against the imagery provider.
type Builder struct {
	provider Provider
	cfg      config.AnalysisConfig
	notifier Notifier
}

// NewBuilder creates a Builder. A nil notifier is replaced by NopNotifier.
func NewBuilder(p Provider, cfg config.AnalysisConfig, notifier Notifier) *Builder {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Builder{
		provider: p,
		cfg:      cfg,
		notifier: notifier,
	}
}

// notify stamps and forwards one lifecycle event.
func (b *Builder) notify(event models.AnalysisEvent) {
	event.Timestamp = time.Now().UTC()
	b.notifier.Notify(event)
}

// MonthOutcome records how one month of a run went, for history recording.
type MonthOutcome struct {
	Month          string
	TilesProcessed int
	GridCoverage   string
	DataAvailable  bool
	DurationMS     int64
}

// Report summarizes a run for history recording. FallbackMonths counts
// months served by a whole-region fallback composite; FailedMonths counts
// months that produced nothing at all; Sequential is set when a worker pool
// panicked and the run finished on the sequential path.
type Report struct {
	Months         []MonthOutcome
	FallbackMonths int
	FailedMonths   int
	Sequential     bool
}
