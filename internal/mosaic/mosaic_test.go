// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package mosaic

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/viridis/internal/config"
	"github.com/tomtom215/viridis/internal/geo"
	"github.com/tomtom215/viridis/internal/models"
	"github.com/tomtom215/viridis/internal/provider"
	"github.com/tomtom215/viridis/internal/temporal"
)

// stubProvider is a deterministic in-memory Provider. Image IDs are derived
// from the request geometry and date range so tests can assert exact mosaic
// slot contents without depending on scheduling order.
type stubProvider struct {
	mu             sync.Mutex
	compositeCalls []provider.CompositeRequest
	mosaicCalls    []provider.MosaicRequest
	statsCalls     []provider.StatsRequest
	sampleCalls    []provider.SampleRequest

	// compositeErr, when set, decides per request whether Composite fails.
	compositeErr func(req provider.CompositeRequest) error
	// mosaicFailures fails that many MosaicTiles calls before succeeding.
	mosaicFailures int
	// statsFn, when set, overrides the default RegionStatistics result.
	statsFn func(req provider.StatsRequest) (*provider.RegionStats, error)
	// sampleFn, when set, overrides the default PointSample result.
	sampleFn func(req provider.SampleRequest) (*provider.PointSample, error)

	// panicNext makes the next Composite or RegionStatistics call panic,
	// exercising the sequential degrade path.
	panicNext atomic.Bool
}

// imageIDFor derives a stable image ID from a composite request.
func imageIDFor(req provider.CompositeRequest) string {
	b := req.Geometry.Bounds()
	return fmt.Sprintf("img-%s-%g-%g-%g", req.DateRange.Start, b.West, b.South, b.East)
}

func (s *stubProvider) Composite(_ context.Context, req provider.CompositeRequest) (*provider.ImageHandle, error) {
	if s.panicNext.CompareAndSwap(true, false) {
		panic("composite worker exploded")
	}
	s.mu.Lock()
	s.compositeCalls = append(s.compositeCalls, req)
	s.mu.Unlock()
	if s.compositeErr != nil {
		if err := s.compositeErr(req); err != nil {
			return nil, err
		}
	}
	return &provider.ImageHandle{ImageID: imageIDFor(req)}, nil
}

func (s *stubProvider) MosaicTiles(_ context.Context, req provider.MosaicRequest) (*provider.TileLayer, error) {
	s.mu.Lock()
	s.mosaicCalls = append(s.mosaicCalls, req)
	n := len(s.mosaicCalls)
	fail := s.mosaicFailures > 0
	if fail {
		s.mosaicFailures--
	}
	s.mu.Unlock()
	if fail {
		return nil, fmt.Errorf("gateway returned status 502: render pool exhausted")
	}
	return &provider.TileLayer{
		TileURL: fmt.Sprintf("https://tiles.example.com/%d/{z}/{x}/{y}", n),
		Vis:     req.Vis,
	}, nil
}

func (s *stubProvider) RegionStatistics(_ context.Context, req provider.StatsRequest) (*provider.RegionStats, error) {
	if s.panicNext.CompareAndSwap(true, false) {
		panic("statistics worker exploded")
	}
	s.mu.Lock()
	s.statsCalls = append(s.statsCalls, req)
	s.mu.Unlock()
	if s.statsFn != nil {
		return s.statsFn(req)
	}
	return &provider.RegionStats{
		Mean: f64(0.65432),
		Min:  f64(0.10119),
		Max:  f64(0.91264),
	}, nil
}

func (s *stubProvider) PointSample(_ context.Context, req provider.SampleRequest) (*provider.PointSample, error) {
	s.mu.Lock()
	s.sampleCalls = append(s.sampleCalls, req)
	s.mu.Unlock()
	if s.sampleFn != nil {
		return s.sampleFn(req)
	}
	return &provider.PointSample{
		Median:     f64(0.71258),
		Values:     []float64{0.68211, 0.71258, 0.74903},
		ImageCount: 3,
	}, nil
}

func (s *stubProvider) compositeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.compositeCalls)
}

func (s *stubProvider) mosaicCall(i int) provider.MosaicRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mosaicCalls[i]
}

func (s *stubProvider) mosaicCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mosaicCalls)
}

// collectNotifier records every event for later inspection.
type collectNotifier struct {
	mu     sync.Mutex
	events []models.AnalysisEvent
}

func (c *collectNotifier) Notify(event models.AnalysisEvent) {
	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()
}

func (c *collectNotifier) all() []models.AnalysisEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.AnalysisEvent, len(c.events))
	copy(out, c.events)
	return out
}

func (c *collectNotifier) byType(eventType string) []models.AnalysisEvent {
	var out []models.AnalysisEvent
	for _, e := range c.all() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func testAnalysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		TileSizeDegrees:    5.0,
		AmazonPoolSize:     3,
		AOIPoolSize:        4,
		AmazonCloudCeiling: 30,
		AOICloudCeiling:    100,
		PointCloudCeiling:  50,
		WindowMonths:       12,
		TaskTimeout:        5 * time.Second,
	}
}

// testMonths returns n consecutive months starting at January 2025.
func testMonths(n int) []temporal.Month {
	months := make([]temporal.Month, n)
	base := temporal.Month{Year: 2025, Mon: time.January}
	for i := range months {
		months[i] = base.Add(i)
	}
	return months
}

func testAOI() *geo.Polygon {
	return geo.BoundingBox{West: -65, South: -10, East: -60, North: -5}.Polygon()
}

func f64(v float64) *float64 {
	return &v
}
