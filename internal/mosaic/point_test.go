// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package mosaic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/viridis/internal/geo"
	"github.com/tomtom215/viridis/internal/models"
	"github.com/tomtom215/viridis/internal/provider"
	"github.com/tomtom215/viridis/internal/temporal"
)

func testPoint() geo.Point {
	return geo.Point{Lat: -3.4653, Lon: -62.2159}
}

func TestSamplePointNDVI(t *testing.T) {
	stub := &stubProvider{}
	builder := NewBuilder(stub, testAnalysisConfig(), nil)
	month := temporal.Month{Year: 2025, Mon: time.March}

	result, err := builder.SamplePoint(context.Background(), "run-1", provider.NDVI(), testPoint(), month)
	if err != nil {
		t.Fatalf("SamplePoint() error = %v", err)
	}

	if result.Median == nil || *result.Median != 0.7126 {
		t.Errorf("Median = %v, want 0.7126", result.Median)
	}
	want := []float64{0.6821, 0.7126, 0.749}
	if len(result.Values) != len(want) {
		t.Fatalf("Values length = %d, want %d", len(result.Values), len(want))
	}
	for i, v := range result.Values {
		if v != want[i] {
			t.Errorf("Values[%d] = %v, want %v", i, v, want[i])
		}
	}
	if result.ImageCount != 3 {
		t.Errorf("ImageCount = %d, want 3", result.ImageCount)
	}
	if !result.DataAvailable {
		t.Error("DataAvailable = false, want true")
	}

	stub.mu.Lock()
	req := stub.sampleCalls[0]
	stub.mu.Unlock()
	if req.CloudCeiling == nil || *req.CloudCeiling != 50 {
		t.Errorf("CloudCeiling = %v, want 50", req.CloudCeiling)
	}
	if req.Point != testPoint() {
		t.Errorf("Point = %+v, want %+v", req.Point, testPoint())
	}
	if req.DateRange.Start != "2025-03-01" || req.DateRange.End != "2025-04-01" {
		t.Errorf("DateRange = %+v, want [2025-03-01, 2025-04-01)", req.DateRange)
	}
}

func TestSamplePointLSTConversion(t *testing.T) {
	// Point samples arrive as raw MODIS digital numbers and are converted to
	// Celsius client-side: raw*0.02 - 273.15.
	stub := &stubProvider{
		sampleFn: func(provider.SampleRequest) (*provider.PointSample, error) {
			return &provider.PointSample{
				Median:     f64(14975),
				Values:     []float64{14950, 15000},
				ImageCount: 2,
			}, nil
		},
	}
	builder := NewBuilder(stub, testAnalysisConfig(), nil)
	month := temporal.Month{Year: 2025, Mon: time.March}

	result, err := builder.SamplePoint(context.Background(), "run-1", provider.LST(), testPoint(), month)
	if err != nil {
		t.Fatalf("SamplePoint() error = %v", err)
	}

	if result.Median == nil || *result.Median != 26.35 {
		t.Errorf("Median = %v, want 26.35", result.Median)
	}
	want := []float64{25.85, 26.85}
	for i, v := range result.Values {
		if v != want[i] {
			t.Errorf("Values[%d] = %v, want %v", i, v, want[i])
		}
	}

	// The sample request must ask for raw values: no gateway-side conversion
	// and no cloud ceiling for the thermal product.
	stub.mu.Lock()
	req := stub.sampleCalls[0]
	stub.mu.Unlock()
	if req.ScaleFactor != nil || req.Offset != nil {
		t.Errorf("sample request carries conversion fields (%v, %v), want raw", req.ScaleFactor, req.Offset)
	}
	if req.CloudCeiling != nil {
		t.Errorf("CloudCeiling = %v, want nil for the thermal product", req.CloudCeiling)
	}
}

func TestSamplePointNoData(t *testing.T) {
	stub := &stubProvider{
		sampleFn: func(provider.SampleRequest) (*provider.PointSample, error) {
			return &provider.PointSample{Values: []float64{}}, nil
		},
	}
	builder := NewBuilder(stub, testAnalysisConfig(), nil)

	result, err := builder.SamplePoint(context.Background(), "run-1", provider.NDVI(), testPoint(), temporal.Month{Year: 2025, Mon: time.June})
	if err != nil {
		t.Fatalf("SamplePoint() error = %v (no data is not an error)", err)
	}
	if result.Median != nil {
		t.Errorf("Median = %v, want nil", result.Median)
	}
	if result.Values == nil || len(result.Values) != 0 {
		t.Errorf("Values = %v, want empty non-nil slice", result.Values)
	}
	if result.DataAvailable {
		t.Error("DataAvailable = true, want false when median is null")
	}
	if result.ImageCount != 0 {
		t.Errorf("ImageCount = %d, want 0", result.ImageCount)
	}
}

func TestSamplePointProviderError(t *testing.T) {
	wantErr := errors.New("gateway returned status 502: sampler crashed")
	stub := &stubProvider{
		sampleFn: func(provider.SampleRequest) (*provider.PointSample, error) {
			return nil, wantErr
		},
	}
	notifier := &collectNotifier{}
	builder := NewBuilder(stub, testAnalysisConfig(), notifier)

	_, err := builder.SamplePoint(context.Background(), "run-1", provider.NDVI(), testPoint(), temporal.Month{Year: 2025, Mon: time.June})
	if !errors.Is(err, wantErr) {
		t.Fatalf("error = %v, want wrapped %v", err, wantErr)
	}

	failed := notifier.byType(models.EventAnalysisFailed)
	if len(failed) != 1 {
		t.Fatalf("analysis_failed events = %d, want 1", len(failed))
	}
	if failed[0].Kind != models.AnalysisKindPointSample {
		t.Errorf("failed event Kind = %q, want point_sample", failed[0].Kind)
	}
}

func TestSamplePointEvents(t *testing.T) {
	stub := &stubProvider{}
	notifier := &collectNotifier{}
	builder := NewBuilder(stub, testAnalysisConfig(), notifier)
	month := temporal.Month{Year: 2025, Mon: time.March}

	if _, err := builder.SamplePoint(context.Background(), "run-3", provider.NDVI(), testPoint(), month); err != nil {
		t.Fatalf("SamplePoint() error = %v", err)
	}

	events := notifier.all()
	if len(events) != 2 {
		t.Fatalf("event count = %d, want 2 (started + completed)", len(events))
	}
	if events[0].Type != models.EventAnalysisStarted {
		t.Errorf("events[0].Type = %q, want analysis_started", events[0].Type)
	}
	if events[1].Type != models.EventAnalysisCompleted {
		t.Errorf("events[1].Type = %q, want analysis_completed", events[1].Type)
	}
	if events[1].Month != "2025-03" || events[1].MonthName != "March 2025" {
		t.Errorf("completed event month = %q / %q, want 2025-03 / March 2025", events[1].Month, events[1].MonthName)
	}
	if !events[1].DataAvailable {
		t.Error("completed event DataAvailable = false, want true")
	}
}
