// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package provider

import (
	"math"
	"testing"
	"time"

	"github.com/tomtom215/viridis/internal/models"
	"github.com/tomtom215/viridis/internal/temporal"
)

// TestProfileFor tests data type to profile mapping
func TestProfileFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		dataType   string
		wantErr    bool
		collection string
	}{
		{
			name:       "NDVI profile",
			dataType:   models.DataTypeNDVI,
			collection: "COPERNICUS/S2_SR_HARMONIZED",
		},
		{
			name:       "LST profile",
			dataType:   models.DataTypeLST,
			collection: "MODIS/061/MOD11A2",
		},
		{
			name:     "unknown data type",
			dataType: "EVI",
			wantErr:  true,
		},
		{
			name:     "empty data type",
			dataType: "",
			wantErr:  true,
		},
		{
			name:     "lowercase rejected",
			dataType: "ndvi",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			profile, err := ProfileFor(tt.dataType)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ProfileFor(%q) expected error", tt.dataType)
				}
				return
			}
			if err != nil {
				t.Fatalf("ProfileFor(%q) error = %v", tt.dataType, err)
			}
			if profile.Collection != tt.collection {
				t.Errorf("Collection = %q, want %q", profile.Collection, tt.collection)
			}
		})
	}
}

// TestNDVIProfile pins the Sentinel-2 parameter bundle
func TestNDVIProfile(t *testing.T) {
	t.Parallel()

	p := NDVI()

	if p.DataType != models.DataTypeNDVI {
		t.Errorf("DataType = %q, want %q", p.DataType, models.DataTypeNDVI)
	}
	if len(p.Bands) != 2 || p.Bands[0] != "B8" || p.Bands[1] != "B4" {
		t.Errorf("Bands = %v, want [B8 B4]", p.Bands)
	}
	wantMask := []int{3, 8, 9, 10, 11}
	if len(p.MaskClasses) != len(wantMask) {
		t.Fatalf("MaskClasses = %v, want %v", p.MaskClasses, wantMask)
	}
	for i, c := range wantMask {
		if p.MaskClasses[i] != c {
			t.Errorf("MaskClasses[%d] = %d, want %d", i, p.MaskClasses[i], c)
		}
	}
	if p.Scale != 10 {
		t.Errorf("Scale = %d, want 10", p.Scale)
	}
	if p.Rounding != 4 {
		t.Errorf("Rounding = %d, want 4", p.Rounding)
	}
	if !p.SupportsCloudCeiling {
		t.Error("NDVI must support cloud ceilings")
	}
	if p.ScaleFactor != nil || p.Offset != nil {
		t.Error("NDVI carries no unit conversion")
	}
	if p.Vis.Min != 0 || p.Vis.Max != 1 {
		t.Errorf("Vis range = [%g, %g], want [0, 1]", p.Vis.Min, p.Vis.Max)
	}
	if len(p.Vis.Palette) != 3 {
		t.Errorf("Palette size = %d, want 3", len(p.Vis.Palette))
	}
	wantLabels := []string{"Low Vegetation", "Moderate Vegetation", "High Vegetation"}
	for i, l := range wantLabels {
		if p.Legend.Labels[i] != l {
			t.Errorf("Legend.Labels[%d] = %q, want %q", i, p.Legend.Labels[i], l)
		}
	}
	if p.Unit != "" {
		t.Errorf("Unit = %q, want empty (dimensionless index)", p.Unit)
	}
}

// TestLSTProfile pins the MODIS thermal parameter bundle
func TestLSTProfile(t *testing.T) {
	t.Parallel()

	p := LST()

	if p.DataType != models.DataTypeLST {
		t.Errorf("DataType = %q, want %q", p.DataType, models.DataTypeLST)
	}
	if len(p.Bands) != 1 || p.Bands[0] != "LST_Day_1km" {
		t.Errorf("Bands = %v, want [LST_Day_1km]", p.Bands)
	}
	if p.Scale != 1000 {
		t.Errorf("Scale = %d, want 1000", p.Scale)
	}
	if p.Rounding != 2 {
		t.Errorf("Rounding = %d, want 2", p.Rounding)
	}
	if p.SupportsCloudCeiling {
		t.Error("LST has no per-scene cloud metadata")
	}
	if p.ScaleFactor == nil || *p.ScaleFactor != 0.02 {
		t.Errorf("ScaleFactor = %v, want 0.02", p.ScaleFactor)
	}
	if p.Offset == nil || *p.Offset != -273.15 {
		t.Errorf("Offset = %v, want -273.15", p.Offset)
	}
	if p.Unit != "°C" {
		t.Errorf("Unit = %q, want °C", p.Unit)
	}
	if p.Vis.Min != 20 || p.Vis.Max != 40 {
		t.Errorf("Vis range = [%g, %g], want [20, 40]", p.Vis.Min, p.Vis.Max)
	}
	if len(p.Vis.Palette) != 10 {
		t.Errorf("Palette size = %d, want 10", len(p.Vis.Palette))
	}
	if p.Vis.Palette[0] != "#313695" || p.Vis.Palette[9] != "#a50026" {
		t.Errorf("Palette endpoints = %q..%q, want #313695..#a50026", p.Vis.Palette[0], p.Vis.Palette[9])
	}
	wantLabels := []string{"Cool (20°C)", "Moderate (25°C)", "Warm (30°C)", "Hot (35°C)", "Very Hot (40°C)"}
	if len(p.Legend.Labels) != len(wantLabels) {
		t.Fatalf("Legend.Labels = %v, want %v", p.Legend.Labels, wantLabels)
	}
	for i, l := range wantLabels {
		if p.Legend.Labels[i] != l {
			t.Errorf("Legend.Labels[%d] = %q, want %q", i, p.Legend.Labels[i], l)
		}
	}
	if p.Legend.Unit != "°C" {
		t.Errorf("Legend.Unit = %q, want °C", p.Legend.Unit)
	}
}

// TestParams tests ceiling handling in wire parameter assembly
func TestParams(t *testing.T) {
	t.Parallel()

	t.Run("NDVI carries ceiling", func(t *testing.T) {
		t.Parallel()
		p := NDVI()
		dp := p.Params(p.CloudCeiling(30))
		if dp.CloudCeiling == nil || *dp.CloudCeiling != 30 {
			t.Errorf("CloudCeiling = %v, want 30", dp.CloudCeiling)
		}
		if dp.Index != "normalized_difference" {
			t.Errorf("Index = %q, want normalized_difference", dp.Index)
		}
	})

	t.Run("LST drops ceiling", func(t *testing.T) {
		t.Parallel()
		p := LST()
		if c := p.CloudCeiling(50); c != nil {
			t.Errorf("CloudCeiling(50) = %v, want nil for LST", *c)
		}
		thirty := 30
		dp := p.Params(&thirty)
		if dp.CloudCeiling != nil {
			t.Errorf("Params ceiling = %v, want nil for LST", *dp.CloudCeiling)
		}
		if dp.ScaleFactor == nil || dp.Offset == nil {
			t.Error("LST composite params must carry gateway-side conversion")
		}
	})

	t.Run("raw sample params strip conversion", func(t *testing.T) {
		t.Parallel()
		p := LST()
		dp := p.RawSampleParams(nil)
		if dp.ScaleFactor != nil || dp.Offset != nil {
			t.Errorf("raw params carry conversion: factor=%v offset=%v", dp.ScaleFactor, dp.Offset)
		}
		if dp.Collection != "MODIS/061/MOD11A2" {
			t.Errorf("Collection = %q", dp.Collection)
		}
	})
}

// TestFromRaw tests client-side unit conversion for raw samples
func TestFromRaw(t *testing.T) {
	t.Parallel()

	t.Run("LST raw digital number to Celsius", func(t *testing.T) {
		t.Parallel()
		p := LST()
		// 15000 * 0.02 - 273.15 = 26.85 C
		got := p.FromRaw(15000)
		if math.Abs(got-26.85) > 1e-9 {
			t.Errorf("FromRaw(15000) = %g, want 26.85", got)
		}
	})

	t.Run("NDVI is identity", func(t *testing.T) {
		t.Parallel()
		p := NDVI()
		if got := p.FromRaw(0.731); got != 0.731 {
			t.Errorf("FromRaw(0.731) = %g, want 0.731", got)
		}
	})
}

// TestRounding tests reporting precision per dataset
func TestRounding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		profile  DatasetProfile
		in       float64
		expected float64
	}{
		{"NDVI four decimals", NDVI(), 0.66321849, 0.6632},
		{"NDVI rounds half up", NDVI(), 0.12345, 0.1235},
		{"LST two decimals", LST(), 26.84999, 26.85},
		{"LST negative", LST(), -3.14159, -3.14},
		{"zero unchanged", NDVI(), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.profile.Round(tt.in); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Round(%g) = %g, want %g", tt.in, got, tt.expected)
			}
		})
	}
}

// TestRoundPtr verifies nil survives rounding untouched
func TestRoundPtr(t *testing.T) {
	t.Parallel()

	p := NDVI()

	if got := p.RoundPtr(nil); got != nil {
		t.Errorf("RoundPtr(nil) = %v, want nil", got)
	}

	v := 0.98765
	got := p.RoundPtr(&v)
	if got == nil || *got != 0.9877 {
		t.Errorf("RoundPtr(0.98765) = %v, want 0.9877", got)
	}
	if v != 0.98765 {
		t.Errorf("RoundPtr mutated input: %g", v)
	}
}

// TestRangeFor tests month window wire formatting
func TestRangeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		month temporal.Month
		start string
		end   string
	}{
		{
			name:  "mid-year month",
			month: temporal.Month{Year: 2025, Mon: time.June},
			start: "2025-06-01",
			end:   "2025-07-01",
		},
		{
			name:  "december rolls the year",
			month: temporal.Month{Year: 2024, Mon: time.December},
			start: "2024-12-01",
			end:   "2025-01-01",
		},
		{
			name:  "february in leap year",
			month: temporal.Month{Year: 2024, Mon: time.February},
			start: "2024-02-01",
			end:   "2024-03-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := RangeFor(tt.month)
			if r.Start != tt.start || r.End != tt.end {
				t.Errorf("RangeFor(%v) = [%s, %s), want [%s, %s)", tt.month, r.Start, r.End, tt.start, tt.end)
			}
		})
	}
}

// TestBlankHandle tests the masked placeholder sentinel
func TestBlankHandle(t *testing.T) {
	t.Parallel()

	h := BlankHandle()
	if !h.IsBlank() {
		t.Error("BlankHandle().IsBlank() = false, want true")
	}
	if h.ImageID != BlankImageID {
		t.Errorf("ImageID = %q, want %q", h.ImageID, BlankImageID)
	}

	real := &ImageHandle{ImageID: "img-1"}
	if real.IsBlank() {
		t.Error("real handle reported blank")
	}

	var nilHandle *ImageHandle
	if nilHandle.IsBlank() {
		t.Error("nil handle reported blank")
	}
}
