// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package provider

import (
	"fmt"
	"math"

	"github.com/tomtom215/viridis/internal/models"
)

// DatasetProfile bundles the gateway-side parameters for one data product.
// Collection IDs, bands and mask classes are opaque to this service and
// passed through to the gateway verbatim.
type DatasetProfile struct {
	DataType    string
	DisplayName string // verbose form used in response envelopes
	Collection  string
	Bands       []string
	Index       string // gateway-computed spectral index, empty for direct bands
	MaskClasses []int  // scene classification classes masked gateway-side
	Scale       int    // native resolution in meters
	Rounding    int    // reported decimal places
	ScaleFactor *float64
	Offset      *float64
	Unit        string

	// SupportsCloudCeiling is true when the collection carries per-scene
	// cloud metadata the gateway can filter on. The MODIS thermal product
	// is already composited and has none.
	SupportsCloudCeiling bool

	Vis    models.VisParams
	Legend models.Legend
}

func lstPalette() []string {
	return []string{
		"#313695", "#4575b4", "#74add1", "#abd9e9", "#e0f3f8",
		"#fee090", "#fdae61", "#f46d43", "#d73027", "#a50026",
	}
}

// NDVI returns the Sentinel-2 vegetation index profile. The gateway computes
// the normalized difference of B8 (NIR) and B4 (red) after masking cloud,
// shadow and cirrus scene classes.
func NDVI() DatasetProfile {
	palette := []string{"#ff0000", "#ffff00", "#00ff00"}
	return DatasetProfile{
		DataType:             models.DataTypeNDVI,
		DisplayName:          models.DataTypeNDVI,
		Collection:           "COPERNICUS/S2_SR_HARMONIZED",
		Bands:                []string{"B8", "B4"},
		Index:                "normalized_difference",
		MaskClasses:          []int{3, 8, 9, 10, 11},
		Scale:                10,
		Rounding:             4,
		SupportsCloudCeiling: true,
		Vis:                  models.VisParams{Min: 0, Max: 1, Palette: palette},
		Legend: models.Legend{
			Title:  "NDVI Values",
			Colors: palette,
			Labels: []string{"Low Vegetation", "Moderate Vegetation", "High Vegetation"},
		},
	}
}

// LST returns the MODIS daytime land surface temperature profile. Raw values
// are Kelvin scaled by 50; the conversion to Celsius (x0.02 - 273.15) is
// applied gateway-side for composites and statistics.
func LST() DatasetProfile {
	scaleFactor := 0.02
	offset := -273.15
	return DatasetProfile{
		DataType:    models.DataTypeLST,
		DisplayName: "LST (Land Surface Temperature)",
		Collection:  "MODIS/061/MOD11A2",
		Bands:       []string{"LST_Day_1km"},
		Scale:       1000,
		Rounding:    2,
		ScaleFactor: &scaleFactor,
		Offset:      &offset,
		Unit:        "°C",
		Vis:         models.VisParams{Min: 20, Max: 40, Palette: lstPalette()},
		Legend: models.Legend{
			Title:  "Land Surface Temperature (°C)",
			Colors: lstPalette(),
			Labels: []string{"Cool (20°C)", "Moderate (25°C)", "Warm (30°C)", "Hot (35°C)", "Very Hot (40°C)"},
			Unit:   "°C",
		},
	}
}

// ProfileFor maps a data type constant to its dataset profile.
func ProfileFor(dataType string) (DatasetProfile, error) {
	switch dataType {
	case models.DataTypeNDVI:
		return NDVI(), nil
	case models.DataTypeLST:
		return LST(), nil
	default:
		return DatasetProfile{}, fmt.Errorf("unknown data type %q", dataType)
	}
}

// Params returns the dataset half of a gateway request with unit conversion
// applied gateway-side. The ceiling is dropped for datasets without cloud
// metadata.
func (p DatasetProfile) Params(ceiling *int) DatasetParams {
	dp := DatasetParams{
		Collection:  p.Collection,
		Bands:       p.Bands,
		Index:       p.Index,
		MaskClasses: p.MaskClasses,
		ScaleFactor: p.ScaleFactor,
		Offset:      p.Offset,
		Scale:       p.Scale,
	}
	if p.SupportsCloudCeiling {
		dp.CloudCeiling = ceiling
	}
	return dp
}

// RawSampleParams is Params without the unit conversion fields. Point samples
// come back as raw per-image digital numbers and are converted client-side
// with FromRaw.
func (p DatasetProfile) RawSampleParams(ceiling *int) DatasetParams {
	dp := p.Params(ceiling)
	dp.ScaleFactor = nil
	dp.Offset = nil
	return dp
}

// CloudCeiling returns a pointer to percent when the dataset supports
// metadata-based cloud filtering, nil otherwise.
func (p DatasetProfile) CloudCeiling(percent int) *int {
	if !p.SupportsCloudCeiling {
		return nil
	}
	v := percent
	return &v
}

// FromRaw converts one raw digital number to physical units.
func (p DatasetProfile) FromRaw(v float64) float64 {
	if p.ScaleFactor != nil {
		v *= *p.ScaleFactor
	}
	if p.Offset != nil {
		v += *p.Offset
	}
	return v
}

// Round rounds v to the dataset's reporting precision.
func (p DatasetProfile) Round(v float64) float64 {
	pow := math.Pow(10, float64(p.Rounding))
	return math.Round(v*pow) / pow
}

// RoundPtr rounds through a nullable value, preserving nil. A null reducer
// result must stay null; it is not the same as zero.
func (p DatasetProfile) RoundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := p.Round(*v)
	return &r
}
