// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/viridis/internal/models"
)

// layersEnvelope decodes layer responses with a typed data field.
type layersEnvelope struct {
	Status   string                  `json:"status"`
	Data     models.AmazonLayersData `json:"data"`
	Metadata models.Metadata         `json:"metadata"`
	Error    *models.APIError        `json:"error"`
}

func TestAmazonNDVILayers(t *testing.T) {
	t.Parallel()

	imagery := &fakeImagery{}
	handler := newTestHandler(t, imagery)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/layers/amazon/ndvi", nil)
	w := httptest.NewRecorder()

	handler.AmazonNDVILayers(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var response layersEnvelope
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Status != "success" {
		t.Errorf("Expected status success, got %s", response.Status)
	}

	data := response.Data
	if data.Region != "Amazon Rainforest" {
		t.Errorf("Expected region Amazon Rainforest, got %s", data.Region)
	}
	if data.DataType != models.DataTypeNDVI {
		t.Errorf("Expected data type NDVI, got %s", data.DataType)
	}
	if data.TotalLayers != 12 {
		t.Errorf("Expected 12 layers, got %d", data.TotalLayers)
	}
	if len(data.MonthlyLayers) != 12 {
		t.Fatalf("Expected 12 monthly layers, got %d", len(data.MonthlyLayers))
	}

	for i, layer := range data.MonthlyLayers {
		if layer.TileURL == "" {
			t.Errorf("Layer %d has empty tile URL", i)
		}
		if layer.DataType != models.DataTypeNDVI {
			t.Errorf("Layer %d data type = %s, want NDVI", i, layer.DataType)
		}
		if layer.GridCoverage != models.CoverageComplete {
			t.Errorf("Layer %d grid coverage = %s, want complete", i, layer.GridCoverage)
		}
		if layer.TilesProcessed != 48 {
			t.Errorf("Layer %d tiles processed = %d, want 48", i, layer.TilesProcessed)
		}
	}

	// Months must ascend
	for i := 1; i < len(data.MonthlyLayers); i++ {
		if data.MonthlyLayers[i-1].Month >= data.MonthlyLayers[i].Month {
			t.Errorf("Months not ascending: %s before %s",
				data.MonthlyLayers[i-1].Month, data.MonthlyLayers[i].Month)
		}
	}

	info := data.ProcessingInfo
	if info.GridTiles != 48 {
		t.Errorf("Expected 48 grid tiles, got %d", info.GridTiles)
	}
	if info.TileSizeDegrees != 5.0 {
		t.Errorf("Expected tile size 5.0, got %g", info.TileSizeDegrees)
	}
	if info.CoverageMethod != "grid-based_tiling" {
		t.Errorf("Expected coverage method grid-based_tiling, got %s", info.CoverageMethod)
	}

	if response.Metadata.Cached {
		t.Error("First request must not be served from cache")
	}
}

func TestAmazonLSTLayers(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, &fakeImagery{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/layers/amazon/lst", nil)
	w := httptest.NewRecorder()

	handler.AmazonLSTLayers(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var response layersEnvelope
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	data := response.Data
	if data.DataType != "LST (Land Surface Temperature)" {
		t.Errorf("Expected display data type, got %s", data.DataType)
	}
	if len(data.MonthlyLayers) != 12 {
		t.Fatalf("Expected 12 monthly layers, got %d", len(data.MonthlyLayers))
	}
	if data.MonthlyLayers[0].DataType != models.DataTypeLST {
		t.Errorf("Expected layer data type LST, got %s", data.MonthlyLayers[0].DataType)
	}
	if data.MonthlyLayers[0].Unit != "°C" {
		t.Errorf("Expected unit °C, got %s", data.MonthlyLayers[0].Unit)
	}
	if data.Legend.Unit != "°C" {
		t.Errorf("Expected legend unit °C, got %s", data.Legend.Unit)
	}
}

func TestAmazonLayersCached(t *testing.T) {
	t.Parallel()

	imagery := &fakeImagery{}
	handler := newTestHandler(t, imagery)

	first := httptest.NewRecorder()
	handler.AmazonNDVILayers(first, httptest.NewRequest(http.MethodGet, "/api/v1/layers/amazon/ndvi", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("First request failed: %d", first.Code)
	}

	mosaicsAfterFirst := imagery.mosaicCount()

	second := httptest.NewRecorder()
	handler.AmazonNDVILayers(second, httptest.NewRequest(http.MethodGet, "/api/v1/layers/amazon/ndvi", nil))
	if second.Code != http.StatusOK {
		t.Fatalf("Second request failed: %d", second.Code)
	}

	var response layersEnvelope
	if err := json.NewDecoder(second.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !response.Metadata.Cached {
		t.Error("Second identical request must be served from cache")
	}
	if response.Metadata.QueryTimeMS != 0 {
		t.Errorf("Cached response query time = %d, want 0", response.Metadata.QueryTimeMS)
	}
	if imagery.mosaicCount() != mosaicsAfterFirst {
		t.Errorf("Cached request hit the provider: %d mosaics, want %d", imagery.mosaicCount(), mosaicsAfterFirst)
	}
	if len(response.Data.MonthlyLayers) != 12 {
		t.Errorf("Cached payload lost layers: got %d, want 12", len(response.Data.MonthlyLayers))
	}
}

func TestAmazonLayersMethodNotAllowed(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, &fakeImagery{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/layers/amazon/ndvi", nil)
	w := httptest.NewRecorder()

	handler.AmazonNDVILayers(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}
}

func TestAmazonLayersProviderExhausted(t *testing.T) {
	t.Parallel()

	imagery := &fakeImagery{compositeErr: errors.New("gateway returned status 500")}
	handler := newTestHandler(t, imagery)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/layers/amazon/ndvi", nil)
	w := httptest.NewRecorder()

	handler.AmazonNDVILayers(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("Expected status %d, got %d", http.StatusBadGateway, w.Code)
	}

	var response models.APIResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Status != "error" {
		t.Errorf("Expected status error, got %s", response.Status)
	}
	if response.Error == nil {
		t.Fatal("Expected error details")
	}
	if response.Error.Code != models.ErrCodeProvider {
		t.Errorf("Expected code %s, got %s", models.ErrCodeProvider, response.Error.Code)
	}
	if response.Error.Message != "No satellite data available for the requested period" {
		t.Errorf("Unexpected error message: %s", response.Error.Message)
	}
}

func TestAmazonLayersWithoutBuilder(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, &fakeImagery{})
	handler.builder = nil

	req := httptest.NewRequest(http.MethodGet, "/api/v1/layers/amazon/ndvi", nil)
	w := httptest.NewRecorder()

	handler.AmazonNDVILayers(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}
}

func TestAmazonLayersETag(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, &fakeImagery{})

	w := httptest.NewRecorder()
	handler.AmazonNDVILayers(w, httptest.NewRequest(http.MethodGet, "/api/v1/layers/amazon/ndvi", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Request failed: %d", w.Code)
	}
	if w.Header().Get("ETag") == "" {
		t.Error("Expected ETag header on layer responses")
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected application/json, got %s", w.Header().Get("Content-Type"))
	}
}
