// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package provider

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/viridis/internal/config"
	"github.com/tomtom215/viridis/internal/geo"
	"github.com/tomtom215/viridis/internal/temporal"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return New(&config.ProviderConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		Timeout:        5 * time.Second,
		RetryAttempts:  3,
		RetryBaseDelay: 1 * time.Millisecond,
	})
}

func testCompositeRequest() CompositeRequest {
	return CompositeRequest{
		DatasetParams: NDVI().Params(NDVI().CloudCeiling(30)),
		DateRange:     RangeFor(temporal.Month{Year: 2025, Mon: time.March}),
		Geometry:      geo.AmazonBasin.Polygon(),
	}
}

// TestReadBodyForError tests the utility function that reads response body for error reporting
func TestReadBodyForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    io.Reader
		expected string
	}{
		{
			name:     "normal body content",
			input:    strings.NewReader("error message body"),
			expected: "error message body",
		},
		{
			name:     "empty body",
			input:    strings.NewReader(""),
			expected: "",
		},
		{
			name:     "JSON error response",
			input:    strings.NewReader(`{"error": "quota exhausted"}`),
			expected: `{"error": "quota exhausted"}`,
		},
		{
			name:     "large body content",
			input:    strings.NewReader(strings.Repeat("x", 10000)),
			expected: strings.Repeat("x", 10000),
		},
		{
			name:     "failing reader",
			input:    &failingReader{},
			expected: "(failed to read response body)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := readBodyForError(tt.input)
			if string(result) != tt.expected {
				t.Errorf("readBodyForError() = %q, want %q", string(result), tt.expected)
			}
		})
	}
}

// TestReadBodyForError_Truncation verifies bodies at the limit are marked truncated
func TestReadBodyForError_Truncation(t *testing.T) {
	t.Parallel()

	body := strings.NewReader(strings.Repeat("y", maxErrorBodySize+1000))
	result := string(readBodyForError(body))

	if !strings.HasSuffix(result, "... (truncated)") {
		t.Errorf("oversized body should be marked truncated, got tail %q", result[len(result)-30:])
	}
	if len(result) > maxErrorBodySize+len("\n... (truncated)") {
		t.Errorf("result length = %d, want at most %d", len(result), maxErrorBodySize+len("\n... (truncated)"))
	}
}

// failingReader is a reader that always fails
type failingReader struct{}

func (f *failingReader) Read(_ []byte) (int, error) {
	return 0, errors.New("simulated read failure")
}

// TestDoRequestWithRateLimit tests the rate limiting functionality
func TestDoRequestWithRateLimit(t *testing.T) {
	t.Run("successful request on first try", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("success"))
		}))
		defer server.Close()

		client := testClient(t, server.URL)

		resp, err := client.doRequestWithRateLimit(context.Background(), http.MethodGet, pathHealth, nil)
		if err != nil {
			t.Fatalf("doRequestWithRateLimit() error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("StatusCode = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("rate limit with retry success", func(t *testing.T) {
		attemptCount := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attemptCount++
			if attemptCount < 3 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("success after retry"))
		}))
		defer server.Close()

		client := testClient(t, server.URL)

		resp, err := client.doRequestWithRateLimit(context.Background(), http.MethodGet, pathHealth, nil)
		if err != nil {
			t.Fatalf("doRequestWithRateLimit() error = %v", err)
		}
		defer resp.Body.Close()

		if attemptCount != 3 {
			t.Errorf("attempt count = %d, want 3", attemptCount)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("StatusCode = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("rate limit max retries exceeded", func(t *testing.T) {
		attemptCount := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attemptCount++
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := testClient(t, server.URL)

		resp, err := client.doRequestWithRateLimit(context.Background(), http.MethodGet, pathHealth, nil)
		if resp != nil {
			resp.Body.Close()
		}
		if err == nil {
			t.Fatal("Expected error after max retries exceeded")
		}
		if !strings.Contains(err.Error(), "rate limit exceeded") {
			t.Errorf("Error should mention rate limit, got: %v", err)
		}
		// Should have tried maxRetries + 1 times (initial + retries)
		if attemptCount != 4 {
			t.Errorf("attempt count = %d, want 4", attemptCount)
		}
	})

	t.Run("rate limit with Retry-After header", func(t *testing.T) {
		attemptCount := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attemptCount++
			if attemptCount < 2 {
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := testClient(t, server.URL)

		start := time.Now()
		resp, err := client.doRequestWithRateLimit(context.Background(), http.MethodGet, pathHealth, nil)
		if err != nil {
			t.Fatalf("doRequestWithRateLimit() error = %v", err)
		}
		defer resp.Body.Close()

		if attemptCount != 2 {
			t.Errorf("attempt count = %d, want 2", attemptCount)
		}
		// Retry-After: 1 overrides the millisecond base delay
		if elapsed := time.Since(start); elapsed < time.Second {
			t.Errorf("elapsed = %v, want >= 1s from Retry-After header", elapsed)
		}
	})

	t.Run("non-429 error responses pass through", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := testClient(t, server.URL)

		resp, err := client.doRequestWithRateLimit(context.Background(), http.MethodGet, pathHealth, nil)
		if err != nil {
			t.Fatalf("doRequestWithRateLimit() error = %v", err)
		}
		defer resp.Body.Close()

		// Non-429 errors should pass through without retry
		if resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("StatusCode = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
		}
	})

	t.Run("network failure", func(t *testing.T) {
		client := testClient(t, "http://localhost:9999")

		resp, err := client.doRequestWithRateLimit(context.Background(), http.MethodGet, pathHealth, nil)
		if resp != nil {
			resp.Body.Close()
		}
		if err == nil {
			t.Fatal("Expected error for network failure")
		}
		if !strings.Contains(err.Error(), "HTTP request failed") {
			t.Errorf("Error should mention HTTP request failed, got: %v", err)
		}
	})

	t.Run("cancelled context aborts before request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("server should not be reached with cancelled context")
		}))
		defer server.Close()

		client := testClient(t, server.URL)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		resp, err := client.doRequestWithRateLimit(ctx, http.MethodGet, pathHealth, nil)
		if resp != nil {
			resp.Body.Close()
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

// TestClientAuthHeaders verifies the bearer key and content negotiation headers
func TestClientAuthHeaders(t *testing.T) {
	var gotAuth, gotAccept, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotContentType = r.Header.Get("Content-Type")
		json.NewEncoder(w).Encode(ImageHandle{ImageID: "img-1"})
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	if _, err := client.Composite(context.Background(), testCompositeRequest()); err != nil {
		t.Fatalf("Composite() error = %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer test-key")
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
}

// TestComposite tests the composite operation against a stub gateway
func TestComposite(t *testing.T) {
	t.Run("successful composite", func(t *testing.T) {
		var gotPath string
		var gotReq CompositeRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
				t.Errorf("decode request: %v", err)
			}
			json.NewEncoder(w).Encode(ImageHandle{ImageID: "img-ndvi-2025-03"})
		}))
		defer server.Close()

		client := testClient(t, server.URL)

		handle, err := client.Composite(context.Background(), testCompositeRequest())
		if err != nil {
			t.Fatalf("Composite() error = %v", err)
		}

		if gotPath != pathComposite {
			t.Errorf("path = %q, want %q", gotPath, pathComposite)
		}
		if handle.ImageID != "img-ndvi-2025-03" {
			t.Errorf("ImageID = %q, want img-ndvi-2025-03", handle.ImageID)
		}
		if gotReq.Collection != "COPERNICUS/S2_SR_HARMONIZED" {
			t.Errorf("wire collection = %q, want COPERNICUS/S2_SR_HARMONIZED", gotReq.Collection)
		}
		if gotReq.CloudCeiling == nil || *gotReq.CloudCeiling != 30 {
			t.Errorf("wire cloud_ceiling = %v, want 30", gotReq.CloudCeiling)
		}
		if gotReq.DateRange.Start != "2025-03-01" || gotReq.DateRange.End != "2025-04-01" {
			t.Errorf("wire date_range = %+v, want [2025-03-01, 2025-04-01)", gotReq.DateRange)
		}
	})

	t.Run("empty image_id rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(ImageHandle{})
		}))
		defer server.Close()

		client := testClient(t, server.URL)

		_, err := client.Composite(context.Background(), testCompositeRequest())
		if err == nil {
			t.Fatal("Expected error for empty image_id")
		}
		if !strings.Contains(err.Error(), "empty image_id") {
			t.Errorf("Error should mention empty image_id, got: %v", err)
		}
	})

	t.Run("gateway error includes body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"error": "upstream archive unavailable"}`))
		}))
		defer server.Close()

		client := testClient(t, server.URL)

		_, err := client.Composite(context.Background(), testCompositeRequest())
		if err == nil {
			t.Fatal("Expected error for gateway failure")
		}
		if !strings.Contains(err.Error(), "status 502") {
			t.Errorf("Error should include status, got: %v", err)
		}
		if !strings.Contains(err.Error(), "upstream archive unavailable") {
			t.Errorf("Error should include body, got: %v", err)
		}
	})

	t.Run("malformed response body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		client := testClient(t, server.URL)

		_, err := client.Composite(context.Background(), testCompositeRequest())
		if err == nil {
			t.Fatal("Expected error for malformed response")
		}
		if !strings.Contains(err.Error(), "decode") {
			t.Errorf("Error should mention decode failure, got: %v", err)
		}
	})
}

// TestMosaicTiles tests mosaic assembly against a stub gateway
func TestMosaicTiles(t *testing.T) {
	t.Run("successful mosaic", func(t *testing.T) {
		var gotReq MosaicRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != pathMosaic {
				t.Errorf("path = %q, want %q", r.URL.Path, pathMosaic)
			}
			if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
				t.Errorf("decode request: %v", err)
			}
			json.NewEncoder(w).Encode(TileLayer{
				TileURL: "https://tiles.example.com/{z}/{x}/{y}",
				Vis:     gotReq.Vis,
			})
		}))
		defer server.Close()

		client := testClient(t, server.URL)

		profile := NDVI()
		layer, err := client.MosaicTiles(context.Background(), MosaicRequest{
			ImageIDs: []string{"img-1", BlankImageID, "img-3"},
			Vis:      profile.Vis,
		})
		if err != nil {
			t.Fatalf("MosaicTiles() error = %v", err)
		}

		if layer.TileURL != "https://tiles.example.com/{z}/{x}/{y}" {
			t.Errorf("TileURL = %q", layer.TileURL)
		}
		if len(gotReq.ImageIDs) != 3 || gotReq.ImageIDs[1] != BlankImageID {
			t.Errorf("wire image_ids = %v, want blank placeholder preserved in slot 1", gotReq.ImageIDs)
		}
		if layer.Vis.Max != 1 {
			t.Errorf("Vis.Max = %g, want 1", layer.Vis.Max)
		}
	})

	t.Run("empty tile_url rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(TileLayer{})
		}))
		defer server.Close()

		client := testClient(t, server.URL)

		_, err := client.MosaicTiles(context.Background(), MosaicRequest{ImageIDs: []string{"img-1"}, Vis: NDVI().Vis})
		if err == nil {
			t.Fatal("Expected error for empty tile_url")
		}
	})
}

// TestRegionStatistics tests AOI reduction including null preservation
func TestRegionStatistics(t *testing.T) {
	t.Run("populated statistics", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != pathStatistics {
				t.Errorf("path = %q, want %q", r.URL.Path, pathStatistics)
			}
			w.Write([]byte(`{"mean": 0.66321, "min": 0.1, "max": 0.912345}`))
		}))
		defer server.Close()

		client := testClient(t, server.URL)

		profile := NDVI()
		stats, err := client.RegionStatistics(context.Background(), StatsRequest{
			DatasetParams: profile.Params(profile.CloudCeiling(100)),
			DateRange:     RangeFor(temporal.Month{Year: 2025, Mon: time.June}),
			Geometry:      geo.AmazonBasin.Polygon(),
			Reducers:      StatsReducers(),
			MaxPixels:     DefaultMaxPixels,
		})
		if err != nil {
			t.Fatalf("RegionStatistics() error = %v", err)
		}

		if stats.Mean == nil || *stats.Mean != 0.66321 {
			t.Errorf("Mean = %v, want 0.66321", stats.Mean)
		}
		if stats.Max == nil || *stats.Max != 0.912345 {
			t.Errorf("Max = %v, want 0.912345", stats.Max)
		}
	})

	t.Run("null statistics stay null", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"mean": null, "min": null, "max": null}`))
		}))
		defer server.Close()

		client := testClient(t, server.URL)

		profile := LST()
		stats, err := client.RegionStatistics(context.Background(), StatsRequest{
			DatasetParams: profile.Params(nil),
			DateRange:     RangeFor(temporal.Month{Year: 2025, Mon: time.June}),
			Geometry:      geo.AmazonBasin.Polygon(),
			Reducers:      StatsReducers(),
			MaxPixels:     DefaultMaxPixels,
		})
		if err != nil {
			t.Fatalf("RegionStatistics() error = %v", err)
		}

		if stats.Mean != nil || stats.Min != nil || stats.Max != nil {
			t.Errorf("null reducer results must stay nil, got %+v", stats)
		}
	})
}

// TestPointSample tests the per-image series operation
func TestPointSample(t *testing.T) {
	t.Run("populated sample", func(t *testing.T) {
		var gotReq SampleRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != pathSample {
				t.Errorf("path = %q, want %q", r.URL.Path, pathSample)
			}
			if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
				t.Errorf("decode request: %v", err)
			}
			w.Write([]byte(`{"median": 14950, "values": [14900, 14950, 15000], "image_count": 3}`))
		}))
		defer server.Close()

		client := testClient(t, server.URL)

		profile := LST()
		sample, err := client.PointSample(context.Background(), SampleRequest{
			DatasetParams: profile.RawSampleParams(profile.CloudCeiling(50)),
			DateRange:     RangeFor(temporal.Month{Year: 2025, Mon: time.January}),
			Point:         geo.Point{Lat: -3.1, Lon: -60.0},
		})
		if err != nil {
			t.Fatalf("PointSample() error = %v", err)
		}

		if sample.Median == nil || *sample.Median != 14950 {
			t.Errorf("Median = %v, want 14950 (raw)", sample.Median)
		}
		if sample.ImageCount != 3 || len(sample.Values) != 3 {
			t.Errorf("ImageCount = %d len(Values) = %d, want 3/3", sample.ImageCount, len(sample.Values))
		}
		// Raw samples never carry conversion parameters
		if gotReq.ScaleFactor != nil || gotReq.Offset != nil {
			t.Errorf("sample request must not carry conversion fields, got factor=%v offset=%v", gotReq.ScaleFactor, gotReq.Offset)
		}
		// MODIS has no cloud metadata so the ceiling must be dropped
		if gotReq.CloudCeiling != nil {
			t.Errorf("LST sample request must not carry cloud_ceiling, got %v", *gotReq.CloudCeiling)
		}
	})

	t.Run("empty month", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"median": null, "values": [], "image_count": 0}`))
		}))
		defer server.Close()

		client := testClient(t, server.URL)

		profile := NDVI()
		sample, err := client.PointSample(context.Background(), SampleRequest{
			DatasetParams: profile.RawSampleParams(profile.CloudCeiling(50)),
			DateRange:     RangeFor(temporal.Month{Year: 2025, Mon: time.January}),
			Point:         geo.Point{Lat: -3.1, Lon: -60.0},
		})
		if err != nil {
			t.Fatalf("PointSample() error = %v", err)
		}

		if sample.Median != nil {
			t.Errorf("Median = %v, want nil for empty month", *sample.Median)
		}
		if sample.ImageCount != 0 {
			t.Errorf("ImageCount = %d, want 0", sample.ImageCount)
		}
	})
}

// TestPing tests the gateway health probe
func TestPing(t *testing.T) {
	t.Run("healthy gateway", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != pathHealth {
				t.Errorf("path = %q, want %q", r.URL.Path, pathHealth)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := testClient(t, server.URL)

		if err := client.Ping(context.Background()); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	})

	t.Run("unhealthy gateway", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("maintenance window"))
		}))
		defer server.Close()

		client := testClient(t, server.URL)

		err := client.Ping(context.Background())
		if err == nil {
			t.Fatal("Expected error for unhealthy gateway")
		}
		if !strings.Contains(err.Error(), "status 503") {
			t.Errorf("Error should include status, got: %v", err)
		}
	})
}

// TestNewClientDefaults verifies zero-valued tuning falls back to defaults
func TestNewClientDefaults(t *testing.T) {
	t.Parallel()

	client := New(&config.ProviderConfig{
		BaseURL: "https://gateway.example.com/",
		APIKey:  "k",
	})

	if client.baseURL != "https://gateway.example.com" {
		t.Errorf("baseURL = %q, want trailing slash trimmed", client.baseURL)
	}
	if client.client.Timeout != defaultTimeout {
		t.Errorf("timeout = %v, want %v", client.client.Timeout, defaultTimeout)
	}
	if client.maxRetries != defaultMaxRetries {
		t.Errorf("maxRetries = %d, want %d", client.maxRetries, defaultMaxRetries)
	}
	if client.retryBaseDelay != defaultRetryBaseDelay {
		t.Errorf("retryBaseDelay = %v, want %v", client.retryBaseDelay, defaultRetryBaseDelay)
	}
}

// TestClientQPSThrottle verifies the limiter spaces out requests
func TestClientQPSThrottle(t *testing.T) {
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(&config.ProviderConfig{
		BaseURL:        server.URL,
		APIKey:         "k",
		Timeout:        5 * time.Second,
		RetryAttempts:  1,
		RetryBaseDelay: time.Millisecond,
		RateLimit:      50, // 20ms between requests after the burst
		RateBurst:      1,
	})

	start := time.Now()
	for i := 0; i < 3; i++ {
		resp, err := client.doRequestWithRateLimit(context.Background(), http.MethodGet, pathHealth, nil)
		if err != nil {
			t.Fatalf("request %d error = %v", i, err)
		}
		resp.Body.Close()
	}

	// First request consumes the burst token; the next two wait ~20ms each.
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("elapsed = %v, want >= 30ms of limiter spacing", elapsed)
	}
	if requestCount != 3 {
		t.Errorf("requestCount = %d, want 3", requestCount)
	}
}
