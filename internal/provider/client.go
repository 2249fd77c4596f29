// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/viridis/internal/config"
	"github.com/tomtom215/viridis/internal/metrics"
)

// maxErrorBodySize limits the maximum amount of response body read for error
// reporting. This prevents unbounded memory allocation when reading large
// error responses.
const maxErrorBodySize = 64 * 1024 // 64KB

const (
	defaultTimeout        = 30 * time.Second
	defaultMaxRetries     = 5
	defaultRetryBaseDelay = 1 * time.Second
)

// Gateway endpoint paths.
const (
	pathComposite  = "/v1/composite"
	pathMosaic     = "/v1/mosaic"
	pathStatistics = "/v1/statistics"
	pathSample     = "/v1/sample"
	pathHealth     = "/v1/health"
)

// Metric operation labels.
const (
	opComposite  = "composite"
	opMosaic     = "mosaic"
	opStatistics = "statistics"
	opSample     = "sample"
)

// readBodyForError reads the response body for error reporting (max 64KB).
// Returns the body content or a placeholder message if reading fails.
// Uses io.LimitReader to prevent unbounded memory allocation.
func readBodyForError(r io.Reader) []byte {
	limitedReader := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	// If we hit the limit, indicate truncation
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// Client talks to the earth-observation gateway. All methods are safe for
// concurrent use.
type Client struct {
	baseURL        string
	apiKey         string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
}

// New creates a gateway client from configuration. Zero-valued tuning fields
// fall back to house defaults (30s timeout, 5 retries, 1s base delay,
// unthrottled QPS).
func New(cfg *config.ProviderConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.RetryAttempts
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	retryBaseDelay := cfg.RetryBaseDelay
	if retryBaseDelay <= 0 {
		retryBaseDelay = defaultRetryBaseDelay
	}

	limit := rate.Inf
	burst := 1
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
		burst = cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: timeout,
		},
		limiter:        rate.NewLimiter(limit, burst),
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Composite requests a median composite of one dataset over one geometry and
// one month window. The returned handle references the computed image inside
// the gateway.
func (c *Client) Composite(ctx context.Context, req CompositeRequest) (*ImageHandle, error) {
	var handle ImageHandle
	start := time.Now()
	err := c.postJSON(ctx, pathComposite, req, &handle)
	metrics.RecordProviderRequest(opComposite, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("composite request: %w", err)
	}
	if handle.ImageID == "" {
		return nil, fmt.Errorf("composite request: gateway returned empty image_id")
	}
	return &handle, nil
}

// MosaicTiles merges per-tile handles into one rendered image and returns
// its XYZ tile URL template.
func (c *Client) MosaicTiles(ctx context.Context, req MosaicRequest) (*TileLayer, error) {
	var layer TileLayer
	start := time.Now()
	err := c.postJSON(ctx, pathMosaic, req, &layer)
	metrics.RecordProviderRequest(opMosaic, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("mosaic request: %w", err)
	}
	if layer.TileURL == "" {
		return nil, fmt.Errorf("mosaic request: gateway returned empty tile_url")
	}
	return &layer, nil
}

// RegionStatistics requests a combined mean/min/max reduction over an AOI
// for one month. Nil result fields are preserved; they mean the reducer saw
// no unmasked pixels.
func (c *Client) RegionStatistics(ctx context.Context, req StatsRequest) (*RegionStats, error) {
	var stats RegionStats
	start := time.Now()
	err := c.postJSON(ctx, pathStatistics, req, &stats)
	metrics.RecordProviderRequest(opStatistics, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("statistics request: %w", err)
	}
	return &stats, nil
}

// PointSample requests the per-image value series at a point for one month.
// Values come back raw; callers convert with DatasetProfile.FromRaw.
func (c *Client) PointSample(ctx context.Context, req SampleRequest) (*PointSample, error) {
	var sample PointSample
	start := time.Now()
	err := c.postJSON(ctx, pathSample, req, &sample)
	metrics.RecordProviderRequest(opSample, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("sample request: %w", err)
	}
	return &sample, nil
}

// Ping verifies connectivity to the gateway.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.doRequestWithRateLimit(ctx, http.MethodGet, pathHealth, nil)
	if err != nil {
		return fmt.Errorf("gateway ping: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return fmt.Errorf("gateway ping failed with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// postJSON marshals the payload, performs the request with throttling and
// 429 backoff, checks HTTP status, and decodes the JSON response.
func (c *Client) postJSON(ctx context.Context, path string, payload, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequestWithRateLimit(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody := readBodyForError(resp.Body)
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(errBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return nil
}

// doRequestWithRateLimit performs an HTTP request with client-side QPS
// throttling and automatic rate limit handling. Implements exponential
// backoff for HTTP 429 responses (1s, 2s, 4s, 8s, 16s), honoring Retry-After.
// The context is used for cancellation during limiter and backoff waits.
// Only 429 is retried; every other failure surfaces immediately.
func (c *Client) doRequestWithRateLimit(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Check context before attempting request
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// Client-side QPS throttle
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
		metrics.ProviderThrottleWait.Observe(time.Since(waitStart).Seconds())

		// Body reader must be rebuilt per attempt
		var reader io.Reader = http.NoBody
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		// Success - return response
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Rate limited (HTTP 429) - close body and retry with backoff
		retryAfter := resp.Header.Get("Retry-After")
		_ = resp.Body.Close() // Explicitly ignore error - will retry anyway

		// Last attempt - return error
		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		// Calculate exponential backoff delay: 1s, 2s, 4s, 8s, 16s
		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))

		// Check for Retry-After header (RFC 6585)
		if retryAfter != "" {
			// Try parsing as seconds (integer)
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		metrics.RecordProviderRetry()

		// Use cancellable wait instead of time.Sleep
		select {
		case <-time.After(delay):
			// Continue to next attempt
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}
