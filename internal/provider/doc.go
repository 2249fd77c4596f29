// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

/*
Package provider implements the HTTP client for the remote earth-observation
gateway. All pixel math (cloud masking, spectral indices, temporal
compositing, tile rendering) happens inside the gateway; this package sends
parameters and receives opaque image handles, XYZ tile URL templates, and
reduced numbers.

# Operations

  - Composite: median composite of one dataset over one geometry and one
    month window. Returns an opaque handle ID for later mosaic assembly.
  - MosaicTiles: merges per-tile handles into a single image, masks blank
    placeholder handles, and returns an XYZ tile URL template.
  - RegionStatistics: mean/min/max over an AOI for one month. Fields are
    nullable; a null means the reducer saw no unmasked pixels, which is
    distinct from a value of zero.
  - PointSample: median value at a point for one month plus the per-image
    value series and contributing image count.
  - Ping: gateway health probe.

# Dataset Profiles

NDVI (Sentinel-2 surface reflectance) and LST (MODIS 8-day thermal) parameter
bundles are fixed in this package as DatasetProfile values: collection IDs,
band lists, cloud mask classes, native scale, reporting precision, unit
conversion, and visualization parameters. Profiles are passed through to the
gateway verbatim; the service never interprets them.

LST unit conversion (raw digital number × 0.02 − 273.15 → °C) is applied
gateway-side for composites and statistics, but point samples return raw
per-image values, so SampleRequest omits the conversion fields and callers
convert with DatasetProfile.FromRaw.

# Resilience

The client applies three layers of protection against a throttling or failing
gateway:

  - A golang.org/x/time/rate limiter bounds outbound QPS before each request.
  - HTTP 429 responses trigger exponential backoff (1s, 2s, 4s, 8s, 16s),
    honoring Retry-After when present. Only 429 is retried; other failures
    surface immediately.
  - BreakerClient wraps the client in a sony/gobreaker circuit breaker that
    opens at a 60% failure rate over at least 10 requests, rejecting calls
    outright until the cooldown expires.

Consumers declare the interface they need (for example mosaic.Provider) and
accept either Client or BreakerClient.

# Authentication

The gateway API key is sent as an Authorization: Bearer header. The key is
stored encrypted at rest and decrypted during configuration loading; this
package only ever sees plaintext.
*/
package provider
