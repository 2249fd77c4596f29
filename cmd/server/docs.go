// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

// Viridis API provides satellite-derived vegetation and land surface
// temperature analytics over HTTP.
//
// @title Viridis API
// @version 1.0
// @description Satellite vegetation (NDVI) and land surface temperature (LST) analytics service
// @description
// @description ## Products
// @description
// @description - **Amazon layers**: 12 monthly map-tile layers over the Amazon basin, assembled from a 48-tile processing grid
// @description - **AOI statistics**: mean/min/max NDVI or LST per month over a user-supplied GeoJSON polygon
// @description - **Point samples**: median value, full value series and image count at a coordinate for one month
// @description
// @description ## Data Sources
// @description
// @description All pixel math (cloud masking, spectral indices, compositing, tile rendering) runs inside the
// @description remote earth-observation provider. NDVI derives from Sentinel-2 surface reflectance
// @description (COPERNICUS/S2_SR_HARMONIZED); LST derives from MODIS thermal composites (MODIS/061/MOD11A2).
// @description
// @description ## No Data Semantics
// @description
// @description Months without usable observations carry explicit nulls and `data_available: false`,
// @description never zero values. Failed grid tiles are masked out of mosaics; a month whose whole
// @description grid fails falls back to a single whole-region composite.
// @description
// @description ## Authentication
// @description
// @description The analysis API is public by default (AUTH_MODE=none). Admin endpoints always require
// @description a JWT obtained via `/api/v1/auth/login`.
// @description
// @description ## Rate Limiting
// @description
// @description Analysis endpoints: 10 requests per minute per IP (each request fans out to the
// @description imagery provider). History reads: 300 per minute. Rate limit headers are included
// @description in responses: `X-RateLimit-Limit`, `X-RateLimit-Remaining`, `X-RateLimit-Reset`.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message"
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-08-27T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/viridis/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT bearer token. Obtain via /api/v1/auth/login endpoint.
//
// @tag.name Layers
// @tag.description Monthly NDVI and LST map-tile layers over the fixed Amazon basin grid
//
// @tag.name Statistics
// @tag.description Monthly NDVI and LST statistics over user-supplied areas of interest
//
// @tag.name Point
// @tag.description Single-month NDVI and LST samples at a coordinate
//
// @tag.name Analyses
// @tag.description Analysis run history recorded in DuckDB
//
// @tag.name Auth
// @tag.description Admin authentication endpoints
//
// @tag.name Admin
// @tag.description Administrative operations (cache purge, history wipe); requires the admin role
//
// @tag.name Core
// @tag.description Health checks and system status
package main
