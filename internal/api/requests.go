// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/viridis/internal/geo"
	"github.com/tomtom215/viridis/internal/models"
	"github.com/tomtom215/viridis/internal/temporal"
)

// maxRequestBodyBytes caps POST request bodies. AOI polygons are small;
// anything larger is rejected before parsing.
const maxRequestBodyBytes = 1 << 20 // 1 MiB

// StatisticsRequest is the request body for the AOI statistics endpoints.
// Geometry accepts either a GeoJSON Feature wrapping a Polygon or a bare
// Polygon geometry.
type StatisticsRequest struct {
	Geometry json.RawMessage `json:"geometry"`
}

// PointRequest is the request body for the point sample endpoints. The
// location is given either as latitude/longitude fields (numbers or numeric
// strings) or as a GeoJSON Point geometry; explicit latitude/longitude take
// precedence when both forms are present.
type PointRequest struct {
	Latitude  json.RawMessage `json:"latitude"`
	Longitude json.RawMessage `json:"longitude"`
	Geometry  json.RawMessage `json:"geometry"`
	Month     string          `json:"month"`
}

// AnalysesRequest represents the validated query parameters for the /analyses endpoint.
//
// Fields:
//   - Limit: Results per page (1-1000)
//   - Offset: Pagination offset (0-1000000)
//   - Kinds: Comma-separated analysis kinds to filter
//   - DataTypes: Comma-separated data types to filter (NDVI, LST)
//   - Statuses: Comma-separated run statuses to filter
//   - Since: Only runs created at or after this time (RFC3339)
//   - Until: Only runs created before this time (RFC3339)
//   - Order: Sort direction by creation time (asc, desc)
type AnalysesRequest struct {
	Limit     int      `validate:"min=1,max=1000"`
	Offset    int      `validate:"min=0,max=1000000"`
	Kinds     []string `validate:"omitempty,dive,oneof=amazon_layers aoi_statistics point_sample"`
	DataTypes []string `validate:"omitempty,dive,oneof=NDVI LST"`
	Statuses  []string `validate:"omitempty,dive,oneof=completed failed"`
	Since     string   `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Until     string   `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Order     string   `validate:"omitempty,oneof=asc desc"`
}

// decodeJSONBody decodes a JSON request body into v. It writes a 400
// response and returns false when the body is malformed.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid request body", err)
		return false
	}
	return true
}

// hasJSONValue reports whether a raw JSON field was present and non-null.
func hasJSONValue(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed != "" && trimmed != "null"
}

// parseFlexibleFloat parses a JSON number or a numeric string ("3.5").
// Clients are inconsistent about quoting coordinates, so both are accepted.
func parseFlexibleFloat(raw json.RawMessage) (float64, error) {
	s := strings.TrimSpace(string(raw))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return strconv.ParseFloat(s, 64)
}

func validationError(message string) *models.APIError {
	return &models.APIError{Code: models.ErrCodeValidation, Message: message}
}

// ParseAOI extracts and validates the AOI polygon from a statistics request.
func (req *StatisticsRequest) ParseAOI() (*geo.Polygon, *models.APIError) {
	if !hasJSONValue(req.Geometry) {
		return nil, validationError("Missing geometry parameter")
	}

	polygon, err := geo.DecodeAOI(req.Geometry)
	if err != nil {
		return nil, validationError("Invalid AOI format")
	}
	return polygon, nil
}

// ParseLocation resolves the sample location from a point request.
func (req *PointRequest) ParseLocation() (geo.Point, *models.APIError) {
	switch {
	case hasJSONValue(req.Latitude) && hasJSONValue(req.Longitude):
		lat, latErr := parseFlexibleFloat(req.Latitude)
		lon, lonErr := parseFlexibleFloat(req.Longitude)
		if latErr != nil || lonErr != nil {
			return geo.Point{}, validationError("Invalid latitude or longitude format")
		}

		point := geo.Point{Lat: lat, Lon: lon}
		if err := point.Validate(); err != nil {
			return geo.Point{}, validationError("Invalid latitude or longitude format")
		}
		return point, nil

	case hasJSONValue(req.Geometry):
		return parsePointGeometry(req.Geometry)

	default:
		return geo.Point{}, validationError("Missing latitude/longitude or geometry parameter")
	}
}

// ParseMonth validates the month field of a point request.
func (req *PointRequest) ParseMonth() (temporal.Month, *models.APIError) {
	if req.Month == "" {
		return temporal.Month{}, validationError("Missing month parameter")
	}

	month, err := temporal.ParseMonth(req.Month)
	if err != nil {
		return temporal.Month{}, validationError("Invalid month format (use YYYY-MM)")
	}
	return month, nil
}

// pointGeometryDoc is the subset of a GeoJSON document the point endpoints
// inspect. Coordinates stay raw so numeric strings can be coerced the same
// way the top-level latitude/longitude fields are.
type pointGeometryDoc struct {
	Type        string          `json:"type"`
	Geometry    json.RawMessage `json:"geometry"`
	Coordinates json.RawMessage `json:"coordinates"`
}

func parsePointGeometry(raw json.RawMessage) (geo.Point, *models.APIError) {
	var doc pointGeometryDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return geo.Point{}, validationError("Invalid geometry object format")
	}

	// A Feature wraps the actual geometry.
	if doc.Type == "Feature" {
		inner := doc.Geometry
		doc = pointGeometryDoc{}
		if hasJSONValue(inner) {
			if err := json.Unmarshal(inner, &doc); err != nil {
				return geo.Point{}, validationError("Invalid geometry object format")
			}
		}
	}

	if doc.Type != "Point" || !hasJSONValue(doc.Coordinates) {
		return geo.Point{}, validationError("Invalid geometry format - expected Point")
	}

	var coords []json.RawMessage
	if err := json.Unmarshal(doc.Coordinates, &coords); err != nil || len(coords) < 2 {
		return geo.Point{}, validationError("Invalid coordinates format")
	}

	lon, lonErr := parseFlexibleFloat(coords[0])
	lat, latErr := parseFlexibleFloat(coords[1])
	if lonErr != nil || latErr != nil {
		return geo.Point{}, validationError("Invalid coordinates format")
	}

	point := geo.Point{Lat: lat, Lon: lon}
	if err := point.Validate(); err != nil {
		return geo.Point{}, validationError("Invalid latitude or longitude format")
	}
	return point, nil
}
