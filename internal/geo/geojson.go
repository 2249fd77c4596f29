// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package geo

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Polygon is a GeoJSON Polygon geometry. The service accepts polygons as
// analysis AOIs and emits them as bounds echoes and provider query regions.
type Polygon struct {
	Type        string        `json:"type"`
	Coordinates [][][]float64 `json:"coordinates"`
}

// rawGeometry defers coordinate decoding until the geometry type is known.
type rawGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// rawFeature is the Feature wrapper clients may send instead of a bare
// geometry object.
type rawFeature struct {
	Type     string       `json:"type"`
	Geometry *rawGeometry `json:"geometry"`
}

// DecodeAOI parses a user-supplied area of interest. The document may be a
// GeoJSON Feature or a bare Polygon geometry. Open rings are closed the way
// the imagery provider closes them; anything other than a Polygon is
// rejected.
func DecodeAOI(data []byte) (*Polygon, error) {
	g, err := decodeGeometryDoc(data)
	if err != nil {
		return nil, err
	}
	if g.Type != "Polygon" {
		return nil, fmt.Errorf("unsupported geometry type %q: expected Polygon", g.Type)
	}

	var coords [][][]float64
	if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
		return nil, fmt.Errorf("invalid polygon coordinates: %w", err)
	}

	p := &Polygon{Type: "Polygon", Coordinates: coords}
	if err := p.normalize(); err != nil {
		return nil, err
	}
	return p, nil
}

// DecodePoint parses a sample location sent as a GeoJSON Feature or a bare
// Point geometry.
func DecodePoint(data []byte) (Point, error) {
	g, err := decodeGeometryDoc(data)
	if err != nil {
		return Point{}, err
	}
	if g.Type != "Point" {
		return Point{}, fmt.Errorf("unsupported geometry type %q: expected Point", g.Type)
	}

	var coords []float64
	if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
		return Point{}, fmt.Errorf("invalid point coordinates: %w", err)
	}
	if len(coords) < 2 {
		return Point{}, fmt.Errorf("point requires [lon, lat], got %d values", len(coords))
	}

	p := Point{Lon: coords[0], Lat: coords[1]}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

// decodeGeometryDoc unwraps an optional Feature envelope.
func decodeGeometryDoc(data []byte) (*rawGeometry, error) {
	var f rawFeature
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid GeoJSON document: %w", err)
	}

	if f.Type == "Feature" {
		if f.Geometry == nil {
			return nil, fmt.Errorf("feature has no geometry")
		}
		return f.Geometry, nil
	}

	var g rawGeometry
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("invalid GeoJSON geometry: %w", err)
	}
	if g.Type == "" {
		return nil, fmt.Errorf("geometry has no type")
	}
	return &g, nil
}

// normalize validates rings and closes any that arrive open.
func (p *Polygon) normalize() error {
	if len(p.Coordinates) == 0 {
		return fmt.Errorf("polygon has no rings")
	}

	for ri, ring := range p.Coordinates {
		if len(ring) < 3 {
			return fmt.Errorf("polygon ring %d has %d positions, need at least 3", ri, len(ring))
		}
		for pi, pos := range ring {
			if len(pos) < 2 {
				return fmt.Errorf("polygon ring %d position %d is not [lon, lat]", ri, pi)
			}
			lon, lat := pos[0], pos[1]
			if lon < -180 || lon > 180 {
				return fmt.Errorf("polygon ring %d: longitude out of range [-180, 180]: %g", ri, lon)
			}
			if lat < -90 || lat > 90 {
				return fmt.Errorf("polygon ring %d: latitude out of range [-90, 90]: %g", ri, lat)
			}
		}
		first, last := ring[0], ring[len(ring)-1]
		if first[0] != last[0] || first[1] != last[1] {
			p.Coordinates[ri] = append(ring, []float64{first[0], first[1]})
		}
	}
	return nil
}

// Bounds returns the bounding box of the outer ring.
func (p *Polygon) Bounds() BoundingBox {
	ring := p.Coordinates[0]
	b := BoundingBox{
		West:  ring[0][0],
		East:  ring[0][0],
		South: ring[0][1],
		North: ring[0][1],
	}
	for _, pos := range ring[1:] {
		if pos[0] < b.West {
			b.West = pos[0]
		}
		if pos[0] > b.East {
			b.East = pos[0]
		}
		if pos[1] < b.South {
			b.South = pos[1]
		}
		if pos[1] > b.North {
			b.North = pos[1]
		}
	}
	return b
}
