// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

// Package geo provides bounding boxes, the analysis tiling grid, and the
// minimal GeoJSON types exchanged with clients and the imagery provider.
package geo

import "fmt"

// BoundingBox is a geographic extent in WGS84 degrees.
type BoundingBox struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// Validate checks coordinate ranges and edge ordering.
func (b BoundingBox) Validate() error {
	if b.West < -180 || b.West > 180 || b.East < -180 || b.East > 180 {
		return fmt.Errorf("longitude out of range [-180, 180]: west=%g east=%g", b.West, b.East)
	}
	if b.South < -90 || b.South > 90 || b.North < -90 || b.North > 90 {
		return fmt.Errorf("latitude out of range [-90, 90]: south=%g north=%g", b.South, b.North)
	}
	if b.West >= b.East {
		return fmt.Errorf("west (%g) must be less than east (%g)", b.West, b.East)
	}
	if b.South >= b.North {
		return fmt.Errorf("south (%g) must be less than north (%g)", b.South, b.North)
	}
	return nil
}

// Width returns the longitudinal extent in degrees.
func (b BoundingBox) Width() float64 {
	return b.East - b.West
}

// Height returns the latitudinal extent in degrees.
func (b BoundingBox) Height() float64 {
	return b.North - b.South
}

// Contains reports whether the point lies inside or on the box edges.
func (b BoundingBox) Contains(p Point) bool {
	return p.Lon >= b.West && p.Lon <= b.East && p.Lat >= b.South && p.Lat <= b.North
}

// Polygon returns the box as a closed GeoJSON polygon ring, counterclockwise
// from the southwest corner.
func (b BoundingBox) Polygon() *Polygon {
	return &Polygon{
		Type: "Polygon",
		Coordinates: [][][]float64{{
			{b.West, b.South},
			{b.East, b.South},
			{b.East, b.North},
			{b.West, b.North},
			{b.West, b.South},
		}},
	}
}

// Point is a geographic coordinate in WGS84 degrees.
type Point struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Validate checks coordinate ranges.
func (p Point) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude out of range [-90, 90]: %g", p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("longitude out of range [-180, 180]: %g", p.Lon)
	}
	return nil
}
