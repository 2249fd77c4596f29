// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package geo

import "fmt"

// Tile is one cell of the analysis grid.
type Tile struct {
	Index int
	Box   BoundingBox
}

// BuildGrid partitions a bounding box into tiles of step degrees on both
// axes. Edge tiles clamp to the box so the union covers it exactly, with no
// gaps and no overhang. Tiles are ordered row-major: south to north, west to
// east within each row.
func BuildGrid(box BoundingBox, step float64) ([]Tile, error) {
	if err := box.Validate(); err != nil {
		return nil, fmt.Errorf("grid box: %w", err)
	}
	if step <= 0 {
		return nil, fmt.Errorf("grid step must be positive, got %g", step)
	}

	var tiles []Tile
	idx := 0
	for south := box.South; south < box.North; south += step {
		north := south + step
		if north > box.North {
			north = box.North
		}
		for west := box.West; west < box.East; west += step {
			east := west + step
			if east > box.East {
				east = box.East
			}
			tiles = append(tiles, Tile{
				Index: idx,
				Box:   BoundingBox{West: west, South: south, East: east, North: north},
			})
			idx++
		}
	}
	return tiles, nil
}

// GridSize returns the number of columns and rows BuildGrid produces for the
// given box and step.
func GridSize(box BoundingBox, step float64) (cols, rows int) {
	for west := box.West; west < box.East; west += step {
		cols++
	}
	for south := box.South; south < box.North; south += step {
		rows++
	}
	return cols, rows
}
