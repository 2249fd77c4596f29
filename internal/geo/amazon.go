// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package geo

// AmazonRegionName labels the fixed analysis region in API responses.
const AmazonRegionName = "Amazon Rainforest"

// AmazonTileSize is the analysis grid step in degrees. At this size the
// basin splits into 48 tiles (8 columns x 6 rows), small enough that each
// per-tile provider query stays under the provider's region limits.
const AmazonTileSize = 5.0

// AmazonBasin is the fixed Amazon rainforest analysis extent.
var AmazonBasin = BoundingBox{West: -74, South: -18, East: -34, North: 12}

// AmazonGrid returns the analysis grid for the fixed region.
func AmazonGrid() []Tile {
	tiles, err := BuildGrid(AmazonBasin, AmazonTileSize)
	if err != nil {
		// The fixed constants are valid; BuildGrid cannot fail on them.
		panic(err)
	}
	return tiles
}
