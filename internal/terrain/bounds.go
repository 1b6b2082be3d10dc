package terrain

import "lemterrain/internal/core"

// Hex tile geometry of the tile map that consumes the terrain, in pixels.
// Domain units are pixels / 100.
const (
	hexGridWidth  = 100.0
	hexGridHeight = 115.47005
	hexRowStep    = 0.75 * hexGridHeight
	hexOddOffset  = 0.5 * hexGridWidth
	pixelsPerUnit = 100.0
)

// Map dimensions of the default tile map, in tiles.
const (
	DefaultMapColumns = 74
	DefaultMapRows    = 46
)

// HexMapBounds returns the domain covering a cols x rows pointy-top hex map
// whose odd rows are shifted right by half a tile, centred on the origin.
func HexMapBounds(cols, rows int) core.Bounds {
	w := (float64(cols-1)*hexGridWidth + hexGridWidth + hexOddOffset) / pixelsPerUnit
	h := (float64(rows-1)*hexRowStep + hexGridHeight) / pixelsPerUnit
	return core.CenteredBounds(w, h)
}

// DefaultBounds is the domain of the default tile map.
func DefaultBounds() core.Bounds {
	return HexMapBounds(DefaultMapColumns, DefaultMapRows)
}
