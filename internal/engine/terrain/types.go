// Package terrain builds scene terrain from decoded map regions: procedural
// heights, vertex lighting, underlay blending and tile shapes.
package terrain

import (
	"github.com/runejs/webclient/pkg/color"
)

// LocalTileSize is the width of a tile in scene units.
const LocalTileSize = 128

// Vertex represents a terrain mesh vertex with all attributes.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Color    [3]float32
}

// TextureGroup is a contiguous run of vertices drawn with one texture.
// TextureID is -1 for untextured runs.
type TextureGroup struct {
	TextureID int
	Start     int
	Count     int
}

// Mesh holds non-indexed triangles ready for upload, three vertices per
// triangle.
type Mesh struct {
	Vertices []Vertex
	Groups   []TextureGroup
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of the terrain.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Corners holds one value per tile corner.
type Corners struct {
	SW, SE, NE, NW int
}

// TilePaint is a flat quad with one color per corner.
type TilePaint struct {
	ColorNE, ColorNW, ColorSE, ColorSW color.RGB
	// Packed holds the lit packed HSL colors the RGB corners came from.
	Packed Corners

	// Flat is set when all four corners share a height.
	Flat      bool
	TextureID int
}

// Tile is one cell of the scene grid.
type Tile struct {
	Plane, X, Y int

	// Height is negative upwards, as stored in region files.
	Height int

	Paint *TilePaint
	Model *TileModel
}

// Elevation returns the height with up positive.
func (t *Tile) Elevation() int {
	return -t.Height
}

// Visible reports whether the tile emits any geometry.
func (t *Tile) Visible() bool {
	return t.Paint != nil || t.Model != nil
}
