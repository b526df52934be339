package terrain

import "github.com/runejs/webclient/pkg/color"

// Tile model sub-vertex offsets.
const (
	halfTile         = LocalTileSize / 2
	quarterTile      = LocalTileSize / 4
	threeQuarterTile = LocalTileSize * 3 / 4
)

// MaxShape is the largest tile model shape index.
const MaxShape = 12

// shapeVertices lists the vertex types of each shape before rotation.
// Types 1..8 walk the tile border counter-clockwise from the south-west
// corner; 9..16 are inner points.
var shapeVertices = [MaxShape + 1][]int{
	{1, 3, 5, 7},
	{1, 3, 5, 7},
	{1, 3, 5, 7},
	{1, 3, 5, 7, 6},
	{1, 3, 5, 7, 6},
	{1, 3, 5, 7, 6},
	{1, 3, 5, 7, 6},
	{1, 3, 5, 7, 2, 6},
	{1, 3, 5, 7, 2, 8},
	{1, 3, 5, 7, 2, 8},
	{1, 3, 5, 7, 11, 12},
	{1, 3, 5, 7, 11, 12},
	{1, 3, 5, 7, 13, 14},
}

// shapeFaces lists each shape's triangles as (layer, a, b, c) groups. Layer 0
// is drawn with the underlay, layer 1 with the overlay.
var shapeFaces = [MaxShape + 1][]int{
	{0, 1, 2, 3, 0, 0, 1, 3},
	{1, 1, 2, 3, 1, 0, 1, 3},
	{0, 1, 2, 3, 1, 0, 1, 3},
	{0, 0, 1, 2, 0, 0, 2, 4, 1, 0, 4, 3},
	{0, 0, 1, 4, 0, 0, 4, 3, 1, 1, 2, 4},
	{0, 0, 4, 3, 1, 0, 1, 2, 1, 0, 2, 4},
	{0, 1, 2, 4, 1, 0, 1, 4, 1, 0, 4, 3},
	{0, 4, 1, 2, 0, 4, 2, 5, 1, 0, 4, 5, 1, 0, 5, 3},
	{0, 4, 1, 2, 0, 4, 2, 3, 0, 4, 3, 5, 1, 0, 4, 5},
	{0, 0, 4, 5, 1, 4, 1, 2, 1, 4, 2, 3, 1, 4, 3, 5},
	{0, 0, 1, 5, 0, 1, 4, 5, 0, 1, 2, 4, 1, 0, 5, 3, 1, 5, 4, 3, 1, 4, 2, 3},
	{1, 0, 1, 5, 1, 1, 4, 5, 1, 1, 2, 4, 0, 0, 5, 3, 0, 5, 4, 3, 0, 4, 2, 3},
	{1, 0, 5, 4, 1, 0, 1, 5, 0, 0, 4, 3, 0, 4, 5, 3, 0, 5, 2, 3, 0, 1, 2, 5},
}

// TileModel is a tile split into several triangles, used for diagonal and
// partial overlays. Vertex coordinates are tile-local in 0..LocalTileSize;
// VertexY is the corner elevation. Colors are packed HSL per triangle corner.
type TileModel struct {
	Shape    int
	Rotation int

	VertexX, VertexY, VertexZ []int

	FaceA, FaceB, FaceC    []int
	ColorA, ColorB, ColorC []int
	// FaceTextures is nil for untextured models. Underlay faces carry -1.
	FaceTextures []int

	// UnderlayRGB and OverlayRGB are the flat minimap colors of the tile.
	UnderlayRGB, OverlayRGB color.RGB
}

// rotateVertexType turns a vertex type clockwise by rotation quarter turns.
func rotateVertexType(t, rotation int) int {
	switch {
	case t&1 == 0 && t <= 8:
		return ((t - rotation - rotation - 1) & 7) + 1
	case t > 8 && t <= 12:
		return ((t - 9 - rotation) & 3) + 9
	case t > 12 && t <= 16:
		return ((t - 13 - rotation) & 3) + 13
	default:
		return t
	}
}

// vertexPlacement returns a vertex type's tile-local position and the corners
// its height and colors are taken from. a == b for corner-bound types.
func vertexPlacement(t int) (x, z int, a, b corner) {
	switch t {
	case 1:
		return 0, 0, cornerSW, cornerSW
	case 2:
		return halfTile, 0, cornerSW, cornerSE
	case 3:
		return LocalTileSize, 0, cornerSE, cornerSE
	case 4:
		return LocalTileSize, halfTile, cornerSE, cornerNE
	case 5:
		return LocalTileSize, LocalTileSize, cornerNE, cornerNE
	case 6:
		return halfTile, LocalTileSize, cornerNE, cornerNW
	case 7:
		return 0, LocalTileSize, cornerNW, cornerNW
	case 8:
		return 0, halfTile, cornerNW, cornerSW
	case 9:
		return halfTile, quarterTile, cornerSW, cornerSE
	case 10:
		return threeQuarterTile, halfTile, cornerSE, cornerNE
	case 11:
		return halfTile, threeQuarterTile, cornerNE, cornerNW
	case 12:
		return quarterTile, halfTile, cornerNW, cornerSW
	case 13:
		return quarterTile, quarterTile, cornerSW, cornerSW
	case 14:
		return threeQuarterTile, quarterTile, cornerSE, cornerSE
	case 15:
		return threeQuarterTile, threeQuarterTile, cornerNE, cornerNE
	default:
		return quarterTile, threeQuarterTile, cornerNW, cornerNW
	}
}

type corner uint8

const (
	cornerSW corner = iota
	cornerSE
	cornerNE
	cornerNW
)

func (c Corners) at(k corner) int {
	switch k {
	case cornerSW:
		return c.SW
	case cornerSE:
		return c.SE
	case cornerNE:
		return c.NE
	default:
		return c.NW
	}
}

// between averages two corners with an arithmetic shift.
func (c Corners) between(a, b corner) int {
	if a == b {
		return c.at(a)
	}
	return (c.at(a) + c.at(b)) >> 1
}

// NewTileModel builds a shaped tile. heights are corner elevations; underlay
// and overlay are lit packed colors per corner. textureID is -1 when the
// overlay is untextured. Shapes outside 0..MaxShape are clamped.
func NewTileModel(shape, rotation int, heights, underlay, overlay Corners, textureID int) *TileModel {
	shape = min(max(shape, 0), MaxShape)
	rotation &= 3

	types := shapeVertices[shape]
	m := &TileModel{
		Shape:    shape,
		Rotation: rotation,
		VertexX:  make([]int, len(types)),
		VertexY:  make([]int, len(types)),
		VertexZ:  make([]int, len(types)),
	}

	underlayColors := make([]int, len(types))
	overlayColors := make([]int, len(types))
	for i, t := range types {
		x, z, a, b := vertexPlacement(rotateVertexType(t, rotation))
		m.VertexX[i] = x
		m.VertexY[i] = heights.between(a, b)
		m.VertexZ[i] = z
		underlayColors[i] = underlay.between(a, b)
		overlayColors[i] = overlay.between(a, b)
	}

	faces := shapeFaces[shape]
	n := len(faces) / 4
	m.FaceA, m.FaceB, m.FaceC = make([]int, n), make([]int, n), make([]int, n)
	m.ColorA, m.ColorB, m.ColorC = make([]int, n), make([]int, n), make([]int, n)
	if textureID != -1 {
		m.FaceTextures = make([]int, n)
	}

	for f := range n {
		layer := faces[f*4]
		ia := rotateFaceIndex(faces[f*4+1], rotation)
		ib := rotateFaceIndex(faces[f*4+2], rotation)
		ic := rotateFaceIndex(faces[f*4+3], rotation)
		m.FaceA[f], m.FaceB[f], m.FaceC[f] = ia, ib, ic

		colors, tex := underlayColors, -1
		if layer == 1 {
			colors, tex = overlayColors, textureID
		}
		m.ColorA[f], m.ColorB[f], m.ColorC[f] = colors[ia], colors[ib], colors[ic]
		if m.FaceTextures != nil {
			m.FaceTextures[f] = tex
		}
	}

	return m
}

// rotateFaceIndex rotates references to the four corner vertices. Inner
// vertices (index 4 and up) are left as is.
func rotateFaceIndex(i, rotation int) int {
	if i < 4 {
		return (i - rotation) & 3
	}
	return i
}

// FaceCount returns the number of triangles.
func (m *TileModel) FaceCount() int {
	return len(m.FaceA)
}

// FaceTexture returns the texture of a triangle, or -1.
func (m *TileModel) FaceTexture(f int) int {
	if m.FaceTextures == nil {
		return -1
	}
	return m.FaceTextures[f]
}
