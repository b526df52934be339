package terrain

import (
	"fmt"

	"github.com/runejs/webclient/pkg/formats"
)

// Scene dimensions in tiles.
const (
	// SceneSize is the width of the visible scene: 13 chunks of 8 tiles.
	SceneSize = 104
	// GridSize includes the extra row and column used for corner heights.
	GridSize = SceneSize + 1

	ChunkSize = 8
	// sceneChunkRadius is the number of chunks between the scene origin and
	// the viewpoint chunk.
	sceneChunkRadius = 6
)

// Position is a world tile coordinate.
type Position struct {
	X, Y  int
	Plane int
}

// String returns the coordinate as x,y,plane.
func (p Position) String() string {
	return fmt.Sprintf("%d,%d,%d", p.X, p.Y, p.Plane)
}

// ChunkX returns the 8x8 chunk column containing the position.
func (p Position) ChunkX() int { return p.X >> 3 }

// ChunkY returns the 8x8 chunk row containing the position.
func (p Position) ChunkY() int { return p.Y >> 3 }

// ChunkLocalX returns the x offset inside the chunk.
func (p Position) ChunkLocalX() int { return p.X & 7 }

// ChunkLocalY returns the y offset inside the chunk.
func (p Position) ChunkLocalY() int { return p.Y & 7 }

// RegionX returns the 64x64 region column containing the position.
func (p Position) RegionX() int { return p.X >> 6 }

// RegionY returns the 64x64 region row containing the position.
func (p Position) RegionY() int { return p.Y >> 6 }

// SceneBase returns the world tile at scene coordinate (0, 0).
func (p Position) SceneBase() (x, y int) {
	return (p.ChunkX() - sceneChunkRadius) * ChunkSize, (p.ChunkY() - sceneChunkRadius) * ChunkSize
}

// RegionCoord identifies a map region.
type RegionCoord struct {
	X, Y int
}

// Name returns the region's terrain group name.
func (c RegionCoord) Name() string {
	return formats.RegionName(c.X, c.Y)
}

// Packed returns the coordinate packed as x<<8 | y.
func (c RegionCoord) Packed() int {
	return formats.RegionCoord(c.X, c.Y)
}

// SceneRegions returns the regions overlapping the scene grid around p,
// column by column.
func (p Position) SceneRegions() []RegionCoord {
	baseX, baseY := p.SceneBase()

	var out []RegionCoord
	for rx := baseX >> 6; rx <= (baseX+SceneSize)>>6; rx++ {
		for ry := baseY >> 6; ry <= (baseY+SceneSize)>>6; ry++ {
			out = append(out, RegionCoord{X: rx, Y: ry})
		}
	}
	return out
}
