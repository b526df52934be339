package terrain

// HeightAt returns the interpolated elevation at a mesh-space position on a
// plane, in the same units and origin BuildMesh uses.
// Positions outside the interior grid are clamped to its edge.
func (t *Terrain) HeightAt(plane int, x, z float32) float32 {
	plane = min(max(plane, 0), Planes-1)

	fx := x/LocalTileSize + 1
	fz := z/LocalTileSize + 1

	tileX := min(max(int(fx), 1), SceneSize-2)
	tileZ := min(max(int(fz), 1), SceneSize-2)

	// Get fractional position within tile (0-1)
	fracX := clampf(fx-float32(tileX), 0, 1)
	fracZ := clampf(fz-float32(tileZ), 0, 1)

	tiles := &t.Tiles[plane]
	sw := float32(tiles[tileX][tileZ].Elevation())
	se := float32(tiles[tileX+1][tileZ].Elevation())
	nw := float32(tiles[tileX][tileZ+1].Elevation())
	ne := float32(tiles[tileX+1][tileZ+1].Elevation())

	// South edge: lerp between SW and SE
	south := sw*(1-fracX) + se*fracX
	// North edge: lerp between NW and NE
	north := nw*(1-fracX) + ne*fracX
	return south*(1-fracZ) + north*fracZ
}

// TileAt returns the tile under a mesh-space position, or nil outside the
// interior grid.
func (t *Terrain) TileAt(plane int, x, z float32) *Tile {
	if x < 0 || z < 0 {
		return nil
	}
	tx := int(x/LocalTileSize) + 1
	tz := int(z/LocalTileSize) + 1
	if tx >= SceneSize-1 || tz >= SceneSize-1 {
		return nil
	}
	return t.Tile(plane, tx, tz)
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
