package terrain

import (
	"github.com/runejs/webclient/pkg/color"
	"github.com/runejs/webclient/pkg/formats"
)

// Planes is the number of height levels in a scene.
const Planes = formats.Planes

// planeHeightStep is the default drop between stacked planes.
const planeHeightStep = 240

// FloorDefinitions resolves floor definitions by definition id (the region
// id minus one). Implementations return a fallback definition rather than
// nil for ids they cannot resolve.
type FloorDefinitions interface {
	Overlay(id int) *formats.Overlay
	Underlay(id int) *formats.Underlay
}

// FloorSet is an in-memory FloorDefinitions.
type FloorSet struct {
	Overlays  map[int]*formats.Overlay
	Underlays map[int]*formats.Underlay
}

// NewFloorSet creates an empty floor set.
func NewFloorSet() *FloorSet {
	return &FloorSet{
		Overlays:  make(map[int]*formats.Overlay),
		Underlays: make(map[int]*formats.Underlay),
	}
}

// Overlay returns the overlay with the given id, or the fallback overlay.
func (s *FloorSet) Overlay(id int) *formats.Overlay {
	if o, ok := s.Overlays[id]; ok && o != nil {
		return o
	}
	return formats.FallbackOverlay(id)
}

// Underlay returns the underlay with the given id, or the fallback underlay.
func (s *FloorSet) Underlay(id int) *formats.Underlay {
	if u, ok := s.Underlays[id]; ok && u != nil {
		return u
	}
	return formats.FallbackUnderlay(id)
}

// BuildInput is everything Build needs. Regions missing from the map are
// treated as tiles without floors or explicit heights.
type BuildInput struct {
	Position Position
	Regions  map[RegionCoord]*formats.Region
	Floors   FloorDefinitions
	// Shadows is optional.
	Shadows *ShadowMap
}

// Terrain is the assembled scene around a position. Tiles are indexed
// [plane][x][y] in scene coordinates; scene (0, 0) is world (BaseX, BaseY).
type Terrain struct {
	Position     Position
	BaseX, BaseY int

	Tiles [Planes][GridSize][GridSize]Tile

	// Regions lists the regions that contributed tiles.
	Regions []RegionCoord
	// LoadErrors aggregates tolerated failures from loading.
	LoadErrors error
}

// Tile returns the tile at scene coordinates, or nil outside the grid.
func (t *Terrain) Tile(plane, x, y int) *Tile {
	if plane < 0 || plane >= Planes || x < 0 || y < 0 || x >= GridSize || y >= GridSize {
		return nil
	}
	return &t.Tiles[plane][x][y]
}

// VisibleTiles counts emitted paints and models on a plane.
func (t *Terrain) VisibleTiles(plane int) (paints, models int) {
	if plane < 0 || plane >= Planes {
		return 0, 0
	}
	for x := range GridSize {
		for y := range GridSize {
			tile := &t.Tiles[plane][x][y]
			if tile.Paint != nil {
				paints++
			}
			if tile.Model != nil {
				models++
			}
		}
	}
	return paints, models
}

// floorGrid holds the floor ids of one plane in scene coordinates.
type floorGrid struct {
	underlay, overlay, path, orientation grid
}

// builder carries the state of one Build call.
type builder struct {
	in      BuildInput
	terrain *Terrain
	floors  [Planes]*floorGrid
}

// Build assembles terrain from decoded regions. It runs the height, lighting,
// blend and emission passes for every plane.
func Build(in BuildInput) *Terrain {
	if in.Floors == nil {
		in.Floors = NewFloorSet()
	}

	baseX, baseY := in.Position.SceneBase()
	b := &builder{
		in: in,
		terrain: &Terrain{
			Position: in.Position,
			BaseX:    baseX,
			BaseY:    baseY,
		},
	}
	for _, c := range in.Position.SceneRegions() {
		if in.Regions[c] != nil {
			b.terrain.Regions = append(b.terrain.Regions, c)
		}
	}

	for plane := range Planes {
		b.resolvePlane(plane)
	}
	for plane := range Planes {
		b.emitPlane(plane)
	}

	return b.terrain
}

// resolvePlane copies heights and floor ids of a plane into scene space.
func (b *builder) resolvePlane(plane int) {
	t := b.terrain
	fl := new(floorGrid)
	b.floors[plane] = fl

	for x := range GridSize {
		for y := range GridSize {
			wx, wy := t.BaseX+x, t.BaseY+y
			tile := &t.Tiles[plane][x][y]
			tile.Plane, tile.X, tile.Y = plane, x, y

			region := b.in.Regions[RegionCoord{X: wx >> 6, Y: wy >> 6}]
			if region == nil {
				tile.Height = b.absentHeight(plane, x, y, wx, wy)
				continue
			}

			lx, ly := wx&(formats.RegionSize-1), wy&(formats.RegionSize-1)
			if h, ok := region.Heights[plane][lx][ly].Get(); ok {
				tile.Height = h
			} else {
				tile.Height = DerivedHeight(wx, wy)
			}

			fl.underlay[x][y] = int(region.UnderlayIDs[plane][lx][ly])
			fl.overlay[x][y] = int(region.OverlayIDs[plane][lx][ly])
			fl.path[x][y] = int(region.OverlayPaths[plane][lx][ly])
			fl.orientation[x][y] = int(region.OverlayOrientations[plane][lx][ly])
		}
	}
}

// absentHeight is the height of a tile whose region could not be loaded.
func (b *builder) absentHeight(plane, x, y, wx, wy int) int {
	if plane == 0 {
		return DerivedHeight(wx, wy)
	}
	return b.terrain.Tiles[plane-1][x][y].Height - planeHeightStep
}

// emitPlane runs lighting and blending for a plane and attaches paints and
// models to its interior tiles.
func (b *builder) emitPlane(plane int) {
	t := b.terrain
	fl := b.floors[plane]

	elevation := new(grid)
	for x := range GridSize {
		for y := range GridSize {
			elevation[x][y] = t.Tiles[plane][x][y].Elevation()
		}
	}

	var shadow *grid
	if b.in.Shadows != nil {
		shadow = &b.in.Shadows[plane]
	}
	light := computeLighting(elevation, shadow)
	blended := blendUnderlays(&fl.underlay, b.in.Floors)

	for x := 1; x < SceneSize-1; x++ {
		for y := 1; y < SceneSize-1; y++ {
			underlayID := fl.underlay[x][y]
			overlayID := fl.overlay[x][y]
			if underlayID <= 0 && overlayID <= 0 {
				continue
			}

			heights := Corners{
				SW: elevation[x][y],
				SE: elevation[x+1][y],
				NE: elevation[x+1][y+1],
				NW: elevation[x][y+1],
			}
			lights := Corners{
				SW: light[x][y],
				SE: light[x+1][y],
				NE: light[x+1][y+1],
				NW: light[x][y+1],
			}

			tile := &t.Tiles[plane][x][y]
			under := blended[x][y]

			if overlayID > 0 {
				overlay := b.in.Floors.Overlay(overlayID - 1)
				emitOverlay(tile, overlay, fl.path[x][y]+1, fl.orientation[x][y], heights, lights, under, underlayID > 0)
				continue
			}

			packed := under.packed
			tile.Paint = newPaint(Corners{
				SW: color.MixLightness(packed, lights.SW),
				SE: color.MixLightness(packed, lights.SE),
				NE: color.MixLightness(packed, lights.NE),
				NW: color.MixLightness(packed, lights.NW),
			}, formats.NoTexture)
		}
	}
}

// newPaint builds a paint from lit packed colors.
func newPaint(packed Corners, textureID int) *TilePaint {
	return &TilePaint{
		ColorNE:   color.ToRGB(packed.NE),
		ColorNW:   color.ToRGB(packed.NW),
		ColorSE:   color.ToRGB(packed.SE),
		ColorSW:   color.ToRGB(packed.SW),
		Packed:    packed,
		TextureID: textureID,
	}
}

// resolveOverlay picks how an overlay is drawn and its texture.
func resolveOverlay(o *formats.Overlay) (color.ResolvedColor, int) {
	switch {
	case o.HasTexture():
		return color.TexturedColor(), o.Texture
	case o.IsSkip():
		return color.SkippedColor(), formats.NoTexture
	default:
		return color.RenderedColor(color.Pack(o.Color.Hue, o.Color.Saturation, o.Color.Lightness)), formats.NoTexture
	}
}

// emitOverlay attaches a paint (shape 1) or a model to an overlay tile.
// Tiles whose overlay uses the skip color get neither.
func emitOverlay(tile *Tile, o *formats.Overlay, shape, rotation int, heights, lights Corners, under blendedUnderlay, hasUnderlay bool) {
	resolved, textureID := resolveOverlay(o)
	if resolved.Kind() == color.Skipped {
		return
	}

	signed := func(light int) int { return color.MixLightnessSigned(resolved, light) }

	if shape == 1 {
		tile.Paint = newPaint(Corners{
			SW: signed(lights.SW),
			SE: signed(lights.SE),
			NE: signed(lights.NE),
			NW: signed(lights.NW),
		}, textureID)
		tile.Paint.Flat = heights.SW == heights.SE && heights.SW == heights.NE && heights.SW == heights.NW
		return
	}

	underPacked := 0
	if hasUnderlay {
		underPacked = under.packed
	}
	mixed := func(light int) int { return color.MixLightness(underPacked, light) }

	underColors := Corners{SW: mixed(lights.SW), SE: mixed(lights.SE), NE: mixed(lights.NE), NW: mixed(lights.NW)}
	overColors := Corners{SW: signed(lights.SW), SE: signed(lights.SE), NE: signed(lights.NE), NW: signed(lights.NW)}

	m := NewTileModel(shape, rotation, heights, underColors, overColors, textureID)
	if hasUnderlay && under.ok {
		m.UnderlayRGB = color.ToRGB(under.packed)
	}
	m.OverlayRGB = o.Color.RGB()
	tile.Model = m
}
