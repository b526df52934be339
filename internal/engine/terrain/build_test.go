package terrain

import (
	"testing"

	"github.com/runejs/webclient/pkg/buffer"
	"github.com/runejs/webclient/pkg/color"
	"github.com/runejs/webclient/pkg/formats"
)

var testPosition = Position{X: 3222, Y: 3218}

// uniformRegion decodes a region where every plane 0 tile carries ops and
// the planes above are empty.
func uniformRegion(t *testing.T, ops []byte) *formats.Region {
	t.Helper()
	w := buffer.NewWriter(formats.Planes * formats.RegionSize * formats.RegionSize * (len(ops) + 1))
	for plane := range formats.Planes {
		for range formats.RegionSize * formats.RegionSize {
			if plane == 0 {
				w.WriteBytes(ops)
				continue
			}
			w.WriteUint8(0)
		}
	}

	r, err := formats.ParseRegion("", w.Bytes())
	if err != nil {
		t.Fatalf("ParseRegion failed: %v", err)
	}
	return r
}

// sceneOf maps every region around testPosition to r.
func sceneOf(r *formats.Region) map[RegionCoord]*formats.Region {
	regions := make(map[RegionCoord]*formats.Region)
	for _, c := range testPosition.SceneRegions() {
		regions[c] = r
	}
	return regions
}

// Underlay 1 (opcode 82) with an explicit height of 0.
var flatUnderlayOps = []byte{82, 1, 1}

func testFloors() *FloorSet {
	floors := NewFloorSet()
	floors.Underlays[0] = &formats.Underlay{ID: 0, Color: color.FromRGB(0x4b3e14)}
	return floors
}

func TestBuild_UniformUnderlay(t *testing.T) {
	terr := Build(BuildInput{
		Position: testPosition,
		Regions:  sceneOf(uniformRegion(t, flatUnderlayOps)),
		Floors:   testFloors(),
	})

	if terr.BaseX != 3168 || terr.BaseY != 3168 {
		t.Errorf("expected base 3168,3168, got %d,%d", terr.BaseX, terr.BaseY)
	}
	if len(terr.Regions) != 9 {
		t.Errorf("expected 9 regions, got %d", len(terr.Regions))
	}

	paints, models := terr.VisibleTiles(0)
	if paints != 102*102 || models != 0 {
		t.Errorf("expected %d paints and no models, got %d/%d", 102*102, paints, models)
	}

	want := color.RGB{44, 37, 12}
	for _, p := range [][2]int{{1, 1}, {50, 50}, {102, 102}} {
		tile := terr.Tile(0, p[0], p[1])
		if tile.Paint == nil {
			t.Fatalf("expected paint at %v", p)
		}
		if tile.Paint.ColorNE != want || tile.Paint.ColorSW != want {
			t.Errorf("paint at %v = %v/%v, want %v", p, tile.Paint.ColorNE, tile.Paint.ColorSW, want)
		}
		if tile.Paint.Flat || tile.Paint.TextureID != formats.NoTexture {
			t.Errorf("unexpected underlay paint %+v", tile.Paint)
		}
	}

	for _, p := range [][2]int{{0, 0}, {0, 50}, {103, 50}, {50, 103}} {
		if terr.Tile(0, p[0], p[1]).Visible() {
			t.Errorf("expected no geometry on the outer ring at %v", p)
		}
	}

	if paints, _ := terr.VisibleTiles(1); paints != 0 {
		t.Errorf("expected empty plane 1, got %d paints", paints)
	}
	if terr.Tile(4, 0, 0) != nil || terr.Tile(0, GridSize, 0) != nil {
		t.Error("expected nil outside the grid")
	}
}

func TestBlendUnderlays_Uniform(t *testing.T) {
	var underlays grid
	for x := range GridSize {
		for y := range GridSize {
			underlays[x][y] = 1
		}
	}

	blended := blendUnderlays(&underlays, testFloors())
	if got := blended[1][1]; !got.ok || got.packed != 8727 {
		t.Errorf("expected packed 8727, got %+v", got)
	}
	if got := blended[60][40]; got.packed != 8727 {
		t.Errorf("expected packed 8727, got %+v", got)
	}
	if blended[0][0].ok || blended[103][1].ok {
		t.Error("expected no blend outside the interior")
	}
}

func TestBlendUnderlays_Window(t *testing.T) {
	var underlays grid
	underlays[50][50] = 1

	blended := blendUnderlays(&underlays, testFloors())
	// The window spans x-4..x+5 in both directions.
	for _, p := range [][2]int{{45, 45}, {54, 54}, {50, 50}} {
		if !blended[p[0]][p[1]].ok {
			t.Errorf("expected blend at %v", p)
		}
	}
	for _, p := range [][2]int{{44, 50}, {55, 50}, {50, 44}, {50, 55}} {
		if blended[p[0]][p[1]].ok {
			t.Errorf("expected no blend at %v", p)
		}
	}
}

func TestBuild_SkipOverlay(t *testing.T) {
	floors := testFloors()
	skip := formats.NewOverlay(0)
	skip.Color = color.FromRGB(color.SkipRGB.Int())
	floors.Overlays[0] = skip

	// Shapes 1 and 2 over an underlay.
	for _, op := range []byte{2, 6} {
		terr := Build(BuildInput{
			Position: testPosition,
			Regions:  sceneOf(uniformRegion(t, []byte{op, 1, 82, 1, 1})),
			Floors:   floors,
		})

		paints, models := terr.VisibleTiles(0)
		if paints != 0 || models != 0 {
			t.Errorf("opcode %d: expected nothing emitted, got %d paints and %d models", op, paints, models)
		}
	}
}

func TestBuild_RenderedOverlay(t *testing.T) {
	floors := testFloors()
	o := formats.NewOverlay(0)
	o.Color = color.FromRGB(0x4b3e14)
	floors.Overlays[0] = o

	terr := Build(BuildInput{
		Position: testPosition,
		Regions:  sceneOf(uniformRegion(t, []byte{2, 1, 1, 1})),
		Floors:   floors,
	})

	p := terr.Tile(0, 20, 20).Paint
	if p == nil {
		t.Fatal("expected overlay paint")
	}
	want := color.ToRGB(color.MixLightness(color.Pack(7, 148, 47), flatLight))
	if p.ColorNW != want {
		t.Errorf("expected %v, got %v", want, p.ColorNW)
	}
	if !p.Flat {
		t.Error("expected flat paint on level terrain")
	}
}

func TestBuild_TexturedModel(t *testing.T) {
	floors := testFloors()
	o := formats.NewOverlay(0)
	o.Texture = 5
	floors.Overlays[0] = o

	terr := Build(BuildInput{
		Position: testPosition,
		Regions:  sceneOf(uniformRegion(t, []byte{6, 1, 82, 1, 1})),
		Floors:   floors,
	})

	tile := terr.Tile(0, 30, 30)
	if tile.Paint != nil || tile.Model == nil {
		t.Fatalf("expected a tile model, got %+v", tile)
	}
	m := tile.Model
	if m.Shape != 2 || m.Rotation != 0 {
		t.Errorf("expected shape 2 rotation 0, got %d/%d", m.Shape, m.Rotation)
	}
	if m.FaceTexture(0) != -1 || m.FaceTexture(1) != 5 {
		t.Errorf("expected face textures -1/5, got %v", m.FaceTextures)
	}
	if m.ColorA[0] != 8718 {
		t.Errorf("expected lit underlay 8718, got %d", m.ColorA[0])
	}
	if m.ColorA[1] != 127-flatLight {
		t.Errorf("expected textured level %d, got %d", 127-flatLight, m.ColorA[1])
	}
	if m.UnderlayRGB != color.ToRGB(8727) {
		t.Errorf("unexpected underlay minimap color %v", m.UnderlayRGB)
	}
}

func TestBuild_AbsentRegions(t *testing.T) {
	terr := Build(BuildInput{Position: testPosition})

	for _, p := range [][2]int{{0, 0}, {40, 77}, {104, 104}} {
		want := DerivedHeight(terr.BaseX+p[0], terr.BaseY+p[1])
		if got := terr.Tile(0, p[0], p[1]).Height; got != want {
			t.Errorf("height at %v = %d, want %d", p, got, want)
		}
		for plane := 1; plane < Planes; plane++ {
			below := terr.Tile(plane-1, p[0], p[1]).Height
			if got := terr.Tile(plane, p[0], p[1]).Height; got != below-240 {
				t.Errorf("plane %d height at %v = %d, want %d", plane, p, got, below-240)
			}
		}
	}

	if terr.Regions != nil {
		t.Errorf("expected no regions, got %v", terr.Regions)
	}
	if paints, models := terr.VisibleTiles(0); paints+models != 0 {
		t.Error("expected no geometry without regions")
	}
}

func TestBuild_DerivedRegionHeights(t *testing.T) {
	terr := Build(BuildInput{
		Position: testPosition,
		Regions:  sceneOf(uniformRegion(t, []byte{0})),
	})

	if got, want := terr.Tile(0, 2, 31).Height, DerivedHeight(3170, 3199); got != want || got != -120 {
		t.Errorf("expected derived height -120, got %d", got)
	}
	// A derived plane 0 counts as 0 for the planes above.
	if got := terr.Tile(1, 2, 31).Height; got != -240 {
		t.Errorf("expected plane 1 height -240, got %d", got)
	}
}

func TestFloorSet_Fallback(t *testing.T) {
	floors := NewFloorSet()
	if o := floors.Overlay(9); o.ID != 9 || o.Color.RGB().Int() != formats.FallbackRGB {
		t.Errorf("unexpected fallback overlay %+v", o)
	}
	if u := floors.Underlay(9); u.ID != 9 || u.Color.RGB().Int() != formats.FallbackRGB {
		t.Errorf("unexpected fallback underlay %+v", u)
	}
}
