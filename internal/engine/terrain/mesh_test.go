package terrain

import (
	"testing"

	"github.com/runejs/webclient/pkg/color"
	"github.com/runejs/webclient/pkg/formats"
)

func uniformTerrain(t *testing.T) *Terrain {
	t.Helper()
	return Build(BuildInput{
		Position: testPosition,
		Regions:  sceneOf(uniformRegion(t, flatUnderlayOps)),
		Floors:   testFloors(),
	})
}

func TestBuildMesh_Paints(t *testing.T) {
	mesh := BuildMesh(uniformTerrain(t), MeshOptions{})

	tiles := 102 * 102
	if mesh.TriangleCount() != tiles*2 {
		t.Fatalf("expected %d triangles, got %d", tiles*2, mesh.TriangleCount())
	}
	if len(mesh.Groups) != 1 {
		t.Fatalf("expected one group, got %d", len(mesh.Groups))
	}
	if g := mesh.Groups[0]; g.TextureID != formats.NoTexture || g.Start != 0 || g.Count != tiles*6 {
		t.Errorf("unexpected group %+v", g)
	}
	if mesh.Textured() {
		t.Error("expected untextured mesh")
	}

	// Tile (1, 1) starts at the origin; its first vertex is the north-east corner.
	v := mesh.Vertices[0]
	if v.Position != [3]float32{128, 0, 128} {
		t.Errorf("expected first vertex at 128,0,128, got %v", v.Position)
	}
	if v.TexCoord != [2]float32{1, 1} {
		t.Errorf("expected NE uv 1,1, got %v", v.TexCoord)
	}
	if v.Normal != [3]float32{0, 1, 0} {
		t.Errorf("expected up normal, got %v", v.Normal)
	}
	if v.Color != (color.RGB{44, 37, 12}).Floats() {
		t.Errorf("unexpected vertex color %v", v.Color)
	}
	if sw := mesh.Vertices[3]; sw.Position != [3]float32{0, 0, 0} || sw.TexCoord != [2]float32{0, 0} {
		t.Errorf("expected SW vertex at origin, got %+v", sw)
	}

	if mesh.Bounds.Min != [3]float32{0, 0, 0} || mesh.Bounds.Max != [3]float32{13056, 0, 13056} {
		t.Errorf("unexpected bounds %+v", mesh.Bounds)
	}

	n := len(mesh.Vertices)
	if len(mesh.Positions()) != n*3 || len(mesh.Normals()) != n*3 || len(mesh.Colors()) != n*3 || len(mesh.UVs()) != n*2 {
		t.Error("flat attribute arrays have the wrong length")
	}
}

func TestBuildMesh_Scale(t *testing.T) {
	mesh := BuildMesh(uniformTerrain(t), MeshOptions{Scale: 0.5})
	if mesh.Bounds.Max[0] != 6528 {
		t.Errorf("expected scaled max x 6528, got %v", mesh.Bounds.Max[0])
	}
}

func TestBuildMesh_TileModels(t *testing.T) {
	terr := uniformTerrain(t)
	m := NewTileModel(2, 0, Corners{}, Corners{SW: 8719, SE: 8719, NE: 8719, NW: 8719}, Corners{SW: 43, SE: 43, NE: 43, NW: 43}, 5)
	terr.Tiles[0][50][50].Paint = nil
	terr.Tiles[0][50][50].Model = m

	without := BuildMesh(terr, MeshOptions{})
	if without.TriangleCount() != (102*102-1)*2 {
		t.Errorf("expected models excluded, got %d triangles", without.TriangleCount())
	}

	with := BuildMesh(terr, MeshOptions{TileModels: true, Palette: color.NewPalette(color.DefaultBrightness)})
	if with.TriangleCount() != (102*102-1)*2+2 {
		t.Fatalf("expected two model triangles, got %d", with.TriangleCount())
	}
	if !with.Textured() {
		t.Error("expected a textured group")
	}

	// The model splits the run of paint triangles into untextured, textured
	// and untextured groups.
	var textured []TextureGroup
	for _, g := range with.Groups {
		if g.TextureID == 5 {
			textured = append(textured, g)
		}
	}
	if len(textured) != 1 || textured[0].Count != 3 {
		t.Errorf("expected one textured triangle, got %+v", textured)
	}
	if len(with.Groups) != 3 {
		t.Errorf("expected 3 groups, got %d", len(with.Groups))
	}
}

func TestBuildMesh_SkipsSkippedTriangles(t *testing.T) {
	terr := Build(BuildInput{Position: testPosition})
	skip := Corners{SW: color.SkipHSL, SE: color.SkipHSL, NE: color.SkipHSL, NW: color.SkipHSL}
	terr.Tiles[0][10][10].Model = NewTileModel(1, 0, Corners{}, skip, skip, -1)
	terr.Tiles[0][11][10].Paint = &TilePaint{ColorNE: color.SkipRGB, TextureID: -1}

	mesh := BuildMesh(terr, MeshOptions{TileModels: true})
	if mesh.TriangleCount() != 0 {
		t.Errorf("expected no triangles, got %d", mesh.TriangleCount())
	}
}

func TestBuildMesh_SharedColorConversion(t *testing.T) {
	const lit = 8718
	flat := Corners{SW: lit, SE: lit, NE: lit, NW: lit}

	terr := Build(BuildInput{Position: testPosition})
	terr.Tiles[0][10][10].Paint = newPaint(flat, formats.NoTexture)
	terr.Tiles[0][11][10].Model = NewTileModel(2, 0, Corners{}, flat, flat, formats.NoTexture)

	palette := color.NewPalette(0.6)
	tests := []struct {
		name    string
		palette *color.Palette
		want    [3]float32
	}{
		{"no palette", nil, color.ToRGB(lit).Floats()},
		{"palette", palette, palette.RGB(lit).Floats()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh := BuildMesh(terr, MeshOptions{TileModels: true, Palette: tt.palette})
			if mesh.TriangleCount() != 4 {
				t.Fatalf("expected 4 triangles, got %d", mesh.TriangleCount())
			}
			// Paint and model vertices of the same packed color must match.
			for i, v := range mesh.Vertices {
				if v.Color != tt.want {
					t.Errorf("vertex %d color %v, want %v", i, v.Color, tt.want)
				}
			}
		})
	}
}

func TestSmoothNormals(t *testing.T) {
	vertices := []Vertex{
		{Position: [3]float32{1, 0, 0}, Normal: [3]float32{1, 0, 0}},
		{Position: [3]float32{1, 0, 0}, Normal: [3]float32{0, 1, 0}},
		{Position: [3]float32{5, 0, 0}, Normal: [3]float32{0, 0, 1}},
	}
	SmoothNormals(vertices)

	if vertices[0].Normal != vertices[1].Normal {
		t.Errorf("expected shared normals, got %v and %v", vertices[0].Normal, vertices[1].Normal)
	}
	if vertices[2].Normal != [3]float32{0, 0, 1} {
		t.Errorf("expected lone vertex untouched, got %v", vertices[2].Normal)
	}
}
