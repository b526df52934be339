package terrain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewTileModel_Shape2(t *testing.T) {
	colors := Corners{SW: 10283, SE: 10291, NE: 10286, NW: 10304}
	m := NewTileModel(2, 3, Corners{}, colors, colors, -1)

	want := &TileModel{
		Shape:    2,
		Rotation: 3,
		VertexX:  []int{0, 128, 128, 0},
		VertexY:  []int{0, 0, 0, 0},
		VertexZ:  []int{0, 0, 128, 128},
		FaceA:    []int{2, 1},
		FaceB:    []int{3, 2},
		FaceC:    []int{0, 0},
		ColorA:   []int{10286, 10291},
		ColorB:   []int{10304, 10286},
		ColorC:   []int{10283, 10283},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("tile model mismatch (-want +got):\n%s", diff)
	}
	if m.FaceTexture(0) != -1 {
		t.Errorf("expected untextured face, got %d", m.FaceTexture(0))
	}
}

func TestNewTileModel_Shape7Textured(t *testing.T) {
	heights := Corners{SW: 0, SE: -8, NE: -16, NW: -24}
	underlay := Corners{SW: 10283, SE: 10291, NE: 10304, NW: 10286}
	overlay := Corners{SW: 1, SE: 2, NE: 3, NW: 4}

	m := NewTileModel(7, 1, heights, underlay, overlay, 5)

	want := &TileModel{
		Shape:        7,
		Rotation:     1,
		VertexX:      []int{0, 128, 128, 0, 0, 128},
		VertexY:      []int{0, -8, -16, -24, -12, -12},
		VertexZ:      []int{0, 0, 128, 128, 64, 64},
		FaceA:        []int{4, 4, 3, 3},
		FaceB:        []int{0, 1, 4, 5},
		FaceC:        []int{1, 5, 5, 2},
		ColorA:       []int{10284, 10284, 4, 4},
		ColorB:       []int{10283, 10291, 2, 2},
		ColorC:       []int{10291, 10297, 2, 3},
		FaceTextures: []int{-1, -1, 5, 5},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("tile model mismatch (-want +got):\n%s", diff)
	}
}

func TestNewTileModel_FaceCounts(t *testing.T) {
	for shape := 0; shape <= MaxShape; shape++ {
		for rotation := range 4 {
			m := NewTileModel(shape, rotation, Corners{}, Corners{}, Corners{}, -1)
			if m.FaceCount() != len(shapeFaces[shape])/4 {
				t.Errorf("shape %d: expected %d faces, got %d", shape, len(shapeFaces[shape])/4, m.FaceCount())
			}
			for f := range m.FaceCount() {
				for _, v := range []int{m.FaceA[f], m.FaceB[f], m.FaceC[f]} {
					if v < 0 || v >= len(m.VertexX) {
						t.Fatalf("shape %d rotation %d: face %d references vertex %d", shape, rotation, f, v)
					}
				}
			}
			for i := range m.VertexX {
				if m.VertexX[i] < 0 || m.VertexX[i] > LocalTileSize || m.VertexZ[i] < 0 || m.VertexZ[i] > LocalTileSize {
					t.Errorf("shape %d: vertex %d outside tile", shape, i)
				}
			}
		}
	}
}

func TestNewTileModel_ClampsShape(t *testing.T) {
	if m := NewTileModel(40, 5, Corners{}, Corners{}, Corners{}, -1); m.Shape != MaxShape || m.Rotation != 1 {
		t.Errorf("expected shape %d rotation 1, got %d/%d", MaxShape, m.Shape, m.Rotation)
	}
}
