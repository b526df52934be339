package terrain

import (
	"math"

	"github.com/runejs/webclient/pkg/color"
	"github.com/runejs/webclient/pkg/formats"
)

// MeshOptions controls BuildMesh.
type MeshOptions struct {
	Plane int
	// Scale multiplies positions. Zero means 1.
	Scale float32
	// Palette converts paint and tile model colors. Nil converts them with
	// color.ToRGB.
	Palette *color.Palette
	// TileModels includes shaped tiles. Only paints are emitted otherwise.
	TileModels bool
	// SmoothNormals averages normals of vertices at the same position.
	SmoothNormals bool
}

// BuildMesh creates a triangle mesh for one plane of the terrain. Tiles on
// the outer ring of the grid emit nothing; scene tile (1, 1) sits at the
// origin. X runs east, Y up and Z north.
func BuildMesh(t *Terrain, opts MeshOptions) *Mesh {
	if opts.Scale == 0 {
		opts.Scale = 1
	}

	b := &meshBuilder{
		scale: opts.Scale,
		rgb:   color.ToRGB,
		mesh: &Mesh{
			Bounds: Bounds{
				Min: [3]float32{1e10, 1e10, 1e10},
				Max: [3]float32{-1e10, -1e10, -1e10},
			},
		},
	}
	if opts.Palette != nil {
		b.rgb = opts.Palette.RGB
	}

	plane := min(max(opts.Plane, 0), Planes-1)
	for x := 1; x < SceneSize-1; x++ {
		for y := 1; y < SceneSize-1; y++ {
			tile := &t.Tiles[plane][x][y]
			localX := (x - 1) * LocalTileSize
			localZ := (y - 1) * LocalTileSize

			if tile.Paint != nil {
				heights := Corners{
					SW: t.Tiles[plane][x][y].Elevation(),
					SE: t.Tiles[plane][x+1][y].Elevation(),
					NE: t.Tiles[plane][x+1][y+1].Elevation(),
					NW: t.Tiles[plane][x][y+1].Elevation(),
				}
				b.addPaint(tile.Paint, localX, localZ, heights)
			}
			if tile.Model != nil && opts.TileModels {
				b.addModel(tile.Model, localX, localZ)
			}
		}
	}

	if opts.SmoothNormals {
		SmoothNormals(b.mesh.Vertices)
	}
	return b.mesh
}

type meshBuilder struct {
	scale float32
	rgb   func(packed int) color.RGB
	mesh  *Mesh
}

func (b *meshBuilder) position(x, y, z int) [3]float32 {
	p := [3]float32{float32(x) * b.scale, float32(y) * b.scale, float32(z) * b.scale}
	updateBounds(&b.mesh.Bounds, p)
	return p
}

// addTriangle appends one triangle and extends the current texture group or
// starts a new one.
func (b *meshBuilder) addTriangle(v [3]Vertex, textureID int) {
	normal := faceNormal(v[0].Position, v[1].Position, v[2].Position)
	for i := range v {
		v[i].Normal = normal
	}

	m := b.mesh
	if n := len(m.Groups); n > 0 && m.Groups[n-1].TextureID == textureID {
		m.Groups[n-1].Count += 3
	} else {
		m.Groups = append(m.Groups, TextureGroup{TextureID: textureID, Start: len(m.Vertices), Count: 3})
	}
	m.Vertices = append(m.Vertices, v[0], v[1], v[2])
}

func (b *meshBuilder) addPaint(p *TilePaint, localX, localZ int, heights Corners) {
	if p.ColorNE.IsSkip() {
		return
	}

	ne := Vertex{
		Position: b.position(localX+LocalTileSize, heights.NE, localZ+LocalTileSize),
		TexCoord: [2]float32{1, 1},
		Color:    b.rgb(p.Packed.NE).Floats(),
	}
	nw := Vertex{
		Position: b.position(localX, heights.NW, localZ+LocalTileSize),
		TexCoord: [2]float32{0, 1},
		Color:    b.rgb(p.Packed.NW).Floats(),
	}
	se := Vertex{
		Position: b.position(localX+LocalTileSize, heights.SE, localZ),
		TexCoord: [2]float32{1, 0},
		Color:    b.rgb(p.Packed.SE).Floats(),
	}
	sw := Vertex{
		Position: b.position(localX, heights.SW, localZ),
		TexCoord: [2]float32{0, 0},
		Color:    b.rgb(p.Packed.SW).Floats(),
	}

	b.addTriangle([3]Vertex{ne, nw, se}, p.TextureID)
	b.addTriangle([3]Vertex{sw, se, nw}, p.TextureID)
}

func (b *meshBuilder) addModel(m *TileModel, localX, localZ int) {
	vertex := func(i, packed int) Vertex {
		return Vertex{
			Position: b.position(localX+m.VertexX[i], m.VertexY[i], localZ+m.VertexZ[i]),
			TexCoord: [2]float32{
				float32(m.VertexX[i]) / LocalTileSize,
				float32(m.VertexZ[i]) / LocalTileSize,
			},
			Color: b.rgb(packed).Floats(),
		}
	}

	for f := range m.FaceCount() {
		if m.ColorA[f] == color.SkipHSL {
			continue
		}
		b.addTriangle([3]Vertex{
			vertex(m.FaceA[f], m.ColorA[f]),
			vertex(m.FaceB[f], m.ColorB[f]),
			vertex(m.FaceC[f], m.ColorC[f]),
		}, m.FaceTexture(f))
	}
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Vertices) / 3
}

// Textured reports whether any group uses a texture.
func (m *Mesh) Textured() bool {
	for _, g := range m.Groups {
		if g.TextureID != formats.NoTexture {
			return true
		}
	}
	return false
}

// Positions returns vertex positions as a flat xyz array.
func (m *Mesh) Positions() []float32 {
	out := make([]float32, 0, len(m.Vertices)*3)
	for _, v := range m.Vertices {
		out = append(out, v.Position[:]...)
	}
	return out
}

// Normals returns vertex normals as a flat xyz array.
func (m *Mesh) Normals() []float32 {
	out := make([]float32, 0, len(m.Vertices)*3)
	for _, v := range m.Vertices {
		out = append(out, v.Normal[:]...)
	}
	return out
}

// Colors returns vertex colors as a flat rgb array in 0..1.
func (m *Mesh) Colors() []float32 {
	out := make([]float32, 0, len(m.Vertices)*3)
	for _, v := range m.Vertices {
		out = append(out, v.Color[:]...)
	}
	return out
}

// UVs returns texture coordinates as a flat uv array.
func (m *Mesh) UVs() []float32 {
	out := make([]float32, 0, len(m.Vertices)*2)
	for _, v := range m.Vertices {
		out = append(out, v.TexCoord[:]...)
	}
	return out
}

// SmoothNormals averages normals at shared vertex positions.
// This eliminates hard edges between tiles for a smoother appearance.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup
	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		key := [3]int32{
			int32(vertices[i].Position[0] / epsilon),
			int32(vertices[i].Position[1] / epsilon),
			int32(vertices[i].Position[2] / epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}

	for _, indices := range posMap {
		if len(indices) < 2 {
			continue
		}

		var sum [3]float32
		for _, idx := range indices {
			sum[0] += vertices[idx].Normal[0]
			sum[1] += vertices[idx].Normal[1]
			sum[2] += vertices[idx].Normal[2]
		}

		avg := normalize(sum)
		for _, idx := range indices {
			vertices[idx].Normal = avg
		}
	}
}

// Helper functions

// faceNormal returns the upward facing normal of a triangle wound clockwise
// when seen from above.
func faceNormal(a, b, c [3]float32) [3]float32 {
	ab := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	ac := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	return normalize(cross(ac, ab))
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := range 3 {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(v [3]float32) [3]float32 {
	l := float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	if l < 0.0001 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
