package terrain

import "math"

// Directional light used for terrain vertex shading.
const (
	ambientIntensity = 96
	specularFactor   = 768
	lightDirX        = -50
	lightDirY        = -10
	lightDirZ        = -50
	flatNormalLength = 0x10000
	normalShift      = 8
)

// specularDistribution scales the light dot product back to intensity units.
var specularDistribution = specularFactor * int(math.Sqrt(lightDirX*lightDirX+lightDirY*lightDirY+lightDirZ*lightDirZ)) >> 8

// grid is a per-plane scratch buffer indexed [x][y].
type grid [GridSize][GridSize]int

// ShadowMap holds per-plane shadow strengths softened into the vertex
// lighting. The zero value casts no shadow.
type ShadowMap [4]grid

// Set records the shadow strength of a scene vertex.
func (s *ShadowMap) Set(plane, x, y, v int) {
	if plane < 0 || plane >= len(s) || x < 0 || y < 0 || x >= GridSize || y >= GridSize {
		return
	}
	s[plane][x][y] = v
}

// computeLighting returns the light intensity of every interior vertex of a
// plane. The outer ring, and the row and column beyond it, stay 0.
func computeLighting(elevation *grid, shadow *grid) *grid {
	light := new(grid)

	for x := 1; x < SceneSize-1; x++ {
		for y := 1; y < SceneSize-1; y++ {
			dx := elevation[x+1][y] - elevation[x-1][y]
			dy := elevation[x][y+1] - elevation[x][y-1]

			length := int(math.Sqrt(float64(dx*dx + flatNormalLength + dy*dy)))
			nx := (dx << normalShift) / length
			ny := flatNormalLength / length
			nz := (dy << normalShift) / length

			// The ambient term is added before truncating.
			dot := lightDirX*nx + lightDirY*ny + lightDirZ*nz
			intensity := (ambientIntensity*specularDistribution + dot) / specularDistribution

			if shadow != nil {
				intensity -= shadow[x-1][y]>>2 + shadow[x+1][y]>>3 +
					shadow[x][y-1]>>2 + shadow[x][y+1]>>3 + shadow[x][y]>>1
			}

			light[x][y] = intensity
		}
	}

	return light
}
