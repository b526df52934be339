package terrain

import "math"

// Height generator constants.
const (
	// HeightBiasX and HeightBiasY offset world coordinates before sampling
	// VertexHeight for tiles without an explicit height.
	HeightBiasX = 932731
	HeightBiasY = 556238

	minVertexHeight = 10
	maxVertexHeight = 60
)

// cosTable holds 2048 cosine samples around the circle in Q16 fixed point.
var cosTable = func() [2048]int {
	var t [2048]int
	for i := range t {
		t[i] = int(65536 * math.Cos(float64(i)*0.0030679615))
	}
	return t
}()

// Noise hashes a lattice point to 0..255 using 32-bit wrapping arithmetic.
func Noise(x, y int) int {
	i := int32(x) + int32(y)*57
	i ^= i << 13
	h := (1376312589 + i*(i*i*15731+789221)) & 0x7fffffff
	return int(h>>19) & 0xff
}

// WeightedNoise smooths Noise over the 3x3 neighbourhood of (x, y).
func WeightedNoise(x, y int) int {
	diagonal := Noise(x-1, y-1) + Noise(x+1, y-1) + Noise(x-1, y+1) + Noise(x+1, y+1)
	straight := Noise(x-1, y) + Noise(x+1, y) + Noise(x, y-1) + Noise(x, y+1)
	return diagonal/16 + straight/8 + Noise(x, y)/4
}

// interpolate blends a towards b by delta/scale along a cosine curve.
func interpolate(a, b, delta, scale int) int {
	f := (65536 - cosTable[1024*delta/scale]) >> 1
	return ((65536-f)*a)>>16 + (b*f)>>16
}

// FractalNoise samples WeightedNoise on a lattice of the given power of two
// scale and interpolates between the four surrounding points.
func FractalNoise(x, y, scale int) int {
	sx, sy := x/scale, y/scale
	fx, fy := x&(scale-1), y&(scale-1)

	a := WeightedNoise(sx, sy)
	b := WeightedNoise(sx+1, sy)
	c := WeightedNoise(sx, sy+1)
	d := WeightedNoise(sx+1, sy+1)

	south := interpolate(a, b, fx, scale)
	north := interpolate(c, d, fx, scale)
	return interpolate(south, north, fy, scale)
}

// VertexHeight returns the procedural height of a tile in the range 10..60.
// Callers pass world coordinates already offset by HeightBiasX/HeightBiasY.
func VertexHeight(x, y int) int {
	v := FractalNoise(x+45365, y+91923, 4) - 128 +
		(FractalNoise(x+10294, y+37821, 2)-128)>>1 +
		(FractalNoise(x, y, 1)-128)>>2
	v = 35 + int(0.3*float64(v))
	return min(max(v, minVertexHeight), maxVertexHeight)
}

// DerivedHeight returns the stored (negative up) height of a world tile that
// has no explicit height.
func DerivedHeight(worldX, worldY int) int {
	return -VertexHeight(worldX+HeightBiasX, worldY+HeightBiasY) * 8
}
