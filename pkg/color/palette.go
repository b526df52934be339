package color

import "math"

// PaletteSize is the number of packed HSL values.
const PaletteSize = 1 << 16

// DefaultBrightness is the gamma applied to the palette by default.
const DefaultBrightness = 0.8

// Palette maps packed HSL values to RGB the way the client's software
// rasterizer does.
type Palette struct {
	brightness float64
	colors     [PaletteSize]int
}

// NewPalette builds the 65536 entry lookup table for a brightness.
func NewPalette(brightness float64) *Palette {
	p := &Palette{brightness: brightness}

	index := 0
	for y := range 512 {
		hue := float64(y>>3)/64 + 0.0078125
		saturation := float64(y&7)/8 + 0.0625
		for x := range 128 {
			p.colors[index] = PaletteEntry(brightness, x, hue, saturation)
			index++
		}
	}

	return p
}

// Brightness returns the gamma the palette was built with.
func (p *Palette) Brightness() float64 {
	return p.brightness
}

// Int returns the 0xRRGGBB value of a packed color. Values outside the
// 16-bit range, including SkipHSL, map to black.
func (p *Palette) Int(packed int) int {
	if packed < 0 || packed >= PaletteSize {
		return 0
	}
	return p.colors[packed]
}

// RGB returns the color of a packed value.
func (p *Palette) RGB(packed int) RGB {
	return RGBFromInt(p.Int(packed))
}

// PaletteEntry computes one palette color. x is the lightness bucket 0..127;
// hue and saturation are the bucket centers in 0..1.
func PaletteEntry(brightness float64, x int, hue, saturation float64) int {
	intensity := float64(x) / 128
	r, g, b := intensity, intensity, intensity

	if saturation != 0 {
		var q float64
		if intensity < 0.5 {
			q = intensity * (1 + saturation)
		} else {
			q = intensity + saturation - intensity*saturation
		}
		p := 2*intensity - q

		fr := hue + 0.3333333333333333
		if fr > 1 {
			fr--
		}
		fb := hue - 0.3333333333333333
		if fb < 0 {
			fb++
		}

		r = paletteSector(p, q, fr)
		g = paletteSector(p, q, hue)
		b = paletteSector(p, q, fb)
	}

	rgb := int(r*256)<<16 + int(g*256)<<8 + int(b*256)
	return AdjustBrightness(rgb, brightness)
}

func paletteSector(p, q, t float64) float64 {
	switch {
	case 6*t < 1:
		return p + (q-p)*6*t
	case 2*t < 1:
		return q
	case 3*t < 2:
		return p + (q-p)*(0.6666666666666666-t)*6
	default:
		return p
	}
}

// AdjustBrightness raises each channel of a 0xRRGGBB color to the power
// intensity.
func AdjustBrightness(rgb int, intensity float64) int {
	r := math.Pow(float64(rgb>>16)/256, intensity)
	g := math.Pow(float64((rgb>>8)&0xff)/256, intensity)
	b := math.Pow(float64(rgb&0xff)/256, intensity)
	return channel(r)<<16 + channel(g)<<8 + channel(b)
}

func channel(v float64) int {
	return min(int(v*256), 255)
}
