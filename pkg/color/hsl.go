// Package color implements the client's fixed-point HSL color model.
//
// Colors are stored on disk as 24-bit RGB and converted to the client's
// decomposed hue/saturation/lightness form, then packed into 16-bit HSL
// integers for lighting and blending. The arithmetic truncates exactly
// where the client does; results are not an idealized HSL.
package color

import (
	"fmt"
	"math"
)

// RGB is an 8-bit per channel color.
type RGB [3]uint8

// SkipRGB is the reserved floor color marking tiles that are never drawn.
var SkipRGB = RGB{78, 97, 188}

// RGBFromInt splits a 0xRRGGBB integer into channels.
func RGBFromInt(v int) RGB {
	return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}
}

// Int returns the color as 0xRRGGBB.
func (c RGB) Int() int {
	return int(c[0])<<16 | int(c[1])<<8 | int(c[2])
}

// IsSkip reports whether c is the reserved skip color.
func (c RGB) IsSkip() bool {
	return c == SkipRGB
}

// Floats returns the channels scaled to 0..1.
func (c RGB) Floats() [3]float32 {
	return [3]float32{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255}
}

// String returns the color as a hex triple.
func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// HSL is a decomposed floor color. Hue is already scaled by HueMultiplier,
// which is what the terrain blend accumulates.
type HSL struct {
	Hue           int
	Saturation    int
	Lightness     int
	HueMultiplier int

	rgb RGB
}

// FromRGB decomposes a 0xRRGGBB color.
func FromRGB(v int) HSL {
	rgb := RGBFromInt(v)
	r := float64(rgb[0]) / 256
	g := float64(rgb[1]) / 256
	b := float64(rgb[2]) / 256

	lo := min(r, g, b)
	hi := max(r, g, b)

	var h, s float64
	l := (lo + hi) / 2

	if lo != hi {
		d := hi - lo
		if l < 0.5 {
			s = d / (hi + lo)
		} else {
			s = d / (2 - hi - lo)
		}

		switch hi {
		case r:
			h = (g - b) / d
		case g:
			h = 2 + (b-r)/d
		default:
			h = 4 + (r-g)/d
		}
	}
	h /= 6

	c := HSL{
		Saturation: clampByte(int(s * 256)),
		Lightness:  clampByte(int(l * 256)),
		rgb:        rgb,
	}

	if l > 0.5 {
		c.HueMultiplier = int((1 - l) * s * 512)
	} else {
		c.HueMultiplier = int(l * s * 512)
	}
	if c.HueMultiplier < 1 {
		c.HueMultiplier = 1
	}

	c.Hue = clampByte(int(h * float64(c.HueMultiplier)))

	return c
}

// RGB returns the color the HSL was decomposed from.
func (c HSL) RGB() RGB {
	return c.rgb
}

// Packed returns the color packed as 16-bit HSL.
func (c HSL) Packed() int {
	return Pack(c.Hue, c.Saturation, c.Lightness)
}

func clampByte(v int) int {
	return min(max(v, 0), 255)
}

// Pack encodes hue, saturation and lightness (each 0..255) as
// hue(6) | saturation(3) | lightness(7). Saturation is halved once for each
// lightness threshold crossed so that near-white colors lose their tint.
func Pack(h, s, l int) int {
	if l > 179 {
		s /= 2
	}
	if l > 192 {
		s /= 2
	}
	if l > 217 {
		s /= 2
	}
	if l > 243 {
		s /= 2
	}
	return (h/4)<<10 + (s/32)<<7 + l/2
}

// MixLightness scales the lightness bits of a packed color by intensity/128,
// clamped to 2..126.
func MixLightness(packed, intensity int) int {
	l := (packed & 0x7f) * intensity / 128
	l = min(max(l, 2), 126)
	return packed&0xff80 + l
}

// Unpack splits a packed color into its hue, saturation and lightness fields.
func Unpack(packed int) (h, s, l int) {
	return (packed >> 10) & 0x3f, (packed >> 7) & 0x7, packed & 0x7f
}

// ToRGB converts a packed color to RGB. Each field is taken at the center of
// its bucket, then converted with the usual 60 degree hue sectors and rounded.
func ToRGB(packed int) RGB {
	hf, sf, lf := Unpack(packed)
	h := float64(hf)/64 + 1.0/128
	s := float64(sf)/8 + 1.0/16
	l := float64(lf) / 128

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	return RGB{
		roundChannel(hueSector(p, q, h+1.0/3)),
		roundChannel(hueSector(p, q, h)),
		roundChannel(hueSector(p, q, h-1.0/3)),
	}
}

func hueSector(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case 6*t < 1:
		return p + (q-p)*6*t
	case 2*t < 1:
		return q
	case 3*t < 2:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

func roundChannel(v float64) uint8 {
	return uint8(min(max(math.Round(v*255), 0), 255))
}
