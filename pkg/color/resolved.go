package color

// SkipHSL is the packed value produced for skipped colors by
// MixLightnessSigned. It is the skip RGB triple read back to front.
const SkipHSL = 12345678

// Kind classifies a resolved floor color.
type Kind uint8

const (
	// Rendered colors carry a packed HSL value.
	Rendered Kind = iota
	// Textured colors are drawn from a texture; only lighting applies.
	Textured
	// Skipped colors are never drawn.
	Skipped
)

// ResolvedColor is the color a floor definition contributes to a tile.
type ResolvedColor struct {
	kind   Kind
	packed int
}

// RenderedColor returns a ResolvedColor for a packed HSL value.
func RenderedColor(packed int) ResolvedColor {
	return ResolvedColor{kind: Rendered, packed: packed}
}

// TexturedColor returns a ResolvedColor for a textured floor.
func TexturedColor() ResolvedColor {
	return ResolvedColor{kind: Textured}
}

// SkippedColor returns a ResolvedColor for a floor that is not drawn.
func SkippedColor() ResolvedColor {
	return ResolvedColor{kind: Skipped}
}

// Kind returns the variant.
func (c ResolvedColor) Kind() Kind {
	return c.kind
}

// Packed returns the packed HSL value of a rendered color.
func (c ResolvedColor) Packed() int {
	return c.packed
}

// MixLightnessSigned applies vertex lighting to a resolved color. Textured
// colors become an inverted lightness level 0..127; skipped colors become
// SkipHSL.
func MixLightnessSigned(c ResolvedColor, intensity int) int {
	switch c.kind {
	case Skipped:
		return SkipHSL
	case Textured:
		return 127 - min(max(intensity, 0), 127)
	default:
		return MixLightness(c.packed, intensity)
	}
}
