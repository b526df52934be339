package formats

import (
	"errors"
	"fmt"

	"github.com/runejs/webclient/pkg/buffer"
)

// ErrTruncatedTexture is returned when a texture definition ends early.
var ErrTruncatedTexture = errors.New("truncated texture definition")

// greenTintFlag marks a layer color that recolors the grey palette entries of
// its sprite.
const greenTintFlag = 0x3000000

// TextureDefinition describes how a floor texture is composed from sprites.
type TextureDefinition struct {
	ID     int
	RGB    int // average color, 16-bit
	Opaque bool

	SpriteIDs []int
	// RenderTypes has one entry per sprite after the first.
	RenderTypes []int
	Colors      []int

	Direction int
	Speed     int
}

// ParseTexture decodes a texture definition.
func ParseTexture(id int, data []byte) (*TextureDefinition, error) {
	c := buffer.NewCursor(data)
	t := &TextureDefinition{ID: id}

	rgb, err := c.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("%w: rgb: %w", ErrTruncatedTexture, err)
	}
	t.RGB = int(rgb)

	opaque, err := c.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("%w: opacity: %w", ErrTruncatedTexture, err)
	}
	t.Opaque = opaque == 1

	count, err := c.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("%w: sprite count: %w", ErrTruncatedTexture, err)
	}

	t.SpriteIDs = make([]int, count)
	for i := range t.SpriteIDs {
		v, err := c.ReadUint16()
		if err != nil {
			return nil, fmt.Errorf("%w: sprite %d: %w", ErrTruncatedTexture, i, err)
		}
		t.SpriteIDs[i] = int(v)
	}

	if count > 1 {
		t.RenderTypes = make([]int, count-1)
		for i := range t.RenderTypes {
			v, err := c.ReadUint8()
			if err != nil {
				return nil, fmt.Errorf("%w: render type %d: %w", ErrTruncatedTexture, i, err)
			}
			t.RenderTypes[i] = int(v)
		}
		// One unused byte per extra layer.
		if err := c.Skip(int(count) - 1); err != nil {
			return nil, fmt.Errorf("%w: layer padding: %w", ErrTruncatedTexture, err)
		}
	}

	t.Colors = make([]int, count)
	for i := range t.Colors {
		v, err := c.ReadInt32()
		if err != nil {
			return nil, fmt.Errorf("%w: color %d: %w", ErrTruncatedTexture, i, err)
		}
		t.Colors[i] = int(v)
	}

	direction, err := c.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("%w: direction: %w", ErrTruncatedTexture, err)
	}
	speed, err := c.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("%w: speed: %w", ErrTruncatedTexture, err)
	}
	t.Direction, t.Speed = int(direction), int(speed)

	return t, nil
}

// RenderType returns the compositing mode of a sprite layer. The first layer
// is always drawn as is.
func (t *TextureDefinition) RenderType(layer int) int {
	if layer <= 0 || layer-1 >= len(t.RenderTypes) {
		return 0
	}
	return t.RenderTypes[layer-1]
}

// IsAnimated reports whether the texture scrolls.
func (t *TextureDefinition) IsAnimated() bool {
	return t.Speed > 0
}

// TintPalette recolors a sprite palette for a layer. Grey entries of a layer
// whose color carries the tint flag are multiplied by the layer color.
func (t *TextureDefinition) TintPalette(layer int, palette []int) {
	if layer < 0 || layer >= len(t.Colors) {
		return
	}
	c := t.Colors[layer]
	if c&^0xffffff != greenTintFlag {
		return
	}

	nonGreen := c & 0xff00ff
	g := (c >> 8) & 0xff
	for i, p := range palette {
		if p&0xffff != p>>8 {
			continue
		}
		p &= 0xff
		palette[i] = (nonGreen*p>>8)&0xff00ff | (g*p)&0xff00
	}
}
