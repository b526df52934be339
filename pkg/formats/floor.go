package formats

import (
	"errors"
	"fmt"

	"github.com/runejs/webclient/pkg/buffer"
	"github.com/runejs/webclient/pkg/color"
)

// Floor definition errors.
var (
	ErrUnknownOpcode   = errors.New("unknown opcode")
	ErrTruncatedFloor  = errors.New("truncated floor definition")
	errFloorTerminator = errors.New("missing terminator")
)

// NoTexture marks a floor drawn with its color only.
const NoTexture = -1

// Overlay is a surface floor drawn on top of the underlay.
type Overlay struct {
	ID             int
	Color          color.HSL
	SecondaryColor *color.HSL
	Texture        int
	// HideUnderlay is cleared by opcode 5 for overlays that let the underlay
	// show through.
	HideUnderlay bool
	Name         string
}

// IsSkip reports whether the overlay uses the reserved skip color.
func (o *Overlay) IsSkip() bool {
	return o.Color.RGB().IsSkip()
}

// HasTexture reports whether the overlay is textured.
func (o *Overlay) HasTexture() bool {
	return o.Texture >= 0
}

// Underlay is a base floor color, blended across neighboring tiles.
type Underlay struct {
	ID    int
	Color color.HSL
}

// NewOverlay returns an overlay with default field values.
func NewOverlay(id int) *Overlay {
	return &Overlay{ID: id, Texture: NoTexture, HideUnderlay: true}
}

// FallbackRGB is the color of floors whose definition cannot be loaded.
const FallbackRGB = 0x808080

// FallbackOverlay returns the definition used in place of a missing overlay.
func FallbackOverlay(id int) *Overlay {
	o := NewOverlay(id)
	o.Color = color.FromRGB(FallbackRGB)
	return o
}

// FallbackUnderlay returns the definition used in place of a missing underlay.
func FallbackUnderlay(id int) *Underlay {
	return &Underlay{ID: id, Color: color.FromRGB(FallbackRGB)}
}

// ParseOverlay decodes an overlay definition.
func ParseOverlay(id int, data []byte) (*Overlay, error) {
	o := NewOverlay(id)
	c := buffer.NewCursor(data)

	for {
		op, err := c.ReadUint8()
		if err != nil {
			return nil, fmt.Errorf("%w: overlay %d: %w", ErrTruncatedFloor, id, errFloorTerminator)
		}

		switch op {
		case 0:
			return o, nil
		case 1:
			rgb, err := c.ReadUint24()
			if err != nil {
				return nil, fmt.Errorf("%w: overlay %d color: %w", ErrTruncatedFloor, id, err)
			}
			o.Color = color.FromRGB(int(rgb))
		case 2:
			tex, err := c.ReadUint8()
			if err != nil {
				return nil, fmt.Errorf("%w: overlay %d texture: %w", ErrTruncatedFloor, id, err)
			}
			o.Texture = int(tex)
		case 5:
			o.HideUnderlay = false
		case 6:
			name, err := c.ReadString()
			if err != nil {
				return nil, fmt.Errorf("%w: overlay %d name: %w", ErrTruncatedFloor, id, err)
			}
			o.Name = name
		case 7:
			rgb, err := c.ReadUint24()
			if err != nil {
				return nil, fmt.Errorf("%w: overlay %d secondary color: %w", ErrTruncatedFloor, id, err)
			}
			secondary := color.FromRGB(int(rgb))
			o.SecondaryColor = &secondary
		default:
			return nil, fmt.Errorf("%w: %d in overlay %d", ErrUnknownOpcode, op, id)
		}
	}
}

// ParseUnderlay decodes an underlay definition.
func ParseUnderlay(id int, data []byte) (*Underlay, error) {
	u := &Underlay{ID: id}
	c := buffer.NewCursor(data)

	for {
		op, err := c.ReadUint8()
		if err != nil {
			return nil, fmt.Errorf("%w: underlay %d: %w", ErrTruncatedFloor, id, errFloorTerminator)
		}

		switch op {
		case 0:
			return u, nil
		case 1:
			rgb, err := c.ReadUint24()
			if err != nil {
				return nil, fmt.Errorf("%w: underlay %d color: %w", ErrTruncatedFloor, id, err)
			}
			u.Color = color.FromRGB(int(rgb))
		default:
			return nil, fmt.Errorf("%w: %d in underlay %d", ErrUnknownOpcode, op, id)
		}
	}
}
