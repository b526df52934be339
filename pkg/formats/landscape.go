package formats

import (
	"errors"
	"fmt"

	"github.com/runejs/webclient/pkg/buffer"
)

// ErrTruncatedLandscape is returned when a landscape stream ends mid-record.
var ErrTruncatedLandscape = errors.New("truncated landscape data")

// LandscapeObject is one placed game object. X and Y are world tile
// coordinates.
type LandscapeObject struct {
	ID          int
	X, Y        int
	Plane       int
	Type        int
	Orientation int
}

// Landscape holds the objects placed in one region.
type Landscape struct {
	Name    string
	X, Y    int
	Objects []LandscapeObject
}

// ParseLandscape decodes a landscape (object placement) file. Object ids are
// delta coded from -1 and each object's coordinates are delta coded from 0,
// both as smarts with 0 terminating the list.
func ParseLandscape(name string, data []byte) (*Landscape, error) {
	l := &Landscape{Name: name}
	if name != "" {
		x, y, err := ParseRegionName(name)
		if err != nil {
			return nil, err
		}
		l.X, l.Y = x, y
	}

	c := buffer.NewCursor(data)
	baseX := (l.X & 0xff) * RegionSize
	baseY := l.Y * RegionSize

	id := -1
	for {
		delta, err := c.ReadSmart()
		if err != nil {
			return nil, fmt.Errorf("%w: object id: %w", ErrTruncatedLandscape, err)
		}
		if delta == 0 {
			break
		}
		id += delta

		coords := 0
		for {
			step, err := c.ReadSmart()
			if err != nil {
				return nil, fmt.Errorf("%w: object %d coordinates: %w", ErrTruncatedLandscape, id, err)
			}
			if step == 0 {
				break
			}
			coords += step - 1

			meta, err := c.ReadUint8()
			if err != nil {
				return nil, fmt.Errorf("%w: object %d metadata: %w", ErrTruncatedLandscape, id, err)
			}

			l.Objects = append(l.Objects, LandscapeObject{
				ID:          id,
				X:           (coords>>6)&0x3f + baseX,
				Y:           coords&0x3f + baseY,
				Plane:       (coords >> 12) & 3,
				Type:        int(meta >> 2),
				Orientation: int(meta & 3),
			})
		}
	}

	return l, nil
}

// ObjectsOnPlane returns the objects placed on a plane.
func (l *Landscape) ObjectsOnPlane(plane int) []LandscapeObject {
	var out []LandscapeObject
	for _, o := range l.Objects {
		if o.Plane == plane {
			out = append(out, o)
		}
	}
	return out
}
