package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/runejs/webclient/pkg/buffer"
)

// Region format errors.
var (
	ErrTruncatedRegion = errors.New("truncated region data")
)

// Region dimensions.
const (
	Planes     = 4
	RegionSize = 64
)

// Opcode ranges of the per-tile stream. Opcodes 2..overlayOpcodeMax carry an
// overlay, up to settingsOpcodeMax carry settings, and anything above sets the
// underlay.
const (
	opcodeTerminal       = 0
	opcodeExplicitHeight = 1
	overlayOpcodeMax     = 49
	settingsOpcodeMax    = 81
)

// Height offsets applied to upper planes.
const (
	planeHeightStep  = 240
	heightMultiplier = 8
)

// OpcodeKind identifies a decoded tile opcode.
type OpcodeKind uint8

// Tile opcode kinds.
const (
	OpTerminal OpcodeKind = iota
	OpExplicitHeight
	OpOverlay
	OpSettings
	OpUnderlay
)

// String returns the opcode kind name.
func (k OpcodeKind) String() string {
	switch k {
	case OpTerminal:
		return "Terminal"
	case OpExplicitHeight:
		return "ExplicitHeight"
	case OpOverlay:
		return "Overlay"
	case OpSettings:
		return "Settings"
	case OpUnderlay:
		return "Underlay"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// TileOpcode is one decoded instruction of a tile's opcode stream. Only the
// fields belonging to Kind are set.
type TileOpcode struct {
	Kind        OpcodeKind
	Height      uint8
	OverlayID   uint8
	Path        uint8
	Orientation uint8
	Settings    uint8
	UnderlayID  uint8
}

// readTileOpcode decodes the next opcode and its operand.
func readTileOpcode(c *buffer.Cursor) (TileOpcode, error) {
	op, err := c.ReadUint8()
	if err != nil {
		return TileOpcode{}, err
	}

	switch {
	case op == opcodeTerminal:
		return TileOpcode{Kind: OpTerminal}, nil
	case op == opcodeExplicitHeight:
		h, err := c.ReadUint8()
		if err != nil {
			return TileOpcode{}, err
		}
		if h == 1 {
			h = 0
		}
		return TileOpcode{Kind: OpExplicitHeight, Height: h}, nil
	case op <= overlayOpcodeMax:
		id, err := c.ReadUint8()
		if err != nil {
			return TileOpcode{}, err
		}
		return TileOpcode{
			Kind:        OpOverlay,
			OverlayID:   id,
			Path:        (op - 2) / 4,
			Orientation: (op - 2) & 3,
		}, nil
	case op <= settingsOpcodeMax:
		return TileOpcode{Kind: OpSettings, Settings: op - overlayOpcodeMax}, nil
	default:
		return TileOpcode{Kind: OpUnderlay, UnderlayID: op - settingsOpcodeMax}, nil
	}
}

// Height is a decoded tile height. Tiles without one are derived from the
// procedural height generator.
type Height struct {
	value    int
	explicit bool
}

// ExplicitHeight returns a height read from the region stream.
func ExplicitHeight(v int) Height {
	return Height{value: v, explicit: true}
}

// Get returns the height and whether it was set.
func (h Height) Get() (int, bool) {
	return h.value, h.explicit
}

// Value returns the height, or 0 when it is derived.
func (h Height) Value() int {
	return h.value
}

// IsDerived reports whether the height must be generated procedurally.
func (h Height) IsDerived() bool {
	return !h.explicit
}

// Region holds the decoded tiles of one 64x64 map region, indexed
// [plane][x][y]. Heights are negative upwards. Overlay and underlay ids are
// 1-based with 0 meaning none.
type Region struct {
	Name string
	X, Y int

	Heights             [Planes][RegionSize][RegionSize]Height
	UnderlayIDs         [Planes][RegionSize][RegionSize]uint8
	OverlayIDs          [Planes][RegionSize][RegionSize]uint8
	OverlayPaths        [Planes][RegionSize][RegionSize]uint8
	OverlayOrientations [Planes][RegionSize][RegionSize]uint8
	Settings            [Planes][RegionSize][RegionSize]uint8
}

// InBounds reports whether (plane, x, y) addresses a tile of the region.
func InBounds(plane, x, y int) bool {
	return plane >= 0 && plane < Planes && x >= 0 && x < RegionSize && y >= 0 && y < RegionSize
}

// WorldX returns the world tile x of the region's first column.
func (r *Region) WorldX() int {
	return r.X * RegionSize
}

// WorldY returns the world tile y of the region's first row.
func (r *Region) WorldY() int {
	return r.Y * RegionSize
}

// ParseRegion decodes a map region. The name gives the region coordinates
// and may be empty for anonymous buffers.
func ParseRegion(name string, data []byte) (*Region, error) {
	r := &Region{Name: name}
	if name != "" {
		x, y, err := ParseRegionName(name)
		if err != nil {
			return nil, err
		}
		r.X, r.Y = x, y
	}

	c := buffer.NewCursor(data)

	for plane := range Planes {
		for x := range RegionSize {
			for y := range RegionSize {
				if err := r.decodeTile(c, plane, x, y); err != nil {
					return nil, fmt.Errorf("%w: tile %d,%d,%d: %w", ErrTruncatedRegion, plane, x, y, err)
				}
			}
		}
	}

	return r, nil
}

func (r *Region) decodeTile(c *buffer.Cursor, plane, x, y int) error {
	for {
		op, err := readTileOpcode(c)
		if err != nil {
			return err
		}

		switch op.Kind {
		case OpTerminal:
			if plane > 0 {
				r.Heights[plane][x][y] = ExplicitHeight(r.Heights[plane-1][x][y].Value() - planeHeightStep)
			}
			return nil
		case OpExplicitHeight:
			h := int(op.Height) * heightMultiplier
			if plane > 0 {
				r.Heights[plane][x][y] = ExplicitHeight(r.Heights[plane-1][x][y].Value() - h)
			} else {
				r.Heights[plane][x][y] = ExplicitHeight(-h)
			}
			return nil
		case OpOverlay:
			r.OverlayIDs[plane][x][y] = op.OverlayID
			r.OverlayPaths[plane][x][y] = op.Path
			r.OverlayOrientations[plane][x][y] = op.Orientation
		case OpSettings:
			r.Settings[plane][x][y] = op.Settings
		case OpUnderlay:
			r.UnderlayIDs[plane][x][y] = op.UnderlayID
		}
	}
}

// ParseRegionFile parses a decompressed region file from disk. The file name,
// without extension, must be a region name such as m50_50.
func ParseRegionFile(path string) (*Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading region file: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParseRegion(name, data)
}
