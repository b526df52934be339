package formats

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRegionName is returned for names not of the form m{x}_{y} or l{x}_{y}.
var ErrInvalidRegionName = errors.New("invalid region name")

// Group name prefixes in the maps archive.
const (
	terrainPrefix   = "m"
	landscapePrefix = "l"
)

// RegionName returns the terrain group name of a region.
func RegionName(x, y int) string {
	return fmt.Sprintf("%s%d_%d", terrainPrefix, x, y)
}

// LandscapeName returns the object placement group name of a region.
func LandscapeName(x, y int) string {
	return fmt.Sprintf("%s%d_%d", landscapePrefix, x, y)
}

// ParseRegionName extracts region coordinates from a terrain or landscape
// group name.
func ParseRegionName(name string) (x, y int, err error) {
	rest, ok := strings.CutPrefix(name, terrainPrefix)
	if !ok {
		rest, ok = strings.CutPrefix(name, landscapePrefix)
	}
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRegionName, name)
	}

	xs, ys, ok := strings.Cut(rest, "_")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRegionName, name)
	}
	if x, err = strconv.Atoi(xs); err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRegionName, name)
	}
	if y, err = strconv.Atoi(ys); err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRegionName, name)
	}
	return x, y, nil
}

// RegionCoord packs region coordinates as x<<8 | y.
func RegionCoord(x, y int) int {
	return y + x<<8
}
