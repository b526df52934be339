package terrain

import "github.com/runejs/webclient/pkg/color"

// blendRadius is the half width of the underlay smoothing window.
const blendRadius = 5

// blendSums accumulates underlay color components over a window.
type blendSums struct {
	hue, saturation, lightness, multiplier, count int
}

func (s *blendSums) add(o blendSums) {
	s.hue += o.hue
	s.saturation += o.saturation
	s.lightness += o.lightness
	s.multiplier += o.multiplier
	s.count += o.count
}

func (s *blendSums) sub(o blendSums) {
	s.hue -= o.hue
	s.saturation -= o.saturation
	s.lightness -= o.lightness
	s.multiplier -= o.multiplier
	s.count -= o.count
}

// packed returns the averaged color, or false when the window holds no
// underlay.
func (s blendSums) packed() (int, bool) {
	if s.count <= 0 || s.multiplier <= 0 {
		return 0, false
	}
	h := s.hue * 256 / s.multiplier
	return color.Pack(h, s.saturation/s.count, s.lightness/s.count), true
}

// blendedUnderlay is the smoothed underlay color of one tile.
type blendedUnderlay struct {
	packed int
	ok     bool
}

// blendUnderlays smooths underlay colors with a box filter of width
// 2*blendRadius, first along x into per-row running sums, then along y.
// Both passes add the entering column and drop the leaving one. Only
// interior tiles get a result.
func blendUnderlays(underlays *grid, floors FloorDefinitions) *[GridSize][GridSize]blendedUnderlay {
	out := new([GridSize][GridSize]blendedUnderlay)

	sample := func(x, y int) blendSums {
		id := underlays[x][y]
		if id <= 0 {
			return blendSums{}
		}
		c := floors.Underlay(id - 1).Color
		return blendSums{
			hue:        c.Hue,
			saturation: c.Saturation,
			lightness:  c.Lightness,
			multiplier: c.HueMultiplier,
			count:      1,
		}
	}

	var columns [SceneSize]blendSums

	for x := -blendRadius; x < SceneSize+blendRadius; x++ {
		for y := range SceneSize {
			if enter := x + blendRadius; enter >= 0 && enter < SceneSize {
				columns[y].add(sample(enter, y))
			}
			if leave := x - blendRadius; leave >= 0 && leave < SceneSize {
				columns[y].sub(sample(leave, y))
			}
		}

		if x < 1 || x >= SceneSize-1 {
			continue
		}

		var window blendSums
		for y := -blendRadius; y < SceneSize+blendRadius; y++ {
			if enter := y + blendRadius; enter >= 0 && enter < SceneSize {
				window.add(columns[enter])
			}
			if leave := y - blendRadius; leave >= 0 && leave < SceneSize {
				window.sub(columns[leave])
			}

			if y < 1 || y >= SceneSize-1 {
				continue
			}

			packed, ok := window.packed()
			out[x][y] = blendedUnderlay{packed: packed, ok: ok}
		}
	}

	return out
}
