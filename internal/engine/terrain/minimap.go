package terrain

import (
	"image"
	stdcolor "image/color"

	"golang.org/x/image/draw"

	"github.com/runejs/webclient/pkg/color"
)

// MinimapSize is the width and height of an unscaled minimap in pixels.
const MinimapSize = SceneSize - 2

// BuildMinimap draws one pixel per interior tile of a plane with north up.
// Paints use the average of their corner colors and models their overlay
// color. Tiles without geometry are left transparent.
func BuildMinimap(t *Terrain, plane int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, MinimapSize, MinimapSize))
	plane = min(max(plane, 0), Planes-1)

	for x := 1; x < SceneSize-1; x++ {
		for y := 1; y < SceneSize-1; y++ {
			c, ok := minimapColor(&t.Tiles[plane][x][y])
			if !ok {
				continue
			}
			img.SetRGBA(x-1, MinimapSize-y, stdcolor.RGBA{R: c[0], G: c[1], B: c[2], A: 0xff})
		}
	}

	return img
}

// ScaleMinimap enlarges a minimap by an integer factor without smoothing.
func ScaleMinimap(src *image.RGBA, factor int) *image.RGBA {
	if factor <= 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func minimapColor(tile *Tile) (color.RGB, bool) {
	switch {
	case tile.Model != nil:
		return tile.Model.OverlayRGB, true
	case tile.Paint != nil:
		p := tile.Paint
		var avg color.RGB
		for i := range avg {
			sum := int(p.ColorNE[i]) + int(p.ColorNW[i]) + int(p.ColorSE[i]) + int(p.ColorSW[i])
			avg[i] = uint8(sum / 4)
		}
		return avg, true
	default:
		return color.RGB{}, false
	}
}
