// Package canvas is a small premultiplied RGBA raster with the few 2D
// operations the visualizer composites with.
package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Canvas draws into an *image.RGBA.
type Canvas struct {
	img *image.RGBA
}

// New allocates a transparent width x height canvas.
func New(width, height int) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Image returns the backing image. It is overwritten by the next frame.
func (c *Canvas) Image() *image.RGBA { return c.img }


// Clear makes every pixel transparent.
func (c *Canvas) Clear() {
	clear(c.img.Pix)
}

// FillRect composites a solid rectangle over the canvas. Edges are snapped to
// the nearest pixel boundary.
func (c *Canvas) FillRect(x, y, w, h float64, col color.NRGBA) {
	if w <= 0 || h <= 0 || col.A == 0 {
		return
	}
	r := image.Rect(
		int(math.Round(x)), int(math.Round(y)),
		int(math.Round(x+w)), int(math.Round(y+h)),
	).Intersect(c.img.Rect)
	if r.Empty() {
		return
	}
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Over)
}

// FillGlow composites a radial gradient disc: col at alpha in the center,
// fading linearly to transparent at radius r.
func (c *Canvas) FillGlow(cx, cy, r float64, col colorful.Color, alpha float64) {
	if r <= 0 || alpha <= 0 {
		return
	}
	alpha = min(alpha, 1)
	col = col.Clamped()

	bounds := image.Rect(
		int(math.Floor(cx-r)), int(math.Floor(cy-r)),
		int(math.Ceil(cx+r)), int(math.Ceil(cy+r)),
	).Intersect(c.img.Rect)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		dy := float64(y) + 0.5 - cy
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dx := float64(x) + 0.5 - cx
			d := math.Sqrt(dx*dx + dy*dy)
			if d >= r {
				continue
			}
			a := alpha * (1 - d/r)
			i := c.img.PixOffset(x, y)
			px := c.img.Pix[i : i+4 : i+4]
			inv := 1 - a
			px[0] = blend(col.R*a, px[0], inv)
			px[1] = blend(col.G*a, px[1], inv)
			px[2] = blend(col.B*a, px[2], inv)
			px[3] = blend(a, px[3], inv)
		}
	}
}

// blend returns src + dst*inv for a premultiplied source channel in [0,1].
func blend(src float64, dst uint8, inv float64) uint8 {
	v := src*255 + float64(dst)*inv
	if v >= 255 {
		return 255
	}
	if v <= 0 {
		return 0
	}
	return uint8(v + 0.5)
}

// DestinationIn keeps the canvas only where mask is opaque: every channel is
// scaled by the mask alpha. Pixels outside the mask become transparent.
func (c *Canvas) DestinationIn(mask *image.Alpha) {
	b := c.img.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := c.img.PixOffset(x, y)
			px := c.img.Pix[i : i+4 : i+4]
			var m uint32
			if mask != nil && (image.Point{X: x, Y: y}).In(mask.Rect) {
				m = uint32(mask.Pix[mask.PixOffset(x, y)])
			}
			switch m {
			case 0xff:
				continue
			case 0:
				px[0], px[1], px[2], px[3] = 0, 0, 0, 0
			default:
				for k := range px {
					px[k] = uint8((uint32(px[k])*m + 127) / 255)
				}
			}
		}
	}
}
