// Package bars lays out the two opposing layers of spectrum bars.
package bars

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultCount is the number of bars per layer.
const DefaultCount = 60

const (
	inset      = 0.05
	widthRatio = 0.8

	risingAlpha  = 0.7
	fallingAlpha = 0.5
	fallingScale = 0.8
)

// Content is the rectangle the bars span.
type Content struct {
	Left, Top, Width, Height float64
}

// Rect returns the content rectangle covering 5%..95% of each axis.
func Rect(width, height int) Content {
	w := float64(width)
	h := float64(height)
	return Content{
		Left:   w * inset,
		Top:    h * inset,
		Width:  w*(1-inset) - w*inset,
		Height: h*(1-inset) - h*inset,
	}
}

// Bottom returns the y coordinate of the lower edge.
func (c Content) Bottom() float64 { return c.Top + c.Height }

// Bar is one filled rectangle with an HSL hue at full saturation and 50%
// lightness. Fraction is the spectrum byte it was built from, divided by 255.
type Bar struct {
	X, Y, W, H float64
	Hue        float64
	Alpha      float64
	Fraction   float64
}

// Color returns the bar's fill as non-premultiplied RGBA.
func (b Bar) Color() color.NRGBA {
	r, g, bl := colorful.Hsl(b.Hue, 1, 0.5).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: bl, A: uint8(math.Round(b.Alpha * 255))}
}

// Layout maps sample onto count bars per layer. Rising bars grow upward from
// the bottom edge; falling bars hang from the top edge at 80% height.
func Layout(sample []uint8, content Content, count int) (rising, falling []Bar) {
	if count <= 0 {
		return nil, nil
	}
	rising = make([]Bar, count)
	falling = make([]Bar, count)

	n := len(sample)
	slot := content.Width / float64(count)
	w := slot * widthRatio
	step := float64(n) / float64(count)

	for i := 0; i < count; i++ {
		var f float64
		if n > 0 {
			idx := int(math.Floor(float64(i) * step))
			if idx >= n {
				idx = n - 1
			}
			f = float64(sample[idx]) / 255
		}
		x := content.Left + float64(i)/float64(count)*content.Width

		h := f * content.Height
		rising[i] = Bar{
			X:        x,
			Y:        content.Bottom() - h,
			W:        w,
			H:        h,
			Hue:      50 + 50*f,
			Alpha:    risingAlpha,
			Fraction: f,
		}

		fh := f * content.Height * fallingScale
		falling[i] = Bar{
			X:        x,
			Y:        content.Top,
			W:        w,
			H:        fh,
			Hue:      30 + 50*f,
			Alpha:    fallingAlpha,
			Fraction: f,
		}
	}
	return rising, falling
}
