package scene

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/olivier-w/glyphbeat/internal/bars"
	"github.com/olivier-w/glyphbeat/internal/canvas"
	"github.com/olivier-w/glyphbeat/internal/glyph"
	"github.com/olivier-w/glyphbeat/internal/particle"
)

// Render draws one frame: particles, rising bars, falling bars, then clips
// everything to the glyph mask. The clip is always the last operation.
func Render(c *canvas.Canvas, field *particle.Field, rising, falling []bars.Bar, mask *glyph.Mask) {
	c.Clear()

	if field != nil {
		field.Each(func(p *particle.Particle) {
			c.FillGlow(p.X, p.Y, p.Size, colorful.Hsl(p.Hue, 1, 0.5), p.Alpha)
		})
	}
	for _, b := range rising {
		c.FillRect(b.X, b.Y, b.W, b.H, b.Color())
	}
	for _, b := range falling {
		c.FillRect(b.X, b.Y, b.W, b.H, b.Color())
	}

	if mask != nil {
		c.DestinationIn(mask.Image)
	} else {
		c.Clear()
	}
}
