// Package term presents rendered frames as terminal text.
package term

import (
	"image"
	"strings"
)

// Renderer turns an RGBA frame into a block of terminal text. In color modes
// each cell is an upper half block with the top pixel as foreground and the
// bottom pixel as background. ColorNone maps each cell to a brightness
// character instead.
//
// Transparent pixels show as black: the frame is premultiplied, so its color
// channels already are the image composited over black.
type Renderer struct {
	mode ColorMode
	sb   strings.Builder
	seqs map[uint32]string
}

// NewRenderer creates a renderer. ColorAuto uses DetectColorMode.
func NewRenderer(mode ColorMode) *Renderer {
	if mode == ColorAuto {
		mode = DetectColorMode()
	}
	return &Renderer{mode: mode, seqs: make(map[uint32]string)}
}

// Render scales img to outW x outH cells with nearest-neighbor sampling.
func (r *Renderer) Render(img *image.RGBA, outW, outH int) string {
	if img == nil || img.Rect.Empty() || outW <= 0 || outH <= 0 {
		return ""
	}

	r.sb.Reset()
	r.sb.Grow(outW * outH * 24)

	if r.mode == ColorNone {
		r.renderASCII(img, outW, outH)
	} else {
		r.renderHalfBlock(img, outW, outH)
	}
	return r.sb.String()
}

func (r *Renderer) renderHalfBlock(img *image.RGBA, outW, outH int) {
	b := img.Rect
	w, h := b.Dx(), b.Dy()
	pixelRows := outH * 2

	for row := 0; row < outH; row++ {
		var lastFg, lastBg string
		topY := b.Min.Y + row*2*h/pixelRows
		botY := b.Min.Y + (row*2+1)*h/pixelRows

		for col := 0; col < outW; col++ {
			x := b.Min.X + col*w/outW
			tr, tg, tb := rgbAt(img, x, topY)
			br, bg, bb := rgbAt(img, x, botY)

			if fg := r.seq(false, tr, tg, tb); fg != lastFg {
				r.sb.WriteString(fg)
				lastFg = fg
			}
			if bgc := r.seq(true, br, bg, bb); bgc != lastBg {
				r.sb.WriteString(bgc)
				lastBg = bgc
			}
			r.sb.WriteString("▀")
		}

		r.sb.WriteString(ansiReset)
		if row < outH-1 {
			r.sb.WriteByte('\n')
		}
	}
}

func (r *Renderer) renderASCII(img *image.RGBA, outW, outH int) {
	b := img.Rect
	w, h := b.Dx(), b.Dy()
	for row := 0; row < outH; row++ {
		y := b.Min.Y + row*h/outH
		for col := 0; col < outW; col++ {
			x := b.Min.X + col*w/outW
			r.sb.WriteByte(brightnessChar(luminance(rgbAt(img, x, y))))
		}
		if row < outH-1 {
			r.sb.WriteByte('\n')
		}
	}
}

// seq caches escape sequences per layer and color.
func (r *Renderer) seq(bg bool, red, green, blue uint8) string {
	key := uint32(red)<<16 | uint32(green)<<8 | uint32(blue)
	if bg {
		key |= 1 << 24
	}
	if s, ok := r.seqs[key]; ok {
		return s
	}
	s := colorSeq(r.mode, bg, red, green, blue)
	if len(r.seqs) < 4096 {
		r.seqs[key] = s
	}
	return s
}

func rgbAt(img *image.RGBA, x, y int) (uint8, uint8, uint8) {
	if !(image.Point{X: x, Y: y}).In(img.Rect) {
		return 0, 0, 0
	}
	i := img.PixOffset(x, y)
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}

// Fit returns the largest cell grid within termW x termH that keeps the
// aspect ratio of a w x h frame. A cell is assumed twice as tall as wide, so
// one row covers two pixel rows either as a half block or as one character.
func Fit(termW, termH, w, h int) (outW, outH int) {
	if termW <= 0 || termH <= 0 || w <= 0 || h <= 0 {
		return 0, 0
	}
	outW = termW
	outH = (outW*h/w + 1) / 2
	if outH > termH {
		outH = termH
		outW = outH * 2 * w / h
	}
	return max(outW, 1), max(outH, 1)
}
