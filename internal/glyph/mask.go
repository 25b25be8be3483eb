// Package glyph rasterizes a single character into an alpha mask and extracts
// the solid interior coordinates particles travel along.
package glyph

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	// Stride is the sampling step in pixels along both axes.
	Stride = 2
	// Threshold is the alpha a sampled pixel must exceed to count as interior.
	Threshold = 128
	// FontScale is the font size relative to the canvas height.
	FontScale = 0.9
)

// ErrInvalidLetter is returned by ParseLetter for anything but a single A-Z.
var ErrInvalidLetter = errors.New("letter must be a single character A-Z")

// Point is an integer pixel coordinate inside the glyph.
type Point struct {
	X, Y int
}

// Mask is the rasterized glyph. It is never modified after Build returns.
type Mask struct {
	Rune   rune
	Image  *image.Alpha
	Points []Point
}

var (
	fontOnce  sync.Once
	sansFont  *opentype.Font
	fontError error
)

func loadFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		sansFont, fontError = opentype.Parse(goregular.TTF)
	})
	return sansFont, fontError
}

// Build renders ch centered on a transparent width x height bitmap and
// samples its interior. A glyph without ink yields an empty Points slice.
func Build(ch rune, width, height int) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid mask size %dx%d", width, height)
	}

	f, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(height) * FontScale,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("creating font face: %w", err)
	}
	defer face.Close()

	img := image.NewAlpha(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Opaque,
		Face: face,
	}
	s := string(ch)

	// Center on the advance horizontally and on the em box vertically.
	m := face.Metrics()
	advance := d.MeasureString(s)
	d.Dot = fixed.Point26_6{
		X: fixed.I(width)/2 - advance/2,
		Y: fixed.I(height)/2 + (m.Ascent-m.Descent)/2,
	}
	d.DrawString(s)

	return &Mask{
		Rune:   ch,
		Image:  img,
		Points: samplePoints(img),
	}, nil
}

// samplePoints scans img row-major at Stride and keeps opaque interior pixels.
func samplePoints(img *image.Alpha) []Point {
	b := img.Bounds()
	var pts []Point
	for y := b.Min.Y; y < b.Max.Y; y += Stride {
		for x := b.Min.X; x < b.Max.X; x += Stride {
			if img.AlphaAt(x, y).A > Threshold {
				pts = append(pts, Point{X: x, Y: y})
			}
		}
	}
	return pts
}

// ParseLetter validates a letter selection and returns it uppercased.
func ParseLetter(s string) (rune, error) {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) != 1 {
		return 0, ErrInvalidLetter
	}
	up := unicode.ToUpper(r[0])
	if up < 'A' || up > 'Z' {
		return 0, ErrInvalidLetter
	}
	return up, nil
}

// Next returns the letter after r, wrapping Z to A.
func Next(r rune) rune {
	if r < 'A' || r >= 'Z' {
		return 'A'
	}
	return r + 1
}

// Prev returns the letter before r, wrapping A to Z.
func Prev(r rune) rune {
	if r <= 'A' || r > 'Z' {
		return 'Z'
	}
	return r - 1
}
