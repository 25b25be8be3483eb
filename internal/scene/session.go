// Package scene owns the per-playback visual state and the frame body that
// turns one spectrum sample into one composited image.
package scene

import (
	"fmt"
	"image"
	"math/rand"

	"github.com/olivier-w/glyphbeat/internal/bars"
	"github.com/olivier-w/glyphbeat/internal/canvas"
	"github.com/olivier-w/glyphbeat/internal/glyph"
	"github.com/olivier-w/glyphbeat/internal/particle"
)

// Source supplies one frequency sample per frame.
type Source interface {
	Sample(dst []uint8)
	BinCount() int
}

// State is everything a frame needs from the previous one.
type State struct {
	Config  Config
	Mask    *glyph.Mask
	Field   *particle.Field
	Canvas  *canvas.Canvas
	Index   int
	Average float64
}

// Frame is the result of one step.
type Frame struct {
	Image     *image.RGBA
	Average   float64
	Particles int
	Index     int
}

// Session is one playback's visual state. Each playback gets a new Session.
type Session struct {
	letter rune
	src    Source
	sample []uint8
	state  State
}

// NewSession builds the glyph mask, an empty particle pool and a canvas for
// letter. Nothing from a previous session is reused.
func NewSession(cfg Config, letter rune, src Source, rng *rand.Rand) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrInvalidConfig)
	}
	mask, err := glyph.Build(letter, cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("building mask for %q: %w", letter, err)
	}
	capacity := cfg.MaxParticles
	if !cfg.Particles {
		capacity = 0
	}
	return &Session{
		letter: letter,
		src:    src,
		sample: make([]uint8, src.BinCount()),
		state: State{
			Config: cfg,
			Mask:   mask,
			Field:  particle.New(capacity, rng),
			Canvas: canvas.New(cfg.Width, cfg.Height),
		},
	}, nil
}

// Letter returns the session's glyph.
func (s *Session) Letter() rune { return s.letter }

// Mask returns the glyph mask built for the session.
func (s *Session) Mask() *glyph.Mask { return s.state.Mask }

// Particles returns the session's particle pool.
func (s *Session) Particles() *particle.Field { return s.state.Field }

// Step pulls a sample from the source and renders the next frame.
func (s *Session) Step() Frame {
	s.src.Sample(s.sample)
	s.state = Step(s.state, s.sample)
	return s.state.Frame()
}

// Frame describes the current canvas.
func (st State) Frame() Frame {
	var n int
	if st.Field != nil {
		n = st.Field.Len()
	}
	var img *image.RGBA
	if st.Canvas != nil {
		img = st.Canvas.Image()
	}
	return Frame{Image: img, Average: st.Average, Particles: n, Index: st.Index}
}

// Step is the frame body. The particle pool and canvas are updated in place;
// the returned state carries the new frame index and average amplitude.
func Step(st State, sample []uint8) State {
	avg := Average(sample)
	points := st.Mask.Points

	if st.Config.Particles {
		for range st.Config.SpawnPerFrame {
			st.Field.Spawn(points, avg)
		}
		st.Field.Advance(points)
	}

	rising, falling := bars.Layout(sample, bars.Rect(st.Config.Width, st.Config.Height), st.Config.BarCount)
	Render(st.Canvas, st.Field, rising, falling, st.Mask)

	st.Index++
	st.Average = avg
	return st
}

// Average returns the mean byte value of sample, or 0 when it is empty.
func Average(sample []uint8) float64 {
	if len(sample) == 0 {
		return 0
	}
	var sum int
	for _, v := range sample {
		sum += int(v)
	}
	return float64(sum) / float64(len(sample))
}
