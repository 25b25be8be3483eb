package scene

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/olivier-w/glyphbeat/internal/bars"
	"github.com/olivier-w/glyphbeat/internal/particle"
)

type stubSource struct {
	value uint8
	bins  int
	calls int
}

func (s *stubSource) Sample(dst []uint8) {
	s.calls++
	for i := range dst {
		dst[i] = s.value
	}
}

func (s *stubSource) BinCount() int { return s.bins }

func testRand() *rand.Rand { return rand.New(rand.NewSource(7)) }

func newTestSession(t *testing.T, cfg Config, letter rune, src Source) *Session {
	t.Helper()
	s, err := NewSession(cfg, letter, src, testRand())
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if err := ReducedConfig().Validate(); err != nil {
		t.Fatalf("ReducedConfig().Validate() = %v", err)
	}
	if r := ReducedConfig(); r.FFTSize != 512 || r.Particles {
		t.Fatalf("ReducedConfig() = %+v, want 512 points and no particles", r)
	}

	bad := []func(*Config){
		func(c *Config) { c.Width = 0 },
		func(c *Config) { c.Height = 5000 },
		func(c *Config) { c.FFTSize = 1000 },
		func(c *Config) { c.BarCount = 0 },
		func(c *Config) { c.MaxParticles = 0 },
	}
	for i, mutate := range bad {
		c := DefaultConfig()
		mutate(&c)
		if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("case %d: Validate() = %v, want ErrInvalidConfig", i, err)
		}
	}
}

func TestNewSessionRejectsBadInput(t *testing.T) {
	c := DefaultConfig()
	c.Width = -1
	if _, err := NewSession(c, 'A', &stubSource{bins: 1024}, testRand()); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("NewSession(bad config) = %v", err)
	}
	if _, err := NewSession(DefaultConfig(), 'A', nil, testRand()); err == nil {
		t.Fatal("NewSession(nil source) succeeded")
	}
}

func TestAverage(t *testing.T) {
	if got := Average(nil); got != 0 {
		t.Fatalf("Average(nil) = %v", got)
	}
	if got := Average([]uint8{0, 255, 255, 0}); got != 127.5 {
		t.Fatalf("Average() = %v, want 127.5", got)
	}
}

func TestSilenceLeavesNoBarsInFrame(t *testing.T) {
	src := &stubSource{bins: 256}
	s := newTestSession(t, ReducedConfig(), 'O', src)

	f := s.Step()
	if src.calls != 1 {
		t.Fatalf("Sample called %d times, want 1", src.calls)
	}
	if f.Average != 0 || f.Particles != 0 {
		t.Fatalf("frame = %+v, want silent and empty", f)
	}
	for i, v := range f.Image.Pix {
		if v != 0 {
			t.Fatalf("pixel byte %d = %d, want blank frame", i, v)
		}
	}

	rising, falling := bars.Layout(make([]uint8, 256), bars.Rect(160, 100), DefaultConfig().BarCount)
	for i := range rising {
		if rising[i].H != 0 || falling[i].H != 0 {
			t.Fatalf("bar %d has height at silence", i)
		}
	}
}

func TestFullScaleFrame(t *testing.T) {
	src := &stubSource{value: 255, bins: 1024}
	cfg := DefaultConfig()
	s := newTestSession(t, cfg, 'O', src)

	f := s.Step()
	if f.Average != 255 {
		t.Fatalf("Average = %v, want 255", f.Average)
	}
	if f.Particles != cfg.SpawnPerFrame {
		t.Fatalf("Particles = %d, want %d", f.Particles, cfg.SpawnPerFrame)
	}
	s.Particles().Each(func(p *particle.Particle) {
		if p.Alpha < 1-particle.Decay-1e-9 {
			t.Fatalf("particle alpha = %v, want max spawn alpha less one decay", p.Alpha)
		}
	})

	// Something is drawn, and only inside the glyph.
	mask := s.Mask().Image
	drawn := 0
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			a := f.Image.RGBAAt(x, y).A
			if a == 0 {
				continue
			}
			drawn++
			if mask.AlphaAt(x, y).A == 0 {
				t.Fatalf("pixel (%d,%d) drawn outside the glyph", x, y)
			}
		}
	}
	if drawn == 0 {
		t.Fatal("full scale frame is blank")
	}
}

func TestStepAdvancesState(t *testing.T) {
	src := &stubSource{value: 100, bins: 1024}
	s := newTestSession(t, DefaultConfig(), 'A', src)
	st := s.state

	sample := make([]uint8, 1024)
	for i := range sample {
		sample[i] = 100
	}
	next := Step(st, sample)
	if next.Index != st.Index+1 {
		t.Fatalf("Index = %d, want %d", next.Index, st.Index+1)
	}
	if next.Average != 100 {
		t.Fatalf("Average = %v, want 100", next.Average)
	}
	if next.Mask != st.Mask {
		t.Fatal("mask was rebuilt during a step")
	}
}

func TestPoolStaysBounded(t *testing.T) {
	src := &stubSource{value: 255, bins: 1024}
	cfg := DefaultConfig()
	cfg.MaxParticles = 20
	s := newTestSession(t, cfg, 'W', src)
	for range 100 {
		if f := s.Step(); f.Particles > cfg.MaxParticles {
			t.Fatalf("Particles = %d, exceeds %d", f.Particles, cfg.MaxParticles)
		}
	}
}

func TestEmptyGlyphRendersBlank(t *testing.T) {
	src := &stubSource{value: 200, bins: 1024}
	s := newTestSession(t, DefaultConfig(), ' ', src)
	for range 5 {
		f := s.Step()
		if f.Particles != 0 {
			t.Fatalf("Particles = %d for an empty glyph", f.Particles)
		}
		for _, v := range f.Image.Pix {
			if v != 0 {
				t.Fatal("empty glyph frame is not blank")
			}
		}
	}
}

func TestNewSessionStartsWithEmptyPool(t *testing.T) {
	src := &stubSource{value: 255, bins: 1024}
	first := newTestSession(t, DefaultConfig(), 'A', src)
	for range 10 {
		first.Step()
	}
	if first.Particles().Len() == 0 {
		t.Fatal("first session has no particles")
	}

	var d Driver
	t1 := d.Start(first)
	second := newTestSession(t, DefaultConfig(), 'B', src)
	t2 := d.Start(second)

	if second.Particles().Len() != 0 {
		t.Fatalf("second session starts with %d particles", second.Particles().Len())
	}
	if _, ok := d.Tick(t1); ok {
		t.Fatal("superseded token still ticks")
	}
	before := first.Particles().Len()
	f, ok := d.Tick(t2)
	if !ok {
		t.Fatal("current token rejected")
	}
	if f.Particles != DefaultConfig().SpawnPerFrame {
		t.Fatalf("second session frame has %d particles, want %d", f.Particles, DefaultConfig().SpawnPerFrame)
	}
	if first.Particles().Len() != before {
		t.Fatal("superseded session kept mutating")
	}
}
