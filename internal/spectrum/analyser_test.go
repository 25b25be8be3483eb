package spectrum

import (
	"errors"
	"math"
	"testing"
)

type stubWindow struct {
	fill func(dst []float64)
}

func (s stubWindow) Window(dst []float64) int {
	if s.fill == nil {
		clear(dst)
		return 0
	}
	s.fill(dst)
	return len(dst)
}

func sine(bin int, amp float64) stubWindow {
	return stubWindow{fill: func(dst []float64) {
		n := float64(len(dst))
		for i := range dst {
			dst[i] = amp * math.Sin(2*math.Pi*float64(bin)*float64(i)/n)
		}
	}}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	bad := []Config{
		{FFTSize: 1000, Smoothing: 0.8, MinDB: -100, MaxDB: -30},
		{FFTSize: 16, Smoothing: 0.8, MinDB: -100, MaxDB: -30},
		{FFTSize: 512, Smoothing: 1.5, MinDB: -100, MaxDB: -30},
		{FFTSize: 512, Smoothing: 0.8, MinDB: -30, MaxDB: -30},
	}
	for _, cfg := range bad {
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig for %+v, got %v", cfg, err)
		}
	}
}

func TestBinCountIsHalfFFTSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FFTSize = 512
	a, err := NewAnalyser(stubWindow{}, cfg)
	if err != nil {
		t.Fatalf("NewAnalyser() error = %v", err)
	}
	if a.BinCount() != 256 {
		t.Fatalf("expected 256 bins, got %d", a.BinCount())
	}
}

func TestSilenceYieldsZeroBytes(t *testing.T) {
	a, err := NewAnalyser(stubWindow{}, DefaultConfig())
	if err != nil {
		t.Fatalf("NewAnalyser() error = %v", err)
	}
	dst := make([]uint8, a.BinCount())
	for i := range dst {
		dst[i] = 99
	}
	a.Sample(dst)
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("expected 0 at bin %d, got %d", i, v)
		}
	}
}

func TestSinePeaksAtItsBin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Smoothing = 0
	a, err := NewAnalyser(sine(64, 0.01), cfg)
	if err != nil {
		t.Fatalf("NewAnalyser() error = %v", err)
	}
	dst := make([]uint8, a.BinCount())
	a.Sample(dst)

	peak := 0
	for i, v := range dst {
		if v > dst[peak] {
			peak = i
		}
	}
	if peak != 64 {
		t.Fatalf("expected peak at bin 64, got %d (value %d)", peak, dst[peak])
	}
	if dst[64] == 0 || dst[64] == 255 {
		t.Fatalf("expected an in-range peak byte, got %d", dst[64])
	}
	if dst[400] != 0 {
		t.Fatalf("expected far bins to stay at the floor, got %d", dst[400])
	}
}

func TestSmoothingRisesGradually(t *testing.T) {
	a, err := NewAnalyser(sine(32, 0.01), DefaultConfig())
	if err != nil {
		t.Fatalf("NewAnalyser() error = %v", err)
	}
	dst := make([]uint8, a.BinCount())

	a.Sample(dst)
	first := dst[32]
	a.Sample(dst)
	second := dst[32]
	if second <= first {
		t.Fatalf("expected smoothed magnitude to rise, got %d then %d", first, second)
	}

	a.Reset()
	a.Sample(dst)
	if dst[32] != first {
		t.Fatalf("expected reset to restore first-frame value %d, got %d", first, dst[32])
	}
}

func TestSampleZeroesExtraBins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FFTSize = 32
	a, err := NewAnalyser(sine(4, 1), cfg)
	if err != nil {
		t.Fatalf("NewAnalyser() error = %v", err)
	}
	dst := make([]uint8, 20)
	for i := range dst {
		dst[i] = 7
	}
	a.Sample(dst)
	for i := 16; i < 20; i++ {
		if dst[i] != 0 {
			t.Fatalf("expected bin %d beyond BinCount to be zero, got %d", i, dst[i])
		}
	}
}
