// Package spectrum turns the audible playback window into byte-scaled
// frequency magnitudes, the same shape a browser analyser node produces.
package spectrum

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	minFFTSize = 32
	maxFFTSize = 32768
)

// ErrInvalidConfig is returned for an analyser configuration that cannot be used.
var ErrInvalidConfig = errors.New("invalid analyser config")

// Config controls the analysis window and byte scaling.
type Config struct {
	FFTSize   int     // power of two in [32, 32768]
	Smoothing float64 // time constant in [0, 1]
	MinDB     float64 // maps to 0
	MaxDB     float64 // maps to 255
}

// DefaultConfig returns a 2048-point analyser with browser defaults.
func DefaultConfig() Config {
	return Config{
		FFTSize:   2048,
		Smoothing: 0.8,
		MinDB:     -100,
		MaxDB:     -30,
	}
}

// Validate reports whether c can drive an Analyser.
func (c Config) Validate() error {
	if c.FFTSize < minFFTSize || c.FFTSize > maxFFTSize || c.FFTSize&(c.FFTSize-1) != 0 {
		return fmt.Errorf("%w: fft size %d is not a power of two in [%d, %d]", ErrInvalidConfig, c.FFTSize, minFFTSize, maxFFTSize)
	}
	if c.Smoothing < 0 || c.Smoothing > 1 {
		return fmt.Errorf("%w: smoothing %v outside [0, 1]", ErrInvalidConfig, c.Smoothing)
	}
	if c.MinDB >= c.MaxDB {
		return fmt.Errorf("%w: min %v dB must be below max %v dB", ErrInvalidConfig, c.MinDB, c.MaxDB)
	}
	return nil
}

// Window supplies the most recent mono time-domain samples. It fills dst
// oldest first and returns how many samples were real audio.
type Window interface {
	Window(dst []float64) int
}

// Analyser computes smoothed byte frequency data from a Window.
type Analyser struct {
	cfg      Config
	src      Window
	win      []float64
	buf      []float64
	smoothed []float64
}

// NewAnalyser validates cfg and prepares the window and buffers.
func NewAnalyser(src Window, cfg Config) (*Analyser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Analyser{
		cfg:      cfg,
		src:      src,
		win:      window.Blackman(cfg.FFTSize),
		buf:      make([]float64, cfg.FFTSize),
		smoothed: make([]float64, cfg.FFTSize/2),
	}, nil
}

// BinCount returns the length of a frequency sample (half the FFT size).
func (a *Analyser) BinCount() int { return a.cfg.FFTSize / 2 }

// Reset forgets the smoothing history.
func (a *Analyser) Reset() {
	clear(a.smoothed)
}

// Sample fills dst with the current magnitudes, one byte per bin, lower index
// = lower frequency. Bins beyond BinCount are zeroed; dst may be shorter.
func (a *Analyser) Sample(dst []uint8) {
	a.src.Window(a.buf)
	for i, w := range a.win {
		a.buf[i] *= w
	}
	spectrum := fft.FFTReal(a.buf)

	n := float64(a.cfg.FFTSize)
	tau := a.cfg.Smoothing
	for k := range a.smoothed {
		mag := cmplx.Abs(spectrum[k]) / n
		a.smoothed[k] = tau*a.smoothed[k] + (1-tau)*mag
	}

	for i := range dst {
		if i >= len(a.smoothed) {
			dst[i] = 0
			continue
		}
		dst[i] = a.toByte(a.smoothed[i])
	}
}

func (a *Analyser) toByte(mag float64) uint8 {
	if mag <= 0 || math.IsNaN(mag) {
		return 0
	}
	db := 20 * math.Log10(mag)
	scaled := math.Floor(255 / (a.cfg.MaxDB - a.cfg.MinDB) * (db - a.cfg.MinDB))
	switch {
	case scaled < 0:
		return 0
	case scaled > 255:
		return 255
	}
	return uint8(scaled)
}
