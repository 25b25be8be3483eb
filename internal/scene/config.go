package scene

import (
	"errors"
	"fmt"

	"github.com/olivier-w/glyphbeat/internal/bars"
)

const (
	maxDimension = 4096
	minFFTSize   = 32
	maxFFTSize   = 32768
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid scene config")

// Config holds the per-session rendering parameters.
type Config struct {
	Width, Height int
	FFTSize       int
	BarCount      int
	MaxParticles  int
	SpawnPerFrame int
	Particles     bool
}

// DefaultConfig returns the full effect: particles and both bar layers over a
// 2048-point spectrum.
func DefaultConfig() Config {
	return Config{
		Width:         160,
		Height:        100,
		FFTSize:       2048,
		BarCount:      bars.DefaultCount,
		MaxParticles:  400,
		SpawnPerFrame: 3,
		Particles:     true,
	}
}

// ReducedConfig returns the lighter variant: 512-point spectrum, bars only.
func ReducedConfig() Config {
	c := DefaultConfig()
	c.FFTSize = 512
	c.Particles = false
	return c
}

// Validate checks the canvas size, analyser size and pool limits.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 || c.Width > maxDimension || c.Height > maxDimension {
		return fmt.Errorf("%w: canvas %dx%d outside 1..%d", ErrInvalidConfig, c.Width, c.Height, maxDimension)
	}
	if c.FFTSize < minFFTSize || c.FFTSize > maxFFTSize || c.FFTSize&(c.FFTSize-1) != 0 {
		return fmt.Errorf("%w: fft size %d is not a power of two in [%d, %d]", ErrInvalidConfig, c.FFTSize, minFFTSize, maxFFTSize)
	}
	if c.BarCount <= 0 {
		return fmt.Errorf("%w: bar count %d", ErrInvalidConfig, c.BarCount)
	}
	if c.Particles && (c.MaxParticles <= 0 || c.SpawnPerFrame <= 0) {
		return fmt.Errorf("%w: particles need a positive pool (%d) and spawn rate (%d)",
			ErrInvalidConfig, c.MaxParticles, c.SpawnPerFrame)
	}
	return nil
}
