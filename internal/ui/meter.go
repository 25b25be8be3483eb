package ui

import "github.com/charmbracelet/harmonica"

// meter smooths the per-frame average amplitude with a damped spring so the
// level readout does not flicker.
type meter struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
}

func newMeter(fps int) meter {
	return meter{spring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 0.9)}
}

// step moves toward target and returns the new level, clamped to [0,1].
func (m *meter) step(target float64) float64 {
	m.pos, m.vel = m.spring.Update(m.pos, m.vel, target)
	return m.level()
}

func (m *meter) level() float64 {
	return min(max(m.pos, 0), 1)
}

func (m *meter) reset() {
	m.pos, m.vel = 0, 0
}
