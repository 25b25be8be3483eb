// Package particle simulates the glow points that flow along a glyph's
// interior. Particles live in a fixed arena; removed slots go on a free list
// and are reused by later spawns.
package particle

import (
	"math/rand"

	"github.com/olivier-w/glyphbeat/internal/glyph"
)

// Decay is the alpha lost by every particle per frame.
const Decay = 0.003

// Particle is one glow point. Index is the path point it last reached.
type Particle struct {
	X, Y  float64
	Size  float64
	Speed float64
	Index int
	Hue   float64
	Alpha float64
}

// Field is a bounded particle pool.
type Field struct {
	slots  []Particle
	active []bool
	free   []int
	live   int
	rng    *rand.Rand
}

// New creates an empty field that holds at most capacity particles.
func New(capacity int, rng *rand.Rand) *Field {
	if capacity < 0 {
		capacity = 0
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	f := &Field{
		slots:  make([]Particle, capacity),
		active: make([]bool, capacity),
		free:   make([]int, 0, capacity),
		rng:    rng,
	}
	f.Reset()
	return f
}

// Reset removes every particle.
func (f *Field) Reset() {
	f.free = f.free[:0]
	// Push in reverse so slot 0 is handed out first.
	for i := len(f.slots) - 1; i >= 0; i-- {
		f.active[i] = false
		f.free = append(f.free, i)
	}
	f.live = 0
}

// Len returns the number of live particles.
func (f *Field) Len() int { return f.live }

// Spawn places one particle near a random path point. amp is the mean
// spectrum byte of the current frame. It reports whether a particle was added.
func (f *Field) Spawn(points []glyph.Point, amp float64) bool {
	if len(points) == 0 || len(f.free) == 0 {
		return false
	}

	idx := f.rng.Intn(len(points))
	anchor := points[idx]
	jitter := 5 + amp/50

	p := Particle{
		X:     float64(anchor.X) + (f.rng.Float64()-0.5)*jitter,
		Y:     float64(anchor.Y) + (f.rng.Float64()-0.5)*jitter,
		Size:  f.rng.Float64()*3 + 2 + amp/80,
		Speed: 0.5 + amp/300,
		Index: idx,
		Alpha: SpawnAlpha(amp),
		Hue:   f.rng.Float64()*30 + 30,
	}

	slot := f.free[len(f.free)-1]
	f.free = f.free[:len(f.free)-1]
	f.slots[slot] = p
	f.active[slot] = true
	f.live++
	return true
}

// SpawnAlpha is the starting alpha for a particle spawned at amp.
func SpawnAlpha(amp float64) float64 {
	return min(1, max(0.5, amp/150))
}

// Advance eases every particle toward the path point after its current one,
// fades it, and frees the slots of particles that faded out.
func (f *Field) Advance(points []glyph.Point) {
	n := len(points)
	if n == 0 {
		return
	}
	for i := range f.slots {
		if !f.active[i] {
			continue
		}
		p := &f.slots[i]
		next := (p.Index + 1) % n
		target := points[next]
		p.X += (float64(target.X) - p.X) * p.Speed
		p.Y += (float64(target.Y) - p.Y) * p.Speed
		p.Alpha -= Decay
		if p.Alpha <= 0 {
			f.remove(i)
			continue
		}
		p.Index = next
	}
}

func (f *Field) remove(slot int) {
	f.active[slot] = false
	f.slots[slot] = Particle{}
	f.free = append(f.free, slot)
	f.live--
}

// Each calls fn for every live particle in slot order.
func (f *Field) Each(fn func(p *Particle)) {
	for i := range f.slots {
		if f.active[i] {
			fn(&f.slots[i])
		}
	}
}
