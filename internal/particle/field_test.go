package particle

import (
	"math"
	"math/rand"
	"testing"

	"github.com/olivier-w/glyphbeat/internal/glyph"
)

func testPoints(n int) []glyph.Point {
	pts := make([]glyph.Point, n)
	for i := range pts {
		pts[i] = glyph.Point{X: i * 2, Y: 10}
	}
	return pts
}

func newTestField(capacity int) *Field {
	return New(capacity, rand.New(rand.NewSource(42)))
}

func TestSpawnAlphaClamped(t *testing.T) {
	for a := 0; a <= 255; a++ {
		got := SpawnAlpha(float64(a))
		if got < 0.5 || got > 1 {
			t.Fatalf("SpawnAlpha(%d) = %v, want within [0.5,1]", a, got)
		}
	}
	if got := SpawnAlpha(0); got != 0.5 {
		t.Fatalf("SpawnAlpha(0) = %v, want 0.5", got)
	}
	if got := SpawnAlpha(255); got != 1 {
		t.Fatalf("SpawnAlpha(255) = %v, want 1", got)
	}
	if got := SpawnAlpha(120); got != 0.8 {
		t.Fatalf("SpawnAlpha(120) = %v, want 0.8", got)
	}
}

func TestSpawnedParticleAttributes(t *testing.T) {
	f := newTestField(10)
	pts := testPoints(50)
	if !f.Spawn(pts, 150) {
		t.Fatal("Spawn() = false, want true")
	}
	var p Particle
	f.Each(func(q *Particle) { p = *q })

	anchor := pts[p.Index]
	jitter := 5 + 150.0/50
	if d := p.X - float64(anchor.X); d < -jitter/2 || d > jitter/2 {
		t.Fatalf("x offset = %v, want within ±%v", d, jitter/2)
	}
	if p.Size < 2+150.0/80 || p.Size > 5+150.0/80 {
		t.Fatalf("size = %v", p.Size)
	}
	if p.Speed != 1 {
		t.Fatalf("speed = %v, want 1", p.Speed)
	}
	if p.Alpha != 1 {
		t.Fatalf("alpha = %v, want 1", p.Alpha)
	}
	if p.Hue < 30 || p.Hue >= 60 {
		t.Fatalf("hue = %v, want [30,60)", p.Hue)
	}
}

func TestPoolNeverExceedsCapacity(t *testing.T) {
	f := newTestField(400)
	pts := testPoints(100)
	for frame := 0; frame < 500; frame++ {
		for i := 0; i < 3; i++ {
			f.Spawn(pts, 255)
		}
		f.Advance(pts)
		if f.Len() > len(f.slots) {
			t.Fatalf("frame %d: Len() = %d > capacity %d", frame, f.Len(), len(f.slots))
		}
	}
	if f.Len() != 400 {
		t.Fatalf("Len() = %d, want pool saturated at 400", f.Len())
	}
	if f.Spawn(pts, 255) {
		t.Fatal("Spawn() on a full pool = true")
	}
}

func TestAlphaNonIncreasingUntilRemoval(t *testing.T) {
	f := newTestField(50)
	pts := testPoints(30)
	prev := map[*Particle]float64{}
	for frame := 0; frame < 300; frame++ {
		if frame < 20 {
			f.Spawn(pts, 90)
		}
		f.Advance(pts)
		seen := map[*Particle]float64{}
		f.Each(func(p *Particle) {
			if p.Alpha <= 0 {
				t.Fatalf("frame %d: live particle with alpha %v", frame, p.Alpha)
			}
			if a, ok := prev[p]; ok && p.Alpha > a {
				t.Fatalf("frame %d: alpha rose from %v to %v", frame, a, p.Alpha)
			}
			seen[p] = p.Alpha
		})
		prev = seen
	}
	if f.Len() != 0 {
		t.Fatalf("Len() = %d after fade out, want 0", f.Len())
	}
}

func TestParticleRemovedAfterFade(t *testing.T) {
	f := newTestField(4)
	pts := testPoints(8)
	f.Spawn(pts, 0)
	for i := 0; i < 100; i++ {
		f.Advance(pts)
	}
	if f.Len() != 1 {
		t.Fatalf("Len() = %d after 100 frames, want 1", f.Len())
	}
	for i := 0; i < 100; i++ {
		f.Advance(pts)
	}
	if f.Len() != 0 {
		t.Fatalf("Len() = %d after 200 frames, want 0", f.Len())
	}
	// The freed slot is reused.
	if !f.Spawn(pts, 0) || f.Len() != 1 {
		t.Fatalf("respawn failed, Len() = %d", f.Len())
	}
}

func TestAdvanceFollowsPath(t *testing.T) {
	f := newTestField(1)
	pts := []glyph.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}
	f.Spawn(pts, 150) // speed 1 snaps onto the next waypoint
	var start int
	f.Each(func(p *Particle) { start = p.Index })

	f.Advance(pts)
	f.Each(func(p *Particle) {
		want := pts[(start+1)%len(pts)]
		if p.Index != (start+1)%len(pts) {
			t.Fatalf("Index = %d, want %d", p.Index, (start+1)%len(pts))
		}
		if math.Abs(p.X-float64(want.X)) > 1e-9 || math.Abs(p.Y-float64(want.Y)) > 1e-9 {
			t.Fatalf("position = (%v,%v), want %v", p.X, p.Y, want)
		}
	})
}

func TestEmptyPointsIsNoop(t *testing.T) {
	f := newTestField(10)
	for i := 0; i < 10; i++ {
		if f.Spawn(nil, 200) {
			t.Fatal("Spawn(nil) = true")
		}
		f.Advance(nil)
	}
	if f.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", f.Len())
	}
}

func TestResetEmptiesPool(t *testing.T) {
	f := newTestField(10)
	pts := testPoints(10)
	for i := 0; i < 10; i++ {
		f.Spawn(pts, 100)
	}
	f.Reset()
	if f.Len() != 0 {
		t.Fatalf("Len() = %d after Reset, want 0", f.Len())
	}
	n := 0
	f.Each(func(*Particle) { n++ })
	if n != 0 {
		t.Fatalf("Each visited %d particles after Reset", n)
	}
}
