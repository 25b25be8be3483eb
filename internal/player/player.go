package player

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player plays a decoded PCM buffer and exposes the audible analysis window.
type Player struct {
	pcm       *PCM
	counter   *countingReader
	otoCtx    *oto.Context
	otoPlayer *oto.Player
	volume    float64
	paused    bool
	done      chan struct{}
	mu        sync.Mutex
	closed    bool
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   playbackSampleRate,
			ChannelCount: playbackChannels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// New starts playing pcm from the beginning.
func New(pcm *PCM) (*Player, error) {
	ctx, err := initOto()
	if err != nil {
		return nil, err
	}

	p := &Player{
		pcm:     pcm,
		counter: &countingReader{reader: bytes.NewReader(pcm.data)},
		otoCtx:  ctx,
		volume:  0.8,
		done:    make(chan struct{}),
	}

	p.otoPlayer = ctx.NewPlayer(p.counter)
	p.otoPlayer.SetVolume(p.volume)
	p.otoPlayer.Play()

	go p.monitor(p.done)

	return p, nil
}

// monitor closes done once every byte has been handed to and drained by oto.
// It exits early when the player is closed or restarted.
func (p *Player) monitor(done chan struct{}) {
	for {
		p.mu.Lock()
		if p.closed || p.done != done {
			p.mu.Unlock()
			return
		}
		finished := !p.paused &&
			p.counter.Pos() >= p.pcm.Len() &&
			p.otoPlayer.BufferedSize() == 0
		if finished {
			releaseDone(done)
		}
		p.mu.Unlock()

		if finished {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// releaseDone closes done unless it is already closed. Callers hold p.mu.
func releaseDone(done chan struct{}) {
	if done == nil {
		return
	}
	select {
	case <-done:
	default:
		close(done)
	}
}

// Done returns a channel that closes when playback finishes.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Restart seeks to the beginning and resumes playback.
// The previous done channel is closed so its waiters return, then a fresh
// one is installed for the new run.
func (p *Player) Restart() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	p.otoPlayer.Pause()
	if _, err := p.counter.Seek(0, io.SeekStart); err != nil {
		p.counter.SetPos(0)
	}
	// A fresh oto player drops whatever the old one still had buffered.
	p.otoPlayer = p.otoCtx.NewPlayer(p.counter)
	p.otoPlayer.SetVolume(p.volume)

	releaseDone(p.done)
	p.done = make(chan struct{})
	p.paused = false
	p.otoPlayer.Play()

	go p.monitor(p.done)
}

// TogglePause toggles between play and pause.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	if p.paused {
		p.otoPlayer.Play()
		p.paused = false
	} else {
		p.otoPlayer.Pause()
		p.paused = true
	}
}

// Paused returns whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns the audible playback position.
func (p *Player) Position() time.Duration {
	return framesToDuration(p.audibleFrame())
}

// Duration returns the total duration of the track.
func (p *Player) Duration() time.Duration {
	if p.pcm == nil {
		return 0
	}
	return p.pcm.Duration()
}

// Window fills dst with the mono samples that end at the audible position.
func (p *Player) Window(dst []float64) int {
	if p.pcm == nil {
		clear(dst)
		return 0
	}
	return p.pcm.MonoWindow(p.audibleFrame(), dst)
}

func (p *Player) audibleFrame() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.counter == nil {
		return 0
	}
	var buffered int64
	if p.otoPlayer != nil {
		buffered = int64(p.otoPlayer.BufferedSize())
	}
	return audibleFrame(p.counter.Pos(), buffered)
}

// audibleFrame converts bytes handed to oto minus bytes oto still holds into
// a frame index.
func audibleFrame(read, buffered int64) int64 {
	pos := read - buffered
	if pos < 0 {
		pos = 0
	}
	return pos / playbackFrameSize
}

// Volume returns current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = clampVolume(v)
	if p.otoPlayer != nil {
		p.otoPlayer.SetVolume(p.volume)
	}
}

// AdjustVolume adjusts volume by delta.
func (p *Player) AdjustVolume(delta float64) {
	p.mu.Lock()
	v := p.volume + delta
	p.mu.Unlock()
	p.SetVolume(v) // SetVolume handles clamping
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Close stops playback. The player cannot be restarted afterwards.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
	releaseDone(p.done)
}
