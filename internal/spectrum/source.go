package spectrum

import (
	"github.com/olivier-w/glyphbeat/internal/player"
)

// Handle is a live playback session paired with its analyser.
type Handle struct {
	*player.Player
	*Analyser
	Metadata player.Metadata
}

// Start decodes data, begins playback and returns a live handle. name is used
// as a format hint and for the fallback title. A decode failure leaves
// nothing running.
func Start(data []byte, name string, cfg Config, progress func(float64)) (*Handle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pcm, err := player.Decode(data, name, progress)
	if err != nil {
		return nil, err
	}

	p, err := player.New(pcm)
	if err != nil {
		return nil, err
	}

	an, err := NewAnalyser(p, cfg)
	if err != nil {
		p.Close()
		return nil, err
	}

	return &Handle{
		Player:   p,
		Analyser: an,
		Metadata: player.ReadMetadata(data, name),
	}, nil
}

// Restart rewinds playback and clears the analyser history.
func (h *Handle) Restart() {
	h.Player.Restart()
	h.Analyser.Reset()
}
