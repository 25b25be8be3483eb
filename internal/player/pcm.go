package player

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/olivier-w/glyphbeat/internal/media"
)

// countingReader wraps an io.ReadSeeker and tracks the read position.
type countingReader struct {
	reader io.ReadSeeker
	pos    int64
	onRead func(pos int64)
	mu     sync.Mutex
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	cr.mu.Lock()
	cr.pos += int64(n)
	pos := cr.pos
	cr.mu.Unlock()
	if cr.onRead != nil {
		cr.onRead(pos)
	}
	return n, err
}

func (cr *countingReader) Seek(offset int64, whence int) (int64, error) {
	pos, err := cr.reader.Seek(offset, whence)
	if err != nil {
		return cr.Pos(), err
	}
	cr.SetPos(pos)
	return pos, nil
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}

func (cr *countingReader) SetPos(pos int64) {
	cr.mu.Lock()
	cr.pos = pos
	cr.mu.Unlock()
}

// PCM is a fully decoded track: 48 kHz stereo signed 16-bit little-endian.
type PCM struct {
	data []byte
}

// Decode detects the container of data (name is used as an extension hint),
// decodes it completely and normalizes it for playback. progress, if non-nil,
// receives values in [0,1] as the input is consumed.
func Decode(data []byte, name string, progress func(float64)) (*PCM, error) {
	format := media.Sniff(data, name)
	if format == media.FormatUnknown {
		return nil, fmt.Errorf("%w (supported: %s)", ErrUnsupportedFormat, media.SupportedExtsList())
	}

	total := int64(len(data))
	cr := &countingReader{reader: bytes.NewReader(data)}
	if progress != nil && total > 0 {
		cr.onRead = func(pos int64) {
			// Leave headroom for normalization.
			progress(0.95 * float64(pos) / float64(total))
		}
	}

	src, err := decodeSource(format, cr)
	if err != nil {
		return nil, err
	}
	out, err := normalize(src)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", format, err)
	}
	if progress != nil {
		progress(1)
	}
	return &PCM{data: out}, nil
}

// NewPCM wraps already normalized 48 kHz stereo s16le bytes.
func NewPCM(data []byte) *PCM {
	return &PCM{data: data[:len(data)-len(data)%playbackFrameSize]}
}

// Len returns the size of the buffer in bytes.
func (p *PCM) Len() int64 { return int64(len(p.data)) }

// Frames returns the number of stereo sample frames.
func (p *PCM) Frames() int64 { return int64(len(p.data)) / playbackFrameSize }

// Duration returns the playing time of the buffer.
func (p *PCM) Duration() time.Duration {
	return framesToDuration(p.Frames())
}

// MonoWindow fills dst with the mono mixdown of the len(dst) frames ending
// just before frame end. Positions before the start of the track are zero.
// It returns the number of frames copied from the track.
func (p *PCM) MonoWindow(end int64, dst []float64) int {
	if end > p.Frames() {
		end = p.Frames()
	}
	if end < 0 {
		end = 0
	}
	start := end - int64(len(dst))

	copied := 0
	for i := range dst {
		frame := start + int64(i)
		if frame < 0 {
			dst[i] = 0
			continue
		}
		off := frame * playbackFrameSize
		l := int16(binary.LittleEndian.Uint16(p.data[off:]))
		r := int16(binary.LittleEndian.Uint16(p.data[off+2:]))
		dst[i] = (float64(l) + float64(r)) / 65536.0
		copied++
	}
	return copied
}

func framesToDuration(frames int64) time.Duration {
	return time.Duration(float64(frames) / playbackSampleRate * float64(time.Second))
}
