package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
	"github.com/olivier-w/glyphbeat/internal/media"
)

var (
	// ErrUnsupportedFormat is returned when the container cannot be identified.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrEmptyAudio is returned when a stream decodes to zero sample frames.
	ErrEmptyAudio = errors.New("audio contains no samples")
)

// source holds interleaved 16-bit samples in the decoder's native rate and layout.
type source struct {
	samples    []int16
	sampleRate int
	channels   int
}

func (s source) frameCount() int64 {
	if s.channels <= 0 {
		return 0
	}
	return int64(len(s.samples) / s.channels)
}

// frame returns the left/right pair for frame i. Mono is duplicated, quad and
// 5.1 are folded down with the usual speaker weights, and any other layout
// keeps its first two channels.
func (s source) frame(i int64) (int16, int16) {
	off := int(i) * s.channels
	f := s.samples[off : off+s.channels]
	switch s.channels {
	case 1:
		return f[0], f[0]
	case 4:
		// L R SL SR
		return mix16(0.5*(float64(f[0])+float64(f[2]))),
			mix16(0.5*(float64(f[1])+float64(f[3])))
	case 6:
		// L R C LFE SL SR
		c := float64(f[2])
		return mix16(float64(f[0]) + math.Sqrt2/2*(c+float64(f[4]))),
			mix16(float64(f[1]) + math.Sqrt2/2*(c+float64(f[5])))
	default:
		return f[0], f[1]
	}
}

func mix16(v float64) int16 {
	return int16(min(max(math.Round(v), math.MinInt16), math.MaxInt16))
}

// decodeSource runs the format-specific decoder over r to completion.
func decodeSource(format media.Format, r io.ReadSeeker) (source, error) {
	switch format {
	case media.FormatMP3:
		return decodeMP3(r)
	case media.FormatWAV:
		return decodeWAV(r)
	case media.FormatFLAC:
		return decodeFLAC(r)
	case media.FormatOGG:
		return decodeOGG(r)
	default:
		return source{}, ErrUnsupportedFormat
	}
}

// --- MP3 decoder ---

func decodeMP3(r io.Reader) (source, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return source{}, fmt.Errorf("decoding MP3: %w", err)
	}

	// go-mp3 always yields 16-bit stereo.
	raw, err := io.ReadAll(dec)
	if err != nil {
		return source{}, fmt.Errorf("decoding MP3: %w", err)
	}
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return source{samples: samples, sampleRate: dec.SampleRate(), channels: 2}, nil
}

// --- WAV decoder ---

func decodeWAV(r io.ReadSeeker) (source, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return source{}, fmt.Errorf("invalid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return source{}, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		switch bitDepth {
		case 8:
			// 8-bit WAV is unsigned
			samples[i] = clampInt16((v - 128) << 8)
		default:
			samples[i] = shiftToInt16(v, bitDepth)
		}
	}
	return source{
		samples:    samples,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
	}, nil
}

// --- FLAC decoder ---

func decodeFLAC(r io.Reader) (source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return source{}, fmt.Errorf("decoding FLAC: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	bps := int(info.BitsPerSample)
	samples := make([]int16, 0, int(info.NSamples)*channels)

	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return source{}, fmt.Errorf("decoding FLAC frame: %w", err)
		}

		nSamples := frame.Subframes[0].NSamples
		for i := 0; i < nSamples; i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, shiftToInt16(int(frame.Subframes[ch].Samples[i]), bps))
			}
		}
	}

	return source{samples: samples, sampleRate: int(info.SampleRate), channels: channels}, nil
}

// --- OGG Vorbis decoder ---

func decodeOGG(r io.Reader) (source, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return source{}, fmt.Errorf("decoding OGG: %w", err)
	}

	channels := reader.Channels()
	samples := make([]int16, 0, int(reader.Length())*channels)
	buf := make([]float32, 4096*channels)
	for {
		n, err := reader.Read(buf)
		for _, s := range buf[:n] {
			if s > 1.0 {
				s = 1.0
			} else if s < -1.0 {
				s = -1.0
			}
			samples = append(samples, int16(s*32767))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return source{}, fmt.Errorf("decoding OGG: %w", err)
		}
		if n == 0 {
			break
		}
	}

	return source{samples: samples, sampleRate: reader.SampleRate(), channels: channels}, nil
}

// shiftToInt16 rescales a signed sample of the given bit depth to 16 bits.
func shiftToInt16(sample, bitDepth int) int16 {
	switch {
	case bitDepth > 16:
		sample >>= (bitDepth - 16)
	case bitDepth > 0 && bitDepth < 16:
		sample <<= (16 - bitDepth)
	}
	return clampInt16(sample)
}

func clampInt16(sample int) int16 {
	if sample > 32767 {
		return 32767
	}
	if sample < -32768 {
		return -32768
	}
	return int16(sample)
}
