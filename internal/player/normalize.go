package player

import (
	"encoding/binary"
	"fmt"
)

const (
	playbackSampleRate     = 48000
	playbackChannels       = 2
	playbackBytesPerSample = 2
	playbackFrameSize      = playbackChannels * playbackBytesPerSample
)

// normalize converts decoded source samples into a fixed 48 kHz stereo s16le
// buffer. Mono is upmixed, wider layouts are downmixed and other rates are
// resampled by linear interpolation.
func normalize(src source) ([]byte, error) {
	if src.sampleRate <= 0 {
		return nil, fmt.Errorf("unsupported sample rate: %d", src.sampleRate)
	}
	if src.channels < 1 {
		return nil, fmt.Errorf("unsupported channel count: %d", src.channels)
	}

	totalSrcFrames := src.frameCount()
	if totalSrcFrames == 0 {
		return nil, ErrEmptyAudio
	}

	if src.sampleRate == playbackSampleRate && src.channels == playbackChannels {
		out := make([]byte, totalSrcFrames*playbackFrameSize)
		for i, s := range src.samples[:totalSrcFrames*playbackChannels] {
			binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
		}
		return out, nil
	}

	srcRate := int64(src.sampleRate)
	totalOutFrames := totalSrcFrames * playbackSampleRate / srcRate
	if totalOutFrames == 0 {
		totalOutFrames = 1
	}

	out := make([]byte, totalOutFrames*playbackFrameSize)
	var srcPosNum int64
	for outFrame := int64(0); outFrame < totalOutFrames; outFrame++ {
		srcFrame := srcPosNum / playbackSampleRate
		if srcFrame >= totalSrcFrames {
			srcFrame = totalSrcFrames - 1
		}

		left0, right0 := src.frame(srcFrame)
		left1, right1 := left0, right0
		if srcFrame+1 < totalSrcFrames {
			left1, right1 = src.frame(srcFrame + 1)
		}

		fracNum := srcPosNum % playbackSampleRate
		off := outFrame * playbackFrameSize
		binary.LittleEndian.PutUint16(out[off:], uint16(interpolateSample(left0, left1, fracNum)))
		binary.LittleEndian.PutUint16(out[off+2:], uint16(interpolateSample(right0, right1, fracNum)))

		srcPosNum += srcRate
	}
	return out, nil
}

func interpolateSample(a, b int16, fracNum int64) int16 {
	if fracNum == 0 || a == b {
		return a
	}
	diff := int64(int32(b) - int32(a))
	return int16(int64(int32(a)) + (diff*fracNum+playbackSampleRate/2)/playbackSampleRate)
}
