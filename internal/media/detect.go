package media

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format identifies an audio container.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatMP3
	FormatWAV
	FormatFLAC
	FormatOGG
)

func (f Format) String() string {
	switch f {
	case FormatMP3:
		return "mp3"
	case FormatWAV:
		return "wav"
	case FormatFLAC:
		return "flac"
	case FormatOGG:
		return "ogg"
	default:
		return "unknown"
	}
}

var audioExts = map[string]Format{
	".mp3":  FormatMP3,
	".wav":  FormatWAV,
	".flac": FormatFLAC,
	".ogg":  FormatOGG,
}

// IsSupportedExt returns true if the extension is a supported audio format.
func IsSupportedExt(ext string) bool {
	_, ok := audioExts[strings.ToLower(ext)]
	return ok
}

// SupportedExtsList returns a human-readable list of supported audio formats.
func SupportedExtsList() string {
	return ".mp3, .wav, .flac, .ogg"
}

// Sniff detects the container from the leading bytes of data. When the bytes
// are inconclusive the extension of name is used instead.
func Sniff(data []byte, name string) Format {
	switch {
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return FormatWAV
	case bytes.HasPrefix(data, []byte("fLaC")):
		return FormatFLAC
	case bytes.HasPrefix(data, []byte("OggS")):
		return FormatOGG
	case bytes.HasPrefix(data, []byte("ID3")):
		return FormatMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		// MPEG audio frame sync
		return FormatMP3
	}
	if f, ok := audioExts[strings.ToLower(filepath.Ext(name))]; ok {
		return f
	}
	return FormatUnknown
}
