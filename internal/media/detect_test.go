package media

import (
	"strings"
	"testing"
)

func TestIsSupportedExtCaseInsensitive(t *testing.T) {
	for _, ext := range []string{".mp3", ".WAV", ".Flac", ".ogg"} {
		if !IsSupportedExt(ext) {
			t.Fatalf("expected %s to be supported", ext)
		}
	}
	if IsSupportedExt(".m4a") {
		t.Fatal("expected .m4a to be unsupported")
	}
}

func TestSupportedExtsListMatchesTable(t *testing.T) {
	list := SupportedExtsList()
	for ext := range audioExts {
		if !strings.Contains(list, ext) {
			t.Fatalf("expected supported ext list to include %s, got %q", ext, list)
		}
	}
}

func TestSniffMagicBytes(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want Format
	}{
		{"wav", []byte("RIFF\x24\x00\x00\x00WAVEfmt "), FormatWAV},
		{"flac", []byte("fLaC\x00\x00\x00\x22"), FormatFLAC},
		{"ogg", []byte("OggS\x00\x02"), FormatOGG},
		{"id3", []byte("ID3\x04\x00"), FormatMP3},
		{"sync", []byte{0xFF, 0xFB, 0x90, 0x64}, FormatMP3},
	}
	for _, tc := range cases {
		if got := Sniff(tc.data, "noext"); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestSniffMagicBeatsExtension(t *testing.T) {
	if got := Sniff([]byte("fLaC"), "mislabeled.mp3"); got != FormatFLAC {
		t.Fatalf("expected flac, got %v", got)
	}
}

func TestSniffFallsBackToExtension(t *testing.T) {
	if got := Sniff([]byte{0x00, 0x01}, "track.OGG"); got != FormatOGG {
		t.Fatalf("expected ogg from extension, got %v", got)
	}
	if got := Sniff([]byte("garbage"), "notes.txt"); got != FormatUnknown {
		t.Fatalf("expected unknown, got %v", got)
	}
}
