package term

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
)

// asciiRamp runs from darkest to brightest.
const asciiRamp = " .:-=+*#%@"

// ColorMode is the escape sequence family used for output.
type ColorMode uint8

const (
	ColorAuto ColorMode = iota // detect from the environment
	ColorNone                  // brightness ramp, no escapes
	ColorANSI16
	ColorANSI256
	ColorTrue
)

func (m ColorMode) String() string {
	switch m {
	case ColorNone:
		return "none"
	case ColorANSI16:
		return "16"
	case ColorANSI256:
		return "256"
	case ColorTrue:
		return "truecolor"
	default:
		return "auto"
	}
}

// ParseColorMode accepts auto, truecolor, 256, 16 or none.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "none", "off", "ascii":
		return ColorNone, nil
	case "16":
		return ColorANSI16, nil
	case "256":
		return ColorANSI256, nil
	case "truecolor", "24bit":
		return ColorTrue, nil
	}
	return ColorAuto, fmt.Errorf("unknown color mode %q (want auto, truecolor, 256, 16 or none)", s)
}

var (
	detectOnce sync.Once
	detected   ColorMode
)

// DetectColorMode inspects NO_COLOR, COLORTERM and TERM once per process.
func DetectColorMode() ColorMode {
	detectOnce.Do(func() {
		detected = colorModeFromEnv(os.LookupEnv)
	})
	return detected
}

func colorModeFromEnv(lookup func(string) (string, bool)) ColorMode {
	if _, ok := lookup("NO_COLOR"); ok {
		return ColorNone
	}
	t, _ := lookup("TERM")
	ct, _ := lookup("COLORTERM")
	t = strings.ToLower(t)
	ct = strings.ToLower(ct)
	switch {
	case strings.Contains(ct, "truecolor"), strings.Contains(ct, "24bit"):
		return ColorTrue
	case strings.Contains(t, "256color"):
		return ColorANSI256
	case t == "dumb":
		return ColorNone
	case t == "" && runtime.GOOS == "windows":
		return ColorANSI16
	case t == "":
		return ColorNone
	default:
		return ColorANSI16
	}
}

// brightnessChar maps a 0-255 luminance onto asciiRamp.
func brightnessChar(lum uint8) byte {
	return asciiRamp[int(lum)*(len(asciiRamp)-1)/255]
}

// luminance is ITU-R BT.601 in integer math.
func luminance(r, g, b uint8) uint8 {
	return uint8((299*int(r) + 587*int(g) + 114*int(b)) / 1000)
}

const ansiReset = "\x1b[0m"

// colorSeq returns the escape selecting rgb as foreground, or background when
// bg is set. It is empty in ColorNone.
func colorSeq(mode ColorMode, bg bool, r, g, b uint8) string {
	layer := 38
	if bg {
		layer = 48
	}
	switch mode {
	case ColorTrue:
		return fmt.Sprintf("\x1b[%d;2;%d;%d;%dm", layer, r, g, b)
	case ColorANSI256:
		return fmt.Sprintf("\x1b[%d;5;%dm", layer, cube256(r, g, b))
	case ColorANSI16:
		base := 30
		if bg {
			base = 40
		}
		i := nearest16(r, g, b)
		if i >= 8 {
			// bright variants live at 90/100
			return fmt.Sprintf("\x1b[%dm", base+60+i-8)
		}
		return fmt.Sprintf("\x1b[%dm", base+i)
	default:
		return ""
	}
}

// cube256 maps rgb into the 6x6x6 color cube of the 256-color palette.
func cube256(r, g, b uint8) int {
	ri := int(r) * 5 / 255
	gi := int(g) * 5 / 255
	bi := int(b) * 5 / 255
	return 16 + 36*ri + 6*gi + bi
}

func nearest16(r, g, b uint8) int {
	best := 0
	bestDist := 1<<31 - 1
	for i, c := range ansi16Palette {
		dr := int(r) - int(c[0])
		dg := int(g) - int(c[1])
		db := int(b) - int(c[2])
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

var ansi16Palette = [16][3]uint8{
	{0, 0, 0},
	{205, 49, 49},
	{13, 188, 121},
	{229, 229, 16},
	{36, 114, 200},
	{188, 63, 188},
	{17, 168, 205},
	{229, 229, 229},
	{102, 102, 102},
	{241, 76, 76},
	{35, 209, 139},
	{245, 245, 67},
	{59, 142, 234},
	{214, 112, 214},
	{41, 184, 219},
	{255, 255, 255},
}
