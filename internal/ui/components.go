package ui

import (
	"fmt"
	"strings"
)

func renderProgressBar(elapsed, total float64, width int) string {
	if width < 10 {
		width = 10
	}
	barWidth := width - 2

	var ratio float64
	if total > 0 {
		ratio = elapsed / total
	}
	ratio = min(max(ratio, 0), 1)

	filled := int(ratio * float64(barWidth))
	return strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)
}

func renderVolumePercent(vol float64) string {
	return fmt.Sprintf("vol %d%%", int(vol*100+0.5))
}

// renderLevel draws a 0..1 level as a row of eighth blocks.
func renderLevel(level float64, width int) string {
	if width <= 0 {
		return ""
	}
	level = min(max(level, 0), 1)
	eighths := int(level * float64(width*8))
	full := eighths / 8
	var b strings.Builder
	b.WriteString(strings.Repeat("█", full))
	if rem := eighths % 8; rem > 0 && full < width {
		b.WriteRune([]rune(" ▏▎▍▌▋▊▉")[rem])
		full++
	}
	b.WriteString(strings.Repeat(" ", width-full))
	return b.String()
}

func spaces(n int) string {
	return strings.Repeat(" ", max(n, 0))
}
