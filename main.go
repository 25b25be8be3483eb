package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/glyphbeat/internal/glyph"
	"github.com/olivier-w/glyphbeat/internal/scene"
	"github.com/olivier-w/glyphbeat/internal/term"
	"github.com/olivier-w/glyphbeat/internal/ui"
)

// options is the validated command line.
type options struct {
	path   string
	letter rune
	scene  scene.Config
	color  term.ColorMode
}

func main() {
	letterFlag := flag.String("letter", "A", "letter to draw (A-Z)")
	reduced := flag.Bool("reduced", false, "512-point spectrum without particles")
	width := flag.Int("width", 0, "canvas width in pixels (default 160)")
	height := flag.Int("height", 0, "canvas height in pixels (default 100)")
	colorFlag := flag.String("color", "auto", "color output: auto, truecolor, 256, 16 or none")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "glyphbeat - audio reactive letter visualizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: glyphbeat [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Without a file, a browser for the current directory opens.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys: space pause  [/] letter  +/- volume  l loop  r restart  q quit\n")
	}
	flag.Parse()

	opts, err := parseOptions(*letterFlag, *reduced, *width, *height, *colorFlag, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	if path := os.Getenv("GLYPHBEAT_DEBUG"); path != "" {
		f, err := tea.LogToFile(path, "glyphbeat")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	program := tea.NewProgram(newStartupModel(opts), tea.WithAltScreen())
	final, err := program.Run()
	if m, ok := final.(ui.Model); ok {
		m.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseOptions(letter string, reduced bool, width, height int, color string, args []string) (options, error) {
	var opts options

	r, err := glyph.ParseLetter(letter)
	if err != nil {
		return opts, err
	}
	opts.letter = r

	opts.scene = scene.DefaultConfig()
	if reduced {
		opts.scene = scene.ReducedConfig()
	}
	if width > 0 {
		opts.scene.Width = width
	}
	if height > 0 {
		opts.scene.Height = height
	}
	if err := opts.scene.Validate(); err != nil {
		return opts, err
	}

	if opts.color, err = term.ParseColorMode(color); err != nil {
		return opts, err
	}

	switch len(args) {
	case 0:
	case 1:
		opts.path = args[0]
	default:
		return opts, fmt.Errorf("expected at most one file, got %d", len(args))
	}
	return opts, nil
}
