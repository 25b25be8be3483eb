package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/glyphbeat/internal/scene"
	"github.com/olivier-w/glyphbeat/internal/spectrum"
	"github.com/olivier-w/glyphbeat/internal/ui"
)

// openSelectionCmd decodes path, starts playback and builds the playback
// model off the event loop. Progress in [0,1] is offered on statusCh.
func openSelectionCmd(path string, letter rune, opts options, statusCh chan float64) tea.Cmd {
	return func() tea.Msg {
		defer close(statusCh)
		model, err := buildPlaybackModel(path, letter, opts, func(p float64) {
			select {
			case statusCh <- p:
			default:
			}
		})
		if err != nil {
			log.Printf("open %s: %v", path, err)
		}
		return startupResolvedMsg{model: model, err: err}
	}
}

func buildPlaybackModel(path string, letter rune, opts options, progress func(float64)) (ui.Model, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ui.Model{}, err
	}
	if info.IsDir() {
		return ui.Model{}, fmt.Errorf("%s is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ui.Model{}, err
	}

	h, err := spectrum.Start(data, filepath.Base(path), analyserConfig(opts.scene), progress)
	if err != nil {
		return ui.Model{}, err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	model, err := ui.New(h, h.Metadata, opts.scene, letter, opts.color, rng)
	if err != nil {
		h.Close()
		return ui.Model{}, fmt.Errorf("starting session: %w", err)
	}
	return model, nil
}

// analyserConfig sizes the analyser for cfg. Smoothing and the decibel range
// keep their defaults.
func analyserConfig(cfg scene.Config) spectrum.Config {
	ac := spectrum.DefaultConfig()
	ac.FFTSize = cfg.FFTSize
	return ac
}
