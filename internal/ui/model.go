package ui

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/glyphbeat/internal/glyph"
	"github.com/olivier-w/glyphbeat/internal/player"
	"github.com/olivier-w/glyphbeat/internal/scene"
	"github.com/olivier-w/glyphbeat/internal/term"
	"github.com/olivier-w/glyphbeat/internal/util"
)

// Audio is a playing track that also supplies spectrum samples.
type Audio interface {
	scene.Source
	Done() <-chan struct{}
	Restart()
	TogglePause()
	Paused() bool
	Position() time.Duration
	Duration() time.Duration
	Volume() float64
	AdjustVolume(delta float64)
	Close()
}

// chrome is the number of terminal rows used around the frame.
const chrome = 10

type playState uint8

const (
	statePlaying playState = iota
	stateIdle
)

// Model is the playback screen: the visualizer frame plus transport status.
type Model struct {
	audio    Audio
	metadata player.Metadata
	cfg      scene.Config
	rng      *rand.Rand
	driver   *scene.Driver
	token    scene.Token
	letter   rune

	renderer *term.Renderer
	frame    scene.Frame
	view     string
	meter    meter
	level    float64

	state      playState
	elapsed    time.Duration
	duration   time.Duration
	volume     float64
	paused     bool
	width      int
	height     int
	quitting   bool
	repeatMode RepeatMode
}

// New builds the first session for letter and returns the playback model.
// audio must already be playing.
func New(audio Audio, meta player.Metadata, cfg scene.Config, letter rune, mode term.ColorMode, rng *rand.Rand) (Model, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	m := Model{
		audio:    audio,
		metadata: meta,
		cfg:      cfg,
		rng:      rng,
		driver:   &scene.Driver{},
		letter:   letter,
		renderer: term.NewRenderer(mode),
		meter:    newMeter(FPS),
		duration: audio.Duration(),
		volume:   audio.Volume(),
	}
	s, err := scene.NewSession(cfg, letter, audio, rng)
	if err != nil {
		return Model{}, err
	}
	m.token = m.driver.Start(s)
	log.Printf("session %d started: letter %c, %d path points", m.token, letter, len(s.Mask().Points))
	return m, nil
}

// Close stops the frame loop and playback.
func (m Model) Close() {
	if m.driver != nil {
		m.driver.Stop()
	}
	if m.audio != nil {
		m.audio.Close()
	}
}

// Letter returns the letter being drawn.
func (m Model) Letter() rune { return m.letter }

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		frameCmd(m.token),
		tickCmd(),
		checkDone(m.audio, m.token),
		tea.SetWindowTitle(windowTitle(m.metadata.Title, m.letter, false)),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		if msg.token != m.token {
			return m, nil
		}
		frame, ok := m.driver.Tick(msg.token)
		if !ok {
			return m, nil
		}
		m.frame = frame
		m.level = m.meter.step(frame.Average / 255)
		m.renderFrame()
		return m, frameCmd(msg.token)

	case tickMsg:
		if m.state == statePlaying {
			m.elapsed = m.audio.Position()
		}
		m.volume = m.audio.Volume()
		m.paused = m.audio.Paused()
		return m, tickCmd()

	case playbackEndedMsg:
		if msg.token != m.token || m.state != statePlaying {
			return m, nil
		}
		if m.repeatMode == RepeatOne {
			return m.restart()
		}
		log.Printf("session %d ended", m.token)
		m.driver.Stop()
		m.state = stateIdle
		m.elapsed = m.duration
		return m, tea.SetWindowTitle("■ " + m.metadata.Title + " · glyphbeat")

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.renderFrame()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if isQuit(msg) {
		m.quitting = true
		m.Close()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	}
	switch msg.String() {
	case " ":
		if m.state != statePlaying {
			return m, nil
		}
		m.audio.TogglePause()
		m.paused = m.audio.Paused()
		return m, tea.SetWindowTitle(windowTitle(m.metadata.Title, m.letter, m.paused))
	case "]":
		m.letter = glyph.Next(m.letter)
		return m.restart()
	case "[":
		m.letter = glyph.Prev(m.letter)
		return m.restart()
	case "r":
		return m.restart()
	case "l":
		m.repeatMode = m.repeatMode.Next()
	case "+", "=", "up":
		m.audio.AdjustVolume(0.05)
		m.volume = m.audio.Volume()
	case "-", "down":
		m.audio.AdjustVolume(-0.05)
		m.volume = m.audio.Volume()
	}
	return m, nil
}

// restart supersedes the current session: the audio rewinds and a new mask
// and empty particle pool are built before the first frame of the new token.
func (m Model) restart() (tea.Model, tea.Cmd) {
	s, err := scene.NewSession(m.cfg, m.letter, m.audio, m.rng)
	if err != nil {
		// The config was validated when the first session started.
		log.Printf("restart failed: %v", err)
		return m, nil
	}
	m.audio.Restart()
	m.token = m.driver.Start(s)
	log.Printf("session %d started: letter %c, %d path points", m.token, m.letter, len(s.Mask().Points))

	m.state = statePlaying
	m.elapsed = 0
	m.paused = false
	m.meter.reset()
	return m, tea.Batch(
		frameCmd(m.token),
		checkDone(m.audio, m.token),
		tea.SetWindowTitle(windowTitle(m.metadata.Title, m.letter, false)),
	)
}

func (m *Model) renderFrame() {
	if m.frame.Image == nil {
		return
	}
	w, h := m.frameSize()
	m.view = m.renderer.Render(m.frame.Image, w, h)
}

func (m Model) frameSize() (int, int) {
	tw, th := m.width-4, m.height-chrome
	if m.width == 0 || m.height == 0 {
		tw, th = 80, 24
	}
	return term.Fit(max(tw, 8), max(th, 4), m.cfg.Width, m.cfg.Height)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	w := m.width
	if w < 30 {
		w = 50
	}

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(headerStyle.Render("glyphbeat"))
	b.WriteString("  ")
	b.WriteString(letterStyle.Render(string(m.letter)))
	b.WriteString("\n\n")

	if m.view != "" {
		b.WriteString(indent(m.view, "  "))
		b.WriteString("\n")
	}
	b.WriteString("\n  ")
	b.WriteString(titleStyle.Render(m.metadata.Title))
	if m.metadata.Artist != "" {
		b.WriteString("  ")
		b.WriteString(artistStyle.Render(m.metadata.Artist))
	}
	b.WriteString("\n  ")

	elapsed := util.FormatDuration(m.elapsed)
	total := util.FormatDuration(m.duration)
	barWidth := max(w-len(elapsed)-len(total)-6, 10)
	b.WriteString(fmt.Sprintf("%s %s %s",
		timeStyle.Render(elapsed),
		renderProgressBar(m.elapsed.Seconds(), m.duration.Seconds(), barWidth),
		timeStyle.Render(total)))
	b.WriteString("\n  ")

	left := m.statusText()
	right := renderVolumePercent(m.volume)
	levelWidth := 12
	gap := w - len([]rune(left)) - levelWidth - len(right) - 8
	b.WriteString(statusStyle.Render(left))
	b.WriteString(spaces(max(gap, 2)))
	b.WriteString(meterStyle.Render(renderLevel(m.level, levelWidth)))
	b.WriteString("  ")
	b.WriteString(statusStyle.Render(right))
	b.WriteString("\n\n  ")
	b.WriteString(helpStyle.Render(helpText(m.state == stateIdle)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) statusText() string {
	var s string
	switch {
	case m.state == stateIdle:
		s = "■  ended"
	case m.paused:
		s = "❚❚ paused"
	default:
		s = "▶  playing"
	}
	if m.cfg.Particles {
		s += fmt.Sprintf("  ✦ %d", m.frame.Particles)
	}
	if icon := m.repeatMode.Icon(); icon != "" {
		s += "  " + icon
	}
	return s
}

func windowTitle(title string, letter rune, paused bool) string {
	mark := "▶"
	if paused {
		mark = "⏸"
	}
	return fmt.Sprintf("%s %s [%c] · glyphbeat", mark, title, letter)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
