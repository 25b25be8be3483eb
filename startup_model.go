package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/glyphbeat/internal/ui"
)

type startupPhase uint8

const (
	phaseBrowse startupPhase = iota
	phaseDecoding
)

type startupResolvedMsg struct {
	model ui.Model
	err   error
}

type startupDecodeStatusMsg float64

type startupModel struct {
	opts      options
	browser   ui.BrowserModel
	phase     startupPhase
	path      string
	letter    rune
	errMsg    string
	width     int
	height    int
	spinner   spinner.Model
	progress  progress.Model
	percent   float64
	statusCh  chan float64
	hasStatus bool
}

func newStartupModel(opts options) startupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	p := progress.New(
		progress.WithScaledGradient("#FFB000", "#FF5F1F"),
		progress.WithoutPercentage(),
	)

	m := startupModel{
		opts:     opts,
		browser:  ui.NewBrowser(opts.letter),
		phase:    phaseBrowse,
		letter:   opts.letter,
		spinner:  s,
		progress: p,
	}
	if opts.path != "" {
		m = m.beginDecode(opts.path, opts.letter)
	}
	return m
}

func (m startupModel) Init() tea.Cmd {
	if m.phase == phaseDecoding {
		return tea.Batch(
			m.spinner.Tick,
			m.waitForStatus(),
			openSelectionCmd(m.path, m.letter, m.opts, m.statusCh),
		)
	}
	return tea.Batch(m.browser.Init(), m.spinner.Tick)
}

// beginDecode switches to the decoding phase. The caller schedules the open
// command with the returned model's channel.
func (m startupModel) beginDecode(path string, letter rune) startupModel {
	m.phase = phaseDecoding
	m.path = path
	m.letter = letter
	m.errMsg = ""
	m.hasStatus = false
	m.percent = 0
	m.statusCh = make(chan float64, 16)
	return m
}

func (m startupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-8, 20), 60)
		if m.phase == phaseBrowse {
			return m.updateBrowser(msg)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.phase == phaseDecoding {
			return m, cmd
		}
		return m, nil

	case ui.BrowserCancelledMsg:
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case ui.BrowserSelectedMsg:
		m = m.beginDecode(msg.Path, msg.Letter)
		return m, tea.Batch(
			m.spinner.Tick,
			m.waitForStatus(),
			openSelectionCmd(m.path, m.letter, m.opts, m.statusCh),
		)

	case startupDecodeStatusMsg:
		m.hasStatus = true
		m.percent = float64(msg)
		return m, m.waitForStatus()

	case startupResolvedMsg:
		if msg.err != nil {
			m.phase = phaseBrowse
			m.errMsg = "Could not play " + m.path + ": " + msg.err.Error()
			m.hasStatus = false
			m.statusCh = nil
			return m, nil
		}

		cmds := []tea.Cmd{msg.model.Init()}
		if m.width > 0 || m.height > 0 {
			w, h := m.width, m.height
			cmds = append(cmds, func() tea.Msg {
				return tea.WindowSizeMsg{Width: w, Height: h}
			})
		}
		return msg.model, tea.Batch(cmds...)

	case tea.KeyMsg:
		if m.phase == phaseDecoding && startupIsQuit(msg) {
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
	}

	if m.phase == phaseBrowse {
		return m.updateBrowser(msg)
	}
	return m, nil
}

func (m startupModel) updateBrowser(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.browser.Update(msg)
	if browser, ok := model.(ui.BrowserModel); ok {
		m.browser = browser
	}
	return m, cmd
}

func (m startupModel) waitForStatus() tea.Cmd {
	if m.statusCh == nil {
		return nil
	}
	statusCh := m.statusCh
	return func() tea.Msg {
		p, ok := <-statusCh
		if !ok {
			return nil
		}
		return startupDecodeStatusMsg(p)
	}
}

func (m startupModel) View() string {
	if m.phase == phaseBrowse {
		if m.browser.HasError() {
			return "\n  glyphbeat\n\n  " + m.browser.Error().Error() + "\n"
		}
		if m.errMsg == "" {
			return m.browser.View()
		}
		return "\n  glyphbeat\n\n  " + startupErrorStyle.Render(m.errMsg) + "\n\n" + indentBlock(m.browser.View(), "  ")
	}
	return m.renderDecodingView()
}

func (m startupModel) renderDecodingView() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(startupHeaderStyle.Render("glyphbeat"))
	b.WriteString("\n\n  ")
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(startupStatusStyle.Render(fmt.Sprintf("Decoding %s...", m.path)))
	b.WriteString("\n")
	if m.hasStatus {
		b.WriteString("  ")
		b.WriteString(m.progress.ViewAs(m.percent))
		b.WriteString(fmt.Sprintf("  %.0f%%\n", m.percent*100))
	}
	b.WriteString("\n  ")
	b.WriteString(startupHelpStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

func indentBlock(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func startupIsQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

var (
	startupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"})
	startupStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
	startupHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
	startupErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#A00000", Dark: "#FF8080"})
)
