package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/glyphbeat/internal/glyph"
	"github.com/olivier-w/glyphbeat/internal/media"
)

// BrowserSelectedMsg is sent when a file and a letter have been chosen.
type BrowserSelectedMsg struct {
	Path   string
	Letter rune
}

// BrowserCancelledMsg is sent when the user leaves the browser.
type BrowserCancelledMsg struct{}

type fileItem struct {
	name string
	ext  string
}

func (i fileItem) Title() string       { return i.name }
func (i fileItem) Description() string { return i.ext }
func (i fileItem) FilterValue() string { return i.name }

// BrowserModel lists the audio files in the working directory and then asks
// for the letter to draw.
type BrowserModel struct {
	list       list.Model
	input      textinput.Model
	letterMode bool
	selected   string
	letter     rune
	warn       string
	err        error
}

// NewBrowser scans the current directory. letter prefills the letter prompt.
func NewBrowser(letter rune) BrowserModel {
	ti := textinput.New()
	ti.Placeholder = "A"
	ti.CharLimit = 1
	ti.Width = 3
	ti.Prompt = "letter › "

	entries, err := os.ReadDir(".")
	if err != nil {
		return BrowserModel{input: ti, letter: letter, err: fmt.Errorf("cannot read directory: %w", err)}
	}

	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !media.IsSupportedExt(ext) {
			continue
		}
		items = append(items, fileItem{
			name: strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			ext:  filepath.Ext(e.Name()),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].(fileItem).name) < strings.ToLower(items[j].(fileItem).name)
	})

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#C06000", Dark: "#FFB000"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#C06000", Dark: "#FFB000"})

	l := list.New(items, delegate, 80, 20)
	l.Title = "glyphbeat"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle
	l.SetStatusBarItemName("track", "tracks")

	return BrowserModel{list: l, input: ti, letter: letter}
}

// HasError reports whether the directory could not be read.
func (m BrowserModel) HasError() bool {
	return m.err != nil
}

// Error returns the initialization error, if any.
func (m BrowserModel) Error() error {
	return m.err
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.SetWindowTitle("glyphbeat")
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.letterMode {
		return m.updateLetterInput(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			item, ok := m.list.SelectedItem().(fileItem)
			if !ok {
				m.warn = "Please choose an audio file (" + media.SupportedExtsList() + ")."
				return m, nil
			}
			m.warn = ""
			m.selected = item.name + item.ext
			m.letterMode = true
			m.input.SetValue(string(m.letter))
			m.input.CursorEnd()
			focus := m.input.Focus()
			return m, tea.Batch(focus, tea.SetWindowTitle("glyphbeat · choose a letter"))
		case "q", "esc", "ctrl+c":
			return m, func() tea.Msg { return BrowserCancelledMsg{} }
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) updateLetterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			letter, err := glyph.ParseLetter(m.input.Value())
			if err != nil {
				m.warn = "Please choose a letter A-Z."
				return m, nil
			}
			m.warn = ""
			m.letter = letter
			path := m.selected
			return m, func() tea.Msg {
				return BrowserSelectedMsg{Path: path, Letter: letter}
			}
		case "esc":
			m.letterMode = false
			m.warn = ""
			m.input.Blur()
			return m, tea.SetWindowTitle("glyphbeat")
		case "ctrl+c":
			return m, func() tea.Msg { return BrowserCancelledMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m BrowserModel) View() string {
	var warn string
	if m.warn != "" {
		warn = "  " + warnStyle.Render(m.warn) + "\n"
	}
	if m.letterMode {
		s := "\n"
		s += "  " + headerStyle.Render("glyphbeat") + "\n"
		s += "\n"
		s += "  " + titleStyle.Render(m.selected) + "\n"
		s += "\n"
		s += "  " + m.input.View() + "\n"
		s += warn
		s += "\n"
		s += "  " + helpStyle.Render("enter play  esc back  ctrl+c quit") + "\n"
		return s
	}
	if len(m.list.Items()) == 0 && warn == "" {
		warn = "  " + warnStyle.Render("No audio files here ("+media.SupportedExtsList()+").") + "\n"
	}
	return warn + m.list.View()
}
