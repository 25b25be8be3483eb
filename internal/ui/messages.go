package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/glyphbeat/internal/scene"
)

// frameInterval paces the frame loop at roughly the display refresh rate.
const frameInterval = 16 * time.Millisecond

// FPS is the frame rate the meter spring is tuned for.
const FPS = int(time.Second / frameInterval)

type frameMsg struct {
	token scene.Token
}

type tickMsg time.Time

type playbackEndedMsg struct {
	token scene.Token
}

func frameCmd(token scene.Token) tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{token: token}
	})
}

func tickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func checkDone(a Audio, token scene.Token) tea.Cmd {
	done := a.Done()
	return func() tea.Msg {
		<-done
		return playbackEndedMsg{token: token}
	}
}
