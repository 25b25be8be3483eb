package ui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func helpText(idle bool) string {
	s := "space pause  [/] letter  +/- volume  l loop"
	if idle {
		s += "  r replay"
	} else {
		s += "  r restart"
	}
	s += "  q quit"
	return s
}
