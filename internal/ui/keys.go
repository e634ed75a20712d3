package ui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func helpText(gotoMode bool) string {
	if gotoMode {
		return "enter jump  esc cancel"
	}
	return "←/→ step  H/L ×10  0/$ ends  g goto  space play  r loop  q quit"
}
