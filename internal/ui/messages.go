package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type cameraMsg time.Time

func cameraCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return cameraMsg(t)
	})
}
