package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// announcer holds a short-lived message, the terminal stand-in for a
// screen-reader live region.
type announcer struct {
	text  string
	seq   int
	delay time.Duration
}

type clearAnnouncementMsg struct{ seq int }

func (a *announcer) announce(text string) tea.Cmd {
	a.seq++
	a.text = text
	seq := a.seq
	return tea.Tick(a.delay, func(time.Time) tea.Msg { return clearAnnouncementMsg{seq: seq} })
}

// clear drops the message unless a newer announcement replaced it.
func (a *announcer) clear(msg clearAnnouncementMsg) {
	if msg.seq == a.seq {
		a.text = ""
	}
}
