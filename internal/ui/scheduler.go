package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// frameMsg is one display refresh. Frames carrying an old seq were
// cancelled after they were queued and are dropped.
type frameMsg struct {
	seq uint64
}

// teaScheduler turns controller ticks into bubbletea commands. It is only
// touched from Update, so it needs no locking.
type teaScheduler struct {
	interval time.Duration
	seq      uint64
	fn       func()
	pending  tea.Cmd
}

func newTeaScheduler(fps int) *teaScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &teaScheduler{interval: time.Second / time.Duration(fps)}
}

func (s *teaScheduler) ScheduleNextTick(fn func()) {
	s.seq++
	seq := s.seq
	s.fn = fn
	s.pending = tea.Tick(s.interval, func(time.Time) tea.Msg {
		return frameMsg{seq: seq}
	})
}

func (s *teaScheduler) CancelPendingTick() {
	s.seq++
	s.fn = nil
	s.pending = nil
}

// Cmd hands the queued tick to bubbletea, once.
func (s *teaScheduler) Cmd() tea.Cmd {
	cmd := s.pending
	s.pending = nil
	return cmd
}

// fire runs the tick msg refers to and reports whether it was current.
func (s *teaScheduler) fire(msg frameMsg) bool {
	if msg.seq != s.seq || s.fn == nil {
		return false
	}
	fn := s.fn
	s.fn = nil
	fn()
	return true
}
