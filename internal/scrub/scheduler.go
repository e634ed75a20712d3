package scrub

import (
	"sync"
	"time"
)

// Scheduler is a cooperative "next frame" primitive. The controller always
// cancels before scheduling, so a scheduler only ever needs to remember one
// pending callback.
type Scheduler interface {
	ScheduleNextTick(fn func())
	CancelPendingTick()
}

// ManualScheduler fires ticks only when told to. It stands in for the
// display refresh in tests and in headless tracing.
type ManualScheduler struct {
	pending    func()
	scheduled  int
	cancelled  int
	overlapped bool
}

// NewManualScheduler returns an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) ScheduleNextTick(fn func()) {
	if s.pending != nil {
		// the caller skipped a cancel
		s.overlapped = true
	}
	s.pending = fn
	s.scheduled++
}

func (s *ManualScheduler) CancelPendingTick() {
	if s.pending != nil {
		s.cancelled++
	}
	s.pending = nil
}

// Pending reports whether a tick is waiting to fire.
func (s *ManualScheduler) Pending() bool {
	return s.pending != nil
}

// Fire runs the pending tick, if any, and reports whether one ran.
func (s *ManualScheduler) Fire() bool {
	fn := s.pending
	if fn == nil {
		return false
	}
	s.pending = nil
	fn()
	return true
}

// Drain fires ticks until none is pending or limit ticks have run, and
// returns the number fired.
func (s *ManualScheduler) Drain(limit int) int {
	n := 0
	for n < limit && s.Fire() {
		n++
	}
	return n
}

// Scheduled returns how many ticks were ever scheduled.
func (s *ManualScheduler) Scheduled() int { return s.scheduled }

// Cancelled returns how many pending ticks were cancelled before firing.
func (s *ManualScheduler) Cancelled() int { return s.cancelled }

// Overlapped reports whether a tick was ever scheduled while another was
// still pending.
func (s *ManualScheduler) Overlapped() bool { return s.overlapped }

// TimerScheduler fires ticks on a fixed refresh interval using timers.
type TimerScheduler struct {
	interval time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewTimerScheduler returns a scheduler firing fps times per second.
func NewTimerScheduler(fps int) *TimerScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &TimerScheduler{interval: time.Second / time.Duration(fps)}
}

func (s *TimerScheduler) ScheduleNextTick(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.interval, fn)
}

func (s *TimerScheduler) CancelPendingTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
