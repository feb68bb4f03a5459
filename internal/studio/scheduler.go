package studio

import (
	"sync"
	"time"

	"mell-studio/internal/selection"
)

// DefaultDebounce is one display frame at 60 Hz.
const DefaultDebounce = 16 * time.Millisecond

// Scheduler collapses bursts of state changes into a single call with the
// latest state. A new Schedule replaces the pending one; work never queues.
type Scheduler struct {
	delay time.Duration
	fn    func(selection.State)

	mu      sync.Mutex
	timer   *time.Timer
	latest  selection.State
	pending bool
	closed  bool

	run sync.Mutex // serializes fn
}

// NewScheduler calls fn delay after the last Schedule.
func NewScheduler(delay time.Duration, fn func(selection.State)) *Scheduler {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Scheduler{delay: delay, fn: fn}
}

// Schedule arms a call with st, cancelling any pending one.
func (s *Scheduler) Schedule(st selection.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.latest = st
	s.pending = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.fire)
}

func (s *Scheduler) take() (selection.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.pending || s.closed {
		return selection.State{}, false
	}
	s.pending = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	return s.latest, true
}

func (s *Scheduler) fire() {
	s.run.Lock()
	defer s.run.Unlock()
	if st, ok := s.take(); ok {
		s.fn(st)
	}
}

// Flush runs pending work now, on the calling goroutine.
func (s *Scheduler) Flush() {
	s.fire()
}

// Pending reports whether a call is armed.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Close drops pending work and ignores later Schedule calls. A call already
// running finishes first.
func (s *Scheduler) Close() {
	s.run.Lock()
	defer s.run.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.pending = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
