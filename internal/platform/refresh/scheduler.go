package refresh

import (
	"sync"
	"time"
)

// Scheduler repeatedly invokes a callback on a fixed delay. A nil delay
// pauses it entirely: no timer exists while paused. The callback observed on
// each tick is always the latest one supplied, while the underlying timer is
// only re-created when the delay itself changes, so updating the callback
// never resets the cadence.
type Scheduler struct {
	mu     sync.Mutex
	fn     func()
	delay  *time.Duration
	stopCh chan struct{}
}

// NewScheduler creates a paused scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Set installs the callback and (re)arms the timer. Passing a nil delay
// releases any running timer and leaves the scheduler paused. Passing the
// same delay again only swaps the callback.
func (s *Scheduler) Set(fn func(), delay *time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fn = fn

	if sameDelay(s.delay, delay) {
		return
	}

	s.releaseLocked()

	if delay == nil {
		return
	}

	d := *delay
	s.delay = &d
	stopCh := make(chan struct{})
	s.stopCh = stopCh

	go s.run(d, stopCh)
}

func (s *Scheduler) run(d time.Duration, stopCh chan struct{}) {
	ticker := time.NewTicker(d)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.mu.Lock()
			fn := s.fn
			s.mu.Unlock()
			if fn != nil {
				fn()
			}
		}
	}
}

// Stop releases the timer. Idempotent; always safe on teardown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
}

// Running reports whether a timer is currently armed
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopCh != nil
}

func (s *Scheduler) releaseLocked() {
	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
	s.delay = nil
}

func sameDelay(a, b *time.Duration) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
