package toast

import (
	"sync"
	"time"
)

// Scheduler arms one-shot expiry timers keyed by notification ID.
//
// onExpire is invoked at most once per Schedule call and never after Cancel
// for the same ID has returned. Implementations must not invoke onExpire while
// holding locks that Cancel or Schedule acquire.
type Scheduler interface {
	Schedule(id string, d time.Duration, onExpire func(id string))
	Cancel(id string)
	Stop()
}

type timerEntry struct {
	timer *time.Timer
	gen   uint64
}

// TimerScheduler is a Scheduler backed by time.AfterFunc.
type TimerScheduler struct {
	mu      sync.Mutex
	timers  map[string]*timerEntry
	gen     uint64
	stopped bool
}

var _ Scheduler = (*TimerScheduler)(nil)

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{timers: make(map[string]*timerEntry)}
}

// Schedule arms a timer for id. An existing timer for the same id is replaced.
func (s *TimerScheduler) Schedule(id string, d time.Duration, onExpire func(id string)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	if prev, ok := s.timers[id]; ok {
		prev.timer.Stop()
	}

	s.gen++
	entry := &timerEntry{gen: s.gen}
	gen := s.gen
	// fire blocks on s.mu until this assignment is visible.
	entry.timer = time.AfterFunc(d, func() { s.fire(id, gen, onExpire) })
	s.timers[id] = entry
}

func (s *TimerScheduler) fire(id string, gen uint64, onExpire func(id string)) {
	s.mu.Lock()
	entry, ok := s.timers[id]
	if !ok || entry.gen != gen {
		// cancelled or replaced after the timer had already fired
		s.mu.Unlock()
		return
	}
	delete(s.timers, id)
	s.mu.Unlock()

	onExpire(id)
}

// Cancel disarms the timer for id. It is a no-op when the timer already
// fired or was never scheduled.
func (s *TimerScheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.timers[id]; ok {
		entry.timer.Stop()
		delete(s.timers, id)
	}
}

// Stop disarms every pending timer. Later Schedule calls are ignored.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.timers {
		entry.timer.Stop()
		delete(s.timers, id)
	}
	s.stopped = true
}

// Pending returns the number of armed timers.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
