// Package toasttest provides deterministic test doubles for the toast store.
package toasttest

import (
	"sort"
	"sync"
	"time"

	"github.com/colonyops/toaster/internal/core/toast"
)

type pending struct {
	id       string
	deadline time.Duration
	seq      int
	onExpire func(string)
}

// Scheduler is a toast.Scheduler driven by Advance instead of wall time.
// It also exposes a matching clock so CreatedAt stamps follow the same time.
type Scheduler struct {
	mu      sync.Mutex
	base    time.Time
	elapsed time.Duration
	seq     int
	timers  map[string]pending
	stopped bool
}

var _ toast.Scheduler = (*Scheduler)(nil)

// NewScheduler returns a scheduler whose clock starts at a fixed instant.
func NewScheduler() *Scheduler {
	return &Scheduler{
		base:   time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		timers: make(map[string]pending),
	}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base.Add(s.elapsed)
}

func (s *Scheduler) Schedule(id string, d time.Duration, onExpire func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.seq++
	s.timers[id] = pending{id: id, deadline: s.elapsed + d, seq: s.seq, onExpire: onExpire}
}

func (s *Scheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, id)
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers = make(map[string]pending)
	s.stopped = true
}

// Pending returns the number of armed timers.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Advance moves the clock forward by d and fires every timer that is due,
// earliest deadline first. Callbacks run without the scheduler lock held.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.elapsed += d
	now := s.elapsed

	var due []pending
	for id, p := range s.timers {
		if p.deadline <= now {
			due = append(due, p)
			delete(s.timers, id)
		}
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline != due[j].deadline {
			return due[i].deadline < due[j].deadline
		}
		return due[i].seq < due[j].seq
	})

	for _, p := range due {
		p.onExpire(p.id)
	}
}
